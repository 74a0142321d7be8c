package management

import (
	"errors"
	"time"
)

// SIM statuses accepted by UpdateSIM.
const (
	StatusEnabled  = "Enabled"
	StatusDisabled = "Disabled"
)

// DateLayout is the calendar date format expected by the usage endpoint.
const DateLayout = "2006-01-02"

// ValidationError is a local input check that failed before any request was
// sent. Its message is meant to be shown to the caller as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	// ErrInvalidStatus is returned by UpdateSIM for statuses other than Enabled and Disabled.
	ErrInvalidStatus = &ValidationError{Message: "Status must be either 'Enabled' or 'Disabled'"}
	// ErrInvalidDate is returned by SIMUsage when either date is not YYYY-MM-DD.
	ErrInvalidDate = &ValidationError{Message: "Dates must be in YYYY-MM-DD format"}
)

// AsValidationError returns the *ValidationError in err's chain, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)

	return v, ok
}

func validStatus(status string) bool {
	return status == StatusEnabled || status == StatusDisabled
}

func validDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
