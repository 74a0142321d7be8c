// Package payload holds the input decoding and result encoding shared by the
// IoT toolboxes.
package payload

import (
	"encoding/json"
	"fmt"

	"github.com/germanamz/oncemcp/pkg/management"
)

// Status is the acknowledgement returned by write tools whose upstream
// response carries nothing useful.
type Status struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Failure is the structured payload for inputs rejected before any request.
type Failure struct {
	Error string `json:"error"`
}

// Decode unmarshals tool input into v.
func Decode(tool string, input json.RawMessage, v any) error {
	if err := json.Unmarshal(input, v); err != nil {
		return fmt.Errorf("%s: invalid input: %w", tool, err)
	}

	return nil
}

// Encode marshals v as the text of a tool result.
func Encode(tool string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%s: marshal: %w", tool, err)
	}

	return string(data), nil
}

// Result turns an upstream body and error into tool output. Local validation
// errors become a Failure payload instead of a tool error; everything else is
// returned as an error for the caller to surface.
func Result(tool string, body json.RawMessage, err error) (string, error) {
	if err != nil {
		if v, ok := management.AsValidationError(err); ok {
			return Encode(tool, Failure{Error: v.Message})
		}

		return "", err
	}

	return string(body), nil
}

// Ack returns a success Status after a write, or the error as Result would.
func Ack(tool string, err error, message string) (string, error) {
	if err != nil {
		return Result(tool, nil, err)
	}

	return Encode(tool, Status{Success: true, Message: message})
}
