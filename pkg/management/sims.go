package management

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
)

// DefaultEventSort lists newest events first.
const DefaultEventSort = "-timestamp"

var errMissingICCID = errors.New("management: iccid is required")

// SIMQuery filters a SIM listing. Query uses the upstream "field:value,..."
// syntax and Sort a comma-separated field list; both are omitted when empty.
type SIMQuery struct {
	Page
	Query string
	Sort  string
}

// EventQuery pages through the events of one SIM.
type EventQuery struct {
	Page
	Sort string
}

// SIMUpdate is the body of a SIM update. Label and IMEILock are only sent
// when set.
type SIMUpdate struct {
	ICCID    string  `json:"iccid"`
	Status   string  `json:"status"`
	Label    *string `json:"label,omitempty"`
	IMEILock *bool   `json:"imei_lock,omitempty"`
}

func simPath(iccid string, suffix ...string) (string, error) {
	if iccid == "" {
		return "", errMissingICCID
	}

	p := "/v1/sims/" + url.PathEscape(iccid)
	for _, s := range suffix {
		p += "/" + s
	}

	return p, nil
}

// getSIM issues a GET below /v1/sims/{iccid}.
func (c *Client) getSIM(ctx context.Context, iccid string, query url.Values, suffix ...string) (json.RawMessage, error) {
	path, err := simPath(iccid, suffix...)
	if err != nil {
		return nil, err
	}

	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// SIMs lists SIMs for the account, at most MaxSIMsPageSize per page.
func (c *Client) SIMs(ctx context.Context, q SIMQuery) (json.RawMessage, error) {
	params := q.values(MaxSIMsPageSize)
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}

	return c.Do(ctx, http.MethodGet, "/v1/sims", params, nil)
}

// SIM returns the details of one SIM.
func (c *Client) SIM(ctx context.Context, iccid string) (json.RawMessage, error) {
	return c.getSIM(ctx, iccid, nil)
}

// SIMStatus returns the connectivity status of one SIM.
func (c *Client) SIMStatus(ctx context.Context, iccid string) (json.RawMessage, error) {
	return c.getSIM(ctx, iccid, nil, "status")
}

// SIMDataQuota returns the remaining data volume of one SIM.
func (c *Client) SIMDataQuota(ctx context.Context, iccid string) (json.RawMessage, error) {
	return c.getSIM(ctx, iccid, nil, "quota", "data")
}

// SIMSMSQuota returns the remaining SMS volume of one SIM.
func (c *Client) SIMSMSQuota(ctx context.Context, iccid string) (json.RawMessage, error) {
	return c.getSIM(ctx, iccid, nil, "quota", "sms")
}

// UpdateSIM changes the status, label or IMEI lock of one SIM. A status other
// than Enabled or Disabled fails with ErrInvalidStatus before any request.
func (c *Client) UpdateSIM(ctx context.Context, u SIMUpdate) error {
	if !validStatus(u.Status) {
		return ErrInvalidStatus
	}

	path, err := simPath(u.ICCID)
	if err != nil {
		return err
	}

	_, err = c.Do(ctx, http.MethodPut, path, nil, u)

	return err
}

// SIMUsage returns daily usage between two YYYY-MM-DD dates. Malformed dates
// fail with ErrInvalidDate before any request.
func (c *Client) SIMUsage(ctx context.Context, iccid, start, end string) (json.RawMessage, error) {
	if !validDate(start) || !validDate(end) {
		return nil, ErrInvalidDate
	}

	params := url.Values{}
	params.Set("start_dt", start)
	params.Set("end_dt", end)

	return c.getSIM(ctx, iccid, params, "usage")
}

// SIMEvents lists events of one SIM, at most MaxEventsPageSize per page.
func (c *Client) SIMEvents(ctx context.Context, iccid string, q EventQuery) (json.RawMessage, error) {
	params := q.values(MaxEventsPageSize)

	sort := q.Sort
	if sort == "" {
		sort = DefaultEventSort
	}
	params.Set("sort", sort)

	return c.getSIM(ctx, iccid, params, "events")
}

// ResetSIM triggers a connectivity reset of one SIM.
func (c *Client) ResetSIM(ctx context.Context, iccid string) error {
	path, err := simPath(iccid, "reset")
	if err != nil {
		return err
	}

	_, err = c.Do(ctx, http.MethodPost, path, nil, nil)

	return err
}
