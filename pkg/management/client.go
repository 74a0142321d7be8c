// Package management is a thin client for the 1NCE management API. Every
// operation is one authenticated HTTP call built by [Client.Do]; response
// bodies are returned as raw JSON without decoding.
package management

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/germanamz/oncemcp/pkg/management/auth"
)

const (
	// DefaultBaseURL is the production management API root.
	DefaultBaseURL = "https://api.1nce.com/management-api"
	// TokenPath is the client-credentials token endpoint relative to the base URL.
	TokenPath = "/oauth/token"
)

// maxBodySize is the largest response body accepted (8MB). Larger bodies are
// an error rather than truncated JSON.
const maxBodySize = 8 << 20

// APIError is returned when the upstream answers with a non-2xx status.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	RetryAfter time.Duration // Parsed from Retry-After on 429; informational only.
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("management: %s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}

	return msg
}

// ParseRetryAfter parses the Retry-After header value as either seconds (integer)
// or an HTTP-date (RFC 7231). Returns zero if unparseable or if the date is in the past.
func ParseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}

	return 0
}

// invalidator is implemented by token sources that hold on to tokens.
type invalidator interface {
	Invalidate()
}

// Client issues authenticated requests against the management API.
type Client struct {
	baseURL string
	tokens  auth.TokenSource
	http    *http.Client
	log     zerolog.Logger
}

// New creates a Client. baseURL has any trailing slash removed; an empty
// baseURL uses DefaultBaseURL. A nil httpClient falls back to http.DefaultClient.
func New(baseURL string, tokens auth.TokenSource, httpClient *http.Client, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    httpClient,
		log:     log,
	}
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// NewRequest builds an *http.Request against the base URL with a fresh
// bearer token and the JSON Accept header already applied.
func (c *Client) NewRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("management: build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	return req, nil
}

// Do performs one authenticated call. A non-nil payload is sent as a JSON
// body. The raw response body is returned for any 2xx status; other statuses
// yield an *APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("management: marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.NewRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	callID := uuid.New().String()[:8]
	start := time.Now()

	resp, err := c.http.Do(req) //nolint:gosec // URL is built from trusted BaseURL config
	if err != nil {
		c.log.Debug().Str("call_id", callID).Str("method", method).Str("path", path).Err(err).Msg("upstream call failed")
		return nil, fmt.Errorf("management: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("management: read response: %w", err)
	}

	if len(respBody) > maxBodySize {
		return nil, fmt.Errorf("management: %s %s: response exceeds %d bytes", method, path, maxBodySize)
	}

	c.log.Debug().
		Str("call_id", callID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("upstream call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			if inv, ok := c.tokens.(invalidator); ok {
				inv.Invalidate()
			}
		}

		apiErr := &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			apiErr.RetryAfter = ParseRetryAfter(resp.Header.Get("Retry-After"))
		}

		return nil, apiErr
	}

	return json.RawMessage(respBody), nil
}
