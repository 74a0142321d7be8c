// Package auth obtains bearer tokens for the management API using the OAuth2
// client-credentials grant. [ClientCredentials] performs one exchange per call;
// [Cache] optionally reuses a token until shortly before it expires.
package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// GrantType is the only grant the token endpoint is asked for.
const GrantType = "client_credentials"

// maxTokenResponse caps how much of a token response is read.
const maxTokenResponse = 64 << 10

// ErrMissingCredentials is returned when the client id or secret is empty.
var ErrMissingCredentials = errors.New("auth: client id and client secret are required")

// Credentials is the client identifier and secret pair issued by the upstream.
type Credentials struct {
	ClientID     string
	ClientSecret string //nolint:gosec // configuration field, not a hardcoded secret
}

// Validate reports ErrMissingCredentials when either half is empty.
func (c Credentials) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrMissingCredentials
	}

	return nil
}

// Basic returns the base64 encoding of "<id>:<secret>" used in the
// Authorization header of the token exchange.
func (c Credentials) Basic() string {
	return base64.StdEncoding.EncodeToString([]byte(c.ClientID + ":" + c.ClientSecret))
}

// Token is an access token together with its expiry. ExpiresAt is zero when
// the upstream gave no usable lifetime.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Valid reports whether the token can still be used at now, keeping buffer in
// reserve. Tokens without a known expiry are never valid for reuse.
func (t Token) Valid(now time.Time, buffer time.Duration) bool {
	if t.AccessToken == "" || t.ExpiresAt.IsZero() {
		return false
	}

	return now.Before(t.ExpiresAt.Add(-buffer))
}

// TokenSource yields a bearer token for one logical API call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Fetcher performs a token exchange and returns the full token.
type Fetcher interface {
	Fetch(ctx context.Context) (Token, error)
}

// StatusError is returned when the token endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("auth: token request failed (HTTP %d): %s", e.StatusCode, e.Body)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ClientCredentials exchanges credentials for a token on every call.
type ClientCredentials struct {
	tokenURL string
	creds    Credentials
	client   *http.Client
	log      zerolog.Logger
	now      func() time.Time
}

// NewClientCredentials builds a token source posting to tokenURL. A nil
// client falls back to http.DefaultClient.
func NewClientCredentials(tokenURL string, creds Credentials, client *http.Client, log zerolog.Logger) (*ClientCredentials, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &ClientCredentials{
		tokenURL: tokenURL,
		creds:    creds,
		client:   client,
		log:      log,
		now:      time.Now,
	}, nil
}

// Token fetches a fresh access token.
func (c *ClientCredentials) Token(ctx context.Context) (string, error) {
	tok, err := c.Fetch(ctx)
	if err != nil {
		return "", err
	}

	return tok.AccessToken, nil
}

// Fetch performs the client-credentials exchange.
func (c *ClientCredentials) Fetch(ctx context.Context) (Token, error) {
	payload, err := json.Marshal(map[string]string{"grant_type": GrantType})
	if err != nil {
		return Token{}, fmt.Errorf("auth: marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(payload))
	if err != nil {
		return Token{}, fmt.Errorf("auth: build token request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.creds.Basic())

	start := c.now()

	resp, err := c.client.Do(req) //nolint:gosec // URL is built from trusted BaseURL config
	if err != nil {
		return Token{}, fmt.Errorf("auth: token request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponse))
	if err != nil {
		return Token{}, fmt.Errorf("auth: read token response: %w", err)
	}

	c.log.Debug().
		Str("url", c.tokenURL).
		Int("status", resp.StatusCode).
		Dur("latency", c.now().Sub(start)).
		Msg("token exchange")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Token{}, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return Token{}, fmt.Errorf("auth: decode token response: %w", err)
	}

	if tr.AccessToken == "" {
		return Token{}, errors.New("auth: token response has no access_token")
	}

	return Token{
		AccessToken: tr.AccessToken,
		TokenType:   tr.TokenType,
		ExpiresAt:   expiry(tr, start),
	}, nil
}

// expiry prefers expires_in and falls back to the exp claim when the access
// token is a JWT. The signature is not checked.
func expiry(tr tokenResponse, issued time.Time) time.Time {
	if tr.ExpiresIn > 0 {
		return issued.Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tr.AccessToken, claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}

	return exp.Time
}
