package auth

import (
	"context"
	"sync"
	"time"
)

// DefaultRenewalBuffer is how long before expiry a cached token is replaced.
const DefaultRenewalBuffer = time.Minute

// Cache reuses a fetched token until it is within the renewal buffer of its
// expiry. Tokens without a known expiry are handed out once and never reused.
// Safe for concurrent use.
type Cache struct {
	fetcher Fetcher
	buffer  time.Duration
	now     func() time.Time

	mu    sync.RWMutex
	token Token
}

// NewCache wraps fetcher. A non-positive buffer uses DefaultRenewalBuffer.
func NewCache(fetcher Fetcher, buffer time.Duration) *Cache {
	if buffer <= 0 {
		buffer = DefaultRenewalBuffer
	}

	return &Cache{
		fetcher: fetcher,
		buffer:  buffer,
		now:     time.Now,
	}
}

// Token returns the cached token or fetches a new one.
func (c *Cache) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	tok := c.token
	c.mu.RUnlock()

	if tok.Valid(c.now(), c.buffer) {
		return tok.AccessToken, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if c.token.Valid(c.now(), c.buffer) {
		return c.token.AccessToken, nil
	}

	fresh, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return "", err
	}

	c.token = fresh

	return fresh.AccessToken, nil
}

// Invalidate drops the cached token so the next call fetches a new one.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = Token{}
}
