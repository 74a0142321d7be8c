package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu     sync.Mutex
	calls  int
	tokens []Token
	err    error
}

func (f *fakeFetcher) Fetch(_ context.Context) (Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return Token{}, f.err
	}

	tok := f.tokens[0]
	if len(f.tokens) > 1 {
		f.tokens = f.tokens[1:]
	}

	return tok, nil
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

func TestCache_ReusesUntilBuffer(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := &fakeFetcher{tokens: []Token{
		{AccessToken: "first", ExpiresAt: now.Add(10 * time.Minute)},
		{AccessToken: "second", ExpiresAt: now.Add(30 * time.Minute)},
	}}

	c := NewCache(f, time.Minute)
	c.now = func() time.Time { return now }

	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", tok)

	tok, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", tok)
	assert.Equal(t, 1, f.Calls())

	// Inside the renewal buffer the token is replaced.
	c.now = func() time.Time { return now.Add(9*time.Minute + 30*time.Second) }

	tok, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", tok)
	assert.Equal(t, 2, f.Calls())

	// The replacement is reused until its own buffer.
	c.now = func() time.Time { return now.Add(28 * time.Minute) }

	tok, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", tok)
	assert.Equal(t, 2, f.Calls())
}

func TestCache_NoExpiryIsNeverReused(t *testing.T) {
	f := &fakeFetcher{tokens: []Token{{AccessToken: "opaque"}}}
	c := NewCache(f, 0)

	for range 3 {
		_, err := c.Token(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 3, f.Calls())
}

func TestCache_Invalidate(t *testing.T) {
	f := &fakeFetcher{tokens: []Token{{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour)}}}
	c := NewCache(f, time.Minute)

	_, err := c.Token(context.Background())
	require.NoError(t, err)

	c.Invalidate()

	_, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, f.Calls())
}

func TestCache_FetchError(t *testing.T) {
	f := &fakeFetcher{err: errors.New("upstream down")}
	c := NewCache(f, time.Minute)

	_, err := c.Token(context.Background())
	assert.EqualError(t, err, "upstream down")
}

func TestCache_ConcurrentCallersShareOneFetch(t *testing.T) {
	f := &fakeFetcher{tokens: []Token{{AccessToken: "shared", ExpiresAt: time.Now().Add(time.Hour)}}}
	c := NewCache(f, time.Minute)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := c.Token(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "shared", tok)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.Calls())
}

func TestNewCache_DefaultBuffer(t *testing.T) {
	c := NewCache(&fakeFetcher{}, 0)
	assert.Equal(t, DefaultRenewalBuffer, c.buffer)
}
