package client

import (
	"context"
	"sync"
	"time"
)

// tokenSkew refreshes a token shortly before the server would reject it.
const tokenSkew = 30 * time.Second

// TokenFetcher obtains a fresh anti-forgery token and its expiry.
type TokenFetcher func(ctx context.Context) (string, time.Time, error)

// TokenCache holds the CSRF token attached to mutating calls.
// It is safe for concurrent use.
type TokenCache struct {
	mu        sync.Mutex
	fetch     TokenFetcher
	token     string
	expiresAt time.Time
	now       func() time.Time
}

func NewTokenCache(fetch TokenFetcher) *TokenCache {
	return &TokenCache{fetch: fetch, now: time.Now}
}

// Token returns the cached token, refreshing it when empty or about to expire.
func (tc *TokenCache) Token(ctx context.Context) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.token != "" && tc.now().Add(tokenSkew).Before(tc.expiresAt) {
		return tc.token, nil
	}
	return tc.refreshLocked(ctx)
}

// Refresh discards the cached token and fetches a new one.
func (tc *TokenCache) Refresh(ctx context.Context) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.refreshLocked(ctx)
}

func (tc *TokenCache) refreshLocked(ctx context.Context) (string, error) {
	token, expiresAt, err := tc.fetch(ctx)
	if err != nil {
		tc.token, tc.expiresAt = "", time.Time{}
		return "", err
	}
	tc.token, tc.expiresAt = token, expiresAt
	return token, nil
}

// Invalidate forces the next Token call to fetch.
func (tc *TokenCache) Invalidate() {
	tc.mu.Lock()
	tc.token, tc.expiresAt = "", time.Time{}
	tc.mu.Unlock()
}
