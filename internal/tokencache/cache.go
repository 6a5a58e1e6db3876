// Package tokencache holds short-lived provider bearer/refresh token pairs,
// keyed by the provider-side username, with absolute expiry.
//
// The cache is deliberately decoupled from the local session store: the two
// maps live on different identity spaces, and a provider binding usually
// outlives a single local browsing session. An access token is never returned
// once now >= expires-at; there is no automatic refresh exchange, expiry
// simply forces a fresh provider login.
package tokencache

import (
	"sync"
	"time"
)

// DefaultTTL is the absolute lifetime of a cached token pair (12h).
const DefaultTTL = 43200 * time.Second

type entry struct {
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// Cache is a mutex-guarded in-memory token map with read-triggered eviction.
type Cache struct {
	mu     sync.Mutex
	tokens map[string]entry
	now    func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock injects a clock, used by expiry tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		tokens: make(map[string]entry),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Store inserts or overwrites the token pair for username with expiry now+ttl.
func (c *Cache) Store(username, accessToken, refreshToken string, ttl time.Duration) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[username] = entry{
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiresAt:    now.Add(ttl),
	}
}

// GetValid returns the access token for username iff it is unexpired. An
// expired entry is removed as a side effect before reporting absence.
func (c *Cache) GetValid(username string) (string, bool) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.tokens[username]
	if !ok {
		return "", false
	}
	if !now.Before(e.expiresAt) {
		delete(c.tokens, username)
		return "", false
	}
	return e.accessToken, true
}

// IsValid reports whether username holds an unexpired token pair.
func (c *Cache) IsValid(username string) bool {
	_, ok := c.GetValid(username)
	return ok
}

// Remove deletes the token pair for username. Idempotent. Called on logout
// and after a password change, since the provider one-shot-invalidates all
// outstanding tokens then.
func (c *Cache) Remove(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tokens, username)
}

// Sweep removes all expired entries and returns how many were evicted.
func (c *Cache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	evicted := 0
	for username, e := range c.tokens {
		if !now.Before(e.expiresAt) {
			delete(c.tokens, username)
			evicted++
		}
	}
	return evicted
}

// ListKnownUsernames returns the provider usernames with unexpired tokens.
// Exists solely to back diagnostic status reporting.
func (c *Cache) ListKnownUsernames() []string {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.tokens))
	for username, e := range c.tokens {
		if now.Before(e.expiresAt) {
			out = append(out, username)
		}
	}
	return out
}
