// Package session holds short-lived application login sessions, keyed by
// local username, with absolute expiry. One username, one active session:
// a fresh login overwrites any prior record.
//
// All state is volatile and single-process. Expiry is enforced on the read
// path (an expired record, once observed, is removed), so the background
// sweep only bounds memory growth from abandoned sessions.
package session

import (
	"sync"
	"time"

	"github.com/mssola/useragent"
)

// DefaultTTL is the absolute lifetime of a local session.
const DefaultTTL = 3600 * time.Second

// Record is a single login session. Valid iff now < ExpiresAt.
type Record struct {
	Username  string
	Device    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Summary is the diagnostic view of a session for the status page.
type Summary struct {
	Username  string    `json:"username"`
	Device    string    `json:"device,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is a mutex-guarded in-memory session map. The lock is held only for
// the duration of the map access, never across outbound I/O.
type Store struct {
	mu       sync.Mutex
	sessions map[string]Record
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects a clock, used by expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]Record),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create inserts or overwrites the session for username with expiry now+ttl.
// rawUserAgent is optional; when present it is condensed into a device
// summary for the status page.
func (s *Store) Create(username string, ttl time.Duration, rawUserAgent string) {
	now := s.now()
	rec := Record{
		Username:  username,
		Device:    deviceSummary(rawUserAgent),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[username] = rec
}

// IsValid reports whether username has an unexpired session. An expired
// record is removed before returning false, so repeated checks stay cheap.
func (s *Store) IsValid(username string) bool {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[username]
	if !ok {
		return false
	}
	if !now.Before(rec.ExpiresAt) {
		delete(s.sessions, username)
		return false
	}
	return true
}

// Remove deletes the session for username. Idempotent.
func (s *Store) Remove(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, username)
}

// Sweep removes all expired records and returns how many were evicted.
// Correctness does not depend on it; the read path already self-heals.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for username, rec := range s.sessions {
		if !now.Before(rec.ExpiresAt) {
			delete(s.sessions, username)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of records currently held, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// List returns summaries of all unexpired sessions for diagnostics.
func (s *Store) List() []Summary {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Summary, 0, len(s.sessions))
	for _, rec := range s.sessions {
		if now.Before(rec.ExpiresAt) {
			out = append(out, Summary{
				Username:  rec.Username,
				Device:    rec.Device,
				CreatedAt: rec.CreatedAt,
				ExpiresAt: rec.ExpiresAt,
			})
		}
	}
	return out
}

func deviceSummary(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if name == "" {
		return ua.OS()
	}
	if os := ua.OS(); os != "" {
		return name + " " + version + " on " + os
	}
	return name + " " + version
}
