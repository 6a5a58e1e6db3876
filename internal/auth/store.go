// Package auth authenticates local operators and manages their sessions.
// Operator accounts gate access to this service; provider credentials are a
// separate concern handled by the gateway.
package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	"nidbridge/pkg/platform/sentinel"
)

// UserStore holds operator accounts in memory. Accounts are seeded at
// startup from configuration; there is no self-service registration.
type UserStore struct {
	mu     sync.Mutex
	hashes map[string][]byte
}

func NewUserStore() *UserStore {
	return &UserStore{hashes: make(map[string][]byte)}
}

// Add hashes the password and registers (or replaces) the account.
func (s *UserStore) Add(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes[username] = hash
	return nil
}

// Verify checks username/password. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *UserStore) Verify(username, password string) error {
	s.mu.Lock()
	hash, ok := s.hashes[username]
	s.mu.Unlock()
	if !ok {
		// burn a comparison so unknown users cost the same as bad passwords
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return sentinel.ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return sentinel.ErrInvalidState
	}
	return nil
}

// Len returns the number of registered accounts.
func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hashes)
}

// bcrypt hash of an unguessable throwaway value, used to equalize timing for
// unknown usernames.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("nidbridge-timing-pad"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()
