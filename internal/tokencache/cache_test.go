package tokencache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TokenCacheSuite struct {
	suite.Suite
	now   time.Time
	cache *Cache
}

func (s *TokenCacheSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.cache = New(WithClock(func() time.Time { return s.now }))
}

func TestTokenCacheSuite(t *testing.T) {
	suite.Run(t, new(TokenCacheSuite))
}

func (s *TokenCacheSuite) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

func (s *TokenCacheSuite) TestStoreThenGet() {
	s.cache.Store("nid-user", "access-abc", "refresh-xyz", time.Minute)

	token, ok := s.cache.GetValid("nid-user")
	s.True(ok)
	s.Equal("access-abc", token)
}

func (s *TokenCacheSuite) TestZeroTTLImmediatelyInvalid() {
	s.cache.Store("nid-user", "access-abc", "refresh-xyz", 0)

	_, ok := s.cache.GetValid("nid-user")
	s.False(ok)
}

func (s *TokenCacheSuite) TestExpiryWindow() {
	s.cache.Store("nid-user", "access-abc", "refresh-xyz", 60*time.Second)

	s.advance(30 * time.Second)
	token, ok := s.cache.GetValid("nid-user")
	s.True(ok)
	s.Equal("access-abc", token)

	s.advance(31 * time.Second)
	_, ok = s.cache.GetValid("nid-user")
	s.False(ok)

	// The expired entry must have disappeared, not merely be hidden.
	s.Empty(s.cache.ListKnownUsernames())
}

func (s *TokenCacheSuite) TestRemoveAfterPasswordChange() {
	s.cache.Store("nid-user", "access-abc", "refresh-xyz", time.Hour)
	s.cache.Remove("nid-user")
	s.False(s.cache.IsValid("nid-user"))
	s.cache.Remove("nid-user") // idempotent
}

func (s *TokenCacheSuite) TestOverwriteReplacesPair() {
	s.cache.Store("nid-user", "old-access", "old-refresh", time.Hour)
	s.cache.Store("nid-user", "new-access", "new-refresh", time.Hour)

	token, ok := s.cache.GetValid("nid-user")
	s.True(ok)
	s.Equal("new-access", token)
}

func (s *TokenCacheSuite) TestSweepAndList() {
	s.cache.Store("fresh", "a1", "r1", time.Hour)
	s.cache.Store("stale", "a2", "r2", time.Minute)

	s.advance(10 * time.Minute)

	s.Equal(1, s.cache.Sweep())
	s.Equal([]string{"fresh"}, s.cache.ListKnownUsernames())
}

func TestTokenCacheConcurrentAccess(t *testing.T) {
	cache := New()
	keys := []string{"u1", "u2", "u3"}

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				key := keys[(worker+j)%len(keys)]
				switch j % 3 {
				case 0:
					cache.Store(key, "access", "refresh", time.Hour)
				case 1:
					cache.GetValid(key)
				default:
					cache.Remove(key)
				}
			}
		}(i)
	}
	wg.Wait()
}
