package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// Session store invariants (expiry, read-triggered eviction, idempotent
// removal, lock safety) are exercised here because handler tests do not cover
// in-memory persistence semantics.
type SessionStoreSuite struct {
	suite.Suite
	now   time.Time
	store *Store
}

func (s *SessionStoreSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.store = New(WithClock(func() time.Time { return s.now }))
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreSuite))
}

func (s *SessionStoreSuite) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

func (s *SessionStoreSuite) TestCreateThenValid() {
	s.store.Create("operator1", DefaultTTL, "")
	s.True(s.store.IsValid("operator1"))
}

func (s *SessionStoreSuite) TestUnknownUserInvalid() {
	s.False(s.store.IsValid("ghost"))
}

func (s *SessionStoreSuite) TestExpiryEvictsOnRead() {
	s.store.Create("operator1", time.Hour, "")

	s.advance(time.Hour + time.Second)

	s.False(s.store.IsValid("operator1"))
	s.Equal(0, s.store.Len(), "expired record must be removed on read")

	// Idempotent re-check after eviction.
	s.False(s.store.IsValid("operator1"))
}

func (s *SessionStoreSuite) TestExpiryIsExclusiveBoundary() {
	s.store.Create("operator1", time.Hour, "")

	// At exactly expires-at the record is no longer valid (valid iff now < expires-at).
	s.advance(time.Hour)
	s.False(s.store.IsValid("operator1"))
}

func (s *SessionStoreSuite) TestCreateOverwritesPriorSession() {
	s.store.Create("operator1", time.Minute, "")
	s.advance(30 * time.Second)
	s.store.Create("operator1", time.Hour, "")

	s.advance(45 * time.Second)
	s.True(s.store.IsValid("operator1"), "second login must reset expiry")
	s.Equal(1, s.store.Len())
}

func (s *SessionStoreSuite) TestRemoveIsIdempotent() {
	s.store.Create("operator1", time.Hour, "")
	s.store.Remove("operator1")
	s.store.Remove("operator1")
	s.False(s.store.IsValid("operator1"))
}

func (s *SessionStoreSuite) TestSweepDropsOnlyExpired() {
	s.store.Create("fresh", time.Hour, "")
	s.store.Create("stale", time.Minute, "")

	s.advance(10 * time.Minute)

	evicted := s.store.Sweep()
	s.Equal(1, evicted)
	s.True(s.store.IsValid("fresh"))
	s.False(s.store.IsValid("stale"))
}

func (s *SessionStoreSuite) TestDeviceSummaryRecorded() {
	const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	s.store.Create("operator1", time.Hour, chromeUA)

	list := s.store.List()
	s.Require().Len(list, 1)
	s.Contains(list[0].Device, "Chrome")
}

func (s *SessionStoreSuite) TestListSkipsExpired() {
	s.store.Create("fresh", time.Hour, "")
	s.store.Create("stale", time.Minute, "")
	s.advance(10 * time.Minute)

	list := s.store.List()
	s.Require().Len(list, 1)
	s.Equal("fresh", list[0].Username)
}

// TestConcurrentAccess hammers a fixed key set from many goroutines. The
// assertion is the absence of lost updates and races, not a particular
// interleaving; run with -race.
func TestConcurrentAccess(t *testing.T) {
	store := New()
	keys := []string{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				key := keys[(worker+j)%len(keys)]
				switch j % 3 {
				case 0:
					store.Create(key, time.Hour, "")
				case 1:
					store.IsValid(key)
				default:
					store.Remove(key)
				}
			}
		}(i)
	}
	wg.Wait()

	// Leave every key present and verify the map is coherent.
	for _, key := range keys {
		store.Create(key, time.Hour, "")
	}
	for _, key := range keys {
		if !store.IsValid(key) {
			t.Fatalf("expected %q valid after final create", key)
		}
	}
}
