package session

import (
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/flightapp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itinerary(ids ...int64) domain.Itinerary {
	var it domain.Itinerary
	for _, id := range ids {
		it.Flights = append(it.Flights, domain.Flight{ID: id})
	}
	return it
}

func TestSession_Authenticate(t *testing.T) {
	s := New("t1")

	_, ok := s.Username()
	assert.False(t, ok)

	require.NoError(t, s.Authenticate("alice"))
	name, ok := s.Username()
	assert.True(t, ok)
	assert.Equal(t, "alice", name)

	assert.ErrorIs(t, s.Authenticate("bob"), domain.ErrAlreadyLoggedIn)
	name, _ = s.Username()
	assert.Equal(t, "alice", name)
}

func TestSession_ReplaceItinerariesInvalidatesOldRanks(t *testing.T) {
	s := New("t1")
	s.ReplaceItineraries([]domain.Itinerary{itinerary(1), itinerary(2), itinerary(3, 4)})

	it, ok := s.Itinerary(2)
	require.True(t, ok)
	assert.Equal(t, domain.FlightPair{FirstID: 3, SecondID: 4}, it.Pair())

	s.ReplaceItineraries([]domain.Itinerary{itinerary(9)})

	_, ok = s.Itinerary(2)
	assert.False(t, ok)
	it, ok = s.Itinerary(0)
	require.True(t, ok)
	assert.Equal(t, int64(9), it.Flights[0].ID)

	_, ok = s.Itinerary(-1)
	assert.False(t, ok)
}

func TestSession_ReplaceCopiesInput(t *testing.T) {
	s := New("t1")
	list := []domain.Itinerary{itinerary(1)}
	s.ReplaceItineraries(list)
	list[0] = itinerary(2)

	it, ok := s.Itinerary(0)
	require.True(t, ok)
	assert.Equal(t, int64(1), it.Flights[0].ID)
}

func TestSession_LogoutClearsArena(t *testing.T) {
	s := New("t1")
	require.NoError(t, s.Authenticate("alice"))
	s.ReplaceItineraries([]domain.Itinerary{itinerary(1)})

	s.Logout()

	_, ok := s.Username()
	assert.False(t, ok)
	_, ok = s.Itinerary(0)
	assert.False(t, ok)
	assert.NoError(t, s.Authenticate("bob"))
}

func TestSession_ConcurrentLoginOnlyOneWins(t *testing.T) {
	s := New("t1")

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Authenticate("alice") == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestRegistry_OpenGetClose(t *testing.T) {
	r := NewRegistry()
	s := r.Open()
	assert.NotEmpty(t, s.Token())
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(s.Token())
	require.True(t, ok)
	assert.Same(t, s, got)

	require.NoError(t, s.Authenticate("alice"))
	assert.True(t, r.Close(s.Token()))
	assert.False(t, r.Close(s.Token()))

	_, ok = r.Get(s.Token())
	assert.False(t, ok)
	_, ok = s.Username()
	assert.False(t, ok)
}

func TestRegistry_SessionsArePrivate(t *testing.T) {
	r := NewRegistry()
	a, b := r.Open(), r.Open()
	assert.NotEqual(t, a.Token(), b.Token())

	a.ReplaceItineraries([]domain.Itinerary{itinerary(1), itinerary(2)})
	b.ReplaceItineraries([]domain.Itinerary{itinerary(7)})

	it, ok := a.Itinerary(1)
	require.True(t, ok)
	assert.Equal(t, int64(2), it.Flights[0].ID)
	_, ok = b.Itinerary(1)
	assert.False(t, ok)
}

func TestRegistry_Sweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry()
	r.now = func() time.Time { return now }

	stale := r.Open()
	require.NoError(t, stale.Authenticate("alice"))
	now = now.Add(20 * time.Minute)
	fresh := r.Open()

	assert.Equal(t, 1, r.Sweep(15*time.Minute))
	assert.Equal(t, 1, r.Len())

	_, ok := r.Get(stale.Token())
	assert.False(t, ok)
	_, ok = stale.Username()
	assert.False(t, ok)
	_, ok = r.Get(fresh.Token())
	assert.True(t, ok)
}
