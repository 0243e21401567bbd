// Package session holds per-connection client state: who is logged in and
// the itineraries produced by the most recent search.
package session

import (
	"sync"
	"time"

	"github.com/Domenick1991/flightapp/internal/domain"
)

type Session struct {
	token string

	mu          sync.Mutex
	username    string
	itineraries []domain.Itinerary
	lastSeen    time.Time
}

// New returns an anonymous session. Console front ends use one per process;
// network transports get theirs from a Registry.
func New(token string) *Session {
	return &Session{token: token, lastSeen: time.Now()}
}

func (s *Session) Token() string {
	return s.token
}

// Username returns the logged-in user, if any.
func (s *Session) Username() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username, s.username != ""
}

// Authenticate binds the session to username. It fails if the session is
// already bound to a user.
func (s *Session) Authenticate(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.username != "" {
		return domain.ErrAlreadyLoggedIn
	}
	s.username = username
	return nil
}

// Logout clears the login and the itinerary arena.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = ""
	s.itineraries = nil
}

// ReplaceItineraries discards the previous search results; ranks handed out
// before this call are no longer bookable.
func (s *Session) ReplaceItineraries(itineraries []domain.Itinerary) {
	arena := make([]domain.Itinerary, len(itineraries))
	copy(arena, itineraries)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.itineraries = arena
}

// Itinerary returns the itinerary with the given rank from the latest search.
func (s *Session) Itinerary(rank int) (domain.Itinerary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rank < 0 || rank >= len(s.itineraries) {
		return domain.Itinerary{}, false
	}
	return s.itineraries[rank], true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
