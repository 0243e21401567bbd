package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry maps opaque tokens to sessions for transports where one process
// serves many clients.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session), now: time.Now}
}

// Open creates a new anonymous session.
func (r *Registry) Open() *Session {
	s := New(uuid.NewString())
	s.touch(r.now())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.token] = s
	return s
}

// Get looks up a live session and marks it as used.
func (r *Registry) Get(token string) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[token]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	s.touch(r.now())
	return s, true
}

// Close logs the session out and forgets it.
func (r *Registry) Close(token string) bool {
	r.mu.Lock()
	s, ok := r.sessions[token]
	delete(r.sessions, token)
	r.mu.Unlock()
	if ok {
		s.Logout()
	}
	return ok
}

// Sweep closes sessions unused for longer than idle and returns how many
// were closed.
func (r *Registry) Sweep(idle time.Duration) int {
	now := r.now()

	r.mu.Lock()
	var expired []*Session
	for token, s := range r.sessions {
		if s.idleSince(now) > idle {
			expired = append(expired, s)
			delete(r.sessions, token)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Logout()
	}
	return len(expired)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
