package store

import (
	"sync"
	"time"
)

type session struct {
	store    *Store
	lastUsed time.Time
}

// Sessions keeps one Store per session id. Every caller asking for the same
// id gets the same Store. Sessions idle for longer than the idle timeout are
// dropped by Sweep.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
	idle     time.Duration
	now      func() time.Time
}

func NewSessions(idle time.Duration) *Sessions {
	return &Sessions{
		sessions: map[string]*session{},
		idle:     idle,
		now:      time.Now,
	}
}

// Get returns the Store of id, creating an empty one on first use.
func (s *Sessions) Get(id string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.sessions[id]
	if !ok {
		ss = &session{store: New()}
		s.sessions[id] = ss
	}
	ss.lastUsed = s.now()
	return ss.store
}

// Lookup returns the Store of id without creating one.
func (s *Sessions) Lookup(id string) (*Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	ss.lastUsed = s.now()
	return ss.store, true
}

// Sweep drops every session unused since now minus the idle timeout and
// returns how many were dropped. A session with a live subscriber is kept.
func (s *Sessions) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, ss := range s.sessions {
		if now.Sub(ss.lastUsed) <= s.idle || ss.store.subscribed() {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	return evicted
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
