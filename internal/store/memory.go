package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/city-weather/internal/session"
)

var (
	// ErrNotFound is returned when no session exists for an id.
	ErrNotFound = errors.New("no session for id")
)

// entry pairs a session controller with the last time it was used.
type entry struct {
	controller *session.Controller
	lastSeen   time.Time
}

// MemoryStore is a concurrency-safe in-memory registry of session controllers.
type MemoryStore struct {
	mu sync.RWMutex

	// key: session id
	data map[string]*entry

	// builds the controller for a new session
	newController func() *session.Controller

	// sessions idle for longer than maxAge are evicted by Sweep (0 = never)
	maxAge time.Duration

	now func() time.Time
}

// NewMemoryStore creates a MemoryStore. newController is called once per
// new session id.
func NewMemoryStore(maxAge time.Duration, newController func() *session.Controller) *MemoryStore {
	return &MemoryStore{
		data:          make(map[string]*entry),
		newController: newController,
		maxAge:        maxAge,
		now:           time.Now,
	}
}

// GetOrCreate returns the controller for id, creating it on first use, and
// marks the session as seen.
func (s *MemoryStore) GetOrCreate(id string) *session.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[id]
	if !ok {
		e = &entry{controller: s.newController()}
		s.data[id] = e
	}
	e.lastSeen = s.now()
	return e.controller
}

// Get returns the controller for an existing session and marks it as seen.
// It never creates a session.
func (s *MemoryStore) Get(id string) (*session.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = s.now()
	return e.controller, nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Sweep evicts sessions idle for longer than maxAge and returns how many
// were removed. Sessions with a fetch in flight are kept.
func (s *MemoryStore) Sweep() int {
	if s.maxAge <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.data {
		if !e.lastSeen.Before(cutoff) {
			continue
		}
		if e.controller.State().Loading() {
			continue
		}
		delete(s.data, id)
		removed++
	}
	return removed
}
