// Package sessions holds parsed upload rows between the preview and commit
// steps. Entries live in memory and expire after a configured lifetime.
package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"result-mailer/models"
)

type entry struct {
	students  []models.StudentResult
	expiresAt time.Time
}

type Store struct {
	mu       sync.Mutex
	lifetime time.Duration
	now      func() time.Time
	entries  map[string]entry
}

func New(lifetime time.Duration) *Store {
	return &Store{
		lifetime: lifetime,
		now:      time.Now,
		entries:  make(map[string]entry),
	}
}

// Put stores parsed rows under a fresh session id.
func (s *Store) Put(students []models.StudentResult) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.entries[id] = entry{
		students:  students,
		expiresAt: s.now().Add(s.lifetime),
	}
	return id
}

// Get returns the rows for a session, or false when the session is unknown or
// has expired. Expired entries are removed on access.
func (s *Store) Get(id string) ([]models.StudentResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, id)
		return nil, false
	}
	return e.students, true
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Clear drops all sessions.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// StartSweeper evicts expired sessions on the given interval.
func (s *Store) StartSweeper(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			s.sweep()
		}
	}()
}

func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
