// Package session scopes one task collection to each client session.
//
// Sessions share nothing. Each Session serialises the operations on its own
// collection, and the Manager disposes of a session (collection and websocket
// clients) when it is ended explicitly or sits idle past its TTL.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"task-tracker-api/internal/cache"
	"task-tracker-api/internal/collection"
	"task-tracker-api/internal/realtime"

	"github.com/google/uuid"
)

// ErrClosed is returned by Session.Do once the session has been disposed
var ErrClosed = errors.New("session closed")

// Session owns the task collection of one client
type Session struct {
	ID        string
	CreatedAt time.Time

	mu     sync.Mutex
	tasks  collection.Collection
	closed bool
}

// Do runs fn with exclusive access to the session's collection.
func (s *Session) Do(fn func(tasks collection.Collection) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return fn(s.tasks)
}

func (s *Session) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.tasks.Close()
}

// Manager creates, resolves and disposes sessions
type Manager struct {
	// mu makes lookup-and-refresh atomic with respect to purging, so a
	// session is never handed out after it has been disposed.
	mu       sync.Mutex
	sessions *cache.SimpleCache[string, *Session]
	ttl      time.Duration
	factory  collection.Factory
	hub      *realtime.Hub
}

// NewManager creates a Manager. Sessions expire after ttl without use.
// hub may be nil when no websocket clients are served.
func NewManager(factory collection.Factory, ttl time.Duration, hub *realtime.Hub) *Manager {
	return &Manager{
		sessions: cache.NewSimpleCache[string, *Session](cache.Options{ConcurrencySafe: false}),
		ttl:      ttl,
		factory:  factory,
		hub:      hub,
	}
}

// Create starts a new session with an empty collection
func (m *Manager) Create() (*Session, error) {
	tasks, err := m.factory()
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		tasks:     tasks,
	}

	m.mu.Lock()
	m.sessions.Set(s.ID, s, m.ttl)
	m.mu.Unlock()

	return s, nil
}

// Get resolves a live session and extends its idle TTL
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions.Get(id)
	if !ok {
		return nil, false
	}
	m.sessions.Set(id, s, m.ttl)
	return s, true
}

// End disposes a session. It reports whether the session existed.
func (m *Manager) End(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions.Pop(id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	m.dispose(s)
	return true
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions.Len()
}

// PurgeExpired disposes every session idle past its TTL and returns how many were removed
func (m *Manager) PurgeExpired() int {
	m.mu.Lock()
	expired := m.sessions.PurgeExpired()
	m.mu.Unlock()

	for _, s := range expired {
		m.dispose(s)
	}
	return len(expired)
}

// Run purges expired sessions every interval until ctx is done, then
// disposes of all remaining sessions.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			return
		case <-ticker.C:
			if n := m.PurgeExpired(); n > 0 {
				log.Printf("Purged %d expired session(s)", n)
			}
		}
	}
}

func (m *Manager) shutdown() {
	m.mu.Lock()
	remaining := m.sessions.Drain()
	m.mu.Unlock()

	for _, s := range remaining {
		m.dispose(s)
	}
}

func (m *Manager) dispose(s *Session) {
	if err := s.close(); err != nil {
		log.Printf("Failed to close session %s: %v", s.ID, err)
	}
	if m.hub != nil {
		m.hub.CloseSession(s.ID)
	}
}
