package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrTooManySessions is returned by Reserve when MaxSessions is reached.
	ErrTooManySessions = errors.New("server: too many sessions")

	// ErrUnknownSession is returned by Claim for ids that were never
	// reserved, already claimed, or expired.
	ErrUnknownSession = errors.New("server: unknown session")
)

type pendingPage struct {
	page    []byte
	created time.Time
}

// Manager tracks pages waiting for their WebSocket and the live sessions
// hydrating them.
type Manager struct {
	max int
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	pending map[string]*pendingPage
	live    map[string]*Session
}

// NewManager creates a manager. max bounds pending plus live sessions;
// zero means unlimited.
func NewManager(max int, ttl time.Duration) *Manager {
	return &Manager{
		max:     max,
		ttl:     ttl,
		now:     time.Now,
		pending: make(map[string]*pendingPage),
		live:    make(map[string]*Session),
	}
}

// Reserve allocates a session id for a page about to be rendered.
func (m *Manager) Reserve() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()
	if m.max > 0 && len(m.pending)+len(m.live) >= m.max {
		return "", ErrTooManySessions
	}
	id := uuid.NewString()
	m.pending[id] = &pendingPage{created: m.now()}
	return id, nil
}

// Store records the rendered page of a reserved id.
func (m *Manager) Store(id string, page []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pending[id]; ok {
		p.page = page
	}
}

// Release drops a reservation whose page could not be served.
func (m *Manager) Release(id string) {
	m.mu.Lock()
	delete(m.pending, id)
	m.mu.Unlock()
}

// Claim hands out the page of id once.
func (m *Manager) Claim(id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()
	p, ok := m.pending[id]
	if !ok || p.page == nil {
		return nil, ErrUnknownSession
	}
	delete(m.pending, id)
	return p.page, nil
}

// Add registers a live session.
func (m *Manager) Add(s *Session) {
	m.mu.Lock()
	m.live[s.ID()] = s
	m.mu.Unlock()
}

// Remove unregisters a live session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.live, id)
	m.mu.Unlock()
}

// Get returns a live session.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live[id]
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Pending returns the number of pages waiting for a WebSocket.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	return len(m.pending)
}

// Shutdown closes every live session and drops pending pages.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.live))
	for _, s := range m.live {
		sessions = append(sessions, s)
	}
	m.pending = make(map[string]*pendingPage)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func (m *Manager) pruneLocked() {
	if m.ttl <= 0 {
		return
	}
	cutoff := m.now().Add(-m.ttl)
	for id, p := range m.pending {
		if p.created.Before(cutoff) {
			delete(m.pending, id)
		}
	}
}
