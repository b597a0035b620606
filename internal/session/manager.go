package session

import (
	"context"
	"sync"
	"time"

	"github.com/BerylCAtieno/summary-request-api/internal/utils"
)

// Manager keeps sessions in memory keyed by bearer token.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *utils.Logger
}

func NewManager(ttl time.Duration, logger *utils.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

func (m *Manager) Create(userEmail string) *Session {
	s := New(utils.GenerateID(), userEmail, m.now().Add(m.ttl))

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s
}

// Get returns the live session for token. Expired sessions are not returned.
func (m *Manager) Get(token string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok || !m.now().Before(s.ExpiresAt) {
		return nil, false
	}
	return s, true
}

func (m *Manager) Delete(token string) {
	m.mu.Lock()
	s, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()

	if ok {
		s.Lock()
		s.Release()
		s.Unlock()
	}
}

// Sweep removes sessions expired at now and releases their uploads.
func (m *Manager) Sweep(now time.Time) int {
	var expired []*Session

	m.mu.Lock()
	for token, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			expired = append(expired, s)
			delete(m.sessions, token)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Lock()
		if s.Upload() != nil {
			m.logger.Info("Releasing abandoned upload", "session_id", s.ID, "filename", s.Upload().Filename)
		}
		s.Release()
		s.Unlock()
	}

	return len(expired)
}

// Run sweeps expired sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(m.now()); n > 0 {
				m.logger.Debug("Swept expired sessions", "count", n)
			}
		}
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
