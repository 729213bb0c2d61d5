package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/billscan/internal/metrics"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager keeps sessions in memory. Nothing is persisted; a session ends when
// it is deleted, expires after sitting idle, or the process exits.
type Manager struct {
	epsilon float64

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	mu sync.Mutex
	s  *Session

	// lastUsed is guarded by Manager.mu.
	lastUsed time.Time
}

// NewManager creates a Manager whose sessions use the given reconciliation
// epsilon.
func NewManager(epsilon float64) *Manager {
	return &Manager{epsilon: epsilon, sessions: make(map[string]*entry)}
}

// Create starts a new empty session.
func (m *Manager) Create() *Session {
	s := New(m.epsilon)

	m.mu.Lock()
	m.sessions[s.ID] = &entry{s: s, lastUsed: time.Now()}
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	slog.Info("Session created", "session_id", s.ID)
	return s
}

// With runs fn with exclusive access to the session and marks it as used.
func (m *Manager) With(id string, fn func(*Session) error) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if ok {
		e.lastUsed = time.Now()
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.s)
}

// Delete ends a session, releasing its receipt and OCR cache.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	metrics.ActiveSessions.Set(float64(n))
	slog.Info("Session ended", "session_id", id)
	return nil
}

// ExpireBefore deletes every session last used before cutoff and returns how
// many were removed.
func (m *Manager) ExpireBefore(cutoff time.Time) int {
	m.mu.Lock()
	expired := 0
	for id, e := range m.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(m.sessions, id)
			expired++
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	if expired > 0 {
		metrics.ActiveSessions.Set(float64(n))
		slog.Info("Idle sessions expired", "expired", expired, "remaining", n)
	}
	return expired
}

// Run expires sessions idle for longer than maxIdle, checking every interval,
// until ctx is done.
func (m *Manager) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.ExpireBefore(now.Add(-maxIdle))
		}
	}
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
