package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rutamapa/rutamapa/internal/core/domain"
	"github.com/rutamapa/rutamapa/internal/core/ports"
	"github.com/rutamapa/rutamapa/internal/pkg/debounce"
	"github.com/rutamapa/rutamapa/internal/pkg/metrics"
)

// SessionManager creates and tracks live map sessions. Sessions idle past
// their TTL are reaped by SweepIdle.
type SessionManager struct {
	cfg       ViewportConfig
	ttl       time.Duration
	timers    debounce.TimerFactory
	publisher ports.EventPublisher
	history   *HistoryService

	mu       sync.RWMutex
	sessions map[string]*MapSession
}

// NewSessionManager wires session construction. publisher and history may
// be nil.
func NewSessionManager(
	cfg ViewportConfig,
	ttl time.Duration,
	timers debounce.TimerFactory,
	publisher ports.EventPublisher,
	history *HistoryService,
) *SessionManager {
	return &SessionManager{
		cfg:       cfg,
		ttl:       ttl,
		timers:    timers,
		publisher: publisher,
		history:   history,
		sessions:  make(map[string]*MapSession),
	}
}

// Create starts a new map session and returns it.
func (m *SessionManager) Create() *MapSession {
	var onArchive func(ctx context.Context, rec *domain.RoutePlanRecord)
	if m.history != nil {
		onArchive = m.history.Archive
	}

	s := NewMapSession(uuid.NewString(), m.cfg, m.timers, m.publisher, onArchive)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()
	return s
}

// Get returns a live session by id.
func (m *SessionManager) Get(id string) (*MapSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove tears a session down and forgets it.
func (m *SessionManager) Remove(ctx context.Context, id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
	}
	m.mu.Unlock()

	if ok {
		s.Close(ctx)
	}
	return ok
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SweepIdle closes sessions with no intent activity past the TTL and
// returns how many were reaped.
func (m *SessionManager) SweepIdle(ctx context.Context) int {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var idle []*MapSession
	for id, s := range m.sessions {
		if s.IdleSince().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	for _, s := range idle {
		s.Close(ctx)
	}
	return len(idle)
}

// CloseAll tears every session down, for shutdown.
func (m *SessionManager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	all := make([]*MapSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.sessions = make(map[string]*MapSession)
	metrics.ActiveSessions.Set(0)
	m.mu.Unlock()

	for _, s := range all {
		s.Close(ctx)
	}
}
