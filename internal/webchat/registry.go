package webchat

import (
	"sync"

	"github.com/billcut/sophie/internal/conversation"
	"github.com/billcut/sophie/internal/observability/metrics"
)

// SessionFactory builds a new session for a visitor.
type SessionFactory func(sessionID string) *conversation.Session

// Registry maps session ids to live sessions. Each browser session owns an
// independent conversation; nothing is shared between them.
type Registry struct {
	factory SessionFactory
	metrics *metrics.ChatMetrics

	mu       sync.Mutex
	sessions map[string]*conversation.Session
}

// NewRegistry creates an empty registry.
func NewRegistry(factory SessionFactory, m *metrics.ChatMetrics) *Registry {
	return &Registry{
		factory:  factory,
		metrics:  m,
		sessions: make(map[string]*conversation.Session),
	}
}

// GetOrCreate returns the session for the id, creating it on first use.
func (r *Registry) GetOrCreate(sessionID string) *conversation.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		return s
	}
	s := r.factory(sessionID)
	r.sessions[sessionID] = s
	r.metrics.SetActiveSessions(len(r.sessions))
	return s
}

// Lookup returns the session if it exists.
func (r *Registry) Lookup(sessionID string) (*conversation.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	return s, ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
