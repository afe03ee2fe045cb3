package conversation

import (
	"context"
	"errors"
	"sync"

	"github.com/billcut/sophie/internal/knowledge"
	"github.com/billcut/sophie/internal/observability/metrics"
	"github.com/billcut/sophie/pkg/logging"
)

// Apology is the process-level failure message shown when the generation
// call itself fails. It is deliberately distinct from the model's fallback
// sentence, which is an expected content-level answer.
const Apology = "I'm sorry, I encountered an error processing your request."

// DefaultGreeting seeds new conversations.
const DefaultGreeting = "Hello! How can I assist you today?"

// ErrBusy is returned when a submission arrives while a generation call is
// already in flight for the session.
var ErrBusy = errors.New("conversation: a generation call is already in flight")

// ErrEmptyMessage is returned for blank submissions.
var ErrEmptyMessage = errors.New("conversation: message is empty")

type sessionState int

const (
	stateIdle sessionState = iota
	stateProcessing
)

// Session owns one conversation: its append-only store and the two-state
// submit loop (Idle, Processing). The Processing state is the mutual
// exclusion mechanism: a second generation call can never start while one is
// outstanding. Sessions are fully isolated from each other; only the
// resolved credential (inside the shared LLM client) is shared, read-only.
type Session struct {
	id       string
	template *knowledge.Template
	gen      *Generator
	store    *Store
	logger   *logging.Logger
	metrics  *metrics.ChatMetrics
	onChange func()

	mu    sync.Mutex
	state sessionState
}

// SessionOption customizes a session.
type SessionOption func(*Session)

// WithGreeting seeds the store with a custom greeting. An empty greeting
// disables seeding.
func WithGreeting(greeting string) SessionOption {
	return func(s *Session) {
		s.store = NewStore()
		if greeting != "" {
			s.store.Append(RoleAssistant, greeting)
		}
	}
}

// WithChangeNotifier registers a hook fired after every completed
// transition, so the UI collaborator can redraw.
func WithChangeNotifier(fn func()) SessionOption {
	return func(s *Session) { s.onChange = fn }
}

// NewSession creates an idle session seeded with the default greeting.
func NewSession(id string, tmpl *knowledge.Template, gen *Generator, logger *logging.Logger, m *metrics.ChatMetrics, opts ...SessionOption) *Session {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Session{
		id:       id,
		template: tmpl,
		gen:      gen,
		store:    NewStore(),
		logger:   logger,
		metrics:  m,
	}
	s.store.Append(RoleAssistant, DefaultGreeting)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Snapshot returns the conversation so far, in insertion order.
func (s *Session) Snapshot() []Message {
	return s.store.All()
}

// Processing reports whether a generation call is in flight.
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateProcessing
}

// Submit runs one turn: the user message is appended immediately (so it
// renders before the answer arrives), the full prompt is built and sent, and
// the outcome is folded back into the store. On a generation failure the
// assistant turn carries the fixed apology and the session continues; prior
// history is untouched. Always sends the built prompt, never the bare user
// message.
func (s *Session) Submit(ctx context.Context, text string) (Message, error) {
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.state == stateProcessing {
		s.mu.Unlock()
		return Message{}, ErrBusy
	}
	s.state = stateProcessing
	s.store.Append(RoleUser, text)
	s.metrics.ObserveMessage(RoleUser)
	s.mu.Unlock()

	s.notify()

	prompt := knowledge.BuildPrompt(s.template, text)
	result := s.gen.Generate(ctx, prompt)

	reply := Apology
	if result.Ok() {
		reply = result.Text
	} else {
		s.logger.Warn("conversation: turn failed, appending apology",
			"session_id", s.id,
			"kind", result.Err.Kind,
		)
	}

	s.mu.Lock()
	msg := s.store.Append(RoleAssistant, reply)
	s.metrics.ObserveMessage(RoleAssistant)
	s.state = stateIdle
	s.mu.Unlock()

	s.notify()
	return msg, nil
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
