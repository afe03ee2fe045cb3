package conversation

import (
	"sync"
	"time"
)

// Message is one turn of a conversation. Immutable once created.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is an append-only, ordered log of messages owned by one session.
// There is no removal and no size cap: the scope is a single interactive
// session. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	msgs    []Message
	nextSeq int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nextSeq: 1}
}

// Append adds a message with the next sequence number and returns it.
func (s *Store) Append(role, content string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := Message{
		Role:      role,
		Content:   content,
		Seq:       s.nextSeq,
		CreatedAt: time.Now().UTC(),
	}
	s.nextSeq++
	s.msgs = append(s.msgs, msg)
	return msg
}

// All returns a read-only snapshot of the log in insertion order.
func (s *Store) All() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

// Len returns the number of messages appended so far.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.msgs)
}
