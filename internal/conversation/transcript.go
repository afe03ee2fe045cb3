package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const transcriptKeyPrefix = "chat_transcript:"
const transcriptMaxMessages = 250

// TranscriptMessage is the wire-friendly shape mirrored for widget history
// replay.
type TranscriptMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// TranscriptStore mirrors a session's exchange so the widget can replay
// history after a reconnect within the same browser session. The in-memory
// Store stays canonical; this is a bounded, TTL-scoped cache, not long-term
// persistence.
type TranscriptStore interface {
	Append(ctx context.Context, sessionID string, msg TranscriptMessage) error
	List(ctx context.Context, sessionID string, limit int64) ([]TranscriptMessage, error)
}

// RedisTranscriptStore keeps transcripts in Redis lists with a TTL, so a
// widget reconnect can land on any instance behind a load balancer.
type RedisTranscriptStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisTranscriptStore creates a Redis-backed transcript store.
func NewRedisTranscriptStore(client *redis.Client, ttl time.Duration) *RedisTranscriptStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisTranscriptStore{redis: client, ttl: ttl}
}

// Append pushes a message onto the session's transcript list, trims it to
// the cap, and refreshes the TTL.
func (s *RedisTranscriptStore) Append(ctx context.Context, sessionID string, msg TranscriptMessage) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if sessionID == "" {
		return errors.New("conversation: transcript sessionID required")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("conversation: failed to marshal transcript message: %w", err)
	}

	key := transcriptKey(sessionID)
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -transcriptMaxMessages, -1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("conversation: failed to append transcript: %w", err)
	}
	return nil
}

// List returns up to limit most recent messages in insertion order.
func (s *RedisTranscriptStore) List(ctx context.Context, sessionID string, limit int64) ([]TranscriptMessage, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = transcriptMaxMessages
	}

	raw, err := s.redis.LRange(ctx, transcriptKey(sessionID), -limit, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to list transcript: %w", err)
	}

	out := make([]TranscriptMessage, 0, len(raw))
	for _, item := range raw {
		var msg TranscriptMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func transcriptKey(sessionID string) string {
	return transcriptKeyPrefix + sessionID
}

// MemoryTranscriptStore is the single-instance default.
type MemoryTranscriptStore struct {
	mu   sync.RWMutex
	logs map[string][]TranscriptMessage
}

// NewMemoryTranscriptStore creates an in-memory transcript store.
func NewMemoryTranscriptStore() *MemoryTranscriptStore {
	return &MemoryTranscriptStore{logs: make(map[string][]TranscriptMessage)}
}

func (s *MemoryTranscriptStore) Append(_ context.Context, sessionID string, msg TranscriptMessage) error {
	if sessionID == "" {
		return errors.New("conversation: transcript sessionID required")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	log := append(s.logs[sessionID], msg)
	if len(log) > transcriptMaxMessages {
		log = log[len(log)-transcriptMaxMessages:]
	}
	s.logs[sessionID] = log
	return nil
}

func (s *MemoryTranscriptStore) List(_ context.Context, sessionID string, limit int64) ([]TranscriptMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[sessionID]
	if limit > 0 && int64(len(log)) > limit {
		log = log[int64(len(log))-limit:]
	}
	out := make([]TranscriptMessage, len(log))
	copy(out, log)
	return out, nil
}
