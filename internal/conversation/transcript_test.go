package conversation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisTranscriptAppendList(t *testing.T) {
	store := NewRedisTranscriptStore(newTestRedis(t), time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", TranscriptMessage{Role: RoleUser, Body: "hi"}))
	require.NoError(t, store.Append(ctx, "sess-1", TranscriptMessage{Role: RoleAssistant, Body: "hello"}))

	msgs, err := store.List(ctx, "sess-1", 50)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, RoleUser, msgs[0].Role)
	require.Equal(t, "hi", msgs[0].Body)
	require.Equal(t, "hello", msgs[1].Body)
	require.NotEmpty(t, msgs[0].ID)
	require.False(t, msgs[0].Timestamp.IsZero())
}

func TestRedisTranscriptSessionIsolation(t *testing.T) {
	store := NewRedisTranscriptStore(newTestRedis(t), time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-a", TranscriptMessage{Role: RoleUser, Body: "from a"}))
	require.NoError(t, store.Append(ctx, "sess-b", TranscriptMessage{Role: RoleUser, Body: "from b"}))

	msgs, err := store.List(ctx, "sess-a", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "from a", msgs[0].Body)
}

func TestRedisTranscriptCapsLength(t *testing.T) {
	store := NewRedisTranscriptStore(newTestRedis(t), time.Hour)
	ctx := context.Background()

	for i := 0; i < transcriptMaxMessages+20; i++ {
		require.NoError(t, store.Append(ctx, "sess-1", TranscriptMessage{
			Role: RoleUser,
			Body: fmt.Sprintf("msg %d", i),
		}))
	}

	msgs, err := store.List(ctx, "sess-1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, transcriptMaxMessages)
	require.Equal(t, "msg 20", msgs[0].Body)
}

func TestRedisTranscriptRequiresSessionID(t *testing.T) {
	store := NewRedisTranscriptStore(newTestRedis(t), time.Hour)
	require.Error(t, store.Append(context.Background(), "", TranscriptMessage{Body: "x"}))
}

func TestMemoryTranscriptStore(t *testing.T) {
	store := NewMemoryTranscriptStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", TranscriptMessage{Role: RoleUser, Body: "one"}))
	require.NoError(t, store.Append(ctx, "sess-1", TranscriptMessage{Role: RoleAssistant, Body: "two"}))
	require.NoError(t, store.Append(ctx, "sess-2", TranscriptMessage{Role: RoleUser, Body: "other"}))

	msgs, err := store.List(ctx, "sess-1", 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "two", msgs[0].Body)

	all, err := store.List(ctx, "sess-1", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
