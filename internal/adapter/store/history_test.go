package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"immobiliare-core/internal/domain/entity"
)

func turn(i int) entity.ConversationTurn {
	role := entity.RoleUser
	if i%2 == 1 {
		role = entity.RoleAssistant
	}
	return entity.ConversationTurn{Role: role, Content: fmt.Sprintf("turn-%d", i)}
}

func TestMemoryHistory_CapsRetention(t *testing.T) {
	h := NewMemoryHistory(6, 0, time.Hour)
	ctx := context.Background()
	for i := 0; i < 20; i += 2 {
		require.NoError(t, h.Append(ctx, "s1", turn(i), turn(i+1)))
	}

	stored, ok := h.sessions.Peek("s1")
	require.True(t, ok)
	require.Len(t, stored, 6)
	recent, err := h.Recent(ctx, "s1", 6)
	require.NoError(t, err)
	require.Equal(t, "turn-14", recent[0].Content)
	require.Equal(t, "turn-19", recent[5].Content)

	recent, err = h.Recent(ctx, "s1", 2)
	require.NoError(t, err)
	require.Equal(t, []entity.ConversationTurn{turn(18), turn(19)}, recent)
}

func TestMemoryHistory_UnknownSession(t *testing.T) {
	recent, err := NewMemoryHistory(6, 0, time.Hour).Recent(context.Background(), "nobody", 6)
	require.NoError(t, err)
	require.Empty(t, recent)
}

func TestMemoryHistory_ConcurrentAppends(t *testing.T) {
	h := NewMemoryHistory(100, 0, time.Hour)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Append(ctx, "shared", turn(i))
		}()
	}
	wg.Wait()

	recent, err := h.Recent(ctx, "shared", 100)
	require.NoError(t, err)
	require.Len(t, recent, 50)
}

func TestMemoryHistory_DropsIdleSessions(t *testing.T) {
	h := NewMemoryHistory(6, 0, 50*time.Millisecond)
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		require.NoError(t, h.Append(ctx, fmt.Sprintf("visitor-%d", i), turn(0)))
	}
	require.Equal(t, 100, h.Sessions())

	require.Eventually(t, func() bool { return h.Sessions() == 0 }, 2*time.Second, 10*time.Millisecond)
	recent, err := h.Recent(ctx, "visitor-0", 6)
	require.NoError(t, err)
	require.Empty(t, recent)
}

func TestMemoryHistory_CapsSessionCount(t *testing.T) {
	h := NewMemoryHistory(6, 3, time.Hour)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, h.Append(ctx, fmt.Sprintf("s%d", i), turn(i)))
	}
	require.Equal(t, 3, h.Sessions())

	evicted, err := h.Recent(ctx, "s0", 6)
	require.NoError(t, err)
	require.Empty(t, evicted)

	kept, err := h.Recent(ctx, "s4", 6)
	require.NoError(t, err)
	require.Equal(t, []entity.ConversationTurn{turn(4)}, kept)
}

func TestRedisHistory(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	session := "test-" + uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, historyKeyPrefix+session) })

	h := NewRedisHistory(client, 6, time.Minute)
	empty, err := h.Recent(ctx, session, 6)
	require.NoError(t, err)
	require.Empty(t, empty)

	for i := 0; i < 10; i += 2 {
		require.NoError(t, h.Append(ctx, session, turn(i), turn(i+1)))
	}
	n, err := client.LLen(ctx, historyKeyPrefix+session).Result()
	require.NoError(t, err)
	require.EqualValues(t, 6, n)

	recent, err := h.Recent(ctx, session, 4)
	require.NoError(t, err)
	require.Equal(t, []entity.ConversationTurn{turn(6), turn(7), turn(8), turn(9)}, recent)
}
