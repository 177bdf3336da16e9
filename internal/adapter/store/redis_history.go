package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"immobiliare-core/internal/domain/entity"
)

const historyKeyPrefix = "chat:history:"

// RedisHistory stores each session as a capped Redis list so several
// server processes can share conversations.
type RedisHistory struct {
	client   *redis.Client
	maxTurns int
	ttl      time.Duration
}

func NewRedisHistory(client *redis.Client, maxTurns int, ttl time.Duration) *RedisHistory {
	if maxTurns <= 0 {
		maxTurns = 6
	}
	return &RedisHistory{
		client:   client,
		maxTurns: maxTurns,
		ttl:      ttl,
	}
}

func (r *RedisHistory) Recent(ctx context.Context, sessionID string, n int) ([]entity.ConversationTurn, error) {
	if n <= 0 {
		n = r.maxTurns
	}
	vals, err := r.client.LRange(ctx, historyKeyPrefix+sessionID, int64(-n), -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	turns := make([]entity.ConversationTurn, 0, len(vals))
	for _, v := range vals {
		var turn entity.ConversationTurn
		if err := json.Unmarshal([]byte(v), &turn); err != nil {
			return nil, fmt.Errorf("decode history turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Append pushes and trims in one MULTI/EXEC so readers never see an untrimmed list.
func (r *RedisHistory) Append(ctx context.Context, sessionID string, turns ...entity.ConversationTurn) error {
	if len(turns) == 0 {
		return nil
	}
	key := historyKeyPrefix + sessionID
	values := make([]any, 0, len(turns))
	for _, t := range turns {
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode history turn: %w", err)
		}
		values = append(values, b)
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, int64(-r.maxTurns), -1)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}
