package store

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"immobiliare-core/internal/domain/entity"
)

const DefaultMaxSessions = 10000

// MemoryHistory keeps each session's most recent turns in process memory.
// Older turns are dropped once a session holds more than maxTurns; whole
// sessions are dropped after ttl without a write, or least recently used
// first once maxSessions are held.
type MemoryHistory struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, []entity.ConversationTurn]
	maxTurns int
}

func NewMemoryHistory(maxTurns, maxSessions int, ttl time.Duration) *MemoryHistory {
	if maxTurns <= 0 {
		maxTurns = 6
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &MemoryHistory{
		sessions: expirable.NewLRU[string, []entity.ConversationTurn](maxSessions, nil, ttl),
		maxTurns: maxTurns,
	}
}

func (m *MemoryHistory) Recent(_ context.Context, sessionID string, n int) ([]entity.ConversationTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	turns, _ := m.sessions.Get(sessionID)
	if n > 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	// copy so callers never alias the buffer
	return append([]entity.ConversationTurn(nil), turns...), nil
}

func (m *MemoryHistory) Append(_ context.Context, sessionID string, turns ...entity.ConversationTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, _ := m.sessions.Get(sessionID)
	all := append(append([]entity.ConversationTurn(nil), prev...), turns...)
	if len(all) > m.maxTurns {
		all = all[len(all)-m.maxTurns:]
	}
	m.sessions.Add(sessionID, all)
	return nil
}

// Sessions is the number of live sessions.
func (m *MemoryHistory) Sessions() int {
	return m.sessions.Len()
}
