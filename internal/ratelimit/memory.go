package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps timestamps in process memory. Entries are never evicted,
// so it grows with the number of distinct users seen since start.
type MemoryStore struct {
	mu   sync.Mutex
	last map[int64]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{last: make(map[int64]time.Time)}
}

func (m *MemoryStore) Reserve(_ context.Context, userID int64, now time.Time, cooldown time.Duration) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.last[userID]; ok {
		if elapsed := now.Sub(prev); elapsed < cooldown {
			return false, cooldown - elapsed, nil
		}
	}
	m.last[userID] = now
	return true, 0, nil
}
