package usage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gymgo/gymgo/svc/quota"
)

// MemStore is an in-memory quota.UsageStore for tests and local development.
// It keys counters exactly like the Redis store, so window rollover behaves
// the same way.
type MemStore struct {
	mu       sync.Mutex
	counters map[string]int64
	now      func() time.Time
}

// MemOption configures the in-memory store.
type MemOption func(*MemStore)

// WithMemClock overrides the wall clock.
func WithMemClock(now func() time.Time) MemOption {
	return func(s *MemStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemStore returns an empty in-memory usage store.
func NewMemStore(opts ...MemOption) *MemStore {
	s := &MemStore{counters: make(map[string]int64), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemStore) Used(_ context.Context, orgID uuid.UUID, res quota.Resource) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[counterKey(orgID, res, s.now())], nil
}

func (s *MemStore) Consume(_ context.Context, orgID uuid.UUID, res quota.Resource, n, limit int64) (bool, int64, error) {
	if n <= 0 {
		return false, 0, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := counterKey(orgID, res, s.now())
	current := s.counters[key]
	if limit >= 0 && current+n > limit {
		return false, max(limit-current, 0), nil
	}
	s.counters[key] = current + n
	if limit < 0 {
		return true, -1, nil
	}
	return true, limit - s.counters[key], nil
}

func (s *MemStore) AddStorage(_ context.Context, orgID uuid.UUID, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := counterKey(orgID, quota.ResourceStorage, s.now())
	s.counters[key] = max(s.counters[key]+delta, 0)
	return s.counters[key], nil
}
