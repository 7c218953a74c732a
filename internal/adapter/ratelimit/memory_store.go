package ratelimit

import (
	"context"
	"sync"
	"time"

	"academy-ai/internal/domain"
)

// MemoryStore is a process-local sliding-window counter. Entries older
// than the window are evicted lazily on the next check for that key.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory rate-limit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

func key(namespace, userID string) string {
	return namespace + ":" + userID
}

// Check implements domain.RateLimitStore.
func (s *MemoryStore) Check(ctx context.Context, namespace, userID string, maxRequests int, window time.Duration) (domain.RateLimitDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-window)
	k := key(namespace, userID)

	timestamps := s.windows[k]
	kept := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= maxRequests {
		// Oldest remaining entry leaves the window first.
		retryAfter := kept[0].Add(window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		s.windows[k] = kept
		return domain.RateLimitDecision{Allowed: false, RetryAfter: retryAfter}, nil
	}

	s.windows[k] = append(kept, now)
	return domain.RateLimitDecision{Allowed: true}, nil
}

var _ domain.RateLimitStore = (*MemoryStore)(nil)
