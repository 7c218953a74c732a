package domain

import (
	"context"
	"time"
)

// RateLimitDecision is the outcome of one sliding-window check.
type RateLimitDecision struct {
	Allowed bool
	// RetryAfter is how long the caller must wait before the oldest
	// counted request leaves the window. Zero when Allowed.
	RetryAfter time.Duration
}

// RateLimitStore counts requests per (namespace, userID) key over a
// trailing window. Distinct namespaces never share quota.
//
// The in-memory implementation is process-local; running multiple
// instances without the shared (Redis) implementation splits the quota
// per instance.
type RateLimitStore interface {
	// Check lazily evicts timestamps older than window, rejects when
	// the remaining count has reached maxRequests, and otherwise
	// records now and allows.
	Check(ctx context.Context, namespace, userID string, maxRequests int, window time.Duration) (RateLimitDecision, error)
}
