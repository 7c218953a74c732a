package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"academy-ai/internal/cache"
	"academy-ai/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements the sliding window on a Redis sorted set, scored
// by request time. It is the store to use when more than one instance
// serves traffic; per-instance memory counters would split the quota.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed rate-limit store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func redisKey(namespace, userID string) string {
	return cache.GenerateCacheKey("ratelimit", namespace, userID)
}

// Check implements domain.RateLimitStore.
func (s *RedisStore) Check(ctx context.Context, namespace, userID string, maxRequests int, window time.Duration) (domain.RateLimitDecision, error) {
	k := redisKey(namespace, userID)
	now := s.now()
	cutoff := now.Add(-window)

	if err := s.client.ZRemRangeByScore(ctx, k, "0",
		strconv.FormatInt(cutoff.UnixMilli(), 10)).Err(); err != nil {
		return domain.RateLimitDecision{}, fmt.Errorf("failed to evict stale window entries: %w", err)
	}

	count, err := s.client.ZCard(ctx, k).Result()
	if err != nil {
		return domain.RateLimitDecision{}, fmt.Errorf("failed to count window entries: %w", err)
	}

	if count >= int64(maxRequests) {
		oldest, err := s.client.ZRangeWithScores(ctx, k, 0, 0).Result()
		if err != nil {
			return domain.RateLimitDecision{}, fmt.Errorf("failed to read oldest window entry: %w", err)
		}
		retryAfter := window
		if len(oldest) > 0 {
			oldestAt := time.UnixMilli(int64(oldest[0].Score))
			retryAfter = oldestAt.Add(window).Sub(now)
			if retryAfter < 0 {
				retryAfter = 0
			}
		}
		return domain.RateLimitDecision{Allowed: false, RetryAfter: retryAfter}, nil
	}

	member := strconv.FormatInt(now.UnixNano(), 10)
	if err := s.client.ZAdd(ctx, k, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: member,
	}).Err(); err != nil {
		return domain.RateLimitDecision{}, fmt.Errorf("failed to record request: %w", err)
	}
	// Keys expire a window after their last request so idle users cost
	// nothing.
	if err := s.client.Expire(ctx, k, window).Err(); err != nil {
		return domain.RateLimitDecision{}, fmt.Errorf("failed to set window expiry: %w", err)
	}

	return domain.RateLimitDecision{Allowed: true}, nil
}

var _ domain.RateLimitStore = (*RedisStore)(nil)
