package middleware

import (
	"time"

	"academy-ai/internal/domain"
	"academy-ai/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RateLimit guards an expensive AI endpoint with a sliding-window quota.
// Each namespace owns its own quota: exhausting "chat" leaves
// "summary-generation" untouched.
//
// A request without a resolved principal is a configuration error at
// this layer, not a rate-limit decision; the limiter has no key to
// count against and fails fast with UNAUTHENTICATED.
func RateLimit(store domain.RateLimitStore, namespace string, maxRequests int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := UserIDFromCtx(c)
		if userID == "" {
			return domain.NewUnauthenticatedError()
		}

		decision, err := store.Check(c.Context(), namespace, userID, maxRequests, window)
		if err != nil {
			return domain.NewInternalError("rate limit check failed", err)
		}

		if !decision.Allowed {
			logger.Get().Warn("Rate limit exceeded",
				zap.String("namespace", namespace),
				zap.String("user_id", userID),
				zap.Duration("retry_after", decision.RetryAfter),
			)
			return domain.NewRateLimitExceededError(namespace, decision.RetryAfter)
		}

		return c.Next()
	}
}
