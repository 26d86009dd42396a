package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/storage-gateway/pkg/util"
)

const keyPrefix = "ratelimit:"

// Limiter enforces a fixed-window request budget per client key, backed by
// Redis so all gateway replicas share one budget.
type Limiter struct {
	client    *redis.Client
	perWindow int
	window    time.Duration
	logger    *zap.Logger
}

// NewLimiter builds a limiter admitting perMinute requests per key.
func NewLimiter(client *redis.Client, perMinute int, logger *zap.Logger) *Limiter {
	return &Limiter{
		client:    client,
		perWindow: perMinute,
		window:    time.Minute,
		logger:    logger,
	}
}

// Allow consumes one slot for key and reports whether the request fits the
// window, with a retry hint when it does not. The limiter fails open: an
// unreachable Redis admits the request.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	redisKey := keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable; admitting request", zap.Error(err))
		return true, 0
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.logger.Warn("set rate limit window", zap.Error(err))
		}
	}
	if count <= int64(l.perWindow) {
		return true, 0
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl
}

// Middleware rejects requests over budget with 429 and a Retry-After hint,
// keyed by client IP.
func (l *Limiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, retryAfter := l.Allow(c.Context(), "ip:"+c.IP())
		if !allowed {
			seconds := int64((retryAfter + time.Second - 1) / time.Second)
			c.Set(fiber.HeaderRetryAfter, strconv.FormatInt(seconds, 10))
			return apperrors.NewTooManyRequests("rate limit exceeded")
		}
		return c.Next()
	}
}
