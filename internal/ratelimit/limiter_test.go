package ratelimit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/storage-gateway/internal/api/http"
	"github.com/spec-kit/storage-gateway/internal/ratelimit"
)

func newTestLimiter(t *testing.T, perMinute int) (*ratelimit.Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return ratelimit.NewLimiter(client, perMinute, zap.NewNop()), mr
}

func TestLimiterAllowWithinBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2)
	ctx := context.Background()

	allowed, _ := limiter.Allow(ctx, "ip:10.0.0.1")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "ip:10.0.0.1")
	assert.True(t, allowed)

	allowed, retryAfter := limiter.Allow(ctx, "ip:10.0.0.1")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	allowed, _ := limiter.Allow(ctx, "ip:10.0.0.1")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "ip:10.0.0.2")
	assert.True(t, allowed)

	allowed, _ = limiter.Allow(ctx, "ip:10.0.0.1")
	assert.False(t, allowed)
}

func TestLimiterWindowResets(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1)
	ctx := context.Background()

	allowed, _ := limiter.Allow(ctx, "ip:10.0.0.1")
	require.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "ip:10.0.0.1")
	require.False(t, allowed)

	mr.FastForward(time.Minute + time.Second)

	allowed, _ = limiter.Allow(ctx, "ip:10.0.0.1")
	assert.True(t, allowed)
}

func TestLimiterFailsOpen(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter := ratelimit.NewLimiter(client, 1, zap.NewNop())

	// With the backend gone every request is admitted.
	mr.Close()

	allowed, retryAfter := limiter.Allow(context.Background(), "ip:10.0.0.1")
	assert.True(t, allowed)
	assert.Equal(t, time.Duration(0), retryAfter)
}

func TestLimiterMiddleware(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	app.Use(limiter.Middleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Too Many Requests", body.Error)
	assert.Equal(t, "rate limit exceeded", body.Message)
}
