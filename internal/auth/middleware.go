package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/storage-gateway/internal/domain"
	"github.com/spec-kit/storage-gateway/internal/events"
	"github.com/spec-kit/storage-gateway/internal/observability"
	apperrors "github.com/spec-kit/storage-gateway/pkg/util"
)

const claimsKey = "auth_claims"

// Middleware validates bearer tokens on protected routes. It keeps no
// per-request state: each decision is a function of the Authorization
// header, the configured secret and the current time.
type Middleware struct {
	tokens     *TokenManager
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	now        func() time.Time
}

// NewMiddleware constructs the gate middleware. dispatcher and metrics are
// optional; a nil value disables the corresponding side channel.
func NewMiddleware(tokens *TokenManager, dispatcher events.Dispatcher, metrics *observability.Metrics) *Middleware {
	return &Middleware{
		tokens:     tokens,
		dispatcher: dispatcher,
		metrics:    metrics,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (m *Middleware) WithClock(now func() time.Time) *Middleware {
	m.now = now
	return m
}

// Handle enforces authentication for protected routes. Anything but a valid
// token short-circuits with a mapped 401 before the handler body runs.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	result := m.tokens.Authenticate(c.Get(fiber.HeaderAuthorization), m.now().UTC())
	m.record(c, result)

	if result.Status != StatusValid {
		return apperrors.NewUnauthorized(result.Message())
	}

	c.Locals(claimsKey, result.Claims)
	return c.Next()
}

// ClaimsFromContext retrieves the verified claims set by Handle.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}

// record feeds the decision into metrics and the audit event stream. The
// decision carries claim metadata only, never the presented credential.
func (m *Middleware) record(c *fiber.Ctx, result Result) {
	m.metrics.RecordAuthOutcome(result.Status.String())

	if m.dispatcher == nil {
		return
	}

	decision := domain.AuthDecision{
		Outcome:   result.Status.String(),
		RequestID: observability.RequestIDFromContext(c),
		Method:    c.Method(),
		Path:      c.Path(),
		ClientIP:  c.IP(),
		DecidedAt: m.now().UTC(),
	}
	if result.Claims != nil {
		decision.Subject = result.Claims.Subject
		decision.Issuer = result.Claims.Issuer
	}

	_ = m.dispatcher.Publish(c.Context(), events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAuthDecision,
		Timestamp: decision.DecidedAt,
		Payload:   events.AuthDecisionPayload{Decision: decision},
	})
}
