package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/storage-gateway/internal/domain"
	"github.com/spec-kit/storage-gateway/internal/events"
	"github.com/spec-kit/storage-gateway/internal/repository"
)

const auditPersistTimeout = 3 * time.Second

// AuditService persists auth gate decisions published on the event stream
// and serves read queries over the recorded trail.
type AuditService struct {
	dispatcher events.Dispatcher
	repo       repository.AuditRepository
	logger     *zap.Logger
}

// NewAuditService creates the service. repo may be nil when no audit store
// is configured.
func NewAuditService(dispatcher events.Dispatcher, repo repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		repo:       repo,
		logger:     logger,
	}
}

// Enabled reports whether decisions are being persisted.
func (s *AuditService) Enabled() bool {
	return s != nil && s.repo != nil
}

// RegisterHandlers subscribes to events. Without a repository the service
// stays unsubscribed and the gateway runs without an audit trail.
func (s *AuditService) RegisterHandlers() {
	if s.dispatcher == nil || s.repo == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventAuthDecision, s.handleAuthDecision)
}

// RecentDecisions returns the latest persisted decisions, newest first.
func (s *AuditService) RecentDecisions(ctx context.Context, outcome string, limit int) ([]domain.AuthDecision, error) {
	return s.repo.List(ctx, repository.AuditFilter{Outcome: outcome, Limit: limit})
}

// OutcomeTotals returns persisted decision counts grouped by outcome.
func (s *AuditService) OutcomeTotals(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByOutcome(ctx)
}

func (s *AuditService) handleAuthDecision(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AuthDecisionPayload)
	if !ok {
		s.logger.Warn("unexpected payload for auth_decision event", zap.String("event_id", event.ID))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, auditPersistTimeout)
	defer cancel()

	decision := payload.Decision
	if err := s.repo.Insert(ctx, &decision); err != nil {
		s.logger.Error("persist auth decision",
			zap.Error(err),
			zap.String("outcome", decision.Outcome),
			zap.String("request_id", decision.RequestID))
		return err
	}
	return nil
}
