package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storage-gateway/internal/api/dto"
	"github.com/spec-kit/storage-gateway/internal/domain"
	"github.com/spec-kit/storage-gateway/internal/service"
	apperrors "github.com/spec-kit/storage-gateway/pkg/util"
)

// AuditHandler serves the recorded gate decision endpoints.
type AuditHandler struct {
	audits *service.AuditService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{audits: auditService}
}

// ListDecisions GET /api/audit/decisions.
func (h *AuditHandler) ListDecisions(c *fiber.Ctx) error {
	if !h.audits.Enabled() {
		return apperrors.NewServiceUnavailable("audit trail is disabled; set POSTGRES_DSN to enable it", nil)
	}

	decisions, err := h.audits.RecentDecisions(c.UserContext(), c.Query("outcome"), parseInt(c.Query("limit"), 0))
	if err != nil {
		return err
	}

	items := make([]dto.AuthDecisionResponse, 0, len(decisions))
	for i := range decisions {
		items = append(items, authDecisionResponse(&decisions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Summary GET /api/audit/summary.
func (h *AuditHandler) Summary(c *fiber.Ctx) error {
	if !h.audits.Enabled() {
		return apperrors.NewServiceUnavailable("audit trail is disabled; set POSTGRES_DSN to enable it", nil)
	}

	totals, err := h.audits.OutcomeTotals(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuditSummaryResponse{Totals: totals}})
}

func authDecisionResponse(decision *domain.AuthDecision) dto.AuthDecisionResponse {
	return dto.AuthDecisionResponse{
		ID:        decision.ID,
		Outcome:   decision.Outcome,
		Subject:   decision.Subject,
		Issuer:    decision.Issuer,
		RequestID: decision.RequestID,
		Method:    decision.Method,
		Path:      decision.Path,
		ClientIP:  decision.ClientIP,
		DecidedAt: decision.DecidedAt,
	}
}
