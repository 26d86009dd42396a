package dto

import "time"

// AuthDecisionResponse represents one recorded gate decision.
type AuthDecisionResponse struct {
	ID        string    `json:"id"`
	Outcome   string    `json:"outcome"`
	Subject   string    `json:"subject,omitempty"`
	Issuer    string    `json:"issuer,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	ClientIP  string    `json:"client_ip,omitempty"`
	DecidedAt time.Time `json:"decided_at"`
}

// AuditSummaryResponse aggregates decisions by outcome.
type AuditSummaryResponse struct {
	Totals map[string]int64 `json:"totals"`
}
