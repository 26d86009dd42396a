package domain

import "time"

// AuthDecision records the outcome of one pass through the auth gate.
// It carries claim metadata only, never the presented token.
type AuthDecision struct {
	ID        string
	Outcome   string
	Subject   string
	Issuer    string
	RequestID string
	Method    string
	Path      string
	ClientIP  string
	DecidedAt time.Time
	CreatedAt time.Time
}

// Accepted reports whether the decision let the request through the gate.
func (d AuthDecision) Accepted() bool {
	return d.Outcome == "valid"
}
