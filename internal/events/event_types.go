package events

import (
	"time"

	"github.com/spec-kit/storage-gateway/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventAuthDecision is emitted after every pass through the auth gate.
	EventAuthDecision EventType = "auth_decision"
)

// Event represents a domain event emitted by the gateway.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// AuthDecisionPayload carries the decision record for EventAuthDecision.
type AuthDecisionPayload struct {
	Decision domain.AuthDecision `json:"decision"`
}
