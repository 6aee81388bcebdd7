package domain

import "time"

// EventType names a policy lifecycle or access decision event.
type EventType string

const (
	EventPolicyAdded   EventType = "PolicyAdded"
	EventPolicyUpdated EventType = "PolicyUpdated"
	EventPolicyRevoked EventType = "PolicyRevoked"
	EventAccessGranted EventType = "AccessGranted"
	EventAccessDenied  EventType = "AccessDenied"
)

// Event is a notification emitted to external observers such as the
// simulation-integration middleware. Events are advisory; the audit log is the
// record of truth.
type Event struct {
	Type       EventType
	ResourceID ResourceID
	ProofID    string
	Action     string
	At         time.Time
}

// EventPublisher fans events out to subscribers. Publish must never block a
// decision.
type EventPublisher interface {
	Publish(event Event)
}
