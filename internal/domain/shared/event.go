package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that occurred in the domain.
// Events are ephemeral: they exist only for the duration of a publish
// call and are never persisted or replayed.
type DomainEvent interface {
	EventID() uuid.UUID
	// EventType returns the dot-namespaced event type, e.g. "booking.created"
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	// Payload returns the event payload as a key/value map
	Payload() map[string]any
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"at"`
	AggID     uuid.UUID      `json:"aggregate_id"`
	Data      map[string]any `json:"payload,omitempty"`
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e *BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the ID of the aggregate that produced this event
func (e *BaseDomainEvent) AggregateID() uuid.UUID {
	return e.AggID
}

// Payload returns the event payload
func (e *BaseDomainEvent) Payload() map[string]any {
	return e.Data
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType string, aggID uuid.UUID, payload map[string]any) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		AggID:     aggID,
		Data:      payload,
	}
}
