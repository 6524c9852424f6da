package reservation

import (
	"context"
	"time"
)

// EventType names a lifecycle mutation
type EventType string

const (
	EventCreated   EventType = "created"
	EventConfirmed EventType = "confirmed"
	EventCancelled EventType = "cancelled"
	EventUpdated   EventType = "updated"
	EventDeleted   EventType = "deleted"
)

// Event is emitted after a reservation mutation has been persisted
type Event struct {
	Type        EventType
	Reservation *Reservation
	OccurredAt  time.Time
}

// EventPublisher pushes reservation events to subscribers
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
