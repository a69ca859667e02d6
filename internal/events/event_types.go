package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProductCreated EventType = "product_created"
	EventProductUpdated EventType = "product_updated"
	EventProductDeleted EventType = "product_deleted"
)

// Event is a domain event emitted by the product write path after a
// successful commit.
type Event struct {
	Type      EventType `json:"type"`
	ProductID int64     `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewProductEvent builds an event for the given mutation.
func NewProductEvent(eventType EventType, productID int64) Event {
	return Event{
		Type:      eventType,
		ProductID: productID,
		Timestamp: time.Now(),
	}
}
