package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/textcore/internal/event/topic"
)

// Event is a typed event. Events are values and are not modified after
// creation.
type Event[T any] struct {
	Type     topic.Topic
	Payload  T
	Metadata Metadata
}

// Metadata is attached to every event.
type Metadata struct {
	// ID is unique per event.
	ID string

	Timestamp time.Time

	// Source names the publishing component.
	Source string

	// CausationID links to the event that caused this one.
	CausationID string
}

// NewEvent creates an event with a fresh ID and the current time.
func NewEvent[T any](eventType topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic returns the event's topic.
func (e Event[T]) EventTopic() topic.Topic { return e.Type }

// EventMetadata returns the event's metadata.
func (e Event[T]) EventMetadata() Metadata { return e.Metadata }

// WithCausation returns a copy of the event caused by another event.
func (e Event[T]) WithCausation(id string) Event[T] {
	e.Metadata.CausationID = id
	return e
}

// TopicProvider is implemented by publishable events.
type TopicProvider interface {
	EventTopic() topic.Topic
}
