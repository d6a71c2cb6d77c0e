// Package pubsub fans events out from one publisher to any number of
// subscribers over buffered channels. The engine publishes container
// mutations on it and the logger publishes log entries; delivery never
// blocks the publisher.
package pubsub

import (
	"context"
	"time"
)

// EventType labels what happened to the payload's subject.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
)

// Event is a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out subscription channels for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
