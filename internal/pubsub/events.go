// Package pubsub provides a small typed publish/subscribe broker used to fan
// reload notifications and log entries out to interested listeners (the
// pager, the watch loop).
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// ReloadedEvent carries a freshly rendered diff.
	ReloadedEvent EventType = "reloaded"
	// ReloadFailedEvent reports that the input changed but could not be
	// rendered; listeners keep their previous state.
	ReloadFailedEvent EventType = "reload_failed"
	// LoggedEvent carries a formatted log entry.
	LoggedEvent EventType = "logged"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
