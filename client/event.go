package client

import (
	"time"

	"github.com/spetersoncode/relay/retry"
)

// EventType identifies the kind of event occurring during client operations.
type EventType string

const (
	// EventConnecting fires when a submitted envelope begins dispatch.
	EventConnecting EventType = "connecting"

	// EventProcessing fires once the dispatch is in flight.
	EventProcessing EventType = "processing"

	// EventComplete fires when a dispatch finishes successfully.
	EventComplete EventType = "complete"

	// EventError fires when a dispatch fails terminally.
	EventError EventType = "error"

	// EventQueued fires when an envelope is accepted into the offline queue.
	EventQueued EventType = "queued"

	// EventDrainStart fires when an offline-to-online transition begins a
	// queue drain.
	EventDrainStart EventType = "drain_start"

	// EventDrainEntry fires as each queued entry's drain attempt completes.
	EventDrainEntry EventType = "drain_entry"

	// EventDrainComplete fires when a queue drain finishes.
	EventDrainComplete EventType = "drain_complete"

	// EventRetry fires when a retry event occurs (forwarded from the retry
	// package).
	EventRetry EventType = "retry"
)

// Event represents an observable occurrence during client operations.
// Events are advisory telemetry; no control flow depends on their delivery.
type Event struct {
	// Type identifies the kind of event.
	Type EventType

	// RequestID is the envelope's request id (if known).
	RequestID string

	// Persona is the target persona (if known).
	Persona string

	// Provider is the provider that served the request (if known).
	Provider string

	// QueueID is the queue-assigned id for queued and drain events.
	QueueID string

	// Duration is the elapsed time for completed dispatches.
	Duration time.Duration

	// Error contains the error for EventError and failed drain entries.
	Error error

	// RetryEvent contains the underlying retry event for EventRetry.
	RetryEvent *retry.Event

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// emit sends an event with timestamp to the channel without blocking.
func emit(ch chan<- Event, event Event) {
	if ch == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case ch <- event:
	default:
		// Channel full - don't block
	}
}
