package interfaces

import "context"

// EventType represents different event types in the system
type EventType string

const (
	// EventUploadStarted is published when a simulated upload begins. Payload: UploadStatus
	EventUploadStarted EventType = "upload_started"

	// EventUploadProgress is published on every progress tick. Payload: UploadStatus
	EventUploadProgress EventType = "upload_progress"

	// EventDocumentUploaded is published once an upload resolves. Payload: models.Document
	EventDocumentUploaded EventType = "document_uploaded"

	// EventDocumentSelected is published whenever the selection changes after load. Payload: models.Document
	EventDocumentSelected EventType = "document_selected"

	// EventQACreated is published after a new QA record is prepended. Payload: models.QA
	EventQACreated EventType = "qa_created"

	// EventSearchSettled is published when the debounced search text settles. Payload: string
	EventSearchSettled EventType = "search_settled"
)

// Event represents a system event
type Event struct {
	Type    EventType
	Payload interface{}
}

// EventHandler is a function that handles events
type EventHandler func(ctx context.Context, event Event) error

// EventService manages pub/sub event bus
type EventService interface {
	// Subscribe to an event type
	Subscribe(eventType EventType, handler EventHandler) error

	// Publish an event to all subscribers
	Publish(ctx context.Context, event Event) error

	// PublishSync publishes event and waits for all handlers to complete
	PublishSync(ctx context.Context, event Event) error

	// Close shuts down the event service
	Close() error
}
