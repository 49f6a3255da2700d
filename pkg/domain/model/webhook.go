package model

import "time"

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypeCreate  WebhookEventType = "create"
	EventTypePing    WebhookEventType = "ping"
	EventTypeUnknown WebhookEventType = "unknown"
)

// WebhookEvent represents a webhook event received from GitHub
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	RefType    string           // "tag" or "branch" for create events
	Ref        string           // Created ref name
	Repository string           // Repository full name
	Sender     string           // Sender username
	ReceivedAt time.Time        // Time when the event was received
}

// IsTagCreated reports whether the event announces a new tag
func (e *WebhookEvent) IsTagCreated() bool {
	return e.Type == EventTypeCreate && e.RefType == "tag" && e.Ref != ""
}
