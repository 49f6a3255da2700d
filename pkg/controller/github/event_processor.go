package github

import (
	"context"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drydock/pkg/domain/interfaces"
	"github.com/m-mizutani/drydock/pkg/domain/model"
)

// EventProcessor turns parsed GitHub webhook payloads into domain events
type EventProcessor struct {
	webhookUC interfaces.WebhookUseCase
}

// NewEventProcessor creates a new GitHub event processor
func NewEventProcessor(webhookUC interfaces.WebhookUseCase) *EventProcessor {
	return &EventProcessor{
		webhookUC: webhookUC,
	}
}

// ProcessEvent converts payload and passes it to the webhook use case
func (p *EventProcessor) ProcessEvent(ctx context.Context, deliveryID, eventType string, payload any) error {
	event := ToWebhookEvent(deliveryID, eventType, payload)
	if event.Type == model.EventTypeUnknown {
		ctxlog.From(ctx).Info("Ignoring unsupported event type", "event_type", eventType)
		return nil
	}
	return p.webhookUC.ProcessEvent(ctx, event)
}

// ToWebhookEvent extracts the fields drydock uses from a go-github payload
func ToWebhookEvent(deliveryID, eventType string, payload any) *model.WebhookEvent {
	event := &model.WebhookEvent{
		ID:         deliveryID,
		Type:       model.WebhookEventType(eventType),
		ReceivedAt: time.Now(),
	}

	// Use Get*() helper methods for concise and nil-safe field access
	switch e := payload.(type) {
	case *github.CreateEvent:
		event.Type = model.EventTypeCreate
		event.RefType = e.GetRefType()
		event.Ref = e.GetRef()
		event.Repository = e.GetRepo().GetFullName()
		event.Sender = e.GetSender().GetLogin()
	case *github.PingEvent:
		event.Type = model.EventTypePing
		event.Repository = e.GetRepo().GetFullName()
		event.Sender = e.GetSender().GetLogin()
	default:
		event.Type = model.EventTypeUnknown
	}
	return event
}
