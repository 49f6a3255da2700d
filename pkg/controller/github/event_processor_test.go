package github_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/gt"

	githubcontroller "github.com/m-mizutani/drydock/pkg/controller/github"
	"github.com/m-mizutani/drydock/pkg/domain/model"
)

// MockWebhookUseCase is a mock implementation of WebhookUseCase
type MockWebhookUseCase struct {
	processEventFunc func(ctx context.Context, event *model.WebhookEvent) error
	processCalls     []*model.WebhookEvent
}

func (m *MockWebhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	m.processCalls = append(m.processCalls, event)
	if m.processEventFunc != nil {
		return m.processEventFunc(ctx, event)
	}
	return nil
}

func createEvent(refType, ref string) *github.CreateEvent {
	return &github.CreateEvent{
		Ref:     github.Ptr(ref),
		RefType: github.Ptr(refType),
		Repo: &github.Repository{
			FullName: github.Ptr("dashpay/electrum-dash"),
		},
		Sender: &github.User{
			Login: github.Ptr("release-manager"),
		},
	}
}

func TestToWebhookEvent_Create(t *testing.T) {
	event := githubcontroller.ToWebhookEvent("delivery-1", "create", createEvent("tag", "5.0.3"))

	gt.Value(t, event.ID).Equal("delivery-1")
	gt.Value(t, event.Type).Equal(model.EventTypeCreate)
	gt.Value(t, event.RefType).Equal("tag")
	gt.Value(t, event.Ref).Equal("5.0.3")
	gt.Value(t, event.Repository).Equal("dashpay/electrum-dash")
	gt.Value(t, event.Sender).Equal("release-manager")
	gt.True(t, event.IsTagCreated())
	gt.False(t, event.ReceivedAt.IsZero())
}

func TestToWebhookEvent_NilFields(t *testing.T) {
	// Missing nested objects must not panic
	event := githubcontroller.ToWebhookEvent("delivery-2", "create", &github.CreateEvent{})
	gt.Value(t, event.Type).Equal(model.EventTypeCreate)
	gt.Value(t, event.Repository).Equal("")
	gt.False(t, event.IsTagCreated())
}

func TestToWebhookEvent_Ping(t *testing.T) {
	event := githubcontroller.ToWebhookEvent("delivery-3", "ping", &github.PingEvent{Zen: github.Ptr("Keep it logically awesome.")})
	gt.Value(t, event.Type).Equal(model.EventTypePing)
	gt.False(t, event.IsTagCreated())
}

func TestToWebhookEvent_Unknown(t *testing.T) {
	event := githubcontroller.ToWebhookEvent("delivery-4", "pull_request", &github.PullRequestEvent{})
	gt.Value(t, event.Type).Equal(model.EventTypeUnknown)
}

func TestEventProcessor_ProcessEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("create event reaches the use case", func(t *testing.T) {
		mockUC := &MockWebhookUseCase{}
		processor := githubcontroller.NewEventProcessor(mockUC)

		gt.NoError(t, processor.ProcessEvent(ctx, "delivery-1", "create", createEvent("tag", "5.0.3")))
		gt.Array(t, mockUC.processCalls).Length(1)
		gt.Value(t, mockUC.processCalls[0].Ref).Equal("5.0.3")
	})

	t.Run("unsupported event is ignored", func(t *testing.T) {
		mockUC := &MockWebhookUseCase{}
		processor := githubcontroller.NewEventProcessor(mockUC)

		gt.NoError(t, processor.ProcessEvent(ctx, "delivery-2", "release", &github.ReleaseEvent{}))
		gt.Array(t, mockUC.processCalls).Length(0)
	})

	t.Run("use case error is returned", func(t *testing.T) {
		mockUC := &MockWebhookUseCase{
			processEventFunc: func(ctx context.Context, event *model.WebhookEvent) error {
				return errors.New("release build failed")
			},
		}
		processor := githubcontroller.NewEventProcessor(mockUC)

		err := processor.ProcessEvent(ctx, "delivery-3", "create", createEvent("tag", "5.0.3"))
		gt.Error(t, err)
	})
}
