package interfaces

import (
	"context"

	"github.com/m-mizutani/drydock/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// OrchestratorUseCase runs and plans release builds
type OrchestratorUseCase interface {
	// Run executes every admitted job for the trigger and uploads their artifacts
	Run(ctx context.Context, trigger model.Trigger) (*model.RunReport, error)

	// Plan resolves the version and evaluates the gate without building or uploading
	Plan(ctx context.Context, trigger model.Trigger) (*model.RunPlan, error)
}
