package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drydock/pkg/domain/interfaces"
	"github.com/m-mizutani/drydock/pkg/domain/model"
)

type webhookUseCase struct {
	orchestrator interfaces.OrchestratorUseCase
	selection    model.PlatformSelection

	mu    sync.Mutex
	locks map[model.ReleaseTag]*sync.Mutex
}

// NewWebhook creates a WebhookUseCase that starts a release build for every
// tag created on the repository.
func NewWebhook(orchestrator interfaces.OrchestratorUseCase, selection model.PlatformSelection) *webhookUseCase {
	return &webhookUseCase{
		orchestrator: orchestrator,
		selection:    selection,
		locks:        make(map[model.ReleaseTag]*sync.Mutex),
	}
}

// tagLock returns the mutex serialising runs for tag. Two deliveries for the
// same tag must not both reach release creation.
func (uc *webhookUseCase) tagLock(tag model.ReleaseTag) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	l, ok := uc.locks[tag]
	if !ok {
		l = &sync.Mutex{}
		uc.locks[tag] = l
	}
	return l
}

// ProcessEvent processes a webhook event
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"ref_type", event.RefType,
		"ref", event.Ref,
		"repository", event.Repository,
		"sender", event.Sender,
	)

	if !event.IsTagCreated() {
		logger.Debug("Ignoring event without a new tag",
			"type", event.Type,
			"ref_type", event.RefType,
		)
		return nil
	}

	tag := model.ReleaseTag(event.Ref)
	lock := uc.tagLock(tag)
	lock.Lock()
	defer lock.Unlock()

	_, err := uc.orchestrator.Run(ctx, model.Trigger{Tag: tag, Selection: uc.selection})
	return err
}
