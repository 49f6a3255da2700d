package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drydock/pkg/domain/interfaces"
	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// AcquireRelease returns the release bound to tag, creating it when absent.
// It must run once per orchestration run, upstream of every job; its result is
// handed to uploaders by value so concurrent jobs never race on creation.
func AcquireRelease(ctx context.Context, host interfaces.ReleaseHost, tag model.ReleaseTag) (model.ReleaseRecord, error) {
	logger := ctxlog.From(ctx)

	if err := tag.Validate(); err != nil {
		return model.ReleaseRecord{}, goerr.Wrap(err, "cannot acquire release", goerr.T(types.ErrTagRelease))
	}

	existing, err := host.FindReleaseByTag(ctx, tag.String())
	if err != nil {
		return model.ReleaseRecord{}, goerr.Wrap(err, "failed to look up release",
			goerr.V("tag", tag),
			goerr.T(types.ErrTagRelease),
		)
	}
	if existing != nil {
		logger.Info("Found existing release",
			"tag", tag,
			"release_id", existing.ID,
			"url", existing.HTMLURL,
		)
		record := *existing
		record.Created = false
		return record, nil
	}

	created, err := host.CreateRelease(ctx, tag.String(), tag.String())
	if err != nil {
		return model.ReleaseRecord{}, goerr.Wrap(err, "failed to create release",
			goerr.V("tag", tag),
			goerr.T(types.ErrTagRelease),
		)
	}
	if created == nil {
		return model.ReleaseRecord{}, goerr.New("release host returned no release",
			goerr.V("tag", tag),
			goerr.T(types.ErrTagRelease),
		)
	}

	logger.Info("Created release",
		"tag", tag,
		"release_id", created.ID,
		"url", created.HTMLURL,
	)
	record := *created
	record.Created = true
	return record, nil
}
