package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drydock/pkg/domain/interfaces"
	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// UploadArtifact attaches one artifact to the release. It makes exactly one
// attempt. An asset already present under the same name counts as done, which
// lets a re-run fill in only what a previous run failed to upload.
func UploadArtifact(ctx context.Context, host interfaces.ReleaseHost, release model.ReleaseRecord, artifact model.Artifact) model.UploadResult {
	logger := ctxlog.From(ctx)

	err := host.UploadAsset(ctx, release, artifact)
	switch {
	case err == nil:
		logger.Info("Uploaded artifact",
			"name", artifact.TargetName,
			"content_type", artifact.ContentType,
			"release_id", release.ID,
		)
		return model.UploadResult{Artifact: artifact, Status: model.UploadDone}

	case goerr.HasTag(err, types.ErrTagAssetExists):
		logger.Info("Artifact already attached to release",
			"name", artifact.TargetName,
			"release_id", release.ID,
		)
		return model.UploadResult{Artifact: artifact, Status: model.UploadExists}

	default:
		wrapped := goerr.Wrap(err, "failed to upload artifact",
			goerr.V("artifact", artifact.TargetName),
			goerr.V("path", artifact.SourcePath),
			goerr.V("release_id", release.ID),
			goerr.T(types.ErrTagUpload),
		)
		logger.Error("Upload failed", "name", artifact.TargetName, "error", wrapped)
		return model.UploadResult{Artifact: artifact, Status: model.UploadFailed, Err: wrapped}
	}
}
