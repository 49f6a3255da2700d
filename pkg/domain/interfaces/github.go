package interfaces

import (
	"context"

	"github.com/m-mizutani/drydock/pkg/domain/model"
)

// ReleaseHost defines release operations on the version-control hosting service
type ReleaseHost interface {
	// FindReleaseByTag returns the release bound to tag, or nil if none exists
	FindReleaseByTag(ctx context.Context, tag string) (*model.ReleaseRecord, error)

	// CreateRelease creates a published, non-draft, non-prerelease release
	CreateRelease(ctx context.Context, tag, title string) (*model.ReleaseRecord, error)

	// UploadAsset attaches the file at artifact.SourcePath to the release.
	// Implementations tag duplicate-name rejections with types.ErrTagAssetExists.
	UploadAsset(ctx context.Context, release model.ReleaseRecord, artifact model.Artifact) error
}
