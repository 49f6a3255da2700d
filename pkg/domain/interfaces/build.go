package interfaces

import (
	"context"

	"github.com/m-mizutani/drydock/pkg/domain/model"
)

// VersionSource reads version identifiers from repository state
type VersionSource interface {
	Version(ctx context.Context) (*model.VersionInfo, error)
}

// BuildProcedure runs the opaque, external prepare and build steps of a job instance
type BuildProcedure interface {
	Prepare(ctx context.Context, job model.JobInstance, version model.VersionInfo) error
	Build(ctx context.Context, job model.JobInstance, version model.VersionInfo) error
}

// Notifier publishes a run summary
type Notifier interface {
	NotifyRun(ctx context.Context, report *model.RunReport) error
}
