package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drydock/pkg/domain/interfaces"
	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// outputsFunc lists the files a family leaves behind, relative to the work dir
type outputsFunc func(job model.JobInstance, v model.VersionInfo) []model.Artifact

// Executor runs the prepare and build steps of one platform family and knows
// where its outputs land.
type Executor struct {
	family    model.Family
	workDir   string
	procedure interfaces.BuildProcedure
	outputs   outputsFunc
}

// NewExecutors returns one executor per family, all rooted at workDir
func NewExecutors(workDir string, procedure interfaces.BuildProcedure) map[model.Family]*Executor {
	return map[model.Family]*Executor{
		model.FamilyDesktopImage: {
			family: model.FamilyDesktopImage, workDir: workDir, procedure: procedure, outputs: desktopImageOutputs,
		},
		model.FamilyMobilePackage: {
			family: model.FamilyMobilePackage, workDir: workDir, procedure: procedure, outputs: mobilePackageOutputs,
		},
		model.FamilyCrossCompiled: {
			family: model.FamilyCrossCompiled, workDir: workDir, procedure: procedure, outputs: crossCompiledOutputs,
		},
	}
}

// Family returns the family this executor builds
func (e *Executor) Family() model.Family { return e.family }

// Outputs returns the artifacts the build leaves behind. Pure function of job and version.
func (e *Executor) Outputs(job model.JobInstance, v model.VersionInfo) []model.Artifact {
	artifacts := e.outputs(job, v)
	for i := range artifacts {
		artifacts[i].SourcePath = filepath.Join(e.workDir, artifacts[i].SourcePath)
	}
	return artifacts
}

// Prepare runs the external prepare step
func (e *Executor) Prepare(ctx context.Context, job model.JobInstance, v model.VersionInfo) error {
	ctxlog.From(ctx).Info("Preparing build", "job", job.ID())
	if err := e.procedure.Prepare(ctx, job, v); err != nil {
		return goerr.Wrap(err, "prepare step failed", goerr.V("job", job.ID()), goerr.T(types.ErrTagBuild))
	}
	return nil
}

// Build runs the external build step and checks every expected output exists
func (e *Executor) Build(ctx context.Context, job model.JobInstance, v model.VersionInfo) error {
	ctxlog.From(ctx).Info("Building", "job", job.ID())
	if err := e.procedure.Build(ctx, job, v); err != nil {
		return goerr.Wrap(err, "build step failed", goerr.V("job", job.ID()), goerr.T(types.ErrTagBuild))
	}

	for _, a := range e.Outputs(job, v) {
		if _, err := os.Stat(a.SourcePath); err != nil {
			return goerr.Wrap(err, "build did not produce expected output",
				goerr.V("job", job.ID()),
				goerr.V("path", a.SourcePath),
				goerr.T(types.ErrTagBuild),
			)
		}
	}
	return nil
}

func desktopImageOutputs(_ model.JobInstance, v model.VersionInfo) []model.Artifact {
	name := model.DesktopArtifactName(v.PackageVersion, "macosx.dmg")
	return []model.Artifact{
		{SourcePath: filepath.Join("dist", name), TargetName: name, ContentType: model.ContentTypeDiskImage},
	}
}

func mobilePackageOutputs(job model.JobInstance, v model.VersionInfo) []model.Artifact {
	name := model.MobileArtifactName(job.Cell.Network, v.MobilePackageVersion, job.Cell.Architecture)
	return []model.Artifact{
		{SourcePath: filepath.Join("bin", name), TargetName: name, ContentType: model.ContentTypeAndroidPkg},
	}
}

func crossCompiledOutputs(_ model.JobInstance, v model.VersionInfo) []model.Artifact {
	tarball := model.SourceDistName(v.PackageVersion, "tar.gz")
	zipball := model.SourceDistName(v.PackageVersion, "zip")
	appImage := model.DesktopArtifactName(v.PackageVersion, "x86_64.AppImage")
	win64 := model.DesktopArtifactName(v.PackageVersion, "setup-win64.exe")
	win32 := model.DesktopArtifactName(v.PackageVersion, "setup-win32.exe")
	wineDist := filepath.Join("contrib", "build-wine", "dist")

	return []model.Artifact{
		{SourcePath: filepath.Join("dist", tarball), TargetName: tarball, ContentType: model.ContentTypeGzip},
		{SourcePath: filepath.Join("dist", zipball), TargetName: zipball, ContentType: model.ContentTypeZip},
		{SourcePath: filepath.Join("dist", appImage), TargetName: appImage, ContentType: model.ContentTypeAppImage},
		{SourcePath: filepath.Join(wineDist, win64), TargetName: win64, ContentType: model.ContentTypeExecutable},
		{SourcePath: filepath.Join(wineDist, win32), TargetName: win32, ContentType: model.ContentTypeExecutable},
	}
}
