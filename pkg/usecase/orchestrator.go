package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drydock/pkg/domain/interfaces"
	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/drydock/pkg/utils/async"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Orchestrator runs one release build: version, release record, then every
// admitted job instance with its uploads.
type Orchestrator struct {
	versions  interfaces.VersionSource
	host      interfaces.ReleaseHost
	executors map[model.Family]*Executor
	notifier  interfaces.Notifier

	dims         model.Dimensions
	parallel     int
	jobTimeout   time.Duration
	strictUpload bool
}

// OrchestratorOption is a functional option for Orchestrator
type OrchestratorOption func(*Orchestrator)

// WithParallel caps how many families build at the same time. Values <= 0 mean no cap.
func WithParallel(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.parallel = n
	}
}

// WithJobTimeout bounds each job instance. Zero disables the bound.
func WithJobTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.jobTimeout = d
	}
}

// WithStrictUpload makes failed uploads fail the run
func WithStrictUpload(strict bool) OrchestratorOption {
	return func(o *Orchestrator) {
		o.strictUpload = strict
	}
}

// WithNotifier sets where run summaries are published
func WithNotifier(n interfaces.Notifier) OrchestratorOption {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// WithDimensions overrides the mobile matrix dimensions
func WithDimensions(dims model.Dimensions) OrchestratorOption {
	return func(o *Orchestrator) {
		o.dims = dims
	}
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(
	versions interfaces.VersionSource,
	host interfaces.ReleaseHost,
	executors map[model.Family]*Executor,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		versions:  versions,
		host:      host,
		executors: executors,
		dims:      model.DefaultDimensions(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func validateTrigger(trigger model.Trigger) error {
	if err := trigger.Tag.Validate(); err != nil {
		return err
	}
	if _, err := model.ParseSelection(string(trigger.Selection)); err != nil {
		return err
	}
	return nil
}

// Plan resolves the version and evaluates the gate for every job instance
// without touching the release host or running any build step.
func (o *Orchestrator) Plan(ctx context.Context, trigger model.Trigger) (*model.RunPlan, error) {
	if err := validateTrigger(trigger); err != nil {
		return nil, err
	}

	version, err := ResolveVersion(ctx, o.versions)
	if err != nil {
		return nil, err
	}

	plan := &model.RunPlan{Trigger: trigger, Version: *version}
	for job := range JobInstances(o.dims) {
		decision := EvaluateGate(trigger.Selection, job, *version)
		planned := model.PlannedJob{
			Job:      job,
			Admitted: decision.Admitted,
			Reason:   decision.Reason,
		}
		if exec, ok := o.executors[job.Family]; ok {
			planned.Artifacts = exec.Outputs(job, *version)
		}
		plan.Jobs = append(plan.Jobs, planned)
	}
	return plan, nil
}

// Run executes the release build for trigger. The returned report is non-nil
// whenever the release record was acquired, even if jobs failed.
func (o *Orchestrator) Run(ctx context.Context, trigger model.Trigger) (*model.RunReport, error) {
	runID := uuid.NewString()
	logger := ctxlog.From(ctx).With("run_id", runID, "tag", trigger.Tag, "platform", trigger.Selection)
	ctx = ctxlog.With(ctx, logger)

	if err := validateTrigger(trigger); err != nil {
		return nil, err
	}

	logger.Info("Starting release build")

	version, err := ResolveVersion(ctx, o.versions)
	if err != nil {
		return nil, err
	}

	release, err := AcquireRelease(ctx, o.host, trigger.Tag)
	if err != nil {
		return nil, err
	}

	var jobs []model.JobInstance
	for job := range JobInstances(o.dims) {
		jobs = append(jobs, job)
	}

	results := make([]model.JobResult, len(jobs))

	// Families run in parallel; cells of one family share a workspace and run in order.
	var eg errgroup.Group
	if o.parallel > 0 {
		eg.SetLimit(o.parallel)
	}
	for _, family := range model.Families {
		eg.Go(func() error {
			for i, job := range jobs {
				if job.Family != family {
					continue
				}
				results[i] = o.runJob(ctx, trigger.Selection, job, *version, release)
			}
			return nil
		})
	}
	_ = eg.Wait()

	report := &model.RunReport{
		RunID:   runID,
		Trigger: trigger,
		Version: *version,
		Release: release,
		Jobs:    results,
	}
	logReport(ctx, report)

	if o.notifier != nil {
		if err := o.notifier.NotifyRun(ctx, report); err != nil {
			logger.Warn("Failed to publish run summary", "error", err)
		}
	}

	if failed := report.FailedJobs(); len(failed) > 0 {
		ids := make([]string, 0, len(failed))
		for _, j := range failed {
			ids = append(ids, j.Job.ID())
		}
		return report, goerr.New("release build failed",
			goerr.V("failed_jobs", ids),
			goerr.T(types.ErrTagBuild),
		)
	}
	if o.strictUpload && report.FailedUploads() > 0 {
		return report, goerr.New("some artifacts were not uploaded",
			goerr.V("failed_uploads", report.FailedUploads()),
			goerr.T(types.ErrTagUpload),
		)
	}

	return report, nil
}

// runJob drives one job instance. The gate is evaluated again before each step.
func (o *Orchestrator) runJob(
	ctx context.Context,
	selection model.PlatformSelection,
	job model.JobInstance,
	version model.VersionInfo,
	release model.ReleaseRecord,
) model.JobResult {
	logger := ctxlog.From(ctx).With("job", job.ID())
	ctx = ctxlog.With(ctx, logger)
	result := model.JobResult{Job: job}

	admitted := func() bool { return Admit(selection, job, version) }

	if decision := EvaluateGate(selection, job, version); !decision.Admitted {
		logger.Info("Skipping job", "reason", decision.Reason)
		result.Status = model.JobSkipped
		result.SkipReason = decision.Reason
		return result
	}

	exec, ok := o.executors[job.Family]
	if !ok {
		result.Status = model.JobFailed
		result.Err = goerr.New("no executor for family",
			goerr.V("family", job.Family),
			goerr.T(types.ErrTagBuild),
		)
		return result
	}

	if o.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.jobTimeout)
		defer cancel()
	}

	started := time.Now()
	err := async.Safe(ctx, func(ctx context.Context) error {
		if !admitted() {
			return nil
		}
		if err := exec.Prepare(ctx, job, version); err != nil {
			return err
		}
		if !admitted() {
			return nil
		}
		if err := exec.Build(ctx, job, version); err != nil {
			return err
		}

		for _, artifact := range exec.Outputs(job, version) {
			if !admitted() {
				result.Uploads = append(result.Uploads, model.UploadResult{Artifact: artifact, Status: model.UploadSkipped})
				continue
			}
			result.Uploads = append(result.Uploads, UploadArtifact(ctx, o.host, release, artifact))
		}
		return nil
	})
	result.Duration = time.Since(started)

	if err != nil {
		logger.Error("Job failed", "error", err, "duration", result.Duration)
		result.Status = model.JobFailed
		result.Err = err
		return result
	}

	result.Status = model.JobSucceeded
	logger.Info("Job finished",
		"duration", result.Duration,
		"uploads", len(result.Uploads),
		"failed_uploads", result.FailedUploads(),
	)
	return result
}

func logReport(ctx context.Context, report *model.RunReport) {
	logger := ctxlog.From(ctx)

	for _, j := range report.Jobs {
		attrs := []any{
			"job", j.Job.ID(),
			"status", j.Status,
		}
		if j.SkipReason != "" {
			attrs = append(attrs, "reason", j.SkipReason)
		}
		if j.Err != nil {
			attrs = append(attrs, "error", j.Err)
		}
		for _, u := range j.Uploads {
			if u.Status == model.UploadFailed {
				attrs = append(attrs, "failed_upload", u.Artifact.TargetName)
			}
		}
		logger.Info("Job result", attrs...)
	}

	logger.Info("Release build finished",
		"release_id", report.Release.ID,
		"release_url", report.Release.HTMLURL,
		"failed_jobs", len(report.FailedJobs()),
		"failed_uploads", report.FailedUploads(),
	)
}
