package model

import (
	"strings"
	"time"
)

// Trigger is the input that starts one orchestration run
type Trigger struct {
	Tag       ReleaseTag
	Selection PlatformSelection
}

// JobInstance is one concrete unit of work: a family plus an optional matrix cell
type JobInstance struct {
	Family Family
	Cell   MatrixCell
}

// ID returns a stable identifier such as "desktop-image" or "mobile-package/armv7/testnet"
func (j JobInstance) ID() string {
	if j.Cell.IsZero() {
		return string(j.Family)
	}
	return strings.Join([]string{string(j.Family), string(j.Cell.Architecture), string(j.Cell.Network)}, "/")
}

// JobStatus is the final state of a job instance
type JobStatus string

const (
	JobSkipped   JobStatus = "skipped"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// UploadStatus is the final state of one artifact upload
type UploadStatus string

const (
	UploadDone    UploadStatus = "uploaded"
	UploadExists  UploadStatus = "exists"
	UploadFailed  UploadStatus = "failed"
	UploadSkipped UploadStatus = "skipped"
)

// UploadResult reports one artifact upload
type UploadResult struct {
	Artifact Artifact
	Status   UploadStatus
	Err      error
}

// JobResult reports one job instance
type JobResult struct {
	Job        JobInstance
	Status     JobStatus
	SkipReason string
	Err        error
	Uploads    []UploadResult
	Duration   time.Duration
}

// FailedUploads counts uploads that did not reach the release
func (r *JobResult) FailedUploads() int {
	n := 0
	for _, u := range r.Uploads {
		if u.Status == UploadFailed {
			n++
		}
	}
	return n
}

// RunReport summarizes one orchestration run
type RunReport struct {
	RunID   string
	Trigger Trigger
	Version VersionInfo
	Release ReleaseRecord
	Jobs    []JobResult
}

// FailedJobs returns the job instances whose prepare or build step failed
func (r *RunReport) FailedJobs() []JobResult {
	var failed []JobResult
	for _, j := range r.Jobs {
		if j.Status == JobFailed {
			failed = append(failed, j)
		}
	}
	return failed
}

// FailedUploads counts failed uploads across all jobs
func (r *RunReport) FailedUploads() int {
	n := 0
	for i := range r.Jobs {
		n += r.Jobs[i].FailedUploads()
	}
	return n
}

// PlannedJob is a job instance with its gate decision and expected artifacts
type PlannedJob struct {
	Job       JobInstance
	Admitted  bool
	Reason    string
	Artifacts []Artifact
}

// RunPlan is the dry-run view of an orchestration run
type RunPlan struct {
	Trigger Trigger
	Version VersionInfo
	Jobs    []PlannedJob
}
