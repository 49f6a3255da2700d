package usecase

import (
	"fmt"

	"github.com/m-mizutani/drydock/pkg/domain/model"
)

// GateDecision is the outcome of evaluating the job gate
type GateDecision struct {
	Admitted bool
	Reason   string
}

// EvaluateGate decides whether job may run under selection and version.
// It is pure; callers evaluate it again before every step instead of caching it.
func EvaluateGate(selection model.PlatformSelection, job model.JobInstance, version model.VersionInfo) GateDecision {
	if selection != model.SelectAll && selection != job.Family.Selection() {
		return GateDecision{
			Reason: fmt.Sprintf("platform %q not selected", job.Family.Selection()),
		}
	}

	if job.Family == model.FamilyMobilePackage {
		if !version.ReleaseEligible && job.Cell.Network != model.Testnet {
			return GateDecision{
				Reason: fmt.Sprintf("%s build requires a release-eligible version", job.Cell.Network),
			}
		}
	}

	return GateDecision{Admitted: true}
}

// Admit reports whether job may run
func Admit(selection model.PlatformSelection, job model.JobInstance, version model.VersionInfo) bool {
	return EvaluateGate(selection, job, version).Admitted
}
