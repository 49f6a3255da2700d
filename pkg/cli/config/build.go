package config

import (
	"time"

	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/drydock/pkg/infra/script"
	"github.com/m-mizutani/drydock/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Build holds build execution settings
type Build struct {
	ConfigPath   string
	WorkDir      string
	Parallel     int
	JobTimeout   time.Duration
	StrictUpload bool
}

// Flags returns CLI flags for build configuration
func (c *Build) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "build-config",
			Usage:       "TOML file overriding the build procedures",
			Destination: &c.ConfigPath,
			Sources:     cli.EnvVars("DRYDOCK_BUILD_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "work-dir",
			Usage:       "Directory build steps run in (defaults to --repo-dir)",
			Destination: &c.WorkDir,
			Sources:     cli.EnvVars("DRYDOCK_WORK_DIR"),
		},
		&cli.IntFlag{
			Name:        "parallel",
			Usage:       "Maximum number of platform families built at once (0 for no limit)",
			Value:       0,
			Destination: &c.Parallel,
			Sources:     cli.EnvVars("DRYDOCK_PARALLEL"),
		},
		&cli.DurationFlag{
			Name:        "job-timeout",
			Usage:       "Timeout for each job instance (0 for none)",
			Destination: &c.JobTimeout,
			Sources:     cli.EnvVars("DRYDOCK_JOB_TIMEOUT"),
		},
		&cli.BoolFlag{
			Name:        "strict-upload",
			Usage:       "Fail the run when any artifact upload fails",
			Destination: &c.StrictUpload,
			Sources:     cli.EnvVars("DRYDOCK_STRICT_UPLOAD"),
		},
	}
}

// NewExecutors returns the family executors running configured procedures
func (c *Build) NewExecutors(repoDir string) (map[model.Family]*usecase.Executor, error) {
	workDir := c.WorkDir
	if workDir == "" {
		workDir = repoDir
	}

	var opts []script.RunnerOption
	if c.ConfigPath != "" {
		cfg, err := script.LoadConfig(c.ConfigPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, script.WithConfig(cfg))
	}

	return usecase.NewExecutors(workDir, script.NewRunner(workDir, opts...)), nil
}

// OrchestratorOptions returns the run settings as orchestrator options
func (c *Build) OrchestratorOptions() []usecase.OrchestratorOption {
	return []usecase.OrchestratorOption{
		usecase.WithParallel(c.Parallel),
		usecase.WithJobTimeout(c.JobTimeout),
		usecase.WithStrictUpload(c.StrictUpload),
	}
}
