package cli

import (
	"context"
	"slices"

	"github.com/m-mizutani/drydock/pkg/cli/config"
	"github.com/m-mizutani/drydock/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var (
		trigger   triggerFlags
		githubCfg config.GitHub
		repoCfg   config.Repository
		buildCfg  config.Build
		slackCfg  config.Slack
	)

	return &cli.Command{
		Name:  "run",
		Usage: "Build and publish release artifacts for a tag",
		Flags: slices.Concat(
			trigger.Flags(),
			githubCfg.Flags(),
			repoCfg.Flags(),
			buildCfg.Flags(),
			slackCfg.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			t, err := trigger.Trigger()
			if err != nil {
				return err
			}

			orchestrator, err := newOrchestrator(&githubCfg, &repoCfg, &buildCfg, &slackCfg)
			if err != nil {
				return err
			}

			if _, err := orchestrator.Run(ctx, t); err != nil {
				return goerr.Wrap(err, "release build failed", goerr.V("tag", t.Tag))
			}
			return nil
		},
	}
}

// newOrchestrator wires the release host, version source, executors and notifier
func newOrchestrator(
	githubCfg *config.GitHub,
	repoCfg *config.Repository,
	buildCfg *config.Build,
	slackCfg *config.Slack,
) (*usecase.Orchestrator, error) {
	host, err := githubCfg.NewReleaseHost()
	if err != nil {
		return nil, err
	}

	executors, err := buildCfg.NewExecutors(repoCfg.Dir)
	if err != nil {
		return nil, err
	}

	opts := buildCfg.OrchestratorOptions()
	if notifier := slackCfg.NewNotifier(); notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}

	return usecase.NewOrchestrator(repoCfg.NewVersionSource(), host, executors, opts...), nil
}
