package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/fatih/color"
	"github.com/m-mizutani/drydock/pkg/cli/config"
	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/drydock/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdPlan() *cli.Command {
	var (
		trigger  triggerFlags
		repoCfg  config.Repository
		buildCfg config.Build
	)

	return &cli.Command{
		Name:  "plan",
		Usage: "Show which jobs a run would execute and what it would upload",
		Flags: slices.Concat(
			trigger.Flags(),
			repoCfg.Flags(),
			buildCfg.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			t, err := trigger.Trigger()
			if err != nil {
				return err
			}

			executors, err := buildCfg.NewExecutors(repoCfg.Dir)
			if err != nil {
				return err
			}

			// Planning never touches the release host
			orchestrator := usecase.NewOrchestrator(repoCfg.NewVersionSource(), nil, executors)
			plan, err := orchestrator.Plan(ctx, t)
			if err != nil {
				return err
			}

			printPlan(c.Root().Writer, plan)
			return nil
		},
	}
}

var (
	admittedColor = color.New(color.FgGreen, color.Bold)
	skippedColor  = color.New(color.FgYellow)
	headerColor   = color.New(color.Bold)
	faintColor    = color.New(color.Faint)
)

func printPlan(w io.Writer, plan *model.RunPlan) {
	v := plan.Version
	headerColor.Fprintf(w, "Release %s (platform: %s)\n", plan.Trigger.Tag, plan.Trigger.Selection)
	fmt.Fprintf(w, "  version:        %s\n", v.PackageVersion)
	fmt.Fprintf(w, "  mobile version: %s (code %d)\n", v.MobilePackageVersion, v.MobileVersionCode)
	fmt.Fprintf(w, "  eligible:       %t\n\n", v.ReleaseEligible)

	for _, job := range plan.Jobs {
		if !job.Admitted {
			skippedColor.Fprintf(w, "- %-32s", job.Job.ID())
			faintColor.Fprintf(w, " skip: %s\n", job.Reason)
			continue
		}
		admittedColor.Fprintf(w, "+ %s\n", job.Job.ID())
		for _, a := range job.Artifacts {
			fmt.Fprintf(w, "    %s ", a.TargetName)
			faintColor.Fprintf(w, "<- %s\n", a.SourcePath)
		}
	}
}
