package config

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Sentry holds error reporting configuration
type Sentry struct {
	DSN string `masq:"secret"`
	Env string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for reporting failed runs",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("DRYDOCK_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Value:       "production",
			Destination: &c.Env,
			Sources:     cli.EnvVars("DRYDOCK_SENTRY_ENV"),
		},
	}
}

// Enabled reports whether a DSN is configured
func (c *Sentry) Enabled() bool { return c.DSN != "" }

// Configure initializes the global Sentry client. Without a DSN it does nothing.
func (c *Sentry) Configure() error {
	if !c.Enabled() {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Env,
		Release:     types.Version,
	}); err != nil {
		return goerr.Wrap(err, "failed to initialize Sentry", goerr.T(types.ErrTagConfig))
	}
	return nil
}

// Capture sends err to Sentry and waits for delivery
func (c *Sentry) Capture(ctx context.Context, err error, values map[string]string) {
	if !c.Enabled() || err == nil {
		return
	}

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(values)
		if goErr := goerr.Unwrap(err); goErr != nil {
			scope.SetContext("goerr", goErr.Values())
		}
	})
	eventID := hub.CaptureException(err)

	if !hub.Flush(2 * time.Second) {
		ctxlog.From(ctx).Warn("Timed out sending error to Sentry")
		return
	}
	if eventID != nil {
		ctxlog.From(ctx).Info("Error reported to Sentry", "event_id", *eventID)
	}
}
