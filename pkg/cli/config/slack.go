package config

import (
	"github.com/m-mizutani/drydock/pkg/domain/interfaces"
	slacknotify "github.com/m-mizutani/drydock/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds run summary notification settings
type Slack struct {
	Token   string `masq:"secret"`
	Channel string
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-token",
			Usage:       "Slack bot token for run summaries",
			Destination: &c.Token,
			Sources:     cli.EnvVars("DRYDOCK_SLACK_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID for run summaries",
			Destination: &c.Channel,
			Sources:     cli.EnvVars("DRYDOCK_SLACK_CHANNEL"),
		},
	}
}

// NewNotifier returns a Slack notifier, or nil when Slack is not configured
func (c *Slack) NewNotifier() interfaces.Notifier {
	if c.Token == "" || c.Channel == "" {
		return nil
	}
	return slacknotify.New(c.Token, c.Channel)
}
