package config

import (
	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr            string
	WebhookSecret   string `masq:"secret"`
	WebhookPlatform string
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("DRYDOCK_ADDR"),
		},
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret",
			Required:    true,
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("DRYDOCK_GITHUB_WEBHOOK_SECRET"),
		},
		&cli.StringFlag{
			Name:        "webhook-platform",
			Usage:       "Platform selection for webhook triggered runs (all, windows_linux, osx, android)",
			Value:       string(model.SelectAll),
			Destination: &c.WebhookPlatform,
			Sources:     cli.EnvVars("DRYDOCK_WEBHOOK_PLATFORM"),
		},
	}
}

// Selection parses the webhook platform selection
func (c *Server) Selection() (model.PlatformSelection, error) {
	return model.ParseSelection(c.WebhookPlatform)
}
