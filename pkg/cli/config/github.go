package config

import (
	"os"
	"strings"

	"github.com/m-mizutani/drydock/pkg/domain/interfaces"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	githubinfra "github.com/m-mizutani/drydock/pkg/infra/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// GitHub holds the release host configuration
type GitHub struct {
	Owner          string
	Repo           string
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	BaseURL        string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-owner",
			Usage:       "Owner of the repository releases are published to",
			Required:    true,
			Destination: &c.Owner,
			Sources:     cli.EnvVars("DRYDOCK_GITHUB_OWNER"),
		},
		&cli.StringFlag{
			Name:        "github-repo",
			Usage:       "Name of the repository releases are published to",
			Required:    true,
			Destination: &c.Repo,
			Sources:     cli.EnvVars("DRYDOCK_GITHUB_REPO"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token with contents:write permission",
			Destination: &c.Token,
			Sources:     cli.EnvVars("DRYDOCK_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID (used instead of a token when set)",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("DRYDOCK_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("DRYDOCK_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM content or file path)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("DRYDOCK_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub Enterprise base URL",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("DRYDOCK_GITHUB_BASE_URL"),
		},
	}
}

// NewReleaseHost builds the release host client. App authentication wins
// over a token when an App ID is configured.
func (c *GitHub) NewReleaseHost() (interfaces.ReleaseHost, error) {
	var opts []githubinfra.Option
	if c.BaseURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.BaseURL))
	}

	if c.AppID == 0 {
		return githubinfra.NewTokenClient(c.Owner, c.Repo, c.Token, opts...)
	}

	if c.InstallationID == 0 || c.PrivateKey == "" {
		return nil, goerr.New("GitHub App requires installation ID and private key",
			goerr.V("app_id", c.AppID),
			goerr.T(types.ErrTagConfig),
		)
	}

	key, err := c.privateKey()
	if err != nil {
		return nil, err
	}
	return githubinfra.NewAppClient(c.Owner, c.Repo, c.AppID, c.InstallationID, key, opts...)
}

func (c *GitHub) privateKey() ([]byte, error) {
	if strings.HasPrefix(strings.TrimSpace(c.PrivateKey), "-----BEGIN") {
		return []byte(c.PrivateKey), nil
	}
	key, err := os.ReadFile(c.PrivateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.T(types.ErrTagConfig))
	}
	return key, nil
}
