package config

import (
	"github.com/m-mizutani/drydock/pkg/infra/repository"
	"github.com/urfave/cli/v3"
)

// Repository points at the checked out source tree
type Repository struct {
	Dir         string
	VersionFile string
}

// Flags returns CLI flags for repository configuration
func (c *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repo-dir",
			Usage:       "Path to the checked out repository",
			Value:       ".",
			Destination: &c.Dir,
			Sources:     cli.EnvVars("DRYDOCK_REPO_DIR"),
		},
		&cli.StringFlag{
			Name:        "version-file",
			Usage:       "Version file path relative to the repository",
			Value:       repository.DefaultVersionFile,
			Destination: &c.VersionFile,
			Sources:     cli.EnvVars("DRYDOCK_VERSION_FILE"),
		},
	}
}

// NewVersionSource returns the version source reading this repository
func (c *Repository) NewVersionSource() *repository.Source {
	return repository.New(c.Dir, repository.WithVersionFile(c.VersionFile))
}
