package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/drydock/pkg/cli/config"
	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestGitHub_NewReleaseHost(t *testing.T) {
	t.Run("token client", func(t *testing.T) {
		cfg := config.GitHub{Owner: "dashpay", Repo: "electrum-dash", Token: "token"}
		host, err := cfg.NewReleaseHost()
		gt.NoError(t, err)
		gt.Value(t, host).NotNil()
	})

	t.Run("app without installation", func(t *testing.T) {
		cfg := config.GitHub{Owner: "dashpay", Repo: "electrum-dash", AppID: 1, PrivateKey: "key"}
		_, err := cfg.NewReleaseHost()
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagConfig))
	})

	t.Run("app private key file missing", func(t *testing.T) {
		cfg := config.GitHub{
			Owner:          "dashpay",
			Repo:           "electrum-dash",
			AppID:          1,
			InstallationID: 2,
			PrivateKey:     filepath.Join(t.TempDir(), "missing.pem"),
		}
		_, err := cfg.NewReleaseHost()
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagConfig))
	})

	t.Run("missing repository", func(t *testing.T) {
		cfg := config.GitHub{Owner: "dashpay", Token: "token"}
		_, err := cfg.NewReleaseHost()
		gt.Error(t, err)
	})
}

func TestServer_Selection(t *testing.T) {
	sel, err := (&config.Server{WebhookPlatform: "android"}).Selection()
	gt.NoError(t, err)
	gt.Value(t, sel).Equal(model.SelectMobile)

	_, err = (&config.Server{WebhookPlatform: "ios"}).Selection()
	gt.Error(t, err)
}

func TestSlack_NewNotifier(t *testing.T) {
	gt.Value(t, (&config.Slack{}).NewNotifier()).Nil()
	gt.Value(t, (&config.Slack{Token: "xoxb"}).NewNotifier()).Nil()
	gt.Value(t, (&config.Slack{Token: "xoxb", Channel: "C123"}).NewNotifier()).NotNil()
}

func TestSentry_Disabled(t *testing.T) {
	cfg := config.Sentry{}
	gt.False(t, cfg.Enabled())
	gt.NoError(t, cfg.Configure())
}

func TestBuild_NewExecutors(t *testing.T) {
	repoDir := t.TempDir()

	t.Run("defaults to repository directory", func(t *testing.T) {
		executors, err := (&config.Build{}).NewExecutors(repoDir)
		gt.NoError(t, err)
		gt.Value(t, len(executors)).Equal(len(model.Families))

		job := model.JobInstance{Family: model.FamilyDesktopImage}
		outputs := executors[model.FamilyDesktopImage].Outputs(job, model.VersionInfo{PackageVersion: "5.0.3"})
		gt.Value(t, outputs[0].SourcePath).Equal(filepath.Join(repoDir, "dist", "Dash-Electrum-5.0.3-macosx.dmg"))
	})

	t.Run("build config is loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "build.toml")
		gt.NoError(t, os.WriteFile(path, []byte("[[desktop-image.build]]\ncommand = \"make\"\n"), 0644))

		_, err := (&config.Build{ConfigPath: path}).NewExecutors(repoDir)
		gt.NoError(t, err)
	})

	t.Run("broken build config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "build.toml")
		gt.NoError(t, os.WriteFile(path, []byte("[[ios.build]]\ncommand = \"make\"\n"), 0644))

		_, err := (&config.Build{ConfigPath: path}).NewExecutors(repoDir)
		gt.Error(t, err)
	})
}

func TestBuild_OrchestratorOptions(t *testing.T) {
	opts := (&config.Build{Parallel: 2, JobTimeout: time.Hour, StrictUpload: true}).OrchestratorOptions()
	gt.Array(t, opts).Length(3)
}
