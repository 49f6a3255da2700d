package github

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/drydock/pkg/domain/interfaces"
	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type client struct {
	githubClient *github.Client
	owner        string
	repo         string
}

type options struct {
	baseURL string
}

// Option configures the GitHub client
type Option func(*options)

// WithBaseURL points the client at a GitHub Enterprise server (or a test server)
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// NewTokenClient creates a release host authenticated with a personal or workflow token
func NewTokenClient(owner, repo, token string, opts ...Option) (interfaces.ReleaseHost, error) {
	cfg := applyOptions(opts)

	githubClient := github.NewClient(nil)
	if token != "" {
		githubClient = githubClient.WithAuthToken(token)
	}
	return newClient(githubClient, owner, repo, cfg)
}

// NewAppClient creates a release host with GitHub App installation authentication
func NewAppClient(owner, repo string, appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.ReleaseHost, error) {
	cfg := applyOptions(opts)

	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
		)
	}
	if cfg.baseURL != "" {
		itr.BaseURL = strings.TrimSuffix(cfg.baseURL, "/") + "/api/v3"
	}

	return newClient(github.NewClient(&http.Client{Transport: itr}), owner, repo, cfg)
}

func applyOptions(opts []Option) *options {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func newClient(githubClient *github.Client, owner, repo string, cfg *options) (interfaces.ReleaseHost, error) {
	if owner == "" || repo == "" {
		return nil, goerr.New("repository owner and name are required",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.T(types.ErrTagConfig),
		)
	}

	if cfg.baseURL != "" {
		enterprise, err := githubClient.WithEnterpriseURLs(cfg.baseURL, cfg.baseURL)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub base URL",
				goerr.V("base_url", cfg.baseURL),
				goerr.T(types.ErrTagConfig),
			)
		}
		githubClient = enterprise
	}

	return &client{
		githubClient: githubClient,
		owner:        owner,
		repo:         repo,
	}, nil
}

// FindReleaseByTag returns the published release for tag, or nil when GitHub has none
func (c *client) FindReleaseByTag(ctx context.Context, tag string) (*model.ReleaseRecord, error) {
	release, resp, err := c.githubClient.Repositories.GetReleaseByTag(ctx, c.owner, c.repo, tag)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get release by tag",
			goerr.V("owner", c.owner),
			goerr.V("repo", c.repo),
			goerr.V("tag", tag),
		)
	}

	record := toRecord(release)
	return &record, nil
}

// CreateRelease creates a published release titled title for tag
func (c *client) CreateRelease(ctx context.Context, tag, title string) (*model.ReleaseRecord, error) {
	release, _, err := c.githubClient.Repositories.CreateRelease(ctx, c.owner, c.repo, &github.RepositoryRelease{
		TagName:    github.Ptr(tag),
		Name:       github.Ptr(title),
		Draft:      github.Ptr(false),
		Prerelease: github.Ptr(false),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create release",
			goerr.V("owner", c.owner),
			goerr.V("repo", c.repo),
			goerr.V("tag", tag),
		)
	}

	record := toRecord(release)
	return &record, nil
}

// UploadAsset uploads the artifact file as a release asset
func (c *client) UploadAsset(ctx context.Context, release model.ReleaseRecord, artifact model.Artifact) error {
	file, err := os.Open(artifact.SourcePath)
	if err != nil {
		return goerr.Wrap(err, "failed to open artifact", goerr.V("path", artifact.SourcePath))
	}
	defer file.Close()

	_, _, err = c.githubClient.Repositories.UploadReleaseAsset(ctx, c.owner, c.repo, release.ID, &github.UploadOptions{
		Name:      artifact.TargetName,
		MediaType: string(artifact.ContentType),
	}, file)
	if err != nil {
		opts := []goerr.Option{
			goerr.V("release_id", release.ID),
			goerr.V("name", artifact.TargetName),
		}
		if isAlreadyExists(err) {
			opts = append(opts, goerr.T(types.ErrTagAssetExists))
		}
		return goerr.Wrap(err, "failed to upload release asset", opts...)
	}

	return nil
}

// isAlreadyExists detects GitHub's 422 response for a duplicate asset name
func isAlreadyExists(err error) bool {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) {
		return false
	}
	if ghErr.Response == nil || ghErr.Response.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	for _, e := range ghErr.Errors {
		if e.Code == "already_exists" {
			return true
		}
	}
	return false
}

func toRecord(release *github.RepositoryRelease) model.ReleaseRecord {
	return model.ReleaseRecord{
		ID:        release.GetID(),
		Tag:       release.GetTagName(),
		UploadURL: release.GetUploadURL(),
		HTMLURL:   release.GetHTMLURL(),
	}
}
