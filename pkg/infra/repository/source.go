package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/hashicorp/go-version"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// DefaultVersionFile is the version file looked up in the repository root
const DefaultVersionFile = "version.toml"

type versionFile struct {
	Version       string `toml:"version"`
	MobileVersion string `toml:"mobile_version"`
}

// Source derives VersionInfo from a version file and the git state of the repository
type Source struct {
	dir         string
	versionFile string
	open        func() (*git.Repository, error)
}

// Option configures Source
type Option func(*Source)

// WithVersionFile overrides the version file path, relative to the repository root
func WithVersionFile(path string) Option {
	return func(s *Source) {
		s.versionFile = path
	}
}

// WithRepository uses an already opened repository instead of opening dir
func WithRepository(repo *git.Repository) Option {
	return func(s *Source) {
		s.open = func() (*git.Repository, error) { return repo, nil }
	}
}

// New creates a Source for the repository checked out at dir
func New(dir string, opts ...Option) *Source {
	s := &Source{
		dir:         dir,
		versionFile: DefaultVersionFile,
	}
	s.open = func() (*git.Repository, error) {
		return git.PlainOpenWithOptions(s.dir, &git.PlainOpenOptions{DetectDotGit: true})
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Version reads the version file and checks whether HEAD carries the release tag
func (s *Source) Version(ctx context.Context) (*model.VersionInfo, error) {
	path := s.versionFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open version file",
			goerr.V("path", path),
			goerr.T(types.ErrTagVersion),
		)
	}
	defer f.Close()

	var vf versionFile
	decoder := toml.NewDecoder(f).DisallowUnknownFields()
	if err := decoder.Decode(&vf); err != nil {
		return nil, goerr.Wrap(err, "failed to parse version file",
			goerr.V("path", path),
			goerr.T(types.ErrTagVersion),
		)
	}
	if vf.Version == "" || vf.MobileVersion == "" {
		return nil, goerr.New("version file must set version and mobile_version",
			goerr.V("path", path),
			goerr.T(types.ErrTagVersion),
		)
	}

	code, err := model.DeriveVersionCode(vf.MobileVersion)
	if err != nil {
		return nil, err
	}

	repo, err := s.open()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open git repository",
			goerr.V("dir", s.dir),
			goerr.T(types.ErrTagVersion),
		)
	}

	eligible, err := ReleaseEligible(repo, vf.Version)
	if err != nil {
		return nil, err
	}

	ctxlog.From(ctx).Debug("Read version state",
		"path", path,
		"version", vf.Version,
		"mobile_version", vf.MobileVersion,
		"release_eligible", eligible,
	)

	return &model.VersionInfo{
		PackageVersion:       vf.Version,
		MobilePackageVersion: vf.MobileVersion,
		MobileVersionCode:    code,
		ReleaseEligible:      eligible,
	}, nil
}

// ReleaseEligible reports whether pkgVersion is a final version and HEAD is
// tagged with it, either as "X.Y.Z" or "vX.Y.Z".
func ReleaseEligible(repo *git.Repository, pkgVersion string) (bool, error) {
	v, err := version.NewVersion(pkgVersion)
	if err != nil {
		return false, goerr.Wrap(err, "invalid package version",
			goerr.V("version", pkgVersion),
			goerr.T(types.ErrTagVersion),
		)
	}
	if v.Prerelease() != "" {
		return false, nil
	}

	head, err := repo.Head()
	if err != nil {
		return false, goerr.Wrap(err, "failed to resolve HEAD", goerr.T(types.ErrTagVersion))
	}

	for _, name := range []string{pkgVersion, "v" + pkgVersion} {
		target, err := tagTarget(repo, name)
		if err != nil {
			return false, err
		}
		if target == head.Hash() {
			return true, nil
		}
	}
	return false, nil
}

// tagTarget returns the commit a tag points at, peeling annotated tags.
// A missing tag yields the zero hash.
func tagTarget(repo *git.Repository, name string) (plumbing.Hash, error) {
	ref, err := repo.Tag(name)
	if errors.Is(err, git.ErrTagNotFound) {
		return plumbing.ZeroHash, nil
	}
	if err != nil {
		return plumbing.ZeroHash, goerr.Wrap(err, "failed to read tag",
			goerr.V("tag", name),
			goerr.T(types.ErrTagVersion),
		)
	}

	obj, err := repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, err := obj.Commit()
		if err != nil {
			return plumbing.ZeroHash, goerr.Wrap(err, "annotated tag does not point at a commit",
				goerr.V("tag", name),
				goerr.T(types.ErrTagVersion),
			)
		}
		return commit.Hash, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return ref.Hash(), nil
	default:
		return plumbing.ZeroHash, goerr.Wrap(err, "failed to read tag object",
			goerr.V("tag", name),
			goerr.T(types.ErrTagVersion),
		)
	}
}
