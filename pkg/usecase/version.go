package usecase

import (
	"context"

	"github.com/hashicorp/go-version"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drydock/pkg/domain/interfaces"
	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ResolveVersion reads version state from src and validates it.
// Any malformed or missing value is fatal; no default is substituted.
func ResolveVersion(ctx context.Context, src interfaces.VersionSource) (*model.VersionInfo, error) {
	logger := ctxlog.From(ctx)

	info, err := src.Version(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read version state", goerr.T(types.ErrTagVersion))
	}
	if info == nil {
		return nil, goerr.New("version source returned no version", goerr.T(types.ErrTagVersion))
	}

	if info.PackageVersion == "" {
		return nil, goerr.New("package version is empty", goerr.T(types.ErrTagVersion))
	}
	if _, err := version.NewVersion(info.PackageVersion); err != nil {
		return nil, goerr.Wrap(err, "invalid package version",
			goerr.V("package_version", info.PackageVersion),
			goerr.T(types.ErrTagVersion),
		)
	}
	if info.MobilePackageVersion == "" {
		return nil, goerr.New("mobile package version is empty", goerr.T(types.ErrTagVersion))
	}

	code, err := model.DeriveVersionCode(info.MobilePackageVersion)
	if err != nil {
		return nil, err
	}
	if info.MobileVersionCode != code {
		return nil, goerr.New("mobile version code does not match mobile version",
			goerr.V("mobile_version", info.MobilePackageVersion),
			goerr.V("mobile_version_code", info.MobileVersionCode),
			goerr.V("expected", code),
			goerr.T(types.ErrTagVersion),
		)
	}

	logger.Info("Resolved version",
		"package_version", info.PackageVersion,
		"mobile_version", info.MobilePackageVersion,
		"mobile_version_code", info.MobileVersionCode,
		"release_eligible", info.ReleaseEligible,
	)

	resolved := *info
	return &resolved, nil
}
