package model

import (
	"github.com/hashicorp/go-version"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// VersionInfo holds identifiers derived once per run from repository state
type VersionInfo struct {
	PackageVersion       string `json:"package_version"`
	MobilePackageVersion string `json:"mobile_package_version"`
	MobileVersionCode    int    `json:"mobile_version_code"`
	ReleaseEligible      bool   `json:"release_eligible"`
}

const maxVersionSegments = 4

// DeriveVersionCode maps a mobile version "a.b.c[.d]" to a*1000000 + b*10000 + c*100 + d.
// Each segment must be in 0..99.
func DeriveVersionCode(mobileVersion string) (int, error) {
	v, err := version.NewVersion(mobileVersion)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid mobile version",
			goerr.V("mobile_version", mobileVersion),
			goerr.T(types.ErrTagVersion),
		)
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return 0, goerr.New("mobile version must be plain numeric",
			goerr.V("mobile_version", mobileVersion),
			goerr.T(types.ErrTagVersion),
		)
	}

	segments := v.Segments()
	if len(segments) > maxVersionSegments {
		return 0, goerr.New("mobile version has too many segments",
			goerr.V("mobile_version", mobileVersion),
			goerr.V("max", maxVersionSegments),
			goerr.T(types.ErrTagVersion),
		)
	}

	code := 0
	for i := range maxVersionSegments {
		seg := 0
		if i < len(segments) {
			seg = segments[i]
		}
		if seg < 0 || seg > 99 {
			return 0, goerr.New("mobile version segment out of range",
				goerr.V("mobile_version", mobileVersion),
				goerr.V("segment", seg),
				goerr.T(types.ErrTagVersion),
			)
		}
		code = code*100 + seg
	}
	return code, nil
}
