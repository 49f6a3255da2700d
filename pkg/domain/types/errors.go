package types

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrTagVersion marks failures to derive version information. Fatal to the run.
	ErrTagVersion = goerr.NewTag("version_resolution")
	// ErrTagRelease marks failures to get or create the release record. Fatal to the run.
	ErrTagRelease = goerr.NewTag("release_acquisition")
	// ErrTagBuild marks prepare or build failures. Fatal to one job instance only.
	ErrTagBuild = goerr.NewTag("build")
	// ErrTagUpload marks a failed artifact upload. Reported, not fatal.
	ErrTagUpload = goerr.NewTag("upload")
	// ErrTagAssetExists marks an upload rejected because an asset with the same name is already attached.
	ErrTagAssetExists = goerr.NewTag("asset_exists")
	// ErrTagConfig marks invalid user supplied configuration.
	ErrTagConfig = goerr.NewTag("config")
)
