package model

import (
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ReleaseTag identifies a release. Used verbatim as lookup key and title.
type ReleaseTag string

// Validate checks the tag is usable
func (t ReleaseTag) Validate() error {
	if t == "" {
		return goerr.New("release tag is empty", goerr.T(types.ErrTagConfig))
	}
	return nil
}

func (t ReleaseTag) String() string { return string(t) }

// ReleaseRecord is the published release artifacts are attached to
type ReleaseRecord struct {
	ID        int64  // Release ID on the hosting service
	Tag       string // Tag the release is bound to
	UploadURL string // Asset upload endpoint
	HTMLURL   string // Human readable release page
	Created   bool   // True when this run created the record
}
