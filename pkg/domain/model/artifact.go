package model

// ContentType classifies an artifact for the upload request
type ContentType string

const (
	ContentTypeDiskImage  ContentType = "application/x-apple-diskimage"
	ContentTypeAndroidPkg ContentType = "application/vnd.android.package-archive"
	ContentTypeGzip       ContentType = "application/gzip"
	ContentTypeZip        ContentType = "application/zip"
	ContentTypeAppImage   ContentType = "application/x-executable"
	ContentTypeExecutable ContentType = "application/vnd.microsoft.portable-executable"
)

// Artifact is a built file destined for the release
type Artifact struct {
	SourcePath  string      // Path relative to the repository root
	TargetName  string      // Asset name on the release
	ContentType ContentType // Media type sent with the upload
}
