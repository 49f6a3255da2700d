package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/drydock/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

// MockReleaseHost is an in-memory release host recording every call
type MockReleaseHost struct {
	mu       sync.Mutex
	releases map[string]*model.ReleaseRecord
	assets   map[string]bool
	nextID   int64

	findErr   error
	createErr error
	uploadErr map[string]error

	findCalls   []string
	createCalls []string
	uploadCalls []string
}

func NewMockReleaseHost() *MockReleaseHost {
	return &MockReleaseHost{
		releases:  make(map[string]*model.ReleaseRecord),
		assets:    make(map[string]bool),
		uploadErr: make(map[string]error),
		nextID:    100,
	}
}

func (m *MockReleaseHost) FindReleaseByTag(ctx context.Context, tag string) (*model.ReleaseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls = append(m.findCalls, tag)
	if m.findErr != nil {
		return nil, m.findErr
	}
	if r, ok := m.releases[tag]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, nil
}

func (m *MockReleaseHost) CreateRelease(ctx context.Context, tag, title string) (*model.ReleaseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls = append(m.createCalls, tag)
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	r := &model.ReleaseRecord{
		ID:        m.nextID,
		Tag:       tag,
		UploadURL: "https://uploads.example.com/releases/" + title,
		HTMLURL:   "https://example.com/releases/" + title,
	}
	m.releases[tag] = r
	copied := *r
	return &copied, nil
}

func (m *MockReleaseHost) UploadAsset(ctx context.Context, release model.ReleaseRecord, artifact model.Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadCalls = append(m.uploadCalls, artifact.TargetName)
	if err, ok := m.uploadErr[artifact.TargetName]; ok {
		return err
	}
	if m.assets[artifact.TargetName] {
		return goerr.New("asset exists", goerr.T(types.ErrTagAssetExists))
	}
	m.assets[artifact.TargetName] = true
	return nil
}

func (m *MockReleaseHost) Uploaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.uploadCalls...)
}

// MockVersionSource returns a fixed version
type MockVersionSource struct {
	info *model.VersionInfo
	err  error
}

func (m *MockVersionSource) Version(ctx context.Context) (*model.VersionInfo, error) {
	return m.info, m.err
}

// MockBuildProcedure records prepare and build calls per job ID
type MockBuildProcedure struct {
	mu           sync.Mutex
	prepareCalls []string
	buildCalls   []string

	prepareFunc func(job model.JobInstance) error
	buildFunc   func(job model.JobInstance, v model.VersionInfo) error
}

func (m *MockBuildProcedure) Prepare(ctx context.Context, job model.JobInstance, v model.VersionInfo) error {
	m.mu.Lock()
	m.prepareCalls = append(m.prepareCalls, job.ID())
	m.mu.Unlock()
	if m.prepareFunc != nil {
		return m.prepareFunc(job)
	}
	return nil
}

func (m *MockBuildProcedure) Build(ctx context.Context, job model.JobInstance, v model.VersionInfo) error {
	m.mu.Lock()
	m.buildCalls = append(m.buildCalls, job.ID())
	m.mu.Unlock()
	if m.buildFunc != nil {
		return m.buildFunc(job, v)
	}
	return nil
}

func (m *MockBuildProcedure) Prepared() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prepareCalls...)
}

func (m *MockBuildProcedure) Built() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.buildCalls...)
}

// writeOutputs returns a build func that leaves behind every expected output under dir
func writeOutputs(t *testing.T, dir string) func(job model.JobInstance, v model.VersionInfo) error {
	t.Helper()
	executors := usecase.NewExecutors(dir, nil)
	return func(job model.JobInstance, v model.VersionInfo) error {
		for _, a := range executors[job.Family].Outputs(job, v) {
			if err := os.MkdirAll(filepath.Dir(a.SourcePath), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(a.SourcePath, []byte(a.TargetName), 0644); err != nil {
				return err
			}
		}
		return nil
	}
}

func testVersion(eligible bool) *model.VersionInfo {
	return &model.VersionInfo{
		PackageVersion:       "5.0.3",
		MobilePackageVersion: "5.0.3.1",
		MobileVersionCode:    5000301,
		ReleaseEligible:      eligible,
	}
}

func contains(t *testing.T, list []string, want string) {
	t.Helper()
	for _, v := range list {
		if v == want {
			return
		}
	}
	t.Errorf("%q not found in %v", want, list)
}
