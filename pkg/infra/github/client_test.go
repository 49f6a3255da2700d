package github_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	githubinfra "github.com/m-mizutani/drydock/pkg/infra/github"
	"github.com/m-mizutani/goerr/v2"
)

// fakeGitHub serves the subset of the releases API the client uses
type fakeGitHub struct {
	mu       sync.Mutex
	releases map[string]map[string]any
	assets   map[string][]byte
	types    map[string]string
	created  []map[string]any
	authz    []string
}

func newFakeGitHub(t *testing.T) (*fakeGitHub, *httptest.Server) {
	f := &fakeGitHub{
		releases: make(map[string]map[string]any),
		assets:   make(map[string][]byte),
		types:    make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v3/repos/owner/repo/releases/tags/{tag}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.authz = append(f.authz, r.Header.Get("Authorization"))

		release, ok := f.releases[r.PathValue("tag")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		writeJSON(w, http.StatusOK, release)
	})
	mux.HandleFunc("POST /api/v3/repos/owner/repo/releases", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.created = append(f.created, body)

		tag := body["tag_name"].(string)
		id := 40 + len(f.created)
		release := map[string]any{
			"id":         id,
			"tag_name":   tag,
			"name":       body["name"],
			"upload_url": "https://uploads.example.com/repos/owner/repo/releases/" + strconv.Itoa(id) + "/assets{?name,label}",
			"html_url":   "https://github.example.com/owner/repo/releases/tag/" + tag,
		}
		f.releases[tag] = release
		writeJSON(w, http.StatusCreated, release)
	})
	mux.HandleFunc("POST /api/uploads/repos/owner/repo/releases/{id}/assets", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		name := r.URL.Query().Get("name")
		if _, ok := f.assets[name]; ok {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"message": "Validation Failed",
				"errors":  []map[string]any{{"resource": "ReleaseAsset", "code": "already_exists", "field": "name"}},
			})
			return
		}
		data, _ := io.ReadAll(r.Body)
		f.assets[name] = data
		f.types[name] = r.Header.Get("Content-Type")
		writeJSON(w, http.StatusCreated, map[string]any{"id": 1, "name": name})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return f, server
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_FindAndCreateRelease(t *testing.T) {
	ctx := context.Background()
	fake, server := newFakeGitHub(t)

	client, err := githubinfra.NewTokenClient("owner", "repo", "test-token", githubinfra.WithBaseURL(server.URL))
	gt.NoError(t, err)

	found, err := client.FindReleaseByTag(ctx, "5.0.3")
	gt.NoError(t, err)
	gt.Value(t, found).Nil()
	gt.Value(t, fake.authz[0]).Equal("Bearer test-token")

	created, err := client.CreateRelease(ctx, "5.0.3", "5.0.3")
	gt.NoError(t, err)
	gt.Value(t, created.ID).Equal(int64(41))
	gt.Value(t, created.Tag).Equal("5.0.3")
	gt.String(t, created.UploadURL).Contains("/releases/41/assets")

	gt.Array(t, fake.created).Length(1)
	gt.Value(t, fake.created[0]["name"]).Equal("5.0.3")
	gt.Value(t, fake.created[0]["draft"]).Equal(false)
	gt.Value(t, fake.created[0]["prerelease"]).Equal(false)

	found, err = client.FindReleaseByTag(ctx, "5.0.3")
	gt.NoError(t, err)
	gt.Value(t, found.ID).Equal(created.ID)
	gt.Value(t, found.UploadURL).Equal(created.UploadURL)
}

func TestClient_UploadAsset(t *testing.T) {
	ctx := context.Background()
	fake, server := newFakeGitHub(t)

	client, err := githubinfra.NewTokenClient("owner", "repo", "", githubinfra.WithBaseURL(server.URL))
	gt.NoError(t, err)

	path := filepath.Join(t.TempDir(), "Dash-Electrum-5.0.3-macosx.dmg")
	gt.NoError(t, os.WriteFile(path, []byte("dmg bytes"), 0644))

	release := model.ReleaseRecord{ID: 41, Tag: "5.0.3"}
	artifact := model.Artifact{
		SourcePath:  path,
		TargetName:  "Dash-Electrum-5.0.3-macosx.dmg",
		ContentType: model.ContentTypeDiskImage,
	}

	gt.NoError(t, client.UploadAsset(ctx, release, artifact))
	gt.Value(t, string(fake.assets[artifact.TargetName])).Equal("dmg bytes")
	gt.Value(t, fake.types[artifact.TargetName]).Equal(string(model.ContentTypeDiskImage))

	t.Run("duplicate name is tagged as existing", func(t *testing.T) {
		err := client.UploadAsset(ctx, release, artifact)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagAssetExists))
	})

	t.Run("missing file", func(t *testing.T) {
		missing := artifact
		missing.SourcePath = filepath.Join(t.TempDir(), "nope.dmg")
		missing.TargetName = "nope.dmg"
		err := client.UploadAsset(ctx, release, missing)
		gt.Error(t, err)
		gt.False(t, goerr.HasTag(err, types.ErrTagAssetExists))
	})
}

func TestClient_RequiresRepository(t *testing.T) {
	_, err := githubinfra.NewTokenClient("", "repo", "token")
	gt.Error(t, err)
	_, err = githubinfra.NewTokenClient("owner", "", "token")
	gt.Error(t, err)
}

func TestClient_AppAuthWithRealAPI(t *testing.T) {
	// Integration test with real GitHub API
	appID := os.Getenv("TEST_GITHUB_APP_ID")
	installationID := os.Getenv("TEST_GITHUB_INSTALLATION_ID")
	privateKey := os.Getenv("TEST_GITHUB_PRIVATE_KEY")
	owner := os.Getenv("TEST_GITHUB_OWNER")
	repo := os.Getenv("TEST_GITHUB_REPO")

	if appID == "" || installationID == "" || privateKey == "" || owner == "" || repo == "" {
		t.Skip("Test GitHub App credentials not provided via environment variables")
	}

	appIDInt, err := strconv.ParseInt(appID, 10, 64)
	gt.NoError(t, err)
	installationIDInt, err := strconv.ParseInt(installationID, 10, 64)
	gt.NoError(t, err)

	client, err := githubinfra.NewAppClient(owner, repo, appIDInt, installationIDInt, []byte(privateKey))
	gt.NoError(t, err)

	// A tag that never exists must be reported as absent, not as an error
	found, err := client.FindReleaseByTag(context.Background(), "drydock-nonexistent-tag")
	gt.NoError(t, err)
	gt.Value(t, found).Nil()
}
