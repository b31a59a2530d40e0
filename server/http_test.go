package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"video-gateway/config"
	"video-gateway/entities"
	videoHandler "video-gateway/handler"
	"video-gateway/repository"
	"video-gateway/service"
	"video-gateway/service/servicetest"
)

const testAccessKey = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	router *gin.Engine
	signer *servicetest.FakePresigner
	repo   *fakeRepo
}

type fakeRepo struct {
	videos    []*entities.Video
	createErr error
	listErr   error
}

var _ repository.VideoRepository = (*fakeRepo)(nil)

func (f *fakeRepo) CreateVideo(_ context.Context, video *entities.Video) error {
	if f.createErr != nil {
		return f.createErr
	}
	video.UploadedAt = time.Now()
	f.videos = append(f.videos, video)
	return nil
}

func (f *fakeRepo) ListVideos(_ context.Context) ([]*entities.Video, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	videos := make([]*entities.Video, len(f.videos))
	copy(videos, f.videos)
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].UploadedAt.After(videos[j].UploadedAt)
	})
	return videos, nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	signer := &servicetest.FakePresigner{}
	repo := &fakeRepo{}
	deps := videoHandler.ServiceDependencies{
		Broker:   service.NewBroker(signer, "videos"),
		Recorder: service.NewRecorder(repo, nil),
	}

	cfg := &config.Config{
		Auth: config.Auth{
			AccessKey:      testAccessKey,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
	router := NewRouter(context.Background(), cfg, videoHandler.New(deps))

	return &fixture{router: router, signer: signer, repo: repo}
}

func (f *fixture) do(method, path, accessKey string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if accessKey != "" {
		req.Header.Set("X-Access-Key", accessKey)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAccessGate(t *testing.T) {
	tests := []struct {
		name      string
		accessKey string
	}{
		{name: "missing credential", accessKey: ""},
		{name: "wrong credential", accessKey: "not-the-secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			w := f.do(http.MethodPost, "/api/upload-url", tt.accessKey, map[string]string{
				"filename":    "a.mp4",
				"contentType": "video/mp4",
			})

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"invalid access key"}`, w.Body.String())
			assert.Zero(t, f.signer.PutCalls, "rejected request must not reach the signer")
		})
	}
}

func TestAccessGateQueryParam(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/upload-url?access_key="+testAccessKey, "", map[string]string{
		"filename":    "a.mp4",
		"contentType": "video/mp4",
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateUploadURL(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/upload-url", testAccessKey, map[string]string{
		"filename":    "a.mp4",
		"contentType": "video/mp4",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		UploadUrl string `json:"uploadUrl"`
		Filename  string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, regexp.MustCompile(`^.{36}-a\.mp4$`), resp.Filename)

	parsed, err := url.Parse(resp.UploadUrl)
	require.NoError(t, err)
	assert.NotEmpty(t, parsed.Host)
	assert.Equal(t, 1, f.signer.PutCalls)
	assert.Equal(t, "video/mp4", f.signer.LastContentType)
}

func TestCreateUploadURLMissingFields(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/upload-url", testAccessKey, map[string]string{
		"filename": "a.mp4",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"filename and contentType are required"}`, w.Body.String())
	assert.Zero(t, f.signer.PutCalls)
}

func TestCreateUploadURLSignerFailure(t *testing.T) {
	f := newFixture(t)
	f.signer.Err = errors.New("minio: access denied")

	w := f.do(http.MethodPost, "/api/upload-url", testAccessKey, map[string]string{
		"filename":    "a.mp4",
		"contentType": "video/mp4",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestDownloadURLUnknownKey(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/download-url/unknown-key.mp4", testAccessKey, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		DownloadUrl string `json:"downloadUrl"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.DownloadUrl)
	assert.Equal(t, "unknown-key.mp4", f.signer.LastObjectName)
}

func TestDownloadURLRequiresCredential(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/download-url/a.mp4", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, f.signer.GetCalls)
}

func TestCreateVideo(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/videos", testAccessKey, map[string]any{
		"filename":      "abc-a.mp4",
		"original_name": "a.mp4",
		"file_size":     1024,
		"event_name":    "launch",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var video entities.Video
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &video))
	assert.Equal(t, "abc-a.mp4", video.Filename)
	assert.Equal(t, "a.mp4", video.OriginalName)
	assert.Equal(t, int64(1024), video.FileSize)
	assert.False(t, video.UploadedAt.IsZero(), "timestamp is server assigned")

	list := f.do(http.MethodGet, "/api/videos", "", nil)
	require.Equal(t, http.StatusOK, list.Code)
	var videos []entities.Video
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &videos))
	require.Len(t, videos, 1)
	assert.Equal(t, "abc-a.mp4", videos[0].Filename, "new record listed first")
}

func TestCreateVideoMissingFields(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/videos", testAccessKey, map[string]string{
		"filename": "abc-a.mp4",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.repo.videos, "row count must be unchanged")
}

func TestListVideosUngated(t *testing.T) {
	f := newFixture(t)
	f.repo.videos = []*entities.Video{
		{Filename: "old.mp4", OriginalName: "old", UploadedAt: time.Now().Add(-time.Hour)},
		{Filename: "new.mp4", OriginalName: "new", UploadedAt: time.Now()},
	}

	w := f.do(http.MethodGet, "/api/videos", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var videos []entities.Video
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &videos))
	require.Len(t, videos, 2)
	assert.Equal(t, "new.mp4", videos[0].Filename, "newest first")
}

func TestListVideosBackendFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.listErr = errors.New("pq: connection refused")

	w := f.do(http.MethodGet, "/api/videos", "", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/upload-url", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Access-Key")
}

func TestCORSUnknownOrigin(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
