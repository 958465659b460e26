package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/fileserver"
	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/job"
	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/server"
	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/server/web"
	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/ytdlp"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	e   *echo.Echo
	dir string
}

// newTestApp wires the handlers with a nonexistent downloader binary;
// submissions still succeed, the spawn failure lands on the job record.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	dir := t.TempDir()

	registry := job.NewRegistry(2)
	builder := ytdlp.Builder{
		Binary:     "/definitely/not/yt-dlp",
		OutputDir:  dir,
		CookieFile: filepath.Join(dir, "cookies.txt"),
	}
	files := fileserver.NewServer(dir, 50*time.Millisecond)

	e := echo.New()
	server.NewHandler(registry, builder, files).RegisterRoutes(e)
	web.NewHandler().RegisterRoutes(e)
	return &testApp{e: e, dir: dir}
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestDownloadMissingURL(t *testing.T) {
	app := newTestApp(t)

	rec := app.postForm("/download", url.Values{"quality": {"480p"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	require.Equal(t, false, body["ok"])
	require.Equal(t, "Missing URL", body["error"])
}

func TestDownloadAndStatusFlow(t *testing.T) {
	app := newTestApp(t)

	rec := app.postForm("/download", url.Values{
		"url":     {"https://www.youtube.com/watch?v=abc"},
		"quality": {"720p"},
		"format":  {"MP4 - Video"},
		"cookies": {"none"},
		"speed":   {"Mid"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	require.Equal(t, true, body["ok"])
	jobID, _ := body["job_id"].(string)
	require.NotEmpty(t, jobID)

	// The stub binary cannot be spawned, so the job ends up failed with
	// the error only visible through /status — never on the submission.
	require.Eventually(t, func() bool {
		srec := app.get("/status?job=" + jobID)
		if srec.Code != http.StatusOK {
			return false
		}
		sbody := decode(t, srec)
		errVal, _ := sbody["error"].(string)
		return errVal != ""
	}, 5*time.Second, 20*time.Millisecond)

	srec := app.get("/status?job=" + jobID)
	sbody := decode(t, srec)
	require.Equal(t, true, sbody["ok"])
	require.Equal(t, false, sbody["done"])
	require.Nil(t, sbody["filename"])
	require.Contains(t, sbody["error"], "start:")

	status, ok := sbody["status"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(0), status["pct"])
	require.Equal(t, "--", status["speed"])
	require.Equal(t, "--", status["eta"])
}

func TestStatusUnknownJob(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/status", "/status?job=", "/status?job=nope"} {
		rec := app.get(path)
		require.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
		body := decode(t, rec)
		require.Equal(t, false, body["ok"])
		require.Equal(t, "Invalid job", body["error"])
	}
}

func TestFetchServesAndCleansUp(t *testing.T) {
	app := newTestApp(t)

	path := filepath.Join(app.dir, "done.mp4")
	require.NoError(t, os.WriteFile(path, []byte("bytes"), 0o644))

	rec := app.get("/fetch/done.mp4")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "bytes", rec.Body.String())
	require.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFetchNotFound(t *testing.T) {
	app := newTestApp(t)
	rec := app.get("/fetch/absent.mp4")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHomePageListsOptions(t *testing.T) {
	app := newTestApp(t)
	rec := app.get("/")
	require.Equal(t, http.StatusOK, rec.Code)

	html := rec.Body.String()
	require.Contains(t, html, "Start Download")
	for _, option := range []string{"480p", "2160p (4K - High)", "MP4 - Video", "MP3 - Audio", "Turbo", "cookies.txt"} {
		require.Contains(t, html, option)
	}
}

func TestHealthWithMissingBinary(t *testing.T) {
	app := newTestApp(t)
	rec := app.get("/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	require.Equal(t, false, body["ok"])
}

func TestInfoRequiresURL(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/info", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "url is required", body["error"])
}
