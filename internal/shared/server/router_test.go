package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-ats/internal/analyses"
	"smart-ats/internal/llm"
	"smart-ats/internal/shared/config"
	"smart-ats/internal/shared/server/middleware"
)

type fixedClient struct{ out string }

func (f fixedClient) Generate(ctx context.Context, req llm.Request) (string, error) {
	return f.out, nil
}

func newTestRouter(t *testing.T, perMinute, burst int) http.Handler {
	t.Helper()
	svc := &analyses.Service{
		Repo:     analyses.NewMemoryRepo(10),
		LLM:      fixedClient{out: `{"JD Match": "70%", "MissingKeywords": []}`},
		Provider: "ollama",
		Model:    llm.DefaultModel,
	}
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	return NewRouter(RouterDeps{
		Config: config.Config{
			CORSAllowOrigin:  []string{"http://localhost:5173"},
			AnalyzePerMinute: perMinute,
			AnalyzeBurst:     burst,
		},
		AnalysisHandler: analyses.NewHandler(svc, 1<<20, 10),
		RateLimiter:     middleware.NewRateLimiter(func() time.Time { return now }),
	})
}

func submitResume(t *testing.T, router http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("jobDescription", "Looking for Python and SQL"))
	part, err := mw.CreateFormFile("resume", "resume.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Python developer with SQL"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, 0, 0)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ok": true, "history": "memory"}`, resp.Body.String())
	assert.NotEmpty(t, resp.Header().Get("X-Request-Id"))
}

func TestAnalyzeRouteIsRateLimited(t *testing.T) {
	router := newTestRouter(t, 60, 1)

	first := submitResume(t, router)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := submitResume(t, router)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, 0, 0)
	require.Equal(t, http.StatusCreated, submitResume(t, router).Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), "ats_analysis_completed_total"))
	assert.True(t, strings.Contains(resp.Body.String(), "ats_llm_call_duration_ms_bucket"))
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr(""))
	assert.Equal(t, ":9000", Addr("9000"))
	assert.Equal(t, ":9000", Addr(":9000"))
}
