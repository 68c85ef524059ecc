package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-ats/internal/llm"
)

func TestGenerateSendsNonStreamingBody(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"llama2","response":"{\"JD Match\": \"80%\"}","done":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	out, err := client.Generate(context.Background(), llm.Request{Prompt: "evaluate"})
	require.NoError(t, err)
	assert.Equal(t, `{"JD Match": "80%"}`, out)
	assert.Equal(t, map[string]any{"model": "llama2", "prompt": "evaluate", "stream": false}, got)
}

func TestGenerateRequestOverridesDefaults(t *testing.T) {
	var model string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body generateRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		model = body.Model
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient("http://127.0.0.1:1/unused", "llama2", time.Second)
	out, err := client.Generate(context.Background(), llm.Request{Prompt: "p", Endpoint: srv.URL, Model: "mistral"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "mistral", model)
}

func TestGenerateMissingResponseField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"done":true}`))
	}))
	defer srv.Close()

	out, err := NewClient(srv.URL, "", time.Second).Generate(context.Background(), llm.Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, llm.NoResponse, out)
}

func TestGenerateHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `model "nope" not found`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "nope", time.Second).Generate(context.Background(), llm.Request{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama status 404")
}

func TestGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, "", 50*time.Millisecond).Generate(context.Background(), llm.Request{Prompt: "p"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "timeout"), err.Error())
}

func TestGenerateUnreachableBecomesMarker(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	out := llm.Complete(context.Background(), NewClient(url, "", time.Second), llm.Request{Prompt: "p"})
	assert.True(t, llm.IsErrorMarker(out), out)
}

func TestGenerateEmptyPrompt(t *testing.T) {
	_, err := NewClient("", "", 0).Generate(context.Background(), llm.Request{Prompt: "  "})
	assert.ErrorIs(t, err, llm.ErrEmptyPrompt)
}
