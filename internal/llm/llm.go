package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is the local Ollama generate endpoint.
	DefaultEndpoint = "http://localhost:11434/api/generate"
	// DefaultModel is used when neither the request nor the config names a model.
	DefaultModel = "llama2"
	// DefaultTimeout bounds a single model call.
	DefaultTimeout = 120 * time.Second

	// NoResponse is returned when the endpoint answers without a response field.
	NoResponse = "No response from model"
	// ErrorMarker prefixes the text produced by Complete when the call failed.
	ErrorMarker = "Error: "
)

// ErrEmptyPrompt is returned when a client is asked to generate from a blank prompt.
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// Request is a single text-generation call. Model overrides the client default.
// Endpoint is honored only by clients that send no credentials (ollama).
type Request struct {
	Prompt   string
	Endpoint string
	Model    string
}

// Client abstracts text-generation providers.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Complete calls the client and folds any failure into an error-marker string, so the
// caller always receives text and can detect failure with IsErrorMarker.
func Complete(ctx context.Context, client Client, req Request) string {
	if client == nil {
		return ErrorMarker + "model client not configured"
	}
	out, err := client.Generate(ctx, req)
	if err != nil {
		return ErrorMarker + err.Error()
	}
	return out
}

// IsErrorMarker reports whether text was produced by Complete for a failed call.
func IsErrorMarker(text string) bool {
	return strings.HasPrefix(text, ErrorMarker)
}

// Pick returns the first non-blank value.
func Pick(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
