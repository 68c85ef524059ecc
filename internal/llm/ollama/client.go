package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"smart-ats/internal/llm"
)

const maxErrorBody = 512

// Client implements llm.Client against an Ollama style /api/generate endpoint.
type Client struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

// NewClient constructs a client with the given defaults. A non-positive timeout falls
// back to llm.DefaultTimeout so a call never blocks indefinitely.
func NewClient(endpoint, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = llm.DefaultTimeout
	}
	return &Client{
		endpoint:   llm.Pick(endpoint, llm.DefaultEndpoint),
		model:      llm.Pick(model, llm.DefaultModel),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response *string `json:"response"`
}

// Generate sends a single non-streaming generate request.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", llm.ErrEmptyPrompt
	}
	endpoint := llm.Pick(req.Endpoint, c.endpoint)
	payload, err := json.Marshal(generateRequest{
		Model:  llm.Pick(req.Model, c.model),
		Prompt: req.Prompt,
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("ollama request timeout: %w", err)
		}
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama response read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("ollama status %d: %s", resp.StatusCode, truncate(string(body), maxErrorBody))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("ollama response parse: %w", err)
	}
	if parsed.Response == nil {
		return llm.NoResponse, nil
	}
	return *parsed.Response, nil
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

var _ llm.Client = (*Client)(nil)
