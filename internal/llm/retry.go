package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"smart-ats/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

// Retrying wraps a client with a single delayed retry on transient failures.
type Retrying struct {
	Base  Client
	Delay time.Duration
}

// WithRetry wraps base; a nil base stays nil so Complete can report it.
func WithRetry(base Client) Client {
	if base == nil {
		return nil
	}
	return &Retrying{Base: base, Delay: retryBaseDelay}
}

func (r *Retrying) Generate(ctx context.Context, req Request) (string, error) {
	out, err := r.Base.Generate(ctx, req)
	if err == nil || !shouldRetry(ctx, err) {
		return out, err
	}

	telemetry.Warn("llm.retry", map[string]any{
		"attempt": 1,
		"model":   req.Model,
		"error":   err.Error(),
	})
	select {
	case <-time.After(r.Delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return r.Base.Generate(ctx, req)
}

func shouldRetry(ctx context.Context, err error) bool {
	if err == nil || errors.Is(err, ErrEmptyPrompt) || ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "status 5") || strings.Contains(msg, "server_error") {
		return true
	}
	for _, transient := range []string{"connection reset", "connection closed", "broken pipe", "tls handshake timeout", "unexpected eof"} {
		if strings.Contains(msg, transient) {
			return true
		}
	}
	return false
}
