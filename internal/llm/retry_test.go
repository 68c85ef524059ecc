package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sequenceClient struct {
	replies []string
	errs    []error
	calls   int
}

func (s *sequenceClient) Generate(ctx context.Context, req Request) (string, error) {
	i := s.calls
	s.calls++
	return s.replies[i], s.errs[i]
}

func TestRetryingRetriesTransientFailureOnce(t *testing.T) {
	base := &sequenceClient{
		replies: []string{"", `{"JD Match": "80%"}`},
		errs:    []error{fmt.Errorf("ollama status 503: overloaded"), nil},
	}
	client := &Retrying{Base: base}

	out, err := client.Generate(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, `{"JD Match": "80%"}`, out)
	assert.Equal(t, 2, base.calls)
}

func TestRetryingGivesUpAfterSecondFailure(t *testing.T) {
	base := &sequenceClient{
		replies: []string{"", ""},
		errs:    []error{context.DeadlineExceeded, errors.New("read: connection reset by peer")},
	}
	client := &Retrying{Base: base}

	_, err := client.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 2, base.calls)
}

func TestRetryingSkipsPermanentFailures(t *testing.T) {
	for _, permanent := range []error{
		ErrEmptyPrompt,
		errors.New("openai http status 401: bad key"),
		errors.New("dial tcp 127.0.0.1:1: connect: connection refused"),
	} {
		base := &sequenceClient{replies: []string{""}, errs: []error{permanent}}
		client := &Retrying{Base: base}

		_, err := client.Generate(context.Background(), Request{Prompt: "p"})
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, base.calls, "error %v", permanent)
	}
}

func TestRetryingStopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	base := &sequenceClient{replies: []string{""}, errs: []error{errors.New("status 502")}}
	client := &Retrying{Base: base}

	_, err := client.Generate(ctx, Request{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, 1, base.calls)
}

func TestWithRetryKeepsNil(t *testing.T) {
	assert.Nil(t, WithRetry(nil))
	assert.NotNil(t, WithRetry(&stubClient{}))
}
