package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "ok"})
	p := WithRetry(mock, retryConfig())

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: ErrEmptyResponse},
		MockResponse{Text: "ok"},
	)
	p := WithRetry(mock, retryConfig())

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Text: "never reached"},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_BadRequestNotRetried(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrBadRequest{StatusCode: 401, Err: errors.New("bad key")}},
		MockResponse{Text: "ok"},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Generate(context.Background(), Request{})
	var bad *ErrBadRequest
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, 401, bad.StatusCode)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_RateLimitUsesRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 5 * time.Millisecond, Err: errors.New("slow down")}},
		MockResponse{Text: "ok"},
	)
	p := WithRetry(mock, retryConfig())

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestRetry_ContextCancelledDuringWait(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Text: "ok"},
	)
	cfg := retryConfig()
	cfg.InitialWait = time.Second
	cfg.MaxWait = time.Second
	p := WithRetry(mock, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_ContextErrorNotRetried(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: context.Canceled},
		MockResponse{Text: "ok"},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_BackoffCapped(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{
		MaxAttempts: 10,
		InitialWait: 10 * time.Millisecond,
		MaxWait:     40 * time.Millisecond,
		Multiplier:  2.0,
	}}
	for attempt := range 8 {
		wait := r.backoff(attempt, errors.New("x"))
		assert.LessOrEqual(t, wait, 48*time.Millisecond, "attempt %d", attempt)
	}
}

func TestTimeoutProvider(t *testing.T) {
	slow := &MockProvider{Responder: func(Request) MockResponse {
		time.Sleep(50 * time.Millisecond)
		return MockResponse{Text: "late"}
	}}
	var seen context.Context
	wrapped := WithTimeout(providerFunc(func(ctx context.Context, req Request) (*Response, error) {
		seen = ctx
		return slow.Generate(ctx, req)
	}), 5*time.Millisecond)

	_, err := wrapped.Generate(context.Background(), Request{})
	require.NoError(t, err)
	_, hasDeadline := seen.Deadline()
	assert.True(t, hasDeadline)
	assert.Equal(t, "mock", wrapped.ModelID())
}

type providerFunc func(context.Context, Request) (*Response, error)

func (f providerFunc) Generate(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

func (f providerFunc) ModelID() string { return "mock" }
