package llm

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyResponse is returned when the model answers with no text at all.
var ErrEmptyResponse = errors.New("model returned an empty response")

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrBadRequest is a non-retryable client error (bad key, invalid model, 4xx).
type ErrBadRequest struct {
	StatusCode int
	Err        error
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("LLM request rejected (status %d): %v", e.StatusCode, e.Err)
}

func (e *ErrBadRequest) Unwrap() error { return e.Err }

// classifyStatus maps an HTTP status from any provider SDK onto our error types.
func classifyStatus(status int, err error) error {
	switch {
	case status == 429:
		return &ErrRateLimit{Err: err}
	case status >= 500:
		return &ErrProviderUnavailable{Err: err}
	case status >= 400:
		return &ErrBadRequest{StatusCode: status, Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
