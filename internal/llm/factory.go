package llm

import (
	"context"
	"fmt"
	"time"

	"brainifi/internal/config"
)

// NewProvider builds the configured backend wrapped with retry and logging:
// caller -> retry -> logging -> base.
func NewProvider(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "mistral":
		base, err = NewOpenAIProvider(cfg.MistralAPIKey, cfg.MistralModel, cfg.MistralBaseURL)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	case "mock":
		return NewOfflineProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	retry := DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxAttempts = cfg.MaxRetries
	}
	var p Provider = WithRetry(WithLogging(base), retry)
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}

// TimeoutProvider bounds every call, retries included, by a fixed deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so each Generate call is cancelled after d.
func WithTimeout(p Provider, d time.Duration) Provider {
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}

func (t *TimeoutProvider) Unwrap() Provider { return t.inner }
