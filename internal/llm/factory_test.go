package llm

import (
	"context"
	"testing"
	"time"

	"brainifi/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("mock", func(t *testing.T) {
		p, err := NewProvider(ctx, config.LLMConfig{Provider: "mock"})
		require.NoError(t, err)
		assert.IsType(t, &MockProvider{}, p)

		resp, err := p.Generate(ctx, Request{System: "You are an experienced university professor creating exam questions.", Prompt: "Content: stacks", JSON: true})
		require.NoError(t, err)
		assert.Contains(t, resp.Text, `"questions"`)

		resp, err = p.Generate(ctx, Request{System: "You are an experienced professor evaluating student answers.", Prompt: "Student Answer: LIFO"})
		require.NoError(t, err)
		assert.Contains(t, resp.Text, `"score"`)
	})

	t.Run("mistral goes through the openai client", func(t *testing.T) {
		p, err := NewProvider(ctx, config.LLMConfig{
			Provider:       "mistral",
			MistralAPIKey:  "k",
			MistralModel:   "mistral-large-latest",
			MistralBaseURL: "https://api.mistral.ai/v1",
			Timeout:        time.Minute,
		})
		require.NoError(t, err)
		assert.IsType(t, &TimeoutProvider{}, p)
		assert.Equal(t, "mistral-large-latest", p.ModelID())
	})

	t.Run("anthropic", func(t *testing.T) {
		p, err := NewProvider(ctx, config.LLMConfig{Provider: "anthropic", AnthropicAPIKey: "k", AnthropicModel: "claude-haiku-4-5"})
		require.NoError(t, err)
		assert.IsType(t, &RetryProvider{}, p)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NewProvider(ctx, config.LLMConfig{Provider: "openai"})
		assert.Error(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewProvider(ctx, config.LLMConfig{Provider: "llama"})
		assert.ErrorContains(t, err, "unknown LLM provider")
	})
}

type closingProvider struct {
	providerFunc
	closed bool
}

func (c *closingProvider) Close() error {
	c.closed = true
	return nil
}

func TestCloseReachesBaseProvider(t *testing.T) {
	base := &closingProvider{providerFunc: func(context.Context, Request) (*Response, error) { return &Response{}, nil }}
	wrapped := WithTimeout(WithRetry(WithLogging(base), DefaultRetryConfig()), time.Second)

	require.NoError(t, Close(wrapped))
	assert.True(t, base.closed)

	assert.NoError(t, Close(NewMockProvider()), "providers without resources close as a no-op")
}
