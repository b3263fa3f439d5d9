package llm

import (
	"context"
	"io"
)

// Provider is the single seam between the study features and a hosted model.
// Every backend turns a prompt into free text; parsing happens in the caller.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes one prompt sent to the model.
type Request struct {
	// System sets the model's role, e.g. "You are an experienced university professor".
	System string
	// Prompt is the user turn.
	Prompt string
	// MaxTokens caps the reply length. Zero lets the provider decide.
	MaxTokens int
	// Temperature controls randomness, 0.0 - 1.0.
	Temperature float64
	// JSON asks the provider for a JSON reply where the API supports it.
	JSON bool
}

// Response holds the model's reply.
type Response struct {
	Text  string
	Usage Usage
	Model string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add returns the sum of two usages.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
		TotalTokens:  u.TotalTokens + other.TotalTokens,
	}
}

// wrapper is implemented by decorators so Close can reach the base provider.
type wrapper interface {
	Unwrap() Provider
}

// Close releases the base provider's resources, if it holds any.
func Close(p Provider) error {
	for {
		if c, ok := p.(io.Closer); ok {
			return c.Close()
		}
		w, ok := p.(wrapper)
		if !ok {
			return nil
		}
		p = w.Unwrap()
	}
}
