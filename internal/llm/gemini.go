package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiProvider implements Provider on the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini client for the given API key and model.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: model}, nil
}

// Close closes the Gemini client
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	// A GenerativeModel carries its settings as mutable fields, so each
	// request gets its own handle.
	model := p.client.GenerativeModel(p.model)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, mapGeminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, ErrEmptyResponse
	}

	out := &Response{Text: text.String(), Model: p.model}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	return out, nil
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

func mapGeminiError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Code, err)
	}
	return &ErrProviderUnavailable{Err: err}
}
