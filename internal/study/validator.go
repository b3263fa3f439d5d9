package study

import (
	"context"
	"fmt"
	"strings"

	"brainifi/internal/llm"
)

// Validator grades free-text answers with the model.
type Validator struct {
	provider llm.Provider
}

func NewValidator(provider llm.Provider) *Validator {
	return &Validator{provider: provider}
}

// Validate evaluates answer against question. Empty answers and questions
// are rejected without calling the model.
func (v *Validator) Validate(ctx context.Context, question, questionContext, answer string) (*Feedback, llm.Usage, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, llm.Usage{}, ErrEmptyAnswer
	}
	if strings.TrimSpace(question) == "" {
		return nil, llm.Usage{}, ErrEmptyQuestion
	}

	resp, err := v.provider.Generate(ctx, llm.Request{
		System:      validationSystemPrompt,
		Prompt:      validationPrompt(question, questionContext, answer),
		MaxTokens:   1000,
		Temperature: 0.3,
		JSON:        true,
	})
	if err != nil {
		return nil, llm.Usage{}, fmt.Errorf("validate answer: %w", err)
	}

	fb := ParseFeedback(resp.Text)
	return &fb, resp.Usage, nil
}
