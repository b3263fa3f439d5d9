package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "first"})
	mock.AddResponse(MockResponse{Text: "second"})

	r1, err := mock.Generate(context.Background(), Request{Prompt: "a"})
	require.NoError(t, err)
	r2, err := mock.Generate(context.Background(), Request{Prompt: "b"})
	require.NoError(t, err)

	assert.Equal(t, "first", r1.Text)
	assert.Equal(t, "second", r2.Text)
	assert.Equal(t, "a", mock.Calls[0].Prompt)
	assert.Equal(t, "b", mock.Calls[1].Prompt)
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
}

func TestMockProvider_Responder(t *testing.T) {
	mock := &MockProvider{Responder: func(req Request) MockResponse {
		return MockResponse{Text: "echo: " + req.Prompt}
	}}
	resp, err := mock.Generate(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", resp.Text)
	assert.Equal(t, 1, mock.CallCount())
}

func TestUsage_Add(t *testing.T) {
	u := Usage{InputTokens: 1, OutputTokens: 2, TotalTokens: 3}.Add(Usage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30})
	assert.Equal(t, Usage{InputTokens: 11, OutputTokens: 22, TotalTokens: 33}, u)
}
