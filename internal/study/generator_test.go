package study

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"brainifi/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Each sentence is longer than the chunk size below, so every sentence is its own chunk.
const threeTopics = "Alpha is the first topic in these notes. " +
	"Beta is the second topic in these notes. " +
	"Gamma is the third topic in these notes."

// topicOf returns the first word of the content section of a question prompt.
func topicOf(prompt string) string {
	_, content, _ := strings.Cut(prompt, "Content:\n")
	return strings.Fields(content)[0]
}

func perTopicResponder(fail string) func(llm.Request) llm.MockResponse {
	return func(req llm.Request) llm.MockResponse {
		topic := topicOf(req.Prompt)
		if topic == fail {
			return llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}
		}
		return llm.MockResponse{
			Text:  fmt.Sprintf(`[{"question": "What is %s?"}, {"question": "Why does %s matter?"}]`, topic, topic),
			Usage: llm.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
		}
	}
}

func newTestGenerator(responder func(llm.Request) llm.MockResponse) (*Generator, *llm.MockProvider) {
	mock := &llm.MockProvider{Responder: responder}
	return NewGenerator(mock, GeneratorOptions{ChunkSize: 45, MaxChunks: 8, Workers: 2}), mock
}

func TestGenerate_ChunkOrderAndTruncation(t *testing.T) {
	g, mock := newTestGenerator(perTopicResponder(""))

	got, usage, err := g.Generate(context.Background(), threeTopics, DeepStudy, 5)
	require.NoError(t, err)

	texts := make([]string, len(got))
	for i, q := range got {
		texts[i] = q.Question
		assert.Equal(t, DeepStudy, q.Mode)
	}
	assert.Equal(t, []string{
		"What is Alpha?", "Why does Alpha matter?",
		"What is Beta?", "Why does Beta matter?",
		"What is Gamma?",
	}, texts)
	assert.Equal(t, 3, mock.CallCount())
	assert.Equal(t, 45, usage.TotalTokens)

	for _, call := range mock.Calls {
		assert.Contains(t, call.Prompt, "create 2 questions")
		assert.Contains(t, call.Prompt, "in-depth questions")
		assert.Equal(t, 0.7, call.Temperature)
		assert.True(t, call.JSON)
		// json_object response modes cannot return a bare array.
		assert.Contains(t, call.System, `{"questions": [...]}`)
	}
}

func TestGenerate_FewerChunksThanRequested(t *testing.T) {
	g, mock := newTestGenerator(perTopicResponder(""))

	got, _, err := g.Generate(context.Background(), threeTopics, QuickReview, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "What is Alpha?", got[0].Question)
	assert.Equal(t, 1, mock.CallCount())
}

func TestGenerate_Deduplicates(t *testing.T) {
	g, _ := newTestGenerator(func(llm.Request) llm.MockResponse {
		return llm.MockResponse{Text: `[{"question": "What is a topic?"}, {"question": "what is a TOPIC"}]`}
	})

	got, _, err := g.Generate(context.Background(), threeTopics, Revision, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "What is a topic?", got[0].Question)
}

func TestGenerate_SkipsFailedChunk(t *testing.T) {
	g, _ := newTestGenerator(perTopicResponder("Beta"))

	got, _, err := g.Generate(context.Background(), threeTopics, TestPrep, 6)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "What is Gamma?", got[2].Question)
}

func TestGenerate_AllChunksFail(t *testing.T) {
	g, _ := newTestGenerator(func(llm.Request) llm.MockResponse {
		return llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}
	})

	_, _, err := g.Generate(context.Background(), threeTopics, QuickReview, 3)
	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
}

func TestGenerate_UnparseableReplies(t *testing.T) {
	g, _ := newTestGenerator(func(llm.Request) llm.MockResponse {
		return llm.MockResponse{Text: "I'd rather not."}
	})

	_, _, err := g.Generate(context.Background(), threeTopics, QuickReview, 3)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestGenerate_EmptyText(t *testing.T) {
	g, mock := newTestGenerator(perTopicResponder(""))

	_, _, err := g.Generate(context.Background(), "   ", QuickReview, 3)
	assert.ErrorIs(t, err, ErrNoContent)
	assert.Zero(t, mock.CallCount())
}

func TestGenerate_UnknownMode(t *testing.T) {
	g, _ := newTestGenerator(perTopicResponder(""))
	_, _, err := g.Generate(context.Background(), threeTopics, Mode("CRAM"), 3)
	assert.Error(t, err)
}

func TestGenerate_CancelledContext(t *testing.T) {
	g, _ := newTestGenerator(perTopicResponder(""))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := g.Generate(ctx, threeTopics, QuickReview, 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateAll(t *testing.T) {
	g, _ := newTestGenerator(func(req llm.Request) llm.MockResponse {
		topic := topicOf(req.Prompt)
		var qs []string
		for i := range 5 {
			qs = append(qs, fmt.Sprintf(`{"question": "%s question %d?"}`, topic, i))
		}
		return llm.MockResponse{Text: "[" + strings.Join(qs, ",") + "]"}
	})

	got, _, err := g.GenerateAll(context.Background(), threeTopics)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Len(t, got[QuickReview], 3)
	assert.Len(t, got[DeepStudy], 5)
	assert.Len(t, got[Revision], 5)
	assert.Len(t, got[TestPrep], 5)
}

func TestGenerateAll_PartialFailure(t *testing.T) {
	g, _ := newTestGenerator(func(req llm.Request) llm.MockResponse {
		if strings.Contains(req.Prompt, "exam-style") {
			return llm.MockResponse{Err: &llm.ErrBadRequest{StatusCode: 400, Err: errors.New("bad")}}
		}
		return perTopicResponder("")(req)
	})

	got, _, err := g.GenerateAll(context.Background(), threeTopics)
	require.NoError(t, err)
	assert.Empty(t, got[TestPrep])
	assert.NotNil(t, got[TestPrep])
	assert.Len(t, got[QuickReview], 3)
}

func TestGenerateAll_EverythingFails(t *testing.T) {
	g, _ := newTestGenerator(func(llm.Request) llm.MockResponse {
		return llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}
	})

	_, _, err := g.GenerateAll(context.Background(), threeTopics)
	assert.Error(t, err)
}

func TestSelectChunks(t *testing.T) {
	chunks := []string{"a", "b", "c", "d", "e", "f"}
	assert.Equal(t, []string{"a", "c", "e"}, selectChunks(chunks, 3))
	assert.Equal(t, chunks, selectChunks(chunks, 10))
}

func TestValidator(t *testing.T) {
	t.Run("empty answer never reaches the model", func(t *testing.T) {
		mock := llm.NewMockProvider()
		_, _, err := NewValidator(mock).Validate(context.Background(), "Q?", "ctx", "   ")
		assert.ErrorIs(t, err, ErrEmptyAnswer)
		assert.Zero(t, mock.CallCount())
	})

	t.Run("blank question never reaches the model", func(t *testing.T) {
		mock := llm.NewMockProvider()
		_, _, err := NewValidator(mock).Validate(context.Background(), "  \n ", "ctx", "a stack is LIFO")
		assert.ErrorIs(t, err, ErrEmptyQuestion)
		assert.Zero(t, mock.CallCount())
	})

	t.Run("grades answer", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{
			Text: `{"score": 90, "feedback": "Great", "strengths": ["precise"], "improvements": [], "tip": "Keep going"}`,
		})
		fb, _, err := NewValidator(mock).Validate(context.Background(), "What is a stack?", "LIFO", "A last-in first-out list")
		require.NoError(t, err)
		assert.Equal(t, 90, fb.Score)
		assert.Equal(t, []string{"precise"}, fb.Strengths)

		require.Len(t, mock.Calls, 1)
		assert.Equal(t, 0.3, mock.Calls[0].Temperature)
		assert.Contains(t, mock.Calls[0].Prompt, "Student Answer: A last-in first-out list")
	})

	t.Run("provider error", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
		_, _, err := NewValidator(mock).Validate(context.Background(), "Q?", "", "answer")
		var unavail *llm.ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavail)
	})
}

func TestOfflineProvider(t *testing.T) {
	p := llm.NewOfflineProvider()
	ctx := context.Background()

	all, _, err := NewGenerator(p, GeneratorOptions{}).GenerateAll(ctx, "A stack is a last-in first-out structure. A queue is a first-in first-out structure.")
	require.NoError(t, err)
	for _, mode := range AllModes {
		assert.NotEmpty(t, all[mode], mode)
	}

	fb, _, err := NewValidator(p).Validate(ctx, "What is a stack?", "", "LIFO")
	require.NoError(t, err)
	assert.Equal(t, 70, fb.Score)
}
