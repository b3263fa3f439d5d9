package llm

import (
	"context"
	"strings"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Text  string
	Usage Usage
	Err   error
}

// MockProvider is a deterministic Provider for tests and offline development.
// It returns canned responses in FIFO order and records all requests. When the
// queue is empty it falls back to Responder, if set.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	// Responder produces a reply for requests once the queue is drained.
	Responder func(Request) MockResponse
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// nothing is queued and no Responder is set.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	case m.Responder != nil:
		responder := m.Responder
		m.mu.Unlock()
		resp = responder(req)
		m.mu.Lock()
	default:
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{}
	}
	m.mu.Unlock()

	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Response{Text: resp.Text, Usage: resp.Usage, Model: "mock"}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

const offlineQuestions = `{"questions": [
	{"question": "What is the main idea of this material?", "type": "knowledge", "context": "Overview", "difficulty": "easy", "hint": "Look at the opening section", "key_points": ["main idea"]},
	{"question": "Which key terms does the material define?", "type": "knowledge", "context": "Definitions", "difficulty": "easy", "hint": "Look for definitions", "key_points": ["terms", "definitions"]},
	{"question": "How would you apply the central concept to a new problem?", "type": "application", "context": "Application", "difficulty": "medium", "hint": "Pick a familiar example", "key_points": ["transfer", "example"]},
	{"question": "How do the main concepts relate to each other?", "type": "analysis", "context": "Relationships", "difficulty": "medium", "hint": "Compare and contrast", "key_points": ["similarities", "differences"]},
	{"question": "What are the limitations of the approach described?", "type": "evaluation", "context": "Critique", "difficulty": "hard", "hint": "Think about edge cases", "key_points": ["trade-offs", "limitations"]}
]}`

const offlineFeedback = `{"score": 70, "feedback": "Offline grading: the answer was received.", "strengths": ["submitted an answer"], "improvements": ["configure a real LLM provider for grading"], "tip": "Set LLM_PROVIDER to grade answers properly."}`

// NewOfflineProvider returns a MockProvider that answers every request with
// canned questions or, for grading prompts, canned feedback. It lets the
// server run without an LLM account.
func NewOfflineProvider() *MockProvider {
	m := NewMockProvider()
	m.Responder = offlineResponder
	return m
}

func offlineResponder(req Request) MockResponse {
	if strings.Contains(req.System, "evaluating") {
		return MockResponse{Text: offlineFeedback}
	}
	return MockResponse{Text: offlineQuestions}
}
