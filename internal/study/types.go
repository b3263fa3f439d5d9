package study

import "errors"

// Defaults applied to fields the model leaves out.
const (
	DefaultQuestionType = "knowledge"
	DefaultDifficulty   = "medium"
	DefaultHint         = "Think about the main concepts discussed."
	DefaultFeedback     = "No feedback available"
	DefaultTip          = "No specific tip available"
)

// PassingScore is the score at which an answer counts as completed.
const PassingScore = 60

var (
	ErrNoContent     = errors.New("no content to generate questions from")
	ErrNoQuestions   = errors.New("model reply contained no questions")
	ErrEmptyAnswer   = errors.New("answer must not be empty")
	ErrEmptyQuestion = errors.New("question must not be empty")
)

// Question is one generated study question.
type Question struct {
	Question   string   `json:"question"`
	Type       string   `json:"type"`
	Context    string   `json:"context"`
	Difficulty string   `json:"difficulty"`
	Hint       string   `json:"hint"`
	KeyPoints  []string `json:"key_points"`
	Mode       Mode     `json:"mode,omitempty"`
}

// Feedback is the model's evaluation of a student answer.
type Feedback struct {
	Score        int      `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Tip          string   `json:"tip"`
}

func (q *Question) applyDefaults() {
	if q.Type == "" {
		q.Type = DefaultQuestionType
	}
	if q.Difficulty == "" {
		q.Difficulty = DefaultDifficulty
	}
	if q.Hint == "" {
		q.Hint = DefaultHint
	}
	if q.KeyPoints == nil {
		q.KeyPoints = []string{}
	}
}
