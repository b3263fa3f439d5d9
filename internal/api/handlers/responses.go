package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"brainifi/internal/db"
	"brainifi/internal/study"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
)

// QuestionResponse is a stored question as the frontend sees it.
type QuestionResponse struct {
	ID         uuid.UUID  `json:"id"`
	Mode       study.Mode `json:"mode"`
	Position   int32      `json:"position"`
	Question   string     `json:"question"`
	Type       string     `json:"type"`
	Context    string     `json:"context"`
	Difficulty string     `json:"difficulty"`
	Hint       string     `json:"hint"`
	KeyPoints  []string   `json:"key_points"`
}

// DocumentSummary is one row of the document list.
type DocumentSummary struct {
	ID            uuid.UUID         `json:"id"`
	Filename      string            `json:"filename"`
	CourseCode    *string           `json:"course_code,omitempty"`
	SourceType    db.DocumentSource `json:"source_type"`
	SourceURL     *string           `json:"source_url,omitempty"`
	StorageURL    *string           `json:"storage_url,omitempty"`
	PageCount     int32             `json:"page_count"`
	QuestionCount int64             `json:"question_count"`
	UploadedAt    time.Time         `json:"uploaded_at"`
}

// DocumentDetail is a document with its questions grouped by mode.
type DocumentDetail struct {
	DocumentSummary
	Questions map[study.Mode][]QuestionResponse `json:"questions"`
}

// AnswerResponse is a stored answer together with its feedback.
type AnswerResponse struct {
	ID           uuid.UUID `json:"id"`
	QuestionID   uuid.UUID `json:"question_id"`
	Answer       string    `json:"answer"`
	Score        int32     `json:"score"`
	Passed       bool      `json:"passed"`
	Feedback     string    `json:"feedback"`
	Strengths    []string  `json:"strengths"`
	Improvements []string  `json:"improvements"`
	Tip          string    `json:"tip"`
	CreatedAt    time.Time `json:"created_at"`
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func toQuestionResponse(q db.Question) QuestionResponse {
	return QuestionResponse{
		ID:         q.ID,
		Mode:       study.Mode(q.Mode),
		Position:   q.Position,
		Question:   q.QuestionText,
		Type:       q.QuestionType,
		Context:    q.Context,
		Difficulty: q.Difficulty,
		Hint:       q.Hint,
		KeyPoints:  lo.Ternary(q.KeyPoints == nil, []string{}, q.KeyPoints),
	}
}

// groupByMode always carries every mode, empty ones as [].
func groupByMode(questions []db.Question) map[study.Mode][]QuestionResponse {
	grouped := lo.GroupBy(questions, func(q db.Question) study.Mode { return study.Mode(q.Mode) })
	out := make(map[study.Mode][]QuestionResponse, len(study.AllModes))
	for _, mode := range study.AllModes {
		out[mode] = lo.Map(grouped[mode], func(q db.Question, _ int) QuestionResponse { return toQuestionResponse(q) })
	}
	return out
}

func toDocumentSummary(d db.Document, questionCount int64) DocumentSummary {
	return DocumentSummary{
		ID:            d.ID,
		Filename:      d.Filename,
		CourseCode:    textPtr(d.CourseCode),
		SourceType:    d.SourceType,
		SourceURL:     textPtr(d.SourceUrl),
		StorageURL:    textPtr(d.StorageUrl),
		PageCount:     d.PageCount,
		QuestionCount: questionCount,
		UploadedAt:    d.UploadedAt,
	}
}

func toAnswerResponse(a db.Answer) AnswerResponse {
	return AnswerResponse{
		ID:           a.ID,
		QuestionID:   a.QuestionID,
		Answer:       a.AnswerText,
		Score:        a.Score,
		Passed:       a.Score >= study.PassingScore,
		Feedback:     a.Feedback,
		Strengths:    lo.Ternary(a.Strengths == nil, []string{}, a.Strengths),
		Improvements: lo.Ternary(a.Improvements == nil, []string{}, a.Improvements),
		Tip:          a.Tip,
		CreatedAt:    a.CreatedAt,
	}
}

// saveQuestions inserts questions for one mode in order, numbering them from 1.
func saveQuestions(ctx context.Context, q db.Querier, documentID uuid.UUID, mode study.Mode, questions []study.Question) ([]db.Question, error) {
	saved := make([]db.Question, 0, len(questions))
	for i, sq := range questions {
		row, err := q.CreateQuestion(ctx, db.CreateQuestionParams{
			DocumentID:   documentID,
			Mode:         db.StudyMode(mode),
			Position:     int32(i + 1),
			QuestionText: sq.Question,
			QuestionType: sq.Type,
			Context:      sq.Context,
			Difficulty:   sq.Difficulty,
			Hint:         sq.Hint,
			KeyPoints:    sq.KeyPoints,
		})
		if err != nil {
			return nil, err
		}
		saved = append(saved, row)
	}
	return saved, nil
}

// modelErrorStatus maps a generation or validation failure onto an HTTP status.
func modelErrorStatus(err error) int {
	switch {
	case errors.Is(err, study.ErrNoContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, study.ErrEmptyAnswer), errors.Is(err, study.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
