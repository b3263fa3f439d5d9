// source: questions.sql

package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const createQuestion = `-- name: CreateQuestion :one
INSERT INTO questions (document_id, mode, position, question_text, question_type, context, difficulty, hint, key_points)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, document_id, mode, position, question_text, question_type, context, difficulty, hint, key_points, created_at
`

type CreateQuestionParams struct {
	DocumentID   uuid.UUID `json:"document_id"`
	Mode         StudyMode `json:"mode"`
	Position     int32     `json:"position"`
	QuestionText string    `json:"question_text"`
	QuestionType string    `json:"question_type"`
	Context      string    `json:"context"`
	Difficulty   string    `json:"difficulty"`
	Hint         string    `json:"hint"`
	KeyPoints    []string  `json:"key_points"`
}

func (q *Queries) CreateQuestion(ctx context.Context, arg CreateQuestionParams) (Question, error) {
	row := q.db.QueryRow(ctx, createQuestion,
		arg.DocumentID,
		arg.Mode,
		arg.Position,
		arg.QuestionText,
		arg.QuestionType,
		arg.Context,
		arg.Difficulty,
		arg.Hint,
		arg.KeyPoints,
	)
	var i Question
	err := row.Scan(
		&i.ID,
		&i.DocumentID,
		&i.Mode,
		&i.Position,
		&i.QuestionText,
		&i.QuestionType,
		&i.Context,
		&i.Difficulty,
		&i.Hint,
		&i.KeyPoints,
		&i.CreatedAt,
	)
	return i, err
}

const deleteQuestionsByDocumentAndMode = `-- name: DeleteQuestionsByDocumentAndMode :execrows
DELETE FROM questions
WHERE document_id = $1 AND mode = $2
`

type DeleteQuestionsByDocumentAndModeParams struct {
	DocumentID uuid.UUID `json:"document_id"`
	Mode       StudyMode `json:"mode"`
}

func (q *Queries) DeleteQuestionsByDocumentAndMode(ctx context.Context, arg DeleteQuestionsByDocumentAndModeParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteQuestionsByDocumentAndMode, arg.DocumentID, arg.Mode)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getQuestion = `-- name: GetQuestion :one
SELECT id, document_id, mode, position, question_text, question_type, context, difficulty, hint, key_points, created_at FROM questions
WHERE id = $1 LIMIT 1
`

func (q *Queries) GetQuestion(ctx context.Context, id uuid.UUID) (Question, error) {
	row := q.db.QueryRow(ctx, getQuestion, id)
	var i Question
	err := row.Scan(
		&i.ID,
		&i.DocumentID,
		&i.Mode,
		&i.Position,
		&i.QuestionText,
		&i.QuestionType,
		&i.Context,
		&i.Difficulty,
		&i.Hint,
		&i.KeyPoints,
		&i.CreatedAt,
	)
	return i, err
}

const listQuestionsByDocument = `-- name: ListQuestionsByDocument :many
SELECT id, document_id, mode, position, question_text, question_type, context, difficulty, hint, key_points, created_at FROM questions
WHERE document_id = $1
ORDER BY mode, position
`

func (q *Queries) ListQuestionsByDocument(ctx context.Context, documentID uuid.UUID) ([]Question, error) {
	rows, err := q.db.Query(ctx, listQuestionsByDocument, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuestions(rows)
}

const listQuestionsByDocumentAndMode = `-- name: ListQuestionsByDocumentAndMode :many
SELECT id, document_id, mode, position, question_text, question_type, context, difficulty, hint, key_points, created_at FROM questions
WHERE document_id = $1 AND mode = $2
ORDER BY position
`

type ListQuestionsByDocumentAndModeParams struct {
	DocumentID uuid.UUID `json:"document_id"`
	Mode       StudyMode `json:"mode"`
}

func (q *Queries) ListQuestionsByDocumentAndMode(ctx context.Context, arg ListQuestionsByDocumentAndModeParams) ([]Question, error) {
	rows, err := q.db.Query(ctx, listQuestionsByDocumentAndMode, arg.DocumentID, arg.Mode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func scanQuestions(rows pgx.Rows) ([]Question, error) {
	var items []Question
	for rows.Next() {
		var i Question
		if err := rows.Scan(
			&i.ID,
			&i.DocumentID,
			&i.Mode,
			&i.Position,
			&i.QuestionText,
			&i.QuestionType,
			&i.Context,
			&i.Difficulty,
			&i.Hint,
			&i.KeyPoints,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
