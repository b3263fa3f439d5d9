// source: answers.sql

package db

import (
	"context"

	"github.com/google/uuid"
)

const createAnswer = `-- name: CreateAnswer :one
INSERT INTO answers (question_id, user_id, answer_text, score, feedback, strengths, improvements, tip)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, question_id, user_id, answer_text, score, feedback, strengths, improvements, tip, created_at
`

type CreateAnswerParams struct {
	QuestionID   uuid.UUID `json:"question_id"`
	UserID       uuid.UUID `json:"user_id"`
	AnswerText   string    `json:"answer_text"`
	Score        int32     `json:"score"`
	Feedback     string    `json:"feedback"`
	Strengths    []string  `json:"strengths"`
	Improvements []string  `json:"improvements"`
	Tip          string    `json:"tip"`
}

func (q *Queries) CreateAnswer(ctx context.Context, arg CreateAnswerParams) (Answer, error) {
	row := q.db.QueryRow(ctx, createAnswer,
		arg.QuestionID,
		arg.UserID,
		arg.AnswerText,
		arg.Score,
		arg.Feedback,
		arg.Strengths,
		arg.Improvements,
		arg.Tip,
	)
	var i Answer
	err := row.Scan(
		&i.ID,
		&i.QuestionID,
		&i.UserID,
		&i.AnswerText,
		&i.Score,
		&i.Feedback,
		&i.Strengths,
		&i.Improvements,
		&i.Tip,
		&i.CreatedAt,
	)
	return i, err
}

const getModeProgress = `-- name: GetModeProgress :many
SELECT best.mode,
       COUNT(*)::bigint AS attempted,
       (COUNT(*) FILTER (WHERE best.score >= 60))::bigint AS completed,
       COALESCE(SUM(best.score), 0)::bigint AS total_score
FROM (
    SELECT q.mode, a.question_id, MAX(a.score) AS score
    FROM answers a
    JOIN questions q ON q.id = a.question_id
    WHERE a.user_id = $1
    GROUP BY q.mode, a.question_id
) best
GROUP BY best.mode
ORDER BY best.mode
`

type GetModeProgressRow struct {
	Mode       StudyMode `json:"mode"`
	Attempted  int64     `json:"attempted"`
	Completed  int64     `json:"completed"`
	TotalScore int64     `json:"total_score"`
}

// Each question counts once, at the best score the user reached on it.
func (q *Queries) GetModeProgress(ctx context.Context, userID uuid.UUID) ([]GetModeProgressRow, error) {
	rows, err := q.db.Query(ctx, getModeProgress, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetModeProgressRow
	for rows.Next() {
		var i GetModeProgressRow
		if err := rows.Scan(
			&i.Mode,
			&i.Attempted,
			&i.Completed,
			&i.TotalScore,
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

const listAnswersByQuestionAndUser = `-- name: ListAnswersByQuestionAndUser :many
SELECT id, question_id, user_id, answer_text, score, feedback, strengths, improvements, tip, created_at FROM answers
WHERE question_id = $1 AND user_id = $2
ORDER BY created_at DESC
`

type ListAnswersByQuestionAndUserParams struct {
	QuestionID uuid.UUID `json:"question_id"`
	UserID     uuid.UUID `json:"user_id"`
}

func (q *Queries) ListAnswersByQuestionAndUser(ctx context.Context, arg ListAnswersByQuestionAndUserParams) ([]Answer, error) {
	rows, err := q.db.Query(ctx, listAnswersByQuestionAndUser, arg.QuestionID, arg.UserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Answer
	for rows.Next() {
		var i Answer
		if err := rows.Scan(
			&i.ID,
			&i.QuestionID,
			&i.UserID,
			&i.AnswerText,
			&i.Score,
			&i.Feedback,
			&i.Strengths,
			&i.Improvements,
			&i.Tip,
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
