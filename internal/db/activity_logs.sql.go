// source: activity_logs.sql

package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createActivityLog = `-- name: CreateActivityLog :one
INSERT INTO activity_logs (user_id, action, target_type, target_id, details)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, action, target_type, target_id, details, created_at
`

type CreateActivityLogParams struct {
	UserID     pgtype.UUID            `json:"user_id"`
	Action     ActivityAction         `json:"action"`
	TargetType NullActivityTargetType `json:"target_type"`
	TargetID   pgtype.UUID            `json:"target_id"`
	Details    []byte                 `json:"details"`
}

func (q *Queries) CreateActivityLog(ctx context.Context, arg CreateActivityLogParams) (ActivityLog, error) {
	row := q.db.QueryRow(ctx, createActivityLog,
		arg.UserID,
		arg.Action,
		arg.TargetType,
		arg.TargetID,
		arg.Details,
	)
	var i ActivityLog
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Action,
		&i.TargetType,
		&i.TargetID,
		&i.Details,
		&i.CreatedAt,
	)
	return i, err
}
