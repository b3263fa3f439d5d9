// source: documents.sql

package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createDocument = `-- name: CreateDocument :one
INSERT INTO documents (user_id, filename, content, course_code, source_type, source_url, page_count)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, user_id, filename, content, course_code, source_type, source_url, storage_url, page_count, uploaded_at
`

type CreateDocumentParams struct {
	UserID     uuid.UUID      `json:"user_id"`
	Filename   string         `json:"filename"`
	Content    string         `json:"content"`
	CourseCode pgtype.Text    `json:"course_code"`
	SourceType DocumentSource `json:"source_type"`
	SourceUrl  pgtype.Text    `json:"source_url"`
	PageCount  int32          `json:"page_count"`
}

func (q *Queries) CreateDocument(ctx context.Context, arg CreateDocumentParams) (Document, error) {
	row := q.db.QueryRow(ctx, createDocument,
		arg.UserID,
		arg.Filename,
		arg.Content,
		arg.CourseCode,
		arg.SourceType,
		arg.SourceUrl,
		arg.PageCount,
	)
	var i Document
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Filename,
		&i.Content,
		&i.CourseCode,
		&i.SourceType,
		&i.SourceUrl,
		&i.StorageUrl,
		&i.PageCount,
		&i.UploadedAt,
	)
	return i, err
}

const deleteDocument = `-- name: DeleteDocument :exec
DELETE FROM documents
WHERE id = $1
`

func (q *Queries) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteDocument, id)
	return err
}

const getDocument = `-- name: GetDocument :one
SELECT id, user_id, filename, content, course_code, source_type, source_url, storage_url, page_count, uploaded_at FROM documents
WHERE id = $1 LIMIT 1
`

func (q *Queries) GetDocument(ctx context.Context, id uuid.UUID) (Document, error) {
	row := q.db.QueryRow(ctx, getDocument, id)
	var i Document
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Filename,
		&i.Content,
		&i.CourseCode,
		&i.SourceType,
		&i.SourceUrl,
		&i.StorageUrl,
		&i.PageCount,
		&i.UploadedAt,
	)
	return i, err
}

const listDocumentsByUser = `-- name: ListDocumentsByUser :many
SELECT d.id, d.filename, d.course_code, d.source_type, d.source_url, d.storage_url,
       d.page_count, d.uploaded_at,
       (SELECT COUNT(*) FROM questions q WHERE q.document_id = d.id)::bigint AS question_count
FROM documents d
WHERE d.user_id = $1
ORDER BY d.uploaded_at DESC
`

type ListDocumentsByUserRow struct {
	ID            uuid.UUID      `json:"id"`
	Filename      string         `json:"filename"`
	CourseCode    pgtype.Text    `json:"course_code"`
	SourceType    DocumentSource `json:"source_type"`
	SourceUrl     pgtype.Text    `json:"source_url"`
	StorageUrl    pgtype.Text    `json:"storage_url"`
	PageCount     int32          `json:"page_count"`
	UploadedAt    time.Time      `json:"uploaded_at"`
	QuestionCount int64          `json:"question_count"`
}

func (q *Queries) ListDocumentsByUser(ctx context.Context, userID uuid.UUID) ([]ListDocumentsByUserRow, error) {
	rows, err := q.db.Query(ctx, listDocumentsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListDocumentsByUserRow
	for rows.Next() {
		var i ListDocumentsByUserRow
		if err := rows.Scan(
			&i.ID,
			&i.Filename,
			&i.CourseCode,
			&i.SourceType,
			&i.SourceUrl,
			&i.StorageUrl,
			&i.PageCount,
			&i.UploadedAt,
			&i.QuestionCount,
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

const updateDocumentStorageURL = `-- name: UpdateDocumentStorageURL :exec
UPDATE documents
SET storage_url = $2
WHERE id = $1
`

type UpdateDocumentStorageURLParams struct {
	ID         uuid.UUID   `json:"id"`
	StorageUrl pgtype.Text `json:"storage_url"`
}

func (q *Queries) UpdateDocumentStorageURL(ctx context.Context, arg UpdateDocumentStorageURLParams) error {
	_, err := q.db.Exec(ctx, updateDocumentStorageURL, arg.ID, arg.StorageUrl)
	return err
}
