package db

import (
	"context"

	"github.com/google/uuid"
)

type Querier interface {
	CreateActivityLog(ctx context.Context, arg CreateActivityLogParams) (ActivityLog, error)
	CreateAnswer(ctx context.Context, arg CreateAnswerParams) (Answer, error)
	CreateDocument(ctx context.Context, arg CreateDocumentParams) (Document, error)
	CreateQuestion(ctx context.Context, arg CreateQuestionParams) (Question, error)
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	DeleteQuestionsByDocumentAndMode(ctx context.Context, arg DeleteQuestionsByDocumentAndModeParams) (int64, error)
	GetDocument(ctx context.Context, id uuid.UUID) (Document, error)
	// Each question counts once, at the best score the user reached on it.
	GetModeProgress(ctx context.Context, userID uuid.UUID) ([]GetModeProgressRow, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (Question, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	ListAnswersByQuestionAndUser(ctx context.Context, arg ListAnswersByQuestionAndUserParams) ([]Answer, error)
	ListDocumentsByUser(ctx context.Context, userID uuid.UUID) ([]ListDocumentsByUserRow, error)
	ListQuestionsByDocument(ctx context.Context, documentID uuid.UUID) ([]Question, error)
	ListQuestionsByDocumentAndMode(ctx context.Context, arg ListQuestionsByDocumentAndModeParams) ([]Question, error)
	UpdateDocumentStorageURL(ctx context.Context, arg UpdateDocumentStorageURLParams) error
	UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error)
}

var _ Querier = (*Queries)(nil)
