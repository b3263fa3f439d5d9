package db

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ActivityAction string

const (
	ActivityActionLogin             ActivityAction = "login"
	ActivityActionLogout            ActivityAction = "logout"
	ActivityActionDocumentUpload    ActivityAction = "document_upload"
	ActivityActionDocumentDelete    ActivityAction = "document_delete"
	ActivityActionQuestionsGenerate ActivityAction = "questions_generate"
	ActivityActionAnswerSubmit      ActivityAction = "answer_submit"
	ActivityActionAnswerValidate    ActivityAction = "answer_validate"
	ActivityActionError             ActivityAction = "error"
)

func (e *ActivityAction) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = ActivityAction(s)
	case string:
		*e = ActivityAction(s)
	default:
		return fmt.Errorf("unsupported scan type for ActivityAction: %T", src)
	}
	return nil
}

type ActivityTargetType string

const (
	ActivityTargetTypeUser     ActivityTargetType = "user"
	ActivityTargetTypeDocument ActivityTargetType = "document"
	ActivityTargetTypeQuestion ActivityTargetType = "question"
	ActivityTargetTypeAnswer   ActivityTargetType = "answer"
)

func (e *ActivityTargetType) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = ActivityTargetType(s)
	case string:
		*e = ActivityTargetType(s)
	default:
		return fmt.Errorf("unsupported scan type for ActivityTargetType: %T", src)
	}
	return nil
}

type NullActivityTargetType struct {
	ActivityTargetType ActivityTargetType `json:"activity_target_type"`
	Valid              bool               `json:"valid"` // Valid is true if ActivityTargetType is not NULL
}

// Scan implements the Scanner interface.
func (ns *NullActivityTargetType) Scan(value interface{}) error {
	if value == nil {
		ns.ActivityTargetType, ns.Valid = "", false
		return nil
	}
	ns.Valid = true
	return ns.ActivityTargetType.Scan(value)
}

// Value implements the driver Valuer interface.
func (ns NullActivityTargetType) Value() (driver.Value, error) {
	if !ns.Valid {
		return nil, nil
	}
	return string(ns.ActivityTargetType), nil
}

type DocumentSource string

const (
	DocumentSourcePdf     DocumentSource = "pdf"
	DocumentSourceYoutube DocumentSource = "youtube"
)

func (e *DocumentSource) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = DocumentSource(s)
	case string:
		*e = DocumentSource(s)
	default:
		return fmt.Errorf("unsupported scan type for DocumentSource: %T", src)
	}
	return nil
}

type StudyMode string

const (
	StudyModeQUICKREVIEW StudyMode = "QUICK_REVIEW"
	StudyModeDEEPSTUDY   StudyMode = "DEEP_STUDY"
	StudyModeREVISION    StudyMode = "REVISION"
	StudyModeTESTPREP    StudyMode = "TEST_PREP"
)

func (e *StudyMode) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = StudyMode(s)
	case string:
		*e = StudyMode(s)
	default:
		return fmt.Errorf("unsupported scan type for StudyMode: %T", src)
	}
	return nil
}

type ActivityLog struct {
	ID         uuid.UUID              `json:"id"`
	UserID     pgtype.UUID            `json:"user_id"`
	Action     ActivityAction         `json:"action"`
	TargetType NullActivityTargetType `json:"target_type"`
	TargetID   pgtype.UUID            `json:"target_id"`
	Details    []byte                 `json:"details"`
	CreatedAt  time.Time              `json:"created_at"`
}

type Answer struct {
	ID           uuid.UUID `json:"id"`
	QuestionID   uuid.UUID `json:"question_id"`
	UserID       uuid.UUID `json:"user_id"`
	AnswerText   string    `json:"answer_text"`
	Score        int32     `json:"score"`
	Feedback     string    `json:"feedback"`
	Strengths    []string  `json:"strengths"`
	Improvements []string  `json:"improvements"`
	Tip          string    `json:"tip"`
	CreatedAt    time.Time `json:"created_at"`
}

type Document struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"user_id"`
	Filename   string         `json:"filename"`
	Content    string         `json:"content"`
	CourseCode pgtype.Text    `json:"course_code"`
	SourceType DocumentSource `json:"source_type"`
	SourceUrl  pgtype.Text    `json:"source_url"`
	StorageUrl pgtype.Text    `json:"storage_url"`
	PageCount  int32          `json:"page_count"`
	UploadedAt time.Time      `json:"uploaded_at"`
}

type Question struct {
	ID           uuid.UUID `json:"id"`
	DocumentID   uuid.UUID `json:"document_id"`
	Mode         StudyMode `json:"mode"`
	Position     int32     `json:"position"`
	QuestionText string    `json:"question_text"`
	QuestionType string    `json:"question_type"`
	Context      string    `json:"context"`
	Difficulty   string    `json:"difficulty"`
	Hint         string    `json:"hint"`
	KeyPoints    []string  `json:"key_points"`
	CreatedAt    time.Time `json:"created_at"`
}

type User struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Name      pgtype.Text `json:"name"`
	GoogleID  pgtype.Text `json:"google_id"`
	Picture   pgtype.Text `json:"picture"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
