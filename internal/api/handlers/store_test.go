package handlers

import (
	"context"
	"slices"
	"sync"
	"time"

	"brainifi/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// memStore is an in-memory db.Store. Embedding the interface lets it skip
// queries the handlers under test never call.
type memStore struct {
	db.Querier

	mu        sync.Mutex
	users     map[string]db.User
	documents map[uuid.UUID]db.Document
	questions map[uuid.UUID]db.Question
	answers   []db.Answer
	logs      []db.CreateActivityLogParams
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]db.User{},
		documents: map[uuid.UUID]db.Document{},
		questions: map[uuid.UUID]db.Question{},
	}
}

func (s *memStore) ExecTx(ctx context.Context, fn func(db.Querier) error) error {
	return fn(s)
}

func (s *memStore) CreateActivityLog(_ context.Context, arg db.CreateActivityLogParams) (db.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, arg)
	return db.ActivityLog{ID: uuid.New(), UserID: arg.UserID, Action: arg.Action}, nil
}

func (s *memStore) actions() []db.ActivityAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]db.ActivityAction, 0, len(s.logs))
	for _, l := range s.logs {
		out = append(out, l.Action)
	}
	return out
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return db.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (s *memStore) CreateUser(_ context.Context, arg db.CreateUserParams) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := db.User{ID: uuid.New(), Email: arg.Email, Name: arg.Name, GoogleID: arg.GoogleID, Picture: arg.Picture, CreatedAt: time.Now()}
	s.users[arg.Email] = u
	return u, nil
}

func (s *memStore) UpdateUser(_ context.Context, arg db.UpdateUserParams) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, u := range s.users {
		if u.ID == arg.ID {
			u.Name, u.GoogleID, u.Picture = arg.Name, arg.GoogleID, arg.Picture
			s.users[email] = u
			return u, nil
		}
	}
	return db.User{}, pgx.ErrNoRows
}

func (s *memStore) CreateDocument(_ context.Context, arg db.CreateDocumentParams) (db.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := db.Document{
		ID:         uuid.New(),
		UserID:     arg.UserID,
		Filename:   arg.Filename,
		Content:    arg.Content,
		CourseCode: arg.CourseCode,
		SourceType: arg.SourceType,
		SourceUrl:  arg.SourceUrl,
		PageCount:  arg.PageCount,
		UploadedAt: time.Now(),
	}
	s.documents[d.ID] = d
	return d, nil
}

func (s *memStore) GetDocument(_ context.Context, id uuid.UUID) (db.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[id]
	if !ok {
		return db.Document{}, pgx.ErrNoRows
	}
	return d, nil
}

func (s *memStore) ListDocumentsByUser(_ context.Context, userID uuid.UUID) ([]db.ListDocumentsByUserRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []db.ListDocumentsByUserRow
	for _, d := range s.documents {
		if d.UserID != userID {
			continue
		}
		var count int64
		for _, q := range s.questions {
			if q.DocumentID == d.ID {
				count++
			}
		}
		rows = append(rows, db.ListDocumentsByUserRow{
			ID:            d.ID,
			Filename:      d.Filename,
			CourseCode:    d.CourseCode,
			SourceType:    d.SourceType,
			SourceUrl:     d.SourceUrl,
			StorageUrl:    d.StorageUrl,
			PageCount:     d.PageCount,
			UploadedAt:    d.UploadedAt,
			QuestionCount: count,
		})
	}
	return rows, nil
}

func (s *memStore) UpdateDocumentStorageURL(_ context.Context, arg db.UpdateDocumentStorageURLParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.documents[arg.ID]
	d.StorageUrl = arg.StorageUrl
	s.documents[arg.ID] = d
	return nil
}

func (s *memStore) DeleteDocument(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	for qid, q := range s.questions {
		if q.DocumentID == id {
			delete(s.questions, qid)
		}
	}
	return nil
}

func (s *memStore) CreateQuestion(_ context.Context, arg db.CreateQuestionParams) (db.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := db.Question{
		ID:           uuid.New(),
		DocumentID:   arg.DocumentID,
		Mode:         arg.Mode,
		Position:     arg.Position,
		QuestionText: arg.QuestionText,
		QuestionType: arg.QuestionType,
		Context:      arg.Context,
		Difficulty:   arg.Difficulty,
		Hint:         arg.Hint,
		KeyPoints:    arg.KeyPoints,
		CreatedAt:    time.Now(),
	}
	s.questions[q.ID] = q
	return q, nil
}

func (s *memStore) GetQuestion(_ context.Context, id uuid.UUID) (db.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return db.Question{}, pgx.ErrNoRows
	}
	return q, nil
}

func (s *memStore) ListQuestionsByDocument(_ context.Context, documentID uuid.UUID) ([]db.Question, error) {
	return s.listQuestions(func(q db.Question) bool { return q.DocumentID == documentID }), nil
}

func (s *memStore) ListQuestionsByDocumentAndMode(_ context.Context, arg db.ListQuestionsByDocumentAndModeParams) ([]db.Question, error) {
	return s.listQuestions(func(q db.Question) bool { return q.DocumentID == arg.DocumentID && q.Mode == arg.Mode }), nil
}

func (s *memStore) listQuestions(keep func(db.Question) bool) []db.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.Question
	for _, q := range s.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	slices.SortFunc(out, func(a, b db.Question) int {
		if a.Mode != b.Mode {
			return slices.Index(modeOrder, a.Mode) - slices.Index(modeOrder, b.Mode)
		}
		return int(a.Position - b.Position)
	})
	return out
}

var modeOrder = []db.StudyMode{db.StudyModeQUICKREVIEW, db.StudyModeDEEPSTUDY, db.StudyModeREVISION, db.StudyModeTESTPREP}

func (s *memStore) DeleteQuestionsByDocumentAndMode(_ context.Context, arg db.DeleteQuestionsByDocumentAndModeParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, q := range s.questions {
		if q.DocumentID == arg.DocumentID && q.Mode == arg.Mode {
			delete(s.questions, id)
			n++
		}
	}
	return n, nil
}

func (s *memStore) CreateAnswer(_ context.Context, arg db.CreateAnswerParams) (db.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := db.Answer{
		ID:           uuid.New(),
		QuestionID:   arg.QuestionID,
		UserID:       arg.UserID,
		AnswerText:   arg.AnswerText,
		Score:        arg.Score,
		Feedback:     arg.Feedback,
		Strengths:    arg.Strengths,
		Improvements: arg.Improvements,
		Tip:          arg.Tip,
		CreatedAt:    time.Now(),
	}
	s.answers = append(s.answers, a)
	return a, nil
}

func (s *memStore) ListAnswersByQuestionAndUser(_ context.Context, arg db.ListAnswersByQuestionAndUserParams) ([]db.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.Answer
	for i := len(s.answers) - 1; i >= 0; i-- {
		a := s.answers[i]
		if a.QuestionID == arg.QuestionID && a.UserID == arg.UserID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memStore) GetModeProgress(_ context.Context, userID uuid.UUID) ([]db.GetModeProgressRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	best := map[uuid.UUID]int32{}
	for _, a := range s.answers {
		if a.UserID != userID {
			continue
		}
		if cur, ok := best[a.QuestionID]; !ok || a.Score > cur {
			best[a.QuestionID] = a.Score
		}
	}
	byMode := map[db.StudyMode]*db.GetModeProgressRow{}
	for qid, score := range best {
		mode := s.questions[qid].Mode
		row, ok := byMode[mode]
		if !ok {
			row = &db.GetModeProgressRow{Mode: mode}
			byMode[mode] = row
		}
		row.Attempted++
		row.TotalScore += int64(score)
		if score >= 60 {
			row.Completed++
		}
	}
	var rows []db.GetModeProgressRow
	for _, r := range byMode {
		rows = append(rows, *r)
	}
	return rows, nil
}
