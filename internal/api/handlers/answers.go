package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"brainifi/internal/db"
	"brainifi/internal/study"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
)

// ValidateRequest is a free-standing answer check that is not stored.
type ValidateRequest struct {
	Question string `json:"question" binding:"required"`
	Context  string `json:"context"`
	Answer   string `json:"answer"`
}

// SubmitAnswerRequest is the body of an answer to a stored question.
type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

// HandleValidateAnswer grades an answer against a question given in the body.
func (h *Handler) HandleValidateAnswer(c *gin.Context) {
	profile, ok := h.currentUser(c)
	if !ok {
		return
	}
	userID := profile.DatabaseID

	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleErrorAndNotify(c, userID, http.StatusBadRequest, "Bind Validate Request", err)
		return
	}
	if strings.TrimSpace(req.Answer) == "" {
		h.handleErrorAndNotify(c, userID, http.StatusBadRequest, "Validate Answer", study.ErrEmptyAnswer)
		return
	}

	feedback, usage, err := h.Validator.Validate(c.Request.Context(), req.Question, req.Context, req.Answer)
	if err != nil {
		h.handleErrorAndNotify(c, userID, modelErrorStatus(err), "Validate Answer", err)
		return
	}

	h.logActivity(c.Request.Context(), userID, db.ActivityActionAnswerValidate, db.NullActivityTargetType{}, pgtype.UUID{},
		map[string]interface{}{"score": feedback.Score, "tokens": usage.TotalTokens})

	c.JSON(http.StatusOK, feedback)
}

// ownedQuestion loads the :questionId question and checks its document belongs to userID.
func (h *Handler) ownedQuestion(c *gin.Context, userID uuid.UUID) (db.Question, bool) {
	questionID, ok := h.parseIDParam(c, userID, "questionId")
	if !ok {
		return db.Question{}, false
	}
	ctx := c.Request.Context()

	question, err := h.Store.GetQuestion(ctx, questionID)
	if err != nil {
		if db.IsNotFound(err) {
			h.handleErrorAndNotify(c, userID, http.StatusNotFound, "Get Question", fmt.Errorf("question %s not found", questionID))
			return db.Question{}, false
		}
		h.handleErrorAndNotify(c, userID, http.StatusInternalServerError, "Get Question", err)
		return db.Question{}, false
	}

	doc, err := h.Store.GetDocument(ctx, question.DocumentID)
	if err != nil {
		h.handleErrorAndNotify(c, userID, http.StatusInternalServerError, "Get Question Document", err)
		return db.Question{}, false
	}
	if doc.UserID != userID {
		h.handleErrorAndNotify(c, userID, http.StatusForbidden, "Get Question", errNotOwner)
		return db.Question{}, false
	}
	return question, true
}

// HandleSubmitAnswer grades an answer to a stored question and keeps it with its feedback.
func (h *Handler) HandleSubmitAnswer(c *gin.Context) {
	profile, ok := h.currentUser(c)
	if !ok {
		return
	}
	userID := profile.DatabaseID

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleErrorAndNotify(c, userID, http.StatusBadRequest, "Bind Answer Request", err)
		return
	}
	if strings.TrimSpace(req.Answer) == "" {
		h.handleErrorAndNotify(c, userID, http.StatusBadRequest, "Validate Answer", study.ErrEmptyAnswer)
		return
	}

	question, ok := h.ownedQuestion(c, userID)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	feedback, usage, err := h.Validator.Validate(ctx, question.QuestionText, question.Context, req.Answer)
	if err != nil {
		h.handleErrorAndNotify(c, userID, modelErrorStatus(err), "Validate Answer", err)
		return
	}

	answer, err := h.Store.CreateAnswer(ctx, db.CreateAnswerParams{
		QuestionID:   question.ID,
		UserID:       userID,
		AnswerText:   req.Answer,
		Score:        int32(feedback.Score),
		Feedback:     feedback.Feedback,
		Strengths:    feedback.Strengths,
		Improvements: feedback.Improvements,
		Tip:          feedback.Tip,
	})
	if err != nil {
		h.handleErrorAndNotify(c, userID, http.StatusInternalServerError, "Save Answer", err)
		return
	}

	targetType, targetID := target(db.ActivityTargetTypeAnswer, answer.ID)
	h.logActivity(ctx, userID, db.ActivityActionAnswerSubmit, targetType, targetID, map[string]interface{}{
		"question_id": question.ID,
		"mode":        question.Mode,
		"score":       answer.Score,
		"tokens":      usage.TotalTokens,
	})

	log.Printf("INFO: User %s scored %d on question %s", userID, answer.Score, question.ID)
	c.JSON(http.StatusCreated, toAnswerResponse(answer))
}

// HandleListAnswers returns the caller's previous answers to a question, newest first.
func (h *Handler) HandleListAnswers(c *gin.Context) {
	profile, ok := h.currentUser(c)
	if !ok {
		return
	}
	userID := profile.DatabaseID
	question, ok := h.ownedQuestion(c, userID)
	if !ok {
		return
	}

	answers, err := h.Store.ListAnswersByQuestionAndUser(c.Request.Context(), db.ListAnswersByQuestionAndUserParams{
		QuestionID: question.ID,
		UserID:     userID,
	})
	if err != nil {
		h.handleErrorAndNotify(c, userID, http.StatusInternalServerError, "List Answers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"question_id": question.ID,
		"answers":     lo.Map(answers, func(a db.Answer, _ int) AnswerResponse { return toAnswerResponse(a) }),
	})
}
