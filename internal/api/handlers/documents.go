package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"brainifi/internal/db"
	"brainifi/internal/study"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// maxRegenerateCount caps how many questions one regeneration may ask for.
const maxRegenerateCount = 20

var errNotOwner = errors.New("resource belongs to another user")

// ownedDocument loads the :documentId document and checks it belongs to userID.
// It aborts with 400, 403, 404 or 500 and returns false when it cannot.
func (h *Handler) ownedDocument(c *gin.Context, userID uuid.UUID) (db.Document, bool) {
	documentID, ok := h.parseIDParam(c, userID, "documentId")
	if !ok {
		return db.Document{}, false
	}
	doc, err := h.Store.GetDocument(c.Request.Context(), documentID)
	if err != nil {
		if db.IsNotFound(err) {
			h.handleErrorAndNotify(c, userID, http.StatusNotFound, "Get Document", fmt.Errorf("document %s not found", documentID))
			return db.Document{}, false
		}
		h.handleErrorAndNotify(c, userID, http.StatusInternalServerError, "Get Document", err)
		return db.Document{}, false
	}
	if doc.UserID != userID {
		h.handleErrorAndNotify(c, userID, http.StatusForbidden, "Get Document", errNotOwner)
		return db.Document{}, false
	}
	return doc, true
}

// HandleListDocuments lists the caller's documents, newest first.
func (h *Handler) HandleListDocuments(c *gin.Context) {
	profile, ok := h.currentUser(c)
	if !ok {
		return
	}
	rows, err := h.Store.ListDocumentsByUser(c.Request.Context(), profile.DatabaseID)
	if err != nil {
		h.handleErrorAndNotify(c, profile.DatabaseID, http.StatusInternalServerError, "List Documents", err)
		return
	}

	docs := lo.Map(rows, func(r db.ListDocumentsByUserRow, _ int) DocumentSummary {
		return toDocumentSummary(db.Document{
			ID:         r.ID,
			Filename:   r.Filename,
			CourseCode: r.CourseCode,
			SourceType: r.SourceType,
			SourceUrl:  r.SourceUrl,
			StorageUrl: r.StorageUrl,
			PageCount:  r.PageCount,
			UploadedAt: r.UploadedAt,
		}, r.QuestionCount)
	})
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// HandleGetDocument returns one document with its questions grouped by mode.
func (h *Handler) HandleGetDocument(c *gin.Context) {
	profile, ok := h.currentUser(c)
	if !ok {
		return
	}
	doc, ok := h.ownedDocument(c, profile.DatabaseID)
	if !ok {
		return
	}

	questions, err := h.Store.ListQuestionsByDocument(c.Request.Context(), doc.ID)
	if err != nil {
		h.handleErrorAndNotify(c, profile.DatabaseID, http.StatusInternalServerError, "List Questions", err)
		return
	}

	c.JSON(http.StatusOK, DocumentDetail{
		DocumentSummary: toDocumentSummary(doc, int64(len(questions))),
		Questions:       groupByMode(questions),
	})
}

// HandleDeleteDocument removes a document, its questions and answers, and the stored original.
func (h *Handler) HandleDeleteDocument(c *gin.Context) {
	profile, ok := h.currentUser(c)
	if !ok {
		return
	}
	userID := profile.DatabaseID
	doc, ok := h.ownedDocument(c, userID)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := h.Store.DeleteDocument(ctx, doc.ID); err != nil {
		h.handleErrorAndNotify(c, userID, http.StatusInternalServerError, "Delete Document", err)
		return
	}

	if doc.StorageUrl.Valid {
		if err := h.Storage.DeleteDocument(ctx, userID, doc.ID, doc.Filename); err != nil {
			log.Printf("WARN: Failed to delete stored original of document %s: %v", doc.ID, err)
		}
	}

	targetType, targetID := target(db.ActivityTargetTypeDocument, doc.ID)
	h.logActivity(ctx, userID, db.ActivityActionDocumentDelete, targetType, targetID,
		map[string]interface{}{"filename": doc.Filename})

	log.Printf("INFO: Document %s deleted by user %s", doc.ID, userID)
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

// RegenerateRequest asks for a fresh set of questions in one mode.
type RegenerateRequest struct {
	Mode  string `json:"mode" binding:"required"`
	Count int    `json:"count"`
}

// HandleRegenerateQuestions replaces the stored questions of one mode with newly generated ones.
func (h *Handler) HandleRegenerateQuestions(c *gin.Context) {
	profile, ok := h.currentUser(c)
	if !ok {
		return
	}
	userID := profile.DatabaseID

	var req RegenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleErrorAndNotify(c, userID, http.StatusBadRequest, "Bind Regenerate Request", err)
		return
	}
	mode, err := study.ParseMode(req.Mode)
	if err != nil {
		h.handleErrorAndNotify(c, userID, http.StatusBadRequest, "Validate Regenerate Request", err)
		return
	}
	if req.Count == 0 {
		req.Count = mode.DefaultCount()
	}
	if req.Count < 1 || req.Count > maxRegenerateCount {
		h.handleErrorAndNotify(c, userID, http.StatusBadRequest, "Validate Regenerate Request",
			fmt.Errorf("count must be between 1 and %d", maxRegenerateCount))
		return
	}

	doc, ok := h.ownedDocument(c, userID)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	generated, usage, err := h.Generator.Generate(ctx, doc.Content, mode, req.Count)
	if err != nil {
		h.handleErrorAndNotify(c, userID, modelErrorStatus(err), "Generate Questions", err)
		return
	}

	var saved []db.Question
	var replaced int64
	err = h.Store.ExecTx(ctx, func(q db.Querier) error {
		var err error
		replaced, err = q.DeleteQuestionsByDocumentAndMode(ctx, db.DeleteQuestionsByDocumentAndModeParams{
			DocumentID: doc.ID,
			Mode:       db.StudyMode(mode),
		})
		if err != nil {
			return fmt.Errorf("delete old questions: %w", err)
		}
		saved, err = saveQuestions(ctx, q, doc.ID, mode, generated)
		return err
	})
	if err != nil {
		h.handleErrorAndNotify(c, userID, http.StatusInternalServerError, "Save Questions", err)
		return
	}

	targetType, targetID := target(db.ActivityTargetTypeDocument, doc.ID)
	h.logActivity(ctx, userID, db.ActivityActionQuestionsGenerate, targetType, targetID, map[string]interface{}{
		"mode":     mode,
		"count":    len(saved),
		"replaced": replaced,
		"tokens":   usage.TotalTokens,
	})

	c.JSON(http.StatusOK, gin.H{
		"document_id": doc.ID,
		"mode":        mode,
		"questions":   lo.Map(saved, func(q db.Question, _ int) QuestionResponse { return toQuestionResponse(q) }),
	})
}
