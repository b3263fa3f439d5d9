package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"brainifi/internal/db"
	"brainifi/internal/notify"
	"brainifi/internal/pdftext"
	"brainifi/internal/study"
	"brainifi/internal/youtube"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
)

// transcriptLang is the caption track requested for video uploads.
const transcriptLang = "en"

// uploadSource is the raw material of one upload, PDF or video.
type uploadSource struct {
	filename   string
	rawText    string
	pdfBytes   []byte // nil for videos
	sourceType db.DocumentSource
	sourceURL  string
	pages      int
}

// uploadError carries the status an upload failure should be answered with.
type uploadError struct {
	status  int
	context string
	err     error
}

func (e *uploadError) Error() string { return e.context + ": " + e.err.Error() }

// HandleUpload takes a PDF (multipart "file") or a YouTube link ("video_url"),
// extracts and cleans its text, generates questions for every study mode and
// stores the document with its questions.
func (h *Handler) HandleUpload(c *gin.Context) {
	startTime := time.Now()
	profile, ok := h.currentUser(c)
	if !ok {
		return
	}
	userID := profile.DatabaseID
	ctx := c.Request.Context()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	src, uerr := h.readSource(c)
	if uerr != nil {
		h.handleErrorAndNotify(c, userID, uerr.status, uerr.context, uerr.err)
		return
	}
	log.Printf("INFO: Received %s upload %q from user %s (%d pages)", src.sourceType, src.filename, userID, src.pages)

	text := pdftext.Preprocess(src.rawText)
	if text == "" {
		h.handleErrorAndNotify(c, userID, http.StatusUnprocessableEntity, "Preprocess Text", pdftext.ErrNoText)
		return
	}

	courseCode := strings.TrimSpace(c.PostForm("course_code"))
	if courseCode == "" {
		courseCode = pdftext.DetectCourseCode(src.rawText)
	}

	generated, usage, err := h.Generator.GenerateAll(ctx, text)
	if err != nil {
		h.handleErrorAndNotify(c, userID, modelErrorStatus(err), "Generate Questions", err)
		return
	}

	var doc db.Document
	saved := make(map[study.Mode][]db.Question, len(study.AllModes))
	err = h.Store.ExecTx(ctx, func(q db.Querier) error {
		var err error
		doc, err = q.CreateDocument(ctx, db.CreateDocumentParams{
			UserID:     userID,
			Filename:   src.filename,
			Content:    text,
			CourseCode: pgtype.Text{String: courseCode, Valid: courseCode != ""},
			SourceType: src.sourceType,
			SourceUrl:  pgtype.Text{String: src.sourceURL, Valid: src.sourceURL != ""},
			PageCount:  int32(src.pages),
		})
		if err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		for _, mode := range study.AllModes {
			rows, err := saveQuestions(ctx, q, doc.ID, mode, generated[mode])
			if err != nil {
				return fmt.Errorf("save %s questions: %w", mode, err)
			}
			saved[mode] = rows
		}
		return nil
	})
	if err != nil {
		h.handleErrorAndNotify(c, userID, http.StatusInternalServerError, "Save Document", err)
		return
	}

	storageURL := h.storeOriginal(c, userID, doc.ID, src)

	questions := make(map[study.Mode][]QuestionResponse, len(saved))
	for mode, rows := range saved {
		questions[mode] = lo.Map(rows, func(q db.Question, _ int) QuestionResponse { return toQuestionResponse(q) })
	}
	total := lo.SumBy(lo.Values(saved), func(rows []db.Question) int { return len(rows) })
	duration := time.Since(startTime)

	targetType, targetID := target(db.ActivityTargetTypeDocument, doc.ID)
	h.logActivity(ctx, userID, db.ActivityActionDocumentUpload, targetType, targetID, map[string]interface{}{
		"filename":       src.filename,
		"source_type":    src.sourceType,
		"course_code":    courseCode,
		"question_count": total,
		"tokens":         usage.TotalTokens,
		"duration_ms":    duration.Milliseconds(),
	})

	h.Notifier.Notify(notify.Embed{
		Title: fmt.Sprintf("📚 New Upload: %s", src.filename),
		Color: notify.ColorInfo,
		Fields: []notify.EmbedField{
			{Name: "User", Value: fmt.Sprintf("%s (`%s`)", profile.Name, userID), Inline: false},
			{Name: "Questions", Value: fmt.Sprintf("%d", total), Inline: true},
			{Name: "Tokens", Value: fmt.Sprintf("%d", usage.TotalTokens), Inline: true},
			{Name: "Duration", Value: duration.Round(time.Millisecond).String(), Inline: true},
		},
	})

	log.Printf("INFO: Document %s created for user %s with %d questions in %s", doc.ID, userID, total, duration)
	c.JSON(http.StatusCreated, gin.H{
		"document_id": doc.ID,
		"course_code": courseCode,
		"storage_url": storageURL,
		"questions":   questions,
		"status":      "success",
	})
}

// readSource pulls the upload out of the request. A file wins over a video URL.
func (h *Handler) readSource(c *gin.Context) (*uploadSource, *uploadError) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if tooLarge(err) {
			return nil, &uploadError{http.StatusRequestEntityTooLarge, "Read Upload", fmt.Errorf("file exceeds %d bytes", h.MaxUploadBytes)}
		}
		if videoURL := strings.TrimSpace(c.PostForm("video_url")); videoURL != "" {
			return h.readVideo(c, videoURL)
		}
		return nil, &uploadError{http.StatusBadRequest, "Read Upload", errors.New("a PDF file or a video_url is required")}
	}

	if fileHeader.Size > h.MaxUploadBytes {
		return nil, &uploadError{http.StatusRequestEntityTooLarge, "Read Upload", fmt.Errorf("file exceeds %d bytes", h.MaxUploadBytes)}
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, &uploadError{http.StatusBadRequest, "Open Uploaded File", err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &uploadError{http.StatusBadRequest, "Read Uploaded File", err}
	}

	res, err := pdftext.ExtractBytes(data)
	switch {
	case errors.Is(err, pdftext.ErrNotPDF):
		return nil, &uploadError{http.StatusUnsupportedMediaType, "Extract PDF Text", err}
	case err != nil:
		return nil, &uploadError{http.StatusUnprocessableEntity, "Extract PDF Text", err}
	}
	if res.SkippedPages > 0 {
		log.Printf("WARN: %d of %d pages of %q had no text", res.SkippedPages, res.TotalPages, fileHeader.Filename)
	}

	return &uploadSource{
		filename:   filepath.Base(fileHeader.Filename),
		rawText:    res.Text,
		pdfBytes:   data,
		sourceType: db.DocumentSourcePdf,
		pages:      res.TotalPages,
	}, nil
}

// tooLarge reports whether err came from the MaxBytesReader on the body.
func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

func (h *Handler) readVideo(c *gin.Context, videoURL string) (*uploadSource, *uploadError) {
	if h.Transcripts == nil {
		return nil, &uploadError{http.StatusBadRequest, "Fetch Transcript", errors.New("video uploads are disabled")}
	}
	ctx := c.Request.Context()
	transcript, err := h.Transcripts.GetTranscript(ctx, videoURL, transcriptLang)
	if errors.Is(err, youtube.ErrNoTranscript) {
		// No English track; take whatever the video has.
		transcript, err = h.Transcripts.GetTranscript(ctx, videoURL, "")
	}
	switch {
	case errors.Is(err, youtube.ErrInvalidURL):
		return nil, &uploadError{http.StatusBadRequest, "Fetch Transcript", err}
	case errors.Is(err, youtube.ErrNoTranscript):
		return nil, &uploadError{http.StatusUnprocessableEntity, "Fetch Transcript", err}
	case err != nil:
		return nil, &uploadError{http.StatusBadGateway, "Fetch Transcript", err}
	}

	name := transcript.Title
	if name == "" {
		name = "youtube-" + transcript.VideoID
	}
	return &uploadSource{
		filename:   name,
		rawText:    transcript.Text(),
		sourceType: db.DocumentSourceYoutube,
		sourceURL:  videoURL,
	}, nil
}

// storeOriginal copies the PDF to object storage. Failures are logged and
// the upload still succeeds without a storage URL.
func (h *Handler) storeOriginal(c *gin.Context, userID, documentID uuid.UUID, src *uploadSource) string {
	if src.pdfBytes == nil || !h.Storage.Enabled() {
		return ""
	}
	ctx := c.Request.Context()
	url, err := h.Storage.UploadDocument(ctx, userID, documentID, src.filename, bytes.NewReader(src.pdfBytes))
	if err != nil {
		log.Printf("WARN: Failed to store original of document %s: %v", documentID, err)
		return ""
	}
	err = h.Store.UpdateDocumentStorageURL(ctx, db.UpdateDocumentStorageURLParams{
		ID:         documentID,
		StorageUrl: pgtype.Text{String: url, Valid: true},
	})
	if err != nil {
		log.Printf("WARN: Failed to save storage URL of document %s: %v", documentID, err)
	}
	return url
}
