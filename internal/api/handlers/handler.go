package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"brainifi/internal/db"
	"brainifi/internal/notify"
	"brainifi/internal/r2"
	"brainifi/internal/study"
	"brainifi/internal/youtube"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/oauth2"
)

// UserProfile stores information about the authenticated user.
type UserProfile struct {
	DatabaseID    uuid.UUID `json:"-"`  // Our internal DB UUID (omit from JSON response to client)
	GoogleID      string    `json:"id"` // Google's ID (keep as 'id' in JSON)
	Email         string    `json:"email"`
	VerifiedEmail bool      `json:"verified_email"`
	Name          string    `json:"name"`
	GivenName     string    `json:"given_name"`
	FamilyName    string    `json:"family_name"`
	Picture       string    `json:"picture"`
	Locale        string    `json:"locale"`
}

// Session keys
const (
	OauthStateSessionKey = "oauthstate"
	ProfileSessionKey    = "profile"
)

// Context keys set by the auth middleware.
const (
	UserIDKey      = "userID"
	UserProfileKey = "userProfile"
)

// TranscriptFetcher turns a video URL into caption text.
type TranscriptFetcher interface {
	GetTranscript(ctx context.Context, videoURL, lang string) (*youtube.Transcript, error)
}

// Handler contains the API handlers dependencies
type Handler struct {
	OauthConfig    *oauth2.Config
	Store          db.Store
	Generator      *study.Generator
	Validator      *study.Validator
	Storage        *r2.Client // nil when R2 is not configured
	Transcripts    TranscriptFetcher
	Notifier       *notify.Discord
	MaxUploadBytes int64
	FrontendURL    string
}

// NewHandler creates a new Handler
func NewHandler(oauth *oauth2.Config, store db.Store, generator *study.Generator, validator *study.Validator) *Handler {
	return &Handler{
		OauthConfig:    oauth,
		Store:          store,
		Generator:      generator,
		Validator:      validator,
		Transcripts:    youtube.New(nil),
		MaxUploadBytes: 32 << 20,
		FrontendURL:    "/",
	}
}

// currentUser returns the profile AuthRequired put on the context, aborting
// with 401 when it is missing.
func (h *Handler) currentUser(c *gin.Context) (UserProfile, bool) {
	value, exists := c.Get(UserProfileKey)
	if !exists {
		h.handleErrorAndNotify(c, uuid.Nil, http.StatusUnauthorized, "Get User Profile from Context", errors.New("user not authenticated"))
		return UserProfile{}, false
	}
	profile, ok := value.(UserProfile)
	if !ok || profile.DatabaseID == uuid.Nil {
		h.handleErrorAndNotify(c, uuid.Nil, http.StatusInternalServerError, "Get User Profile from Context", errors.New("invalid user profile type in context"))
		return UserProfile{}, false
	}
	return profile, true
}

// parseIDParam reads a UUID path parameter, aborting with 400 on garbage.
func (h *Handler) parseIDParam(c *gin.Context, userID uuid.UUID, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.handleErrorAndNotify(c, userID, http.StatusBadRequest, "Parse "+name, fmt.Errorf("invalid %s: %w", name, err))
		return uuid.Nil, false
	}
	return id, true
}

// handleErrorAndNotify logs an error, sends a Discord notification, logs to activity table, and aborts the request.
func (h *Handler) handleErrorAndNotify(c *gin.Context, userID uuid.UUID, statusCode int, errorContext string, err error) {
	log.Printf("ERROR: %s: %v (UserID: %s)", errorContext, err, userID)

	h.logActivity(c.Request.Context(), userID, db.ActivityActionError,
		db.NullActivityTargetType{},
		pgtype.UUID{},
		map[string]interface{}{
			"error_context": errorContext,
			"error_message": err.Error(),
			"request_path":  c.Request.URL.Path,
			"http_status":   statusCode,
		})

	// Client mistakes are not worth a ping.
	if statusCode >= http.StatusInternalServerError {
		embed := notify.Embed{
			Title:       fmt.Sprintf("🚨 API Error: %s", errorContext),
			Description: fmt.Sprintf("**Error Details:**\n```%s```", err.Error()),
			Color:       notify.ColorError,
		}
		if userID != uuid.Nil {
			embed.Fields = append(embed.Fields, notify.EmbedField{Name: "User ID", Value: fmt.Sprintf("`%s`", userID), Inline: true})
		}
		embed.Fields = append(embed.Fields,
			notify.EmbedField{Name: "HTTP Status", Value: fmt.Sprintf("%d", statusCode), Inline: true},
			notify.EmbedField{Name: "Path", Value: c.Request.URL.Path},
		)
		h.Notifier.Notify(embed)
	}

	c.AbortWithStatusJSON(statusCode, gin.H{"error": fmt.Sprintf("%s: %v", errorContext, err)})
}

// logActivity is a helper function to create activity log entries.
func (h *Handler) logActivity(ctx context.Context, userID uuid.UUID, action db.ActivityAction, targetType db.NullActivityTargetType, targetID pgtype.UUID, details map[string]interface{}) {
	var detailsJSON []byte
	if details != nil {
		var err error
		detailsJSON, err = json.Marshal(details)
		if err != nil {
			log.Printf("ERROR: Failed to marshal activity log details for user %s, action %s: %v", userID, action, err)
			detailsJSON = nil
		}
	}

	_, err := h.Store.CreateActivityLog(ctx, db.CreateActivityLogParams{
		UserID:     pgtype.UUID{Bytes: userID, Valid: userID != uuid.Nil},
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    detailsJSON,
	})
	if err != nil {
		// Activity logging never fails the request.
		log.Printf("ERROR: Failed to create activity log for user %s, action %s: %v", userID, action, err)
	}
}

func target(kind db.ActivityTargetType, id uuid.UUID) (db.NullActivityTargetType, pgtype.UUID) {
	return db.NullActivityTargetType{ActivityTargetType: kind, Valid: true}, pgtype.UUID{Bytes: id, Valid: true}
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
