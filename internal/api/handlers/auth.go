package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"

	"brainifi/internal/db"
	"brainifi/internal/notify"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// HandleGoogleLogin: Initiates the Google OAuth flow.
func (h *Handler) HandleGoogleLogin(c *gin.Context) {
	session := sessions.Default(c)

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		log.Printf("ERROR: Failed to generate state: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate state"})
		return
	}
	state := base64.URLEncoding.EncodeToString(stateBytes)

	session.Set(OauthStateSessionKey, state)
	if err := session.Save(); err != nil {
		log.Printf("ERROR: Failed to save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.OauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

// HandleGoogleCallback: Handles the redirect back from Google.
func (h *Handler) HandleGoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	ctx := c.Request.Context()

	savedState, _ := session.Get(OauthStateSessionKey).(string)
	queryState := c.Query("state")
	if queryState == "" || savedState != queryState {
		log.Printf("WARN: Invalid state parameter. Session state: %q, Query state: %q", savedState, queryState)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid state parameter."})
		return
	}

	token, err := h.OauthConfig.Exchange(ctx, c.Query("code"))
	if err != nil {
		log.Printf("ERROR: Failed to exchange code: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange code"})
		return
	}
	if !token.Valid() {
		log.Printf("WARN: Retrieved invalid token.")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Retrieved invalid token"})
		return
	}

	oauth2Service, err := oauth2api.NewService(ctx, option.WithHTTPClient(h.OauthConfig.Client(ctx, token)))
	if err != nil {
		log.Printf("ERROR: Failed to create OAuth2 service: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create OAuth2 service"})
		return
	}
	userinfo, err := oauth2Service.Userinfo.V2.Me.Get().Context(ctx).Do()
	if err != nil {
		log.Printf("ERROR: Failed to get user info: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user info"})
		return
	}

	dbUser, isNewUser, err := h.upsertUser(c, userinfo)
	if err != nil {
		log.Printf("ERROR: Failed to load or create user %s: %v", userinfo.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking user profile"})
		return
	}

	targetType, targetID := target(db.ActivityTargetTypeUser, dbUser.ID)
	h.logActivity(ctx, dbUser.ID, db.ActivityActionLogin, targetType, targetID,
		map[string]interface{}{"email": dbUser.Email, "signup": isNewUser})

	title := fmt.Sprintf("✅ User Login: %s", dbUser.Email)
	if isNewUser {
		title = fmt.Sprintf("🎉 New Signup: %s", dbUser.Email)
	}
	h.Notifier.Notify(notify.Embed{
		Title:  title,
		Color:  notify.ColorSuccess,
		Author: &notify.EmbedAuthor{Name: userinfo.Name, IconURL: userinfo.Picture},
	})

	profile := UserProfile{
		DatabaseID:    dbUser.ID,
		GoogleID:      userinfo.Id,
		Email:         userinfo.Email,
		VerifiedEmail: userinfo.VerifiedEmail != nil && *userinfo.VerifiedEmail,
		Name:          userinfo.Name,
		GivenName:     userinfo.GivenName,
		FamilyName:    userinfo.FamilyName,
		Picture:       userinfo.Picture,
		Locale:        userinfo.Locale,
	}
	session.Set(ProfileSessionKey, profile)
	session.Delete(OauthStateSessionKey)
	if err := session.Save(); err != nil {
		log.Printf("ERROR: Failed to save session after login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}

	log.Printf("INFO: Redirecting user %s to frontend: %s", profile.Email, h.FrontendURL)
	c.Redirect(http.StatusTemporaryRedirect, h.FrontendURL)
}

// upsertUser finds the user by email, creating them on first login and
// refreshing their Google details otherwise.
func (h *Handler) upsertUser(c *gin.Context, info *oauth2api.Userinfo) (db.User, bool, error) {
	ctx := c.Request.Context()
	name := pgtype.Text{String: info.Name, Valid: info.Name != ""}
	googleID := pgtype.Text{String: info.Id, Valid: info.Id != ""}
	picture := pgtype.Text{String: info.Picture, Valid: info.Picture != ""}

	user, err := h.Store.GetUserByEmail(ctx, info.Email)
	switch {
	case db.IsNotFound(err):
		log.Printf("INFO: User with email %s not found, creating new user.", info.Email)
		user, err = h.Store.CreateUser(ctx, db.CreateUserParams{
			Email:    info.Email,
			Name:     name,
			GoogleID: googleID,
			Picture:  picture,
		})
		if err != nil {
			return db.User{}, false, fmt.Errorf("create user: %w", err)
		}
		return user, true, nil
	case err != nil:
		return db.User{}, false, fmt.Errorf("get user by email: %w", err)
	}

	updated, err := h.Store.UpdateUser(ctx, db.UpdateUserParams{ID: user.ID, Name: name, GoogleID: googleID, Picture: picture})
	if err != nil {
		log.Printf("WARN: Failed to refresh user %s: %v", user.ID, err)
		return user, false, nil
	}
	return updated, false, nil
}

// HandleUserProfile: Displays the user's profile information.
func (h *Handler) HandleUserProfile(c *gin.Context) {
	profile, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, profile)
}

// HandleLogout: Clears the session.
func (h *Handler) HandleLogout(c *gin.Context) {
	session := sessions.Default(c)

	userID := uuid.Nil
	if profile, ok := c.Get(UserProfileKey); ok {
		if p, ok := profile.(UserProfile); ok {
			userID = p.DatabaseID
		}
	}

	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		log.Printf("ERROR: Failed to save session during logout for user %s: %v", userID, err)
	}

	if userID != uuid.Nil {
		targetType, targetID := target(db.ActivityTargetTypeUser, userID)
		h.logActivity(c.Request.Context(), userID, db.ActivityActionLogout, targetType, targetID, nil)
	}
	log.Printf("INFO: User session cleared for user ID: %s", userID)
	c.Status(http.StatusOK)
}

// HandleAuthStatus checks if a user is currently authenticated via session.
func (h *Handler) HandleAuthStatus(c *gin.Context) {
	session := sessions.Default(c)
	profile, ok := session.Get(ProfileSessionKey).(UserProfile)
	if !ok || profile.DatabaseID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          profile,
	})
}
