package api

import (
	"log"
	"net/http"
	"strings"

	"brainifi/internal/api/handlers"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// defaultFrontendURL is the Vite dev server, used when FRONTEND_URL is unset.
const defaultFrontendURL = "http://localhost:5173"

// CORSMiddleware allows credentialed requests from the frontend origin.
func CORSMiddleware(frontendURL string) gin.HandlerFunc {
	if frontendURL == "" || frontendURL == "/" {
		frontendURL = defaultFrontendURL
	}
	origin := strings.TrimSuffix(frontendURL, "/")

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// AuthRequired is middleware to ensure the user is authenticated.
// It checks for the presence and validity of the user profile in the session
// and adds the internal DatabaseID (UUID) to the context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		profile, ok := session.Get(handlers.ProfileSessionKey).(handlers.UserProfile)
		if !ok || profile.DatabaseID == uuid.Nil {
			log.Printf("WARN: AuthRequired failed for %s - profile not found, invalid type, or missing DatabaseID in session.", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required or session invalid"})
			return
		}

		c.Set(handlers.UserIDKey, profile.DatabaseID)
		c.Set(handlers.UserProfileKey, profile)
		c.Next()
	}
}
