package api

import (
	"brainifi/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(router *gin.Engine, handler *handlers.Handler) {
	router.Use(CORSMiddleware(handler.FrontendURL))

	router.GET("/health", handler.HandleHealth)

	// --- Public Auth Routes ---
	router.GET("/login", handler.HandleGoogleLogin)                   // Initiates OAuth flow
	router.GET("/auth/google/callback", handler.HandleGoogleCallback) // Handles the redirect from Google

	api := router.Group("/api")
	{
		api.GET("/auth/status", handler.HandleAuthStatus)

		authorized := api.Group("/")
		authorized.Use(AuthRequired())
		{
			authorized.GET("/user/profile", handler.HandleUserProfile)
			authorized.POST("/logout", handler.HandleLogout)

			authorized.POST("/upload", handler.HandleUpload)
			authorized.GET("/documents", handler.HandleListDocuments)
			authorized.GET("/documents/:documentId", handler.HandleGetDocument)
			authorized.DELETE("/documents/:documentId", handler.HandleDeleteDocument)
			authorized.POST("/documents/:documentId/questions", handler.HandleRegenerateQuestions) // Replace one mode's questions

			authorized.POST("/validate", handler.HandleValidateAnswer) // Stateless grading
			authorized.POST("/questions/:questionId/answers", handler.HandleSubmitAnswer)
			authorized.GET("/questions/:questionId/answers", handler.HandleListAnswers)

			authorized.GET("/progress", handler.HandleProgress)
		}
	}
}
