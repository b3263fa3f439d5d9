package api

import (
	"encoding/gob"
	"net/http"
	"net/http/httptest"
	"testing"

	"brainifi/internal/api/handlers"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	gob.Register(handlers.UserProfile{})
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("https://app.example.com/"))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestCORSMiddlewareDefaultOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(""))
	r.GET("/ping", func(c *gin.Context) {})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, defaultFrontendURL, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthRequired(t *testing.T) {
	userID := uuid.New()

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("secret"))))
	r.GET("/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(handlers.ProfileSessionKey, handlers.UserProfile{DatabaseID: userID, Email: "a@example.com"})
		require.NoError(t, session.Save())
	})
	r.GET("/private", AuthRequired(), func(c *gin.Context) {
		id, _ := c.Get(handlers.UserIDKey)
		profile, _ := c.Get(handlers.UserProfileKey)
		c.JSON(http.StatusOK, gin.H{"id": id, "email": profile.(handlers.UserProfile).Email})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+userID.String()+`","email":"a@example.com"}`, w.Body.String())
}

func TestSetupRoutes(t *testing.T) {
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("secret"))))
	SetupRoutes(r, handlers.NewHandler(nil, nil, nil, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/status", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	for _, path := range []string{"/api/documents", "/api/progress", "/api/user/profile"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
