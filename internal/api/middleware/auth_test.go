package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiyamandal-dev/newscms/internal/auth"
)

func newProtectedRouter(jwtManager *auth.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(jwtManager), func(c *gin.Context) {
		c.String(http.StatusOK, GetUsername(c))
	})
	return r
}

func TestAuthMiddlewareAllowsValidToken(t *testing.T) {
	jwtManager := auth.NewJWTManager("auth-middleware-secret-32-chars-long!", time.Hour)
	router := newProtectedRouter(jwtManager)

	token, _, err := jwtManager.Generate("admin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	jwtManager := auth.NewJWTManager("auth-middleware-secret-32-chars-long!", time.Hour)
	router := newProtectedRouter(jwtManager)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	jwtManager := auth.NewJWTManager("auth-middleware-secret-32-chars-long!", time.Hour)
	router := newProtectedRouter(jwtManager)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	expired := auth.NewJWTManager("auth-middleware-secret-32-chars-long!", -time.Minute)
	router := newProtectedRouter(expired)

	token, _, err := expired.Generate("admin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
