package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/chirper/pkg/helpers"
)

func sessionRouter(sessions *helpers.SessionManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Session(sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":       c.GetString(CtxUserIDKey),
			"username": c.GetString(CtxUsernameKey),
			"email":    c.GetString(CtxEmailKey),
		})
	})
	return r
}

func doGet(r *gin.Engine, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSession_ValidTokenInjectsClaims(t *testing.T) {
	sessions := helpers.NewSessionManager("test-secret", time.Hour)
	token, _, err := sessions.Issue(helpers.Identity{
		ID:       "65f1a0000000000000000001",
		Username: "alice_1",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	w := doGet(sessionRouter(sessions), token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "65f1a0000000000000000001")
	assert.Contains(t, w.Body.String(), "alice_1")
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestSession_MissingCookie(t *testing.T) {
	sessions := helpers.NewSessionManager("test-secret", time.Hour)

	w := doGet(sessionRouter(sessions), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing session token")
}

func TestSession_ExpiredToken(t *testing.T) {
	issuer := helpers.NewSessionManager("test-secret", -time.Hour)
	token, _, err := issuer.Issue(helpers.Identity{ID: "65f1a0000000000000000001"})
	require.NoError(t, err)

	sessions := helpers.NewSessionManager("test-secret", time.Hour)
	w := doGet(sessionRouter(sessions), token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "session expired, please sign in again")
}

func TestSession_InvalidToken(t *testing.T) {
	sessions := helpers.NewSessionManager("test-secret", time.Hour)

	w := doGet(sessionRouter(sessions), "not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid session token")
}
