package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/chirper/pkg/helpers"
	"github.com/oksasatya/chirper/pkg/response"
)

// Context keys populated by Session.
const (
	CtxUserIDKey   = "userID"
	CtxUsernameKey = "userName"
	CtxEmailKey    = "userEmail"
)

// Session validates the session cookie and injects the identity claims into
// the Gin context. Tokens are stateless, so validation is purely local: an
// expired token and a tampered token both end at the sign-in entry point,
// but the expired case says so to prompt re-authentication.
func Session(sessions *helpers.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookie)
		if err != nil || token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing session token", nil)
			return
		}
		claims, err := sessions.Validate(token)
		if err != nil {
			msg := "invalid session token"
			if errors.Is(err, helpers.ErrSessionExpired) {
				msg = "session expired, please sign in again"
			}
			response.AbortError(c, http.StatusUnauthorized, msg, nil)
			return
		}
		c.Set(CtxUserIDKey, claims.Subject)
		c.Set(CtxUsernameKey, claims.Username)
		c.Set(CtxEmailKey, claims.Email)
		c.Next()
	}
}
