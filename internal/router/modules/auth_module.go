package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/chirper/internal/interface/http"
	"github.com/oksasatya/chirper/internal/interface/middleware"
	"github.com/oksasatya/chirper/pkg/helpers"
)

// AuthModule wires the sign-in entry points.
// Public: register, login, google login/callback, verify confirm, reset init/confirm
// Protected: logout
type AuthModule struct {
	Handler  *handlers.AuthHandler
	Sessions *helpers.SessionManager
}

func NewAuthModule(h *handlers.AuthHandler, sessions *helpers.SessionManager) *AuthModule {
	return &AuthModule{Handler: h, Sessions: sessions}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Handler.Register)
	rg.POST("/auth/login", m.Handler.Login)
	rg.GET("/auth/google/login", m.Handler.GoogleLogin)
	rg.GET("/auth/google/callback", m.Handler.GoogleCallback)
	rg.POST("/auth/verify/confirm", m.Handler.VerifyConfirm)
	rg.POST("/auth/reset/init", m.Handler.ResetInit)
	rg.POST("/auth/reset/confirm", m.Handler.ResetConfirm)

	auth := rg.Group("/")
	auth.Use(middleware.Session(m.Sessions))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
	}
}
