package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/chirper/internal/interface/http"
	"github.com/oksasatya/chirper/internal/interface/middleware"
	"github.com/oksasatya/chirper/pkg/helpers"
)

// UserModule wires profile routes behind the session middleware.
type UserModule struct {
	Handler  *handlers.UserHandler
	Sessions *helpers.SessionManager
}

func NewUserModule(h *handlers.UserHandler, sessions *helpers.SessionManager) *UserModule {
	return &UserModule{Handler: h, Sessions: sessions}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Session(m.Sessions))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
		auth.GET("/users/search", m.Handler.Search)
	}
}
