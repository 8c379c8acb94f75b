package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/chirper/internal/interface/http"
	"github.com/oksasatya/chirper/internal/interface/middleware"
	"github.com/oksasatya/chirper/pkg/helpers"
)

// PostModule wires timeline routes behind the session middleware.
type PostModule struct {
	Handler  *handlers.PostHandler
	Sessions *helpers.SessionManager
}

func NewPostModule(h *handlers.PostHandler, sessions *helpers.SessionManager) *PostModule {
	return &PostModule{Handler: h, Sessions: sessions}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Session(m.Sessions))
	{
		auth.POST("/posts", m.Handler.Create)
		auth.GET("/posts", m.Handler.ListOwn)
		auth.GET("/users/:username/posts", m.Handler.ListByUsername)
	}
}
