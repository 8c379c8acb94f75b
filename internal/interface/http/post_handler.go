package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/chirper/internal/application"
	"github.com/oksasatya/chirper/internal/domain/entity"
	"github.com/oksasatya/chirper/internal/interface/middleware"
	"github.com/oksasatya/chirper/pkg/response"
	"github.com/oksasatya/chirper/pkg/validation"
)

type PostHandler struct {
	Svc    *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type createPostRequest struct {
	Content       string `json:"content" binding:"required,max=280"`
	InReplyToPost string `json:"in_reply_to_post"`
	InReplyToUser string `json:"in_reply_to_user"`
	Language      string `json:"language"`
	Country       string `json:"country"`
}

func postView(p *entity.Post) gin.H {
	out := gin.H{
		"id":             p.ID.Hex(),
		"user_id":        p.UserID.Hex(),
		"content":        p.Content,
		"repost_count":   p.RepostCount,
		"favorite_count": p.FavoriteCount,
		"language":       p.Language,
		"country":        p.Country,
		"created_at":     p.CreatedAt,
	}
	if !p.InReplyToPost.IsZero() {
		out["in_reply_to_post"] = p.InReplyToPost.Hex()
	}
	if !p.InReplyToUser.IsZero() {
		out["in_reply_to_user"] = p.InReplyToUser.Hex()
	}
	return out
}

func (h *PostHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.CreatePost(c.Request.Context(), uid, application.CreatePostInput{
		Content:       req.Content,
		InReplyToPost: req.InReplyToPost,
		InReplyToUser: req.InReplyToUser,
		Language:      req.Language,
		Country:       req.Country,
	})
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "failed to create post", nil)
		return
	}
	response.Success(c, http.StatusCreated, postView(p), "post created", nil)
}

func (h *PostHandler) ListOwn(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	posts, err := h.Svc.ListByUser(c.Request.Context(), uid, limit)
	if err != nil {
		h.Logger.WithError(err).Warn("timeline fetch failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list posts", nil)
		return
	}
	views := make([]gin.H, 0, len(posts))
	for i := range posts {
		views = append(views, postView(&posts[i]))
	}
	response.Success(c, http.StatusOK, views, "posts", map[string]any{"count": len(views)})
}

func (h *PostHandler) ListByUsername(c *gin.Context) {
	username := c.Param("username")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	posts, err := h.Svc.ListByUsername(c.Request.Context(), username, limit)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	views := make([]gin.H, 0, len(posts))
	for i := range posts {
		views = append(views, postView(&posts[i]))
	}
	response.Success(c, http.StatusOK, views, "posts", map[string]any{"count": len(views)})
}
