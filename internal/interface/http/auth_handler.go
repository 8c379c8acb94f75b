package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/oksasatya/chirper/config"
	"github.com/oksasatya/chirper/internal/application"
	"github.com/oksasatya/chirper/internal/domain/repository"
	"github.com/oksasatya/chirper/pkg/helpers"
	"github.com/oksasatya/chirper/pkg/mailer"
	"github.com/oksasatya/chirper/pkg/response"
	"github.com/oksasatya/chirper/pkg/validation"
)

const (
	oauthStateCookie = "oauth_state"
	userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"
)

func keyResetToken(t string) string { return "pwd:reset:token:" + t }

type AuthHandler struct {
	Auth     *application.AuthService
	Sessions *helpers.SessionManager
	Cookies  *helpers.CookieManager
	RDB      *redis.Client
	Logger   *logrus.Logger
	Cfg      *config.Config
	Pub      *helpers.RabbitPublisher
	OAuth    *oauth2.Config
}

func NewAuthHandler(auth *application.AuthService, sessions *helpers.SessionManager, rdb *redis.Client, logger *logrus.Logger, cfg *config.Config, pub *helpers.RabbitPublisher, oauthCfg *oauth2.Config) *AuthHandler {
	return &AuthHandler{
		Auth:     auth,
		Sessions: sessions,
		Cookies:  helpers.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure),
		RDB:      rdb,
		Logger:   logger,
		Cfg:      cfg,
		Pub:      pub,
		OAuth:    oauthCfg,
	}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required,username"`
	Email       string `json:"email" binding:"required,email"`
	FullName    string `json:"full_name" binding:"required,fullname"`
	Password    string `json:"password" binding:"required,pwd"`
	DateOfBirth string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	dob, _ := time.Parse("2006-01-02", req.DateOfBirth)

	u, err := h.Auth.Register(c.Request.Context(), application.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		FullName:    req.FullName,
		Password:    req.Password,
		DateOfBirth: dob,
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrDuplicateUsername):
		response.Error[any](c, http.StatusConflict, "username already taken", nil)
		return
	case errors.Is(err, repository.ErrDuplicateEmail):
		response.Error[any](c, http.StatusConflict, "this email is already registered", nil)
		return
	default:
		h.Logger.WithError(err).Error("registration failed")
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}

	h.enqueueVerifyEmail(c, u.Email, u.FullName, u.VerifyCode)
	response.Success(c, http.StatusCreated, gin.H{
		"id":       u.ID.Hex(),
		"username": u.Username,
		"email":    u.Email,
	}, "account created, verification code sent", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res := h.Auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	switch res.Status {
	case application.StatusOK:
	case application.StatusUnverified:
		response.Error[any](c, http.StatusForbidden, "please verify your email before signing in", nil)
		return
	default:
		// Invalid credentials and internal faults look identical to the caller.
		response.Error[any](c, http.StatusUnauthorized, "sign-in failed", nil)
		return
	}

	h.issueSession(c, res.Identity)
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// GoogleLogin GET /api/auth/google/login
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.OAuth == nil {
		response.Error[any](c, http.StatusNotFound, "google sign-in is not configured", nil)
		return
	}
	state, err := helpers.GenToken(16)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "sign-in failed", nil)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, int((10 * time.Minute).Seconds()), "/", h.Cfg.CookieDomain, h.Cfg.CookieSecure, true)
	c.Redirect(http.StatusTemporaryRedirect, h.OAuth.AuthCodeURL(state))
}

// GoogleCallback GET /api/auth/google/callback
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.OAuth == nil {
		c.Redirect(http.StatusTemporaryRedirect, h.Cfg.ErrorRedirect)
		return
	}
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		h.Logger.Warn("oauth state mismatch")
		c.Redirect(http.StatusTemporaryRedirect, h.Cfg.ErrorRedirect)
		return
	}

	ctx := c.Request.Context()
	tok, err := h.OAuth.Exchange(ctx, c.Query("code"))
	if err != nil {
		h.Logger.WithError(err).Warn("oauth code exchange failed")
		c.Redirect(http.StatusTemporaryRedirect, h.Cfg.ErrorRedirect)
		return
	}

	profile, err := h.fetchGoogleProfile(c, tok)
	if err != nil {
		h.Logger.WithError(err).Warn("oauth userinfo fetch failed")
		c.Redirect(http.StatusTemporaryRedirect, h.Cfg.ErrorRedirect)
		return
	}

	identity, err := h.Auth.Reconcile(ctx, application.ProviderGoogle, profile)
	if err != nil {
		// Detail is logged in the service; the user only sees the redirect.
		c.Redirect(http.StatusTemporaryRedirect, h.Cfg.ErrorRedirect)
		return
	}

	token, exp, err := h.Sessions.Issue(identity)
	if err != nil {
		h.Logger.WithError(err).Error("session issue failed")
		c.Redirect(http.StatusTemporaryRedirect, h.Cfg.ErrorRedirect)
		return
	}
	h.Cookies.SetSession(c, token, exp)
	c.Redirect(http.StatusTemporaryRedirect, h.Cfg.SignInRedirect)
}

func (h *AuthHandler) fetchGoogleProfile(c *gin.Context, tok *oauth2.Token) (application.Profile, error) {
	client := h.OAuth.Client(c.Request.Context(), tok)
	resp, err := client.Get(userinfoEndpoint)
	if err != nil {
		return application.Profile{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	var info struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return application.Profile{}, err
	}
	return application.Profile{Email: info.Email, Name: info.Name, Picture: info.Picture}, nil
}

func (h *AuthHandler) issueSession(c *gin.Context, id helpers.Identity) {
	token, exp, err := h.Sessions.Issue(id)
	if err != nil {
		h.Logger.WithError(err).Error("session issue failed")
		response.Error[any](c, http.StatusInternalServerError, "sign-in failed", nil)
		return
	}
	h.Cookies.SetSession(c, token, exp)
	response.Success(c, http.StatusOK, id, "login successful", map[string]any{"expires_at": exp})
}

// VerifyConfirm POST /api/auth/verify/confirm {email, code}
func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required,len=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Auth.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired verification code", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"verified": true}, "email verified", nil)
}

// ResetInit POST /api/auth/reset/init {email}
// Always returns OK to avoid account enumeration.
func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Auth.Users.GetByEmail(c.Request.Context(), req.Email)
	if err == nil && h.RDB != nil {
		tok, terr := helpers.GenToken(32)
		if terr != nil {
			response.Error[any](c, http.StatusInternalServerError, "token generation failed", nil)
			return
		}
		h.RDB.Set(c.Request.Context(), keyResetToken(tok), u.ID.Hex(), 30*time.Minute)
		link := h.Cfg.ErrorRedirect + "?reset_token=" + tok
		h.enqueueResetEmail(c, u.Email, u.FullName, link)
	}
	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "if the email exists, a reset link was sent", nil)
}

// ResetConfirm POST /api/auth/reset/confirm {token, new_password}
func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if h.RDB == nil {
		response.Error[any](c, http.StatusInternalServerError, "reset unavailable", nil)
		return
	}
	uid, err := h.RDB.Get(c.Request.Context(), keyResetToken(req.Token)).Result()
	if err != nil || uid == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	if err := h.Auth.ChangePassword(c.Request.Context(), uid, req.NewPassword); err != nil {
		h.Logger.WithError(err).Error("password reset failed")
		response.Error[any](c, http.StatusInternalServerError, "update failed", nil)
		return
	}
	h.RDB.Del(c.Request.Context(), keyResetToken(req.Token))
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}

func (h *AuthHandler) enqueueVerifyEmail(c *gin.Context, to, name, code string) {
	if h.Pub == nil || h.Cfg == nil || !h.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       to,
		Template: mailer.TemplateVerifyEmail,
		Data: map[string]any{
			"Name":      name,
			"Code":      code,
			"ExpiresIn": "1 hour",
		},
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		h.Logger.WithError(err).Warn("failed to publish verify email job")
	}
}

func (h *AuthHandler) enqueueResetEmail(c *gin.Context, to, name, link string) {
	if h.Pub == nil || h.Cfg == nil || !h.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       to,
		Template: mailer.TemplateResetPassword,
		Data: map[string]any{
			"Name":      name,
			"Link":      link,
			"ExpiresIn": "30 minutes",
		},
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		h.Logger.WithError(err).Warn("failed to publish reset email job")
	}
}
