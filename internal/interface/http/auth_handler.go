package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/key2key/backend/internal/application"
	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/internal/domain/repository"
	"github.com/key2key/backend/internal/interface/middleware"
	"github.com/key2key/backend/pkg/helpers"
	"github.com/key2key/backend/pkg/response"
	"github.com/key2key/backend/pkg/validation"
)

// AuthHandler covers login/logout, email verification and password reset.
type AuthHandler struct {
	Auth    *application.AuthService
	Users   *application.UserService
	Audit   repository.AuditRepository
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(auth *application.AuthService, users *application.UserService, audit repository.AuditRepository, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		Auth:    auth,
		Users:   users,
		Audit:   audit,
		Logger:  logger,
		Cookies: helpers.NewCookie(cookieDomain, cookieSecure),
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.audit(c, "", req.Email, "login_failed", nil)
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.audit(c, res.User.ID, req.Email, "login", nil)
	h.Cookies.SetAccess(c, res.AccessToken, res.ExpiresAt)
	response.Success(c, http.StatusOK, res, "login successful", map[string]any{"expires_at": res.ExpiresAt})
}

// Logout is a client-side acknowledgement. Tokens are stateless; nothing is
// revoked server-side.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	h.audit(c, c.GetString("userID"), c.GetString("userEmail"), "logout", nil)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *AuthHandler) VerifyInit(c *gin.Context) {
	uid := c.GetString("userID")
	already, err := h.Users.InitVerification(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "failed to start verification", nil)
		return
	}
	if already {
		response.Success[any](c, http.StatusOK, map[string]any{"verified": true}, "already verified", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"sent": true}, "verification email sent", nil)
}

type verifyConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req verifyConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Users.ConfirmVerification(c.Request.Context(), req.Token); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	h.audit(c, "", "", "email_verified", nil)
	response.Success[any](c, http.StatusOK, map[string]any{"verified": true}, "email verified", nil)
}

type resetInitRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetInit always answers 200 regardless of whether the email exists.
func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req resetInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Users.InitPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.Logger.WithError(err).Warn("password reset init failed")
	}
	response.Success[any](c, http.StatusOK, map[string]any{"sent": true}, "if the account exists, a reset email was sent", nil)
}

type resetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Users.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	h.audit(c, "", "", "password_reset", nil)
	response.Success[any](c, http.StatusOK, map[string]any{"reset": true}, "password updated", nil)
}

func (h *AuthHandler) audit(c *gin.Context, userID, email, action string, meta map[string]any) {
	if h.Audit == nil {
		return
	}
	e := &entity.AuditEntry{
		UserID:    userID,
		Email:     email,
		Action:    action,
		IP:        middleware.ClientIPFromCtx(c),
		UserAgent: c.GetHeader("User-Agent"),
		Metadata:  meta,
	}
	if err := h.Audit.Insert(c.Request.Context(), e); err != nil {
		h.Logger.WithError(err).WithField("action", action).Warn("audit insert failed")
	}
}
