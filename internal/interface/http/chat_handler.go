package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/key2key/backend/internal/application"
	"github.com/key2key/backend/pkg/response"
	"github.com/key2key/backend/pkg/validation"
)

type ChatHandler struct {
	Svc    *application.MarketplaceService
	Logger *logrus.Logger
}

func NewChatHandler(svc *application.MarketplaceService, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{Svc: svc, Logger: logger}
}

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
	Content     string `json:"content" binding:"required,max=4000"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	m, err := h.Svc.SendMessage(c.Request.Context(), c.GetString("userID"), req.RecipientID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "recipient not found", nil)
		case errors.Is(err, application.ErrForbidden):
			response.Error[any](c, http.StatusBadRequest, "cannot message yourself", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to send message", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, m, "message sent", nil)
}

func (h *ChatHandler) Messages(c *gin.Context) {
	items, err := h.Svc.ListMessages(c.Request.Context(), c.Param("threadID"), c.GetString("userID"), queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrThreadNotFound):
			response.Error[any](c, http.StatusNotFound, "thread not found", nil)
		case errors.Is(err, application.ErrNotThreadMember):
			response.Error[any](c, http.StatusForbidden, "not a participant", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to list messages", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, items, "messages", nil)
}
