package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/key2key/backend/internal/application"
	"github.com/key2key/backend/pkg/response"
)

type NotificationHandler struct {
	Svc    *application.MarketplaceService
	Logger *logrus.Logger
}

func NewNotificationHandler(svc *application.MarketplaceService, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Svc: svc, Logger: logger}
}

func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))
	items, err := h.Svc.ListNotifications(c.Request.Context(), c.GetString("userID"), unreadOnly, queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list notifications", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "notifications", nil)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.Svc.MarkNotificationRead(c.Request.Context(), c.Param("id"), c.GetString("userID")); err != nil {
		response.Error[any](c, http.StatusNotFound, "notification not found", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"read": true}, "notification marked read", nil)
}
