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

type ReviewHandler struct {
	Svc    *application.MarketplaceService
	Logger *logrus.Logger
}

func NewReviewHandler(svc *application.MarketplaceService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{Svc: svc, Logger: logger}
}

type reviewRequest struct {
	TargetUserID string `json:"target_user_id" binding:"required,uuid"`
	Rating       int    `json:"rating" binding:"required,rating"`
	Comment      string `json:"comment" binding:"max=2000"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	r, err := h.Svc.CreateReview(c.Request.Context(), c.GetString("userID"), application.ReviewInput{
		TargetUserID: req.TargetUserID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrSelfReview):
			response.Error[any](c, http.StatusBadRequest, "cannot review yourself", nil)
		case errors.Is(err, application.ErrDuplicateReview):
			response.Error[any](c, http.StatusConflict, "you already reviewed this user", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to create review", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, r, "review created", nil)
}

func (h *ReviewHandler) ListForUser(c *gin.Context) {
	items, err := h.Svc.ListReviews(c.Request.Context(), c.Param("userID"), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list reviews", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "reviews", nil)
}
