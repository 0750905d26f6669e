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

type BrokerHandler struct {
	Svc    *application.MarketplaceService
	Logger *logrus.Logger
}

func NewBrokerHandler(svc *application.MarketplaceService, logger *logrus.Logger) *BrokerHandler {
	return &BrokerHandler{Svc: svc, Logger: logger}
}

type brokerRequest struct {
	LicenseNumber   string `json:"license_number" binding:"required"`
	Bio             string `json:"bio"`
	YearsExperience int    `json:"years_experience" binding:"gte=0"`
}

func (h *BrokerHandler) Create(c *gin.Context) {
	var req brokerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Svc.CreateBrokerProfile(c.Request.Context(), c.GetString("userID"), application.BrokerInput{
		LicenseNumber:   req.LicenseNumber,
		Bio:             req.Bio,
		YearsExperience: req.YearsExperience,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrBrokerExists):
			response.Error[any](c, http.StatusConflict, "broker profile already exists", nil)
		case errors.Is(err, application.ErrForbidden):
			response.Error[any](c, http.StatusForbidden, "broker role required", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to create broker profile", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, b, "broker profile created", nil)
}

func (h *BrokerHandler) Get(c *gin.Context) {
	b, err := h.Svc.GetBrokerProfile(c.Request.Context(), c.Param("userID"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "broker profile not found", nil)
		return
	}
	response.Success(c, http.StatusOK, b, "broker profile", nil)
}

type brokerUpdateRequest struct {
	LicenseNumber   string `json:"license_number"`
	Bio             string `json:"bio"`
	YearsExperience int    `json:"years_experience" binding:"omitempty,gte=0"`
}

func (h *BrokerHandler) Update(c *gin.Context) {
	var req brokerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Svc.UpdateBrokerProfile(c.Request.Context(), c.GetString("userID"), application.BrokerInput{
		LicenseNumber:   req.LicenseNumber,
		Bio:             req.Bio,
		YearsExperience: req.YearsExperience,
	})
	if err != nil {
		if errors.Is(err, application.ErrBrokerNotFound) {
			response.Error[any](c, http.StatusNotFound, "broker profile not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to update broker profile", nil)
		return
	}
	response.Success(c, http.StatusOK, b, "broker profile updated", nil)
}

func (h *BrokerHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteBrokerProfile(c.Request.Context(), c.GetString("userID")); err != nil {
		if errors.Is(err, application.ErrBrokerNotFound) {
			response.Error[any](c, http.StatusNotFound, "broker profile not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to delete broker profile", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "broker profile deleted", nil)
}
