package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/key2key/backend/internal/application"
	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/pkg/response"
	"github.com/key2key/backend/pkg/validation"
)

type TransactionHandler struct {
	Svc    *application.MarketplaceService
	Logger *logrus.Logger
}

func NewTransactionHandler(svc *application.MarketplaceService, logger *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{Svc: svc, Logger: logger}
}

type transactionRequest struct {
	ListingID   string `json:"listing_id" binding:"required,uuid"`
	ListingKind string `json:"listing_kind" binding:"required,oneof=property vehicle"`
	Gateway     string `json:"gateway" binding:"required,oneof=chapa telebirr stripe"`
}

func (h *TransactionHandler) Create(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.CreateTransaction(c.Request.Context(), c.GetString("userID"), application.TransactionInput{
		ListingID:   req.ListingID,
		ListingKind: entity.ListingKind(req.ListingKind),
		Gateway:     entity.PaymentGateway(req.Gateway),
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrListingNotFound):
			response.Error[any](c, http.StatusNotFound, "listing not found", nil)
		case errors.Is(err, application.ErrForbidden):
			response.Error[any](c, http.StatusForbidden, "cannot buy your own listing", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to create transaction", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, t, "transaction created", nil)
}

func (h *TransactionHandler) Get(c *gin.Context) {
	t, err := h.Svc.GetTransaction(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		txError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t, "transaction", nil)
}

func (h *TransactionHandler) List(c *gin.Context) {
	items, err := h.Svc.ListTransactions(c.Request.Context(), c.GetString("userID"), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list transactions", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "transactions", nil)
}

type completeRequest struct {
	Status string `json:"status" binding:"required,oneof=success failed"`
}

// Complete settles a pending transaction, standing in for a payment gateway
// callback.
func (h *TransactionHandler) Complete(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.CompleteTransaction(c.Request.Context(), c.Param("id"), c.GetString("userID"), entity.PaymentStatus(req.Status))
	if err != nil {
		txError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t, "transaction updated", nil)
}

func txError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrTransactionFound):
		response.Error[any](c, http.StatusNotFound, "transaction not found", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "not your transaction", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "transaction operation failed", nil)
	}
}
