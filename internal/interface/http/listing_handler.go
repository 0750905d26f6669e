package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/key2key/backend/internal/application"
	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/internal/domain/repository"
	"github.com/key2key/backend/pkg/response"
	"github.com/key2key/backend/pkg/validation"
)

const maxPhotoSize = 10 << 20 // 10 MiB

type ListingHandler struct {
	Svc    *application.ListingService
	Logger *logrus.Logger
}

func NewListingHandler(svc *application.ListingService, logger *logrus.Logger) *ListingHandler {
	return &ListingHandler{Svc: svc, Logger: logger}
}

type propertyRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	PropertyType string   `json:"property_type" binding:"required,oneof=house apartment land office"`
	Price        float64  `json:"price" binding:"required,gt=0"`
	Location     string   `json:"location" binding:"required"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Status       string   `json:"status" binding:"omitempty,listingstatus"`
}

func (h *ListingHandler) CreateProperty(c *gin.Context) {
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.CreateProperty(c.Request.Context(), c.GetString("userID"), application.PropertyInput{
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: entity.PropertyType(req.PropertyType),
		Price:        req.Price,
		Location:     req.Location,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Status:       entity.ListingStatus(req.Status),
	})
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to create listing", nil)
		return
	}
	response.Success(c, http.StatusCreated, p, "listing created", nil)
}

func (h *ListingHandler) GetProperty(c *gin.Context) {
	p, err := h.Svc.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		listingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "listing", nil)
}

type propertyUpdateRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	PropertyType string   `json:"property_type" binding:"omitempty,oneof=house apartment land office"`
	Price        float64  `json:"price" binding:"omitempty,gt=0"`
	Location     string   `json:"location"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Status       string   `json:"status" binding:"omitempty,listingstatus"`
}

func (h *ListingHandler) UpdateProperty(c *gin.Context) {
	var req propertyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.UpdateProperty(c.Request.Context(), c.Param("id"), c.GetString("userID"), application.PropertyInput{
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: entity.PropertyType(req.PropertyType),
		Price:        req.Price,
		Location:     req.Location,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Status:       entity.ListingStatus(req.Status),
	})
	if err != nil {
		listingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "listing updated", nil)
}

func (h *ListingHandler) DeleteProperty(c *gin.Context) {
	if err := h.Svc.DeleteProperty(c.Request.Context(), c.Param("id"), c.GetString("userID")); err != nil {
		listingError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "listing deleted", nil)
}

func (h *ListingHandler) ListProperties(c *gin.Context) {
	items, err := h.Svc.ListProperties(c.Request.Context(), listingFilter(c))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "listings", nil)
}

// UploadPropertyPhoto accepts multipart form field "photo".
func (h *ListingHandler) UploadPropertyPhoto(c *gin.Context) {
	fh, err := c.FormFile("photo")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing photo file", nil)
		return
	}
	if fh.Size > maxPhotoSize {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "photo too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable photo file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.AddPropertyPhoto(c.Request.Context(), c.Param("id"), c.GetString("userID"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		listingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, map[string]any{"url": url}, "photo uploaded", nil)
}

// UploadVehiclePhoto accepts multipart form field "photo".
func (h *ListingHandler) UploadVehiclePhoto(c *gin.Context) {
	fh, err := c.FormFile("photo")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing photo file", nil)
		return
	}
	if fh.Size > maxPhotoSize {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "photo too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable photo file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.AddVehiclePhoto(c.Request.Context(), c.Param("id"), c.GetString("userID"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		listingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, map[string]any{"url": url}, "photo uploaded", nil)
}

type vehicleRequest struct {
	Title        string  `json:"title" binding:"required"`
	Make         string  `json:"make" binding:"required"`
	Model        string  `json:"model" binding:"required"`
	Year         int     `json:"year" binding:"required,gte=1950"`
	Price        float64 `json:"price" binding:"required,gt=0"`
	Mileage      int     `json:"mileage" binding:"gte=0"`
	FuelType     string  `json:"fuel_type"`
	Transmission string  `json:"transmission"`
	Status       string  `json:"status" binding:"omitempty,listingstatus"`
}

func (h *ListingHandler) CreateVehicle(c *gin.Context) {
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, err := h.Svc.CreateVehicle(c.Request.Context(), c.GetString("userID"), application.VehicleInput{
		Title:        req.Title,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Price:        req.Price,
		Mileage:      req.Mileage,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		Status:       entity.ListingStatus(req.Status),
	})
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to create listing", nil)
		return
	}
	response.Success(c, http.StatusCreated, v, "listing created", nil)
}

func (h *ListingHandler) GetVehicle(c *gin.Context) {
	v, err := h.Svc.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		listingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, "listing", nil)
}

type vehicleUpdateRequest struct {
	Title        string  `json:"title"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year" binding:"omitempty,gte=1950"`
	Price        float64 `json:"price" binding:"omitempty,gt=0"`
	Mileage      int     `json:"mileage" binding:"omitempty,gte=0"`
	FuelType     string  `json:"fuel_type"`
	Transmission string  `json:"transmission"`
	Status       string  `json:"status" binding:"omitempty,listingstatus"`
}

func (h *ListingHandler) UpdateVehicle(c *gin.Context) {
	var req vehicleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, err := h.Svc.UpdateVehicle(c.Request.Context(), c.Param("id"), c.GetString("userID"), application.VehicleInput{
		Title:        req.Title,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Price:        req.Price,
		Mileage:      req.Mileage,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		Status:       entity.ListingStatus(req.Status),
	})
	if err != nil {
		listingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, "listing updated", nil)
}

func (h *ListingHandler) DeleteVehicle(c *gin.Context) {
	if err := h.Svc.DeleteVehicle(c.Request.Context(), c.Param("id"), c.GetString("userID")); err != nil {
		listingError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "listing deleted", nil)
}

func (h *ListingHandler) ListVehicles(c *gin.Context) {
	items, err := h.Svc.ListVehicles(c.Request.Context(), listingFilter(c))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "listings", nil)
}

// Search queries the Elasticsearch listings index across both kinds.
func (h *ListingHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size := queryInt(c, "size", 10)
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Warn("listing search failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

func listingFilter(c *gin.Context) repository.ListingFilter {
	f := repository.ListingFilter{
		OwnerID: c.Query("owner_id"),
		Status:  entity.ListingStatus(c.Query("status")),
		Limit:   queryInt(c, "limit", 20),
		Offset:  queryInt(c, "offset", 0),
	}
	if v := c.Query("min_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = p
		}
	}
	if v := c.Query("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = p
		}
	}
	return f
}

func listingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrListingNotFound):
		response.Error[any](c, http.StatusNotFound, "listing not found", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "not the listing owner", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "listing operation failed", nil)
	}
}
