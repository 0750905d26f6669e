package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/key2key/backend/internal/application"
	"github.com/key2key/backend/internal/container"
	handlers "github.com/key2key/backend/internal/interface/http"
	"github.com/key2key/backend/internal/interface/middleware"
)

// ListingModule wires property and vehicle listings.
// Public: browse, fetch and search listings.
// Protected (verified accounts): create, update, delete, photo upload.

type ListingModule struct {
	Handler *handlers.ListingHandler
	Auth    *application.AuthService
}

func NewListingModule(h *handlers.ListingHandler, auth *application.AuthService) *ListingModule {
	return &ListingModule{Handler: h, Auth: auth}
}

func (m *ListingModule) Register(rg *gin.RouterGroup) {
	browseLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/listings/properties", browseLimiter, m.Handler.ListProperties)
	rg.GET("/listings/properties/:id", browseLimiter, m.Handler.GetProperty)
	rg.GET("/listings/vehicles", browseLimiter, m.Handler.ListVehicles)
	rg.GET("/listings/vehicles/:id", browseLimiter, m.Handler.GetVehicle)
	rg.GET("/listings/search", browseLimiter, m.Handler.Search)

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth(m.Auth), middleware.ActiveUser())
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/listings/properties", m.Handler.CreateProperty)
		auth.PUT("/listings/properties/:id", m.Handler.UpdateProperty)
		auth.DELETE("/listings/properties/:id", m.Handler.DeleteProperty)
		auth.POST("/listings/properties/:id/photos", m.Handler.UploadPropertyPhoto)

		auth.POST("/listings/vehicles", m.Handler.CreateVehicle)
		auth.PUT("/listings/vehicles/:id", m.Handler.UpdateVehicle)
		auth.DELETE("/listings/vehicles/:id", m.Handler.DeleteVehicle)
		auth.POST("/listings/vehicles/:id/photos", m.Handler.UploadVehiclePhoto)
	}
}
