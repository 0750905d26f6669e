package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/key2key/backend/internal/application"
	"github.com/key2key/backend/internal/container"
	"github.com/key2key/backend/internal/domain/entity"
	handlers "github.com/key2key/backend/internal/interface/http"
	"github.com/key2key/backend/internal/interface/middleware"
)

// UserModule wires account registration, profile and admin user management.
// Public: POST /api/users/register
// Protected: GET/PUT /api/users/me
// Admin: GET /api/users, DELETE /api/users/:id

type UserModule struct {
	Handler *handlers.UserHandler
	Auth    *application.AuthService
}

func NewUserModule(h *handlers.UserHandler, auth *application.AuthService) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users/register", registerLimiter, m.Handler.Register)

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth(m.Auth))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/users/me", m.Handler.GetProfile)
		auth.PUT("/users/me", middleware.ActiveUser(), m.Handler.UpdateProfile)
	}

	admin := auth.Group("/")
	admin.Use(middleware.ActiveUser(), middleware.RequireRole(entity.RoleAdmin))
	{
		admin.GET("/users", m.Handler.ListUsers)
		admin.DELETE("/users/:id", m.Handler.DeleteUser)
	}
}
