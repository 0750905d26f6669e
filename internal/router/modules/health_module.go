package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/key2key/backend/internal/interface/http"
)

// HealthModule exposes liveness and readiness probes, unauthenticated and
// unlimited.

type HealthModule struct {
	Handler *handlers.HealthHandler
}

func NewHealthModule(h *handlers.HealthHandler) *HealthModule {
	return &HealthModule{Handler: h}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.Handler.Live)
	rg.GET("/readyz", m.Handler.Ready)
}
