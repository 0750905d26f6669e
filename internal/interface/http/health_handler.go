package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/key2key/backend/pkg/response"
)

type HealthHandler struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
}

func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{Pool: pool, Redis: rdb}
}

// Live answers as soon as the process is serving.
func (h *HealthHandler) Live(c *gin.Context) {
	response.Success[any](c, http.StatusOK, map[string]any{"status": "ok"}, "alive", nil)
}

// Ready checks the Postgres pool and Redis connection.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"postgres": "ok", "redis": "ok"}
	healthy := true

	if h.Pool == nil || h.Pool.Ping(ctx) != nil {
		checks["postgres"] = "unreachable"
		healthy = false
	}
	if h.Redis == nil || h.Redis.Ping(ctx).Err() != nil {
		checks["redis"] = "unreachable"
		healthy = false
	}

	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "not ready", checks)
		return
	}
	response.Success[any](c, http.StatusOK, checks, "ready", nil)
}
