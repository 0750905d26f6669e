package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/key2key/backend/internal/application"
	"github.com/key2key/backend/internal/container"
	handlers "github.com/key2key/backend/internal/interface/http"
	"github.com/key2key/backend/internal/interface/middleware"
)

// MarketplaceModule wires brokers, transactions, reviews, chat and
// notifications. Everything except broker lookup and review listing requires
// a verified account.

type MarketplaceModule struct {
	Brokers       *handlers.BrokerHandler
	Transactions  *handlers.TransactionHandler
	Reviews       *handlers.ReviewHandler
	Chat          *handlers.ChatHandler
	Notifications *handlers.NotificationHandler
	Auth          *application.AuthService
}

func NewMarketplaceModule(b *handlers.BrokerHandler, t *handlers.TransactionHandler, r *handlers.ReviewHandler, c *handlers.ChatHandler, n *handlers.NotificationHandler, auth *application.AuthService) *MarketplaceModule {
	return &MarketplaceModule{Brokers: b, Transactions: t, Reviews: r, Chat: c, Notifications: n, Auth: auth}
}

func (m *MarketplaceModule) Register(rg *gin.RouterGroup) {
	browseLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/brokers/:userID", browseLimiter, m.Brokers.Get)
	rg.GET("/reviews/user/:userID", browseLimiter, m.Reviews.ListForUser)

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth(m.Auth), middleware.ActiveUser())
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/brokers", m.Brokers.Create)
		auth.PUT("/brokers", m.Brokers.Update)
		auth.DELETE("/brokers", m.Brokers.Delete)

		auth.POST("/transactions", m.Transactions.Create)
		auth.GET("/transactions", m.Transactions.List)
		auth.GET("/transactions/:id", m.Transactions.Get)
		auth.POST("/transactions/:id/complete", m.Transactions.Complete)

		auth.POST("/reviews", m.Reviews.Create)

		auth.POST("/chat/messages", m.Chat.Send)
		auth.GET("/chat/threads/:threadID/messages", m.Chat.Messages)

		auth.GET("/notifications", m.Notifications.List)
		auth.POST("/notifications/:id/read", m.Notifications.MarkRead)
	}
}
