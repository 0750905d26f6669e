package router

import (
	"github.com/key2key/backend/internal/application"
	"github.com/key2key/backend/internal/container"
	pginfra "github.com/key2key/backend/internal/infrastructure/postgres"
	handlers "github.com/key2key/backend/internal/interface/http"
	"github.com/key2key/backend/internal/router/modules"
)

// InitModules builds every service from the container singletons and registers
// all feature modules. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	propRepo := pginfra.NewPropertyRepository(pool)
	vehRepo := pginfra.NewVehicleRepository(pool)
	brokerRepo := pginfra.NewBrokerRepository(pool)
	txRepo := pginfra.NewTransactionRepository(pool)
	reviewRepo := pginfra.NewReviewRepository(pool)
	chatRepo := pginfra.NewChatRepository(pool)
	notifRepo := pginfra.NewNotificationRepository(pool)
	auditRepo := pginfra.NewAuditRepository(pool)

	authSvc := application.NewAuthService(userRepo, container.GetHasher(), container.GetJWT(), logger)
	userSvc := application.NewUserService(
		userRepo,
		container.GetHasher(),
		container.GetRedis(),
		container.GetRabbitPub(),
		logger,
		cfg.VerifyEmailURL,
		cfg.ResetPasswordURL,
		cfg.MailSendEnabled,
	)
	listingSvc := application.NewListingService(
		propRepo,
		vehRepo,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetES(),
		cfg.ESListingsIndex,
		logger,
	)
	marketSvc := &application.MarketplaceService{
		Users:           userRepo,
		Brokers:         brokerRepo,
		Transactions:    txRepo,
		Reviews:         reviewRepo,
		Chats:           chatRepo,
		Notifications:   notifRepo,
		Listings:        listingSvc,
		Pub:             container.GetRabbitPub(),
		Logger:          logger,
		MailSendEnabled: cfg.MailSendEnabled,
	}

	authHandler := handlers.NewAuthHandler(authSvc, userSvc, auditRepo, logger, cfg.CookieDomain, cfg.CookieSecure)
	userHandler := handlers.NewUserHandler(userSvc, logger)
	listingHandler := handlers.NewListingHandler(listingSvc, logger)
	brokerHandler := handlers.NewBrokerHandler(marketSvc, logger)
	txHandler := handlers.NewTransactionHandler(marketSvc, logger)
	reviewHandler := handlers.NewReviewHandler(marketSvc, logger)
	chatHandler := handlers.NewChatHandler(marketSvc, logger)
	notifHandler := handlers.NewNotificationHandler(marketSvc, logger)
	healthHandler := handlers.NewHealthHandler(pool, container.GetRedis())

	r.Add(modules.NewHealthModule(healthHandler))
	r.Add(modules.NewAuthModule(authHandler, authSvc))
	r.Add(modules.NewUserModule(userHandler, authSvc))
	r.Add(modules.NewListingModule(listingHandler, authSvc))
	r.Add(modules.NewMarketplaceModule(brokerHandler, txHandler, reviewHandler, chatHandler, notifHandler, authSvc))
}
