// Package routes defines the API routing configuration and wires the
// repositories, services and handlers together.
package routes

import (
	"fundflow/internal/config"
	"fundflow/internal/handlers"
	"fundflow/internal/middleware"
	"fundflow/internal/repositories"
	"fundflow/internal/services/auth"
	"fundflow/internal/services/transfer"
	"fundflow/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes. The notification
// scheduler is owned by main so its worker pool outlives requests.
func SetupRoutes(app *fiber.App, db *gorm.DB, scheduler transfer.NotificationScheduler) {
	walletRepo := repositories.NewWalletRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	userRepo := repositories.NewUserRepository(db)

	var cacheOp wallet.CacheOperator
	if repositories.CacheService != nil {
		cacheOp = repositories.CacheService
	}
	walletService := wallet.NewService(walletRepo, cacheOp)
	authService := auth.NewService(userRepo, walletService, config.GetEnv("JWT_SECRET", "fundflow-dev-secret"))

	transferService := transfer.NewService(walletRepo, scheduler, transfer.Config{
		CommissionThreshold: decimalEnv("COMMISSION_THRESHOLD"),
		CommissionRate:      decimalEnv("COMMISSION_RATE"),
		CollectorWalletID:   uint(config.GetIntEnv("COLLECTOR_WALLET_ID", 0)),
	})

	authHandler := handlers.NewAuthHandler(authService)
	transferHandler := handlers.NewTransferHandler(transferService, walletService)
	walletHandler := handlers.NewWalletHandler(walletService, transactionRepo)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	api := app.Group("/api")
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	protected := api.Group("", authMiddleware.Handler)
	protected.Post("/transfer", transferHandler.Transfer)
	protected.Get("/wallet", walletHandler.GetWallet)
	protected.Get("/transactions", walletHandler.GetTransactions)
}

// decimalEnv reads a decimal env var; unset or malformed values come back
// zero so the engine falls back to its defaults.
func decimalEnv(key string) decimal.Decimal {
	d, err := decimal.NewFromString(config.GetEnv(key, ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}
