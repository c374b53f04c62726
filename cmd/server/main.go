// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"time"

	"fundflow/internal/config"
	"fundflow/internal/repositories"
	"fundflow/internal/routes"
	"fundflow/internal/services/notification"
	"fundflow/internal/services/sweeper"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Initializes database and cache connections
// - Starts the notification dispatcher and retention sweeper
// - Configures routes
// - Starts the HTTP server
func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize databases (PostgreSQL + Redis)
	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	defer func() {
		// Close PostgreSQL connection
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("Failed to get database instance: %v", err)
			} else if err := sqlDB.Close(); err != nil {
				log.Printf("Failed to close database connection: %v", err)
			}
		}

		// Close Redis connection via CacheService
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	// Cached balances may be stale across restarts
	if repositories.CacheService != nil {
		if err := repositories.CacheService.FlushAll(context.Background()); err != nil {
			log.Printf("Failed to flush Redis cache: %v", err)
		}
	}

	// Notification dispatcher: webhook delivery if configured, log-only
	// otherwise.
	var sender notification.Sender
	if url := config.GetEnv("NOTIFY_WEBHOOK_URL", ""); url != "" {
		sender = notification.NewWebhookSender(url)
	} else {
		sender = &notification.LogSender{}
	}
	dispatcher := notification.NewDispatcher(sender, notification.Config{
		Workers:    config.GetIntEnv("NOTIFY_WORKERS", 0),
		QueueSize:  config.GetIntEnv("NOTIFY_QUEUE_SIZE", 0),
		MaxRetries: config.GetIntEnv("NOTIFY_MAX_RETRIES", notification.DefaultMaxRetries),
		RetryDelay: config.GetDurationEnv("NOTIFY_RETRY_DELAY", 0),
	})
	dispatcher.Start()
	defer dispatcher.Stop()

	// Retention sweeper runs in the background for the process lifetime
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	retention := time.Duration(config.GetIntEnv("RETENTION_DAYS", 90)) * 24 * time.Hour
	go sweeper.New(repositories.NewTransactionRepository(repositories.DB), sweeper.Config{
		Retention: retention,
		Interval:  config.GetDurationEnv("SWEEP_INTERVAL", 0),
	}).Run(sweepCtx)

	// Create Fiber app
	app := fiber.New()

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/register", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	app.Use("/api/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	// Routes
	routes.SetupRoutes(app, repositories.DB, dispatcher)

	// Start server
	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
