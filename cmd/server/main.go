package main

import (
	"context" // context package is needed for Redis operations
	"time"    // Startup timeouts

	"github.com/sb141/personal-finance-project/internal/api"        // Custom package for API handlers
	"github.com/sb141/personal-finance-project/internal/config"     // Custom package for configuration
	"github.com/sb141/personal-finance-project/internal/db"         // Custom package for database bootstrap
	"github.com/sb141/personal-finance-project/internal/middleware" // Custom package for middleware
	"github.com/sb141/personal-finance-project/internal/notify"     // Custom package for reset delivery
	"github.com/sb141/personal-finance-project/internal/service"    // Custom package for business logic
	"github.com/sb141/personal-finance-project/internal/store"      // Custom package for persistence

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{}) // Machine readable logs in production
	}

	// Connect to the database
	gdb, err := db.Open(cfg.DSN(), !cfg.IsProd)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Services
	authSvc := service.NewAuthService(store.NewUsers(gdb), resetNotifier(cfg), service.AuthConfig{
		BcryptCost:    cfg.BcryptCost,    // Password hash cost
		ResetTokenTTL: cfg.ResetTokenTTL, // Reset token lifetime
	})
	txSvc := service.NewTransactionService(store.NewTransactions(gdb))

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins)) // Allow the browser frontend

	api.RegisterRoutes(r, authSvc, txSvc) // Mount all endpoints

	logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}

// resetNotifier returns the Redis delivery queue, or a log-only notifier when Redis is not configured
func resetNotifier(cfg *config.Config) notify.ResetNotifier {
	if cfg.RedisAddr == "" {
		logrus.Warn("REDIS_ADDR not set, password reset tokens will not be delivered")
		return notify.LogNotifier{}
	}
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is required to sign password reset envelopes")
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}
	return notify.NewRedisQueue(redisClient, cfg.ResetQueueKey, cfg.JWTSecret)
}
