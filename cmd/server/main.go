// Package main provides the API server entry point for the product scanner service.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/product-scanner/internal/adapter"
	"github.com/product-scanner/internal/api"
	"github.com/product-scanner/internal/config"
	"github.com/product-scanner/internal/logging"
	"github.com/product-scanner/internal/quota"
	"github.com/product-scanner/internal/retry"
	"github.com/product-scanner/internal/service"
	"github.com/product-scanner/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Initialize database connections. Containers often come up before their
	// databases do, so connection attempts back off instead of failing once.
	logger.Info("Connecting to databases...")

	var postgres *storage.PostgresDB
	err = retry.Do(context.Background(), nil, logger, "postgres connect", func(ctx context.Context) error {
		var connErr error
		postgres, connErr = storage.NewPostgresDB(&cfg.Database.Postgres)
		return connErr
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	var redis *storage.RedisCache
	err = retry.Do(context.Background(), nil, logger, "redis connect", func(ctx context.Context) error {
		var connErr error
		redis, connErr = storage.NewRedisCache(&cfg.Database.Redis)
		return connErr
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	logger.Info("Database connections established")

	// Initialize upstream adapters
	offClient := adapter.NewOpenFoodFactsClient(&cfg.OpenFood)

	// All Gemini calls share one pacer so image identification and
	// alternative generation cannot exceed the provider interval together.
	// The daily budget is tracked in Redis and shared across processes.
	geminiPacer := adapter.NewPacer(cfg.Gemini.MinRequestInterval)
	geminiBudget := quota.NewRequestBudget(redis.Client(), "gemini", cfg.Gemini.DailyRequestBudget)
	geminiClient := adapter.NewGeminiClient(&cfg.Gemini, geminiPacer, geminiBudget, logger)
	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set: photo identification disabled, alternatives will use heuristic estimates")
	}

	// Initialize repositories
	userRepo := storage.NewUserRepository(postgres)
	favoriteRepo := storage.NewFavoriteRepository(postgres)
	scanRepo := storage.NewScanRepository(postgres)
	cacheService := storage.NewCacheService(redis, cfg.Cache.TTL)

	// Initialize services
	scanService := service.NewScanService(offClient, geminiClient, scanRepo, cacheService, logger)
	suggestionService := service.NewSuggestionService(geminiClient)
	favoriteService := service.NewFavoriteService(favoriteRepo)
	analyticsService := service.NewAnalyticsService(scanRepo, favoriteRepo)
	userService := service.NewUserService(userRepo)

	logger.Info("Services initialized")

	serverConfig := &api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		FreeTierRPS:     cfg.RateLimit.FreeTierRPS,
		PaidTierRPS:     cfg.RateLimit.PaidTierRPS,
	}

	server := api.NewServer(
		serverConfig,
		scanService,
		suggestionService,
		favoriteService,
		analyticsService,
		userService,
		logger,
	)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
