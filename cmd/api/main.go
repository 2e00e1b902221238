package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logger"
	"github.com/pageza/recipebox/backend/internal/metrics"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/router"
	"github.com/pageza/recipebox/backend/internal/server"
	"github.com/pageza/recipebox/backend/internal/service"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	format := cfg.LogFormat
	if cfg.Environment.IsProduction() {
		format = "json"
	}
	zlog, err := logger.New(cfg.LogLevel, format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, db, err := service.OpenRecipeStore(cfg.Database, zlog)
	if err != nil {
		return fmt.Errorf("failed to open recipe store: %w", err)
	}
	var ping api.Pinger
	if db != nil {
		ping = func(ctx context.Context) error { return database.HealthCheck(ctx, db) }
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
	}
	zlog.Info("recipe store ready", zap.String("driver", cfg.Database.Driver))

	gemini := service.NewGeminiClient(cfg.Gemini)
	if !gemini.HasAPIKey() {
		zlog.Warn("GEMINI_API_KEY is not set; recipe generation will fail until it is configured")
	}

	m := metrics.New()
	generator := service.NewLLMService(gemini, cfg.Gemini.Language, zlog, m)

	var limiter *middleware.RateLimiter
	if redisClient, err := database.NewRedisClient(cfg.Redis, zlog); err != nil {
		zlog.Warn("redis unavailable, generation rate limiting disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		limiter = middleware.NewGenerationRateLimiter(redisClient, cfg.RateLimit.GenerationLimit, cfg.RateLimit.GenerationWindow, zlog)
	}

	opts := router.Options{
		Logger:       zlog,
		CORSOrigins:  cfg.CORSOrigins,
		Store:        store,
		Generator:    generator,
		CookieSecure: cfg.Auth.CookieSecure,
		RateLimiter:  limiter,
		Metrics:      m,
		Ping:         ping,
	}
	if cfg.Auth.Enabled() {
		opts.Auth = service.NewAuthService(cfg.Auth)
		zlog.Info("authentication enabled", zap.String("user", cfg.Auth.User))
	} else {
		zlog.Warn("AUTH_USER is not set; the API is open to anyone who can reach it")
	}

	srv := server.New(cfg, router.SetupRouter(opts), zlog)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
		return errors.New("server stopped unexpectedly")
	case sig := <-quit:
		zlog.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	zlog.Info("server stopped")
	return nil
}
