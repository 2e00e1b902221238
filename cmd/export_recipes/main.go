package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/logger"
	"github.com/pageza/recipebox/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	store, _, err := service.OpenRecipeStore(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("failed to open recipe store", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s3cfg, err := config.NewS3Config(ctx, cfg.S3)
	if err != nil {
		zlog.Fatal("failed to initialize S3 client", zap.Error(err))
	}

	archive := service.NewArchiveService(store, s3cfg.Client, s3cfg, s3cfg.BucketName, cfg.S3.PresignTTL, zlog)
	result, err := archive.ExportRecipes(ctx)
	if err != nil {
		zlog.Fatal("export failed", zap.Error(err))
	}

	fmt.Fprintf(os.Stdout, "exported %d recipes to s3://%s/%s\n", result.RecipeCount, s3cfg.BucketName, result.Key)
	if result.URL != "" {
		fmt.Fprintf(os.Stdout, "download (valid %s): %s\n", cfg.S3.PresignTTL, result.URL)
	}
}
