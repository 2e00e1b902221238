package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/types"
)

// ObjectUploader is the subset of *s3.Client used for exports
type ObjectUploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// URLPresigner issues temporary download links for stored objects
type URLPresigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// recipeExport is the document written for each export
type recipeExport struct {
	ExportedAt time.Time       `json:"exportedAt"`
	Count      int             `json:"count"`
	Recipes    []*types.Recipe `json:"recipes"`
}

// ArchiveService exports every stored recipe to an S3 bucket
type ArchiveService struct {
	store      RecipeStore
	uploader   ObjectUploader
	presigner  URLPresigner
	bucket     string
	presignTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewArchiveService creates a new ArchiveService instance. presigner may be nil, in
// which case exports carry no download URL.
func NewArchiveService(store RecipeStore, uploader ObjectUploader, presigner URLPresigner, bucket string, presignTTL time.Duration, logger *zap.Logger) *ArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveService{
		store:      store,
		uploader:   uploader,
		presigner:  presigner,
		bucket:     bucket,
		presignTTL: presignTTL,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ExportRecipes uploads all recipes as one JSON document
func (s *ArchiveService) ExportRecipes(ctx context.Context) (*types.ExportResult, error) {
	recipes, err := s.store.List(ctx, types.RecipeFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	now := s.now()
	body, err := json.MarshalIndent(recipeExport{
		ExportedAt: now,
		Count:      len(recipes),
		Recipes:    recipes,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := fmt.Sprintf("recipes/export-%s.json", now.Format("20060102T150405Z"))
	_, err = s.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}

	result := &types.ExportResult{Key: key, RecipeCount: len(recipes)}
	if s.presigner != nil {
		url, err := s.presigner.GeneratePresignedURL(ctx, key, s.presignTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to presign export: %w", err)
		}
		result.URL = url
	}

	s.logger.Info("exported recipes",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("count", len(recipes)),
	)
	return result, nil
}
