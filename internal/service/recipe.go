package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/types"
)

// RecipeService stores recipes through gorm (sqlite or postgres)
type RecipeService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// List returns recipes matching filter, newest first
func (s *RecipeService) List(ctx context.Context, filter types.RecipeFilter) ([]*types.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&model.Recipe{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(ingredients) LIKE ? ESCAPE '\')`, like, like)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", string(filter.Difficulty))
	}
	if filter.Category != "" {
		query = query.Where("category = ?", string(filter.Category))
	}

	var rows []model.Recipe
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes := make([]*types.Recipe, 0, len(rows))
	for i := range rows {
		recipe, err := rows[i].ToAPI()
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// Get retrieves a recipe by ID
func (s *RecipeService) Get(ctx context.Context, id string) (*types.Recipe, error) {
	row, err := s.find(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return row.ToAPI()
}

// Create stores a new recipe with a fresh id
func (s *RecipeService) Create(ctx context.Context, req *types.CreateRecipeRequest) (*types.Recipe, error) {
	row, err := model.NewRecipe(uuid.New().String(), req, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return row.ToAPI()
}

// Update replaces the content of an existing recipe, keeping its id and creation time
func (s *RecipeService) Update(ctx context.Context, id string, req *types.CreateRecipeRequest) (*types.Recipe, error) {
	var updated *model.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, id)
		if err != nil {
			return err
		}
		if err := row.Apply(req, s.now()); err != nil {
			return err
		}
		if err := tx.Save(row).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.ToAPI()
}

// Delete removes a recipe
func (s *RecipeService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&model.Recipe{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete recipe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

func (s *RecipeService) find(db *gorm.DB, id string) (*model.Recipe, error) {
	var row model.Recipe
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &row, nil
}

// escapeLike escapes LIKE wildcards so search text matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
