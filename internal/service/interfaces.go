package service

import (
	"context"
	"errors"

	"github.com/pageza/recipebox/backend/internal/types"
)

// ErrRecipeNotFound is returned when no recipe has the requested id
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeStore persists recipes. List returns newest first.
type RecipeStore interface {
	List(ctx context.Context, filter types.RecipeFilter) ([]*types.Recipe, error)
	Get(ctx context.Context, id string) (*types.Recipe, error)
	Create(ctx context.Context, req *types.CreateRecipeRequest) (*types.Recipe, error)
	Update(ctx context.Context, id string, req *types.CreateRecipeRequest) (*types.Recipe, error)
	Delete(ctx context.Context, id string) error
}

// RecipeGenerator produces a recipe from generation parameters
type RecipeGenerator interface {
	GenerateRecipe(ctx context.Context, req types.RecipeGenerationRequest) (*types.RecipeGenerationResponse, error)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, username, password string) (string, *types.TokenClaims, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

var (
	_ RecipeStore     = (*RecipeService)(nil)
	_ RecipeStore     = (*MemoryRecipeStore)(nil)
	_ RecipeGenerator = (*LLMService)(nil)
	_ TextGenerator   = (*GeminiClient)(nil)
	_ IAuthService    = (*AuthService)(nil)
)
