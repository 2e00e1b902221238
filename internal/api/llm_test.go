package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/mocks"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

func setupLLMRouter(t *testing.T, limiter gin.HandlerFunc) (*gin.Engine, *mocks.MockRecipeGenerator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	generator := &mocks.MockRecipeGenerator{}
	t.Cleanup(func() { generator.AssertExpectations(t) })

	router := gin.New()
	NewLLMHandler(generator, limiter, nil).RegisterRoutes(router.Group("/api/v1"))
	return router, generator
}

func generated() *types.RecipeGenerationResponse {
	return &types.RecipeGenerationResponse{
		Title:        "Tomato Soup",
		Ingredients:  []string{"tomatoes"},
		Instructions: []string{"Simmer"},
		CookingTime:  30,
		Difficulty:   types.DifficultyMedium,
		Category:     types.CategoryMain,
		Tags:         []string{"soup"},
	}
}

func TestGenerate(t *testing.T) {
	t.Run("passes the request through", func(t *testing.T) {
		router, generator := setupLLMRouter(t, nil)
		want := types.RecipeGenerationRequest{
			Ingredients: []string{"tomatoes", "basil"},
			Cuisine:     "Italian",
			Difficulty:  types.DifficultyEasy,
			CookingTime: 20,
			Dietary:     []string{"vegan"},
		}
		generator.On("GenerateRecipe", mock.Anything, want).Return(generated(), nil)

		w := doJSON(router, http.MethodPost, "/api/v1/generate", want)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title":"Tomato Soup"`)
		assert.NotContains(t, w.Body.String(), `"id"`)
	})

	t.Run("empty body is an empty request", func(t *testing.T) {
		router, generator := setupLLMRouter(t, nil)
		generator.On("GenerateRecipe", mock.Anything, types.RecipeGenerationRequest{}).Return(generated(), nil)

		w := doJSON(router, http.MethodPost, "/api/v1/generate", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		router, _ := setupLLMRouter(t, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/generate", `{"ingredients": "tomato"`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", errorBody(t, w))
	})

	t.Run("missing api key", func(t *testing.T) {
		router, generator := setupLLMRouter(t, nil)
		generator.On("GenerateRecipe", mock.Anything, mock.Anything).Return(nil, service.ErrMissingAPIKey)

		w := doJSON(router, http.MethodPost, "/api/v1/generate", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Gemini API key not configured", errorBody(t, w))
	})

	t.Run("generation failure", func(t *testing.T) {
		router, generator := setupLLMRouter(t, nil)
		generator.On("GenerateRecipe", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: %w", service.ErrGenerationFailed, context.DeadlineExceeded))

		w := doJSON(router, http.MethodPost, "/api/v1/generate", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to generate recipe", errorBody(t, w))
		assert.NotContains(t, w.Body.String(), "deadline")
	})

	t.Run("limiter runs first", func(t *testing.T) {
		deny := func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		}
		router, _ := setupLLMRouter(t, deny)

		w := doJSON(router, http.MethodPost, "/api/v1/generate", nil)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}
