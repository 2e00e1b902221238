package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

// LLMHandler serves recipe generation
type LLMHandler struct {
	generator service.RecipeGenerator
	limiter   gin.HandlerFunc
	logger    *zap.Logger
}

// NewLLMHandler creates a new LLMHandler instance. limiter may be nil.
func NewLLMHandler(generator service.RecipeGenerator, limiter gin.HandlerFunc, logger *zap.Logger) *LLMHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMHandler{
		generator: generator,
		limiter:   limiter,
		logger:    logger,
	}
}

// RegisterRoutes registers the generation route
func (h *LLMHandler) RegisterRoutes(router *gin.RouterGroup) {
	handlers := []gin.HandlerFunc{}
	if h.limiter != nil {
		handlers = append(handlers, h.limiter)
	}
	handlers = append(handlers, h.Generate)
	router.POST("/generate", handlers...)
}

// Generate builds a recipe from the optional generation parameters in the body.
// An empty body is an empty request.
func (h *LLMHandler) Generate(c *gin.Context) {
	var req types.RecipeGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Debug("invalid generation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	recipe, err := h.generator.GenerateRecipe(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrMissingAPIKey) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gemini API key not configured"})
			return
		}
		h.logger.Error("recipe generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recipe"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}
