package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

// RecipeHandler serves the recipe collection and item endpoints
type RecipeHandler struct {
	store  service.RecipeStore
	logger *zap.Logger
}

func NewRecipeHandler(store service.RecipeStore, logger *zap.Logger) *RecipeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeHandler{
		store:  store,
		logger: logger,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
	}
}

// ListRecipes returns every stored recipe, newest first. Optional query parameters
// search, difficulty and category narrow the list.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var filter types.RecipeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.Debug("invalid recipe filter", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter"})
		return
	}

	recipes, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, err, "fetch")
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if !bindRecipe(c, h.logger, &req) {
		return
	}

	recipe, err := h.store.Create(c.Request.Context(), &req)
	if err != nil {
		h.storeError(c, err, "create")
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if !bindRecipe(c, h.logger, &req) {
		return
	}

	recipe, err := h.store.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.storeError(c, err, "update")
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.storeError(c, err, "delete")
		return
	}

	c.JSON(http.StatusOK, types.MessageResponse{Message: "Recipe deleted successfully"})
}

// storeError maps not-found to 404 and anything else to a generic 500
func (h *RecipeHandler) storeError(c *gin.Context, err error, action string) {
	if errors.Is(err, service.ErrRecipeNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	h.logger.Error("recipe store failed",
		zap.String("action", action),
		zap.String("id", c.Param("id")),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " recipe"})
}

func bindRecipe(c *gin.Context, logger *zap.Logger, req *types.CreateRecipeRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Debug("invalid recipe body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}
