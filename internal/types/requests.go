package types

// CreateRecipeRequest represents the request body for creating or replacing a recipe.
// A nil Tags slice means the caller sent no tags; an empty one means "no tags".
type CreateRecipeRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	Ingredients  []string   `json:"ingredients" binding:"required"`
	Instructions []string   `json:"instructions" binding:"required"`
	CookingTime  int        `json:"cookingTime" binding:"omitempty,min=1"`
	Difficulty   Difficulty `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Category     Category   `json:"category" binding:"omitempty,oneof=main side dessert appetizer beverage"`
	Tags         []string   `json:"tags"`
}

// RecipeFilter narrows a recipe listing. Empty fields are ignored.
type RecipeFilter struct {
	Search     string     `form:"search"`
	Difficulty Difficulty `form:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Category   Category   `form:"category" binding:"omitempty,oneof=main side dessert appetizer beverage"`
}

// LoginRequest represents the request body for signing in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned after a successful sign in
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// MessageResponse is a plain acknowledgement body
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error envelope returned by every endpoint
type ErrorResponse struct {
	Error string `json:"error"`
}

// ExportResult describes an uploaded recipe export
type ExportResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	RecipeCount int    `json:"recipeCount"`
}
