package types

import (
	"strings"
	"time"
)

// Difficulty is the effort level of a recipe
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Category is the course a recipe belongs to
type Category string

const (
	CategoryMain      Category = "main"
	CategorySide      Category = "side"
	CategoryDessert   Category = "dessert"
	CategoryAppetizer Category = "appetizer"
	CategoryBeverage  Category = "beverage"
)

// Defaults applied when a recipe field is missing or invalid
const (
	DefaultRecipeTitle = "Generated Recipe"
	DefaultCookingTime = 30
	DefaultDifficulty  = DifficultyMedium
	DefaultCategory    = CategoryMain
)

// Difficulties lists the accepted difficulty values in prompt order
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Categories lists the accepted category values in prompt order
var Categories = []Category{CategoryMain, CategorySide, CategoryDessert, CategoryAppetizer, CategoryBeverage}

// ParseDifficulty matches s against the known difficulties, ignoring case and
// surrounding whitespace.
func ParseDifficulty(s string) (Difficulty, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range Difficulties {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// ParseCategory matches s against the known categories, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// RecipeGenerationRequest is the user input for recipe generation. Every field is
// optional; zero values mean the caller left that axis open.
type RecipeGenerationRequest struct {
	Ingredients []string   `json:"ingredients"`
	Cuisine     string     `json:"cuisine"`
	Difficulty  Difficulty `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	CookingTime int        `json:"cookingTime" binding:"omitempty,min=1"`
	Dietary     []string   `json:"dietary"`
}

// RecipeGenerationResponse is a normalized generated recipe. It has no identity
// until it is saved.
type RecipeGenerationResponse struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Ingredients  []string   `json:"ingredients"`
	Instructions []string   `json:"instructions"`
	CookingTime  int        `json:"cookingTime"`
	Difficulty   Difficulty `json:"difficulty"`
	Category     Category   `json:"category"`
	Tags         []string   `json:"tags"`
}

// Recipe represents a persisted recipe
type Recipe struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Ingredients  []string   `json:"ingredients"`
	Instructions []string   `json:"instructions"`
	CookingTime  int        `json:"cookingTime"`
	Difficulty   Difficulty `json:"difficulty"`
	Category     Category   `json:"category"`
	Tags         []string   `json:"tags"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CreateRequest converts a generated recipe into the body used to save it
func (r *RecipeGenerationResponse) CreateRequest() *CreateRecipeRequest {
	return &CreateRecipeRequest{
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		CookingTime:  r.CookingTime,
		Difficulty:   r.Difficulty,
		Category:     r.Category,
		Tags:         r.Tags,
	}
}
