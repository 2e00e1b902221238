package service

import (
	"fmt"
	"strings"

	"github.com/pageza/recipebox/backend/internal/types"
)

const promptHeader = `Please generate a detailed recipe in JSON format with the following structure:
{
    "title": "Recipe name",
    "description": "Brief description",
    "ingredients": ["ingredient 1", "ingredient 2", ...],
    "instructions": ["step 1", "step 2", ...],
    "cookingTime": number (in minutes),
    "difficulty": "easy" | "medium" | "hard",
    "category": "main" | "side" | "dessert" | "appetizer" | "beverage",
    "tags": ["tag1", "tag2", ...]
}
`

const promptFooter = "Please provide only the JSON response without any additional text or markdown formatting."

// requirementRule emits one requirement line when its predicate holds
type requirementRule struct {
	name    string
	applies func(req *types.RecipeGenerationRequest) bool
	format  func(req *types.RecipeGenerationRequest) string
}

// requirementRules is evaluated in order; the order is part of the prompt contract.
var requirementRules = []requirementRule{
	{
		name:    "ingredients",
		applies: func(req *types.RecipeGenerationRequest) bool { return len(cleanList(req.Ingredients)) > 0 },
		format: func(req *types.RecipeGenerationRequest) string {
			return "Must include these ingredients: " + strings.Join(cleanList(req.Ingredients), ", ")
		},
	},
	{
		name:    "cuisine",
		applies: func(req *types.RecipeGenerationRequest) bool { return strings.TrimSpace(req.Cuisine) != "" },
		format: func(req *types.RecipeGenerationRequest) string {
			return "Cuisine style: " + strings.TrimSpace(req.Cuisine)
		},
	},
	{
		name:    "difficulty",
		applies: func(req *types.RecipeGenerationRequest) bool { return strings.TrimSpace(string(req.Difficulty)) != "" },
		format: func(req *types.RecipeGenerationRequest) string {
			return "Difficulty level: " + strings.TrimSpace(string(req.Difficulty))
		},
	},
	{
		name:    "cookingTime",
		applies: func(req *types.RecipeGenerationRequest) bool { return req.CookingTime > 0 },
		format: func(req *types.RecipeGenerationRequest) string {
			return fmt.Sprintf("Cooking time should be around %d minutes", req.CookingTime)
		},
	},
	{
		name:    "dietary",
		applies: func(req *types.RecipeGenerationRequest) bool { return len(cleanList(req.Dietary)) > 0 },
		format: func(req *types.RecipeGenerationRequest) string {
			return "Dietary restrictions: " + strings.Join(cleanList(req.Dietary), ", ")
		},
	},
}

// requirementLines returns the requirement lines for req, in rule order
func requirementLines(req *types.RecipeGenerationRequest) []string {
	var lines []string
	for _, rule := range requirementRules {
		if rule.applies(req) {
			lines = append(lines, "- "+rule.format(req))
		}
	}
	return lines
}

// BuildPrompt renders the generation prompt for req. Absent request fields add no
// line. When language is set the model is told to write every text value in it.
func BuildPrompt(req types.RecipeGenerationRequest, language string) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\nRecipe requirements:\n")
	for _, line := range requirementLines(&req) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(promptFooter)
	if language = strings.TrimSpace(language); language != "" {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Write every text value (title, description, ingredients, instructions and tags) in %s. Keep the JSON keys and the difficulty and category values in English.", language)
	}
	return b.String()
}

// cleanList trims entries and drops blank ones
func cleanList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
