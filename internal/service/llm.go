package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/types"
)

var (
	// ErrMissingAPIKey is returned when no model API key is configured
	ErrMissingAPIKey = errors.New("gemini API key not configured")
	// ErrGenerationFailed wraps every transport or parse failure during generation
	ErrGenerationFailed = errors.New("failed to generate recipe")
)

// Generation outcomes reported to the GenerationObserver
const (
	OutcomeSuccess    = "success"
	OutcomeMissingKey = "missing_key"
	OutcomeFailed     = "failed"
)

// TextGenerator sends a single prompt to a language model and returns its full text
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GenerationObserver records the outcome of each generation call
type GenerationObserver interface {
	ObserveGeneration(outcome string, duration time.Duration)
}

// LLMService turns generation requests into normalized recipes
type LLMService struct {
	generator TextGenerator
	language  string
	logger    *zap.Logger
	observer  GenerationObserver
}

// NewLLMService creates a new LLMService instance. observer may be nil.
func NewLLMService(generator TextGenerator, language string, logger *zap.Logger, observer GenerationObserver) *LLMService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMService{
		generator: generator,
		language:  language,
		logger:    logger,
		observer:  observer,
	}
}

// GenerateRecipe builds a prompt from req, makes one model call and normalizes the
// reply. It returns ErrMissingAPIKey when no credential is configured and an error
// matching ErrGenerationFailed for any other failure.
func (s *LLMService) GenerateRecipe(ctx context.Context, req types.RecipeGenerationRequest) (*types.RecipeGenerationResponse, error) {
	start := time.Now()

	prompt := BuildPrompt(req, s.language)
	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		if errors.Is(err, ErrMissingAPIKey) {
			s.observe(OutcomeMissingKey, start)
			s.logger.Error("recipe generation attempted without an API key")
			return nil, ErrMissingAPIKey
		}
		s.observe(OutcomeFailed, start)
		s.logger.Error("model call failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	recipe, err := ParseRecipe(text)
	if err != nil {
		s.observe(OutcomeFailed, start)
		s.logger.Error("model returned unparseable recipe",
			zap.Error(err),
			zap.Int("response_length", len(text)),
		)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	s.observe(OutcomeSuccess, start)
	s.logger.Debug("recipe generated",
		zap.String("title", recipe.Title),
		zap.Duration("duration", time.Since(start)),
	)
	return recipe, nil
}

func (s *LLMService) observe(outcome string, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveGeneration(outcome, time.Since(start))
	}
}

// ParseRecipe strips code fences from raw model text, decodes it as a JSON object
// and normalizes every field.
func ParseRecipe(raw string) (*types.RecipeGenerationResponse, error) {
	cleaned := StripCodeFence(raw)

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("failed to decode recipe JSON: %w", err)
	}
	if fields == nil {
		return nil, errors.New("recipe JSON is not an object")
	}

	recipe := NormalizeRecipe(fields)
	return &recipe, nil
}

// StripCodeFence removes one markdown code fence wrapping text: an opening ```
// line, optionally tagged json, and a closing ```. Unfenced text is only trimmed.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := strings.TrimPrefix(text, "```")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
	}
	body = strings.TrimLeft(body, " \t")
	body = strings.TrimPrefix(body, "\r")
	body = strings.TrimPrefix(body, "\n")

	body = strings.TrimRight(body, " \t\r\n")
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

// NormalizeRecipe maps a loosely typed model reply onto the strict response shape.
// A field is used only when present and of the right JSON type; anything else falls
// back to its default.
func NormalizeRecipe(fields map[string]any) types.RecipeGenerationResponse {
	recipe := types.RecipeGenerationResponse{
		Title:        types.DefaultRecipeTitle,
		Ingredients:  stringList(fields["ingredients"]),
		Instructions: stringList(fields["instructions"]),
		CookingTime:  types.DefaultCookingTime,
		Difficulty:   types.DefaultDifficulty,
		Category:     types.DefaultCategory,
		Tags:         stringList(fields["tags"]),
	}

	if title, ok := fields["title"].(string); ok && strings.TrimSpace(title) != "" {
		recipe.Title = strings.TrimSpace(title)
	}
	if description, ok := fields["description"].(string); ok {
		recipe.Description = strings.TrimSpace(description)
	}
	if minutes, ok := fields["cookingTime"].(float64); ok && minutes < math.MaxInt32 {
		if rounded := int(math.Round(minutes)); rounded > 0 {
			recipe.CookingTime = rounded
		}
	}
	if s, ok := fields["difficulty"].(string); ok {
		if d, ok := types.ParseDifficulty(s); ok {
			recipe.Difficulty = d
		}
	}
	if s, ok := fields["category"].(string); ok {
		if c, ok := types.ParseCategory(s); ok {
			recipe.Category = c
		}
	}

	return recipe
}

// stringList keeps the string elements of a JSON array; it never returns nil
func stringList(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
