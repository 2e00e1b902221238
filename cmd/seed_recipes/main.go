package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/logger"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

const batchSize = 5 // Number of recipes to generate in each batch

var seedRequests = []types.RecipeGenerationRequest{
	{Cuisine: "Italian", Ingredients: []string{"pasta", "tomatoes", "basil"}},
	{Cuisine: "Mediterranean", Dietary: []string{"vegan"}},
	{Difficulty: types.DifficultyEasy, CookingTime: 10, Ingredients: []string{"banana", "oats"}},
	{Cuisine: "Indian", Ingredients: []string{"chickpeas", "spinach"}},
	{Cuisine: "French", Difficulty: types.DifficultyHard},
	{Dietary: []string{"gluten-free"}, Ingredients: []string{"rice flour"}},
	{Dietary: []string{"keto"}, Ingredients: []string{"salmon", "asparagus"}},
	{Cuisine: "Mexican", Ingredients: []string{"black beans", "corn", "lime"}},
	{Cuisine: "Japanese", CookingTime: 45},
	{Cuisine: "Thai", Ingredients: []string{"coconut milk", "lemongrass"}},
	{Cuisine: "Korean", Ingredients: []string{"kimchi", "tofu"}},
	{Cuisine: "Moroccan", Difficulty: types.DifficultyMedium},
	{Cuisine: "Greek", Dietary: []string{"vegetarian"}},
	{Ingredients: []string{"apples", "cinnamon"}, CookingTime: 60},
	{Cuisine: "Spanish", Ingredients: []string{"saffron", "shrimp"}},
}

func main() {
	count := flag.Int("count", 10, "Number of recipes to generate")
	delay := flag.Duration("delay", 2*time.Second, "Pause between batches")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	store, _, err := service.OpenRecipeStore(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("failed to open recipe store", zap.Error(err))
	}
	if cfg.Database.Driver == config.DriverMemory {
		zlog.Warn("seeding the memory store; recipes are lost when this process exits")
	}

	gemini := service.NewGeminiClient(cfg.Gemini)
	if !gemini.HasAPIKey() {
		zlog.Fatal("GEMINI_API_KEY is required to seed recipes")
	}
	generator := service.NewLLMService(gemini, cfg.Gemini.Language, zlog, nil)

	ctx := context.Background()
	saved := 0
	for i := 0; i < *count; i += batchSize {
		batchEnd := min(i+batchSize, *count)
		zlog.Info("generating batch", zap.Int("from", i+1), zap.Int("to", batchEnd))

		for j := i; j < batchEnd; j++ {
			req := seedRequests[j%len(seedRequests)]
			recipe, err := generator.GenerateRecipe(ctx, req)
			if err != nil {
				zlog.Warn("failed to generate recipe", zap.Int("index", j), zap.Error(err))
				continue
			}

			created, err := store.Create(ctx, recipe.CreateRequest())
			if err != nil {
				zlog.Warn("failed to save recipe", zap.String("title", recipe.Title), zap.Error(err))
				continue
			}
			saved++
			zlog.Info("created recipe", zap.String("id", created.ID), zap.String("title", created.Title))
		}

		// Pause between batches to stay under the model's rate limit
		if batchEnd < *count {
			time.Sleep(*delay)
		}
	}

	zlog.Info("seeding finished", zap.Int("saved", saved), zap.Int("requested", *count))
}
