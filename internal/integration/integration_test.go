package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/metrics"
	"github.com/pageza/recipebox/backend/internal/router"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

// fakeGemini answers every generateContent call with text and counts the calls
func fakeGemini(t *testing.T, text string, calls *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

type app struct {
	router  *gin.Engine
	metrics *metrics.Metrics
}

func newApp(t *testing.T, store service.RecipeStore, gemini config.GeminiConfig, auth service.IAuthService) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := metrics.New()
	generator := service.NewLLMService(service.NewGeminiClient(gemini), gemini.Language, nil, m)
	return &app{
		router: router.SetupRouter(router.Options{
			CORSOrigins: []string{"http://localhost:3000"},
			Store:       store,
			Generator:   generator,
			Auth:        auth,
			Metrics:     m,
		}),
		metrics: m,
	}
}

func (a *app) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func sqliteStore(t *testing.T) service.RecipeStore {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, nil))
	return service.NewRecipeService(db)
}

var stores = map[string]func(t *testing.T) service.RecipeStore{
	"memory": func(*testing.T) service.RecipeStore { return service.NewMemoryRecipeStore() },
	"sqlite": sqliteStore,
}

func TestRecipeLifecycle(t *testing.T) {
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			a := newApp(t, newStore(t), config.GeminiConfig{}, nil)

			// create without tags
			w := a.do(t, http.MethodPost, "/api/v1/recipes", map[string]any{
				"title":        "Omelette",
				"ingredients":  []string{"2 eggs"},
				"instructions": []string{"Whisk", "Cook"},
				"cookingTime":  10,
				"difficulty":   "easy",
				"category":     "main",
			})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			var created types.Recipe
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
			assert.NotEmpty(t, created.ID)
			assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))
			assert.Equal(t, []string{}, created.Tags)
			assert.Equal(t, []string{"Whisk", "Cook"}, created.Instructions)

			// a second recipe lists first
			time.Sleep(5 * time.Millisecond)
			w = a.do(t, http.MethodPost, "/api/v1/recipes", map[string]any{
				"title":        "Pancakes",
				"ingredients":  []string{"flour", "milk"},
				"instructions": []string{"Mix", "Fry"},
				"tags":         []string{"breakfast"},
			})
			require.Equal(t, http.StatusCreated, w.Code)
			var second types.Recipe
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
			assert.Equal(t, types.DefaultCookingTime, second.CookingTime)
			assert.Equal(t, types.DefaultDifficulty, second.Difficulty)

			w = a.do(t, http.MethodGet, "/api/v1/recipes", nil)
			require.Equal(t, http.StatusOK, w.Code)
			var list []types.Recipe
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
			require.Len(t, list, 2)
			assert.Equal(t, second.ID, list[0].ID)
			assert.Equal(t, created.ID, list[1].ID)

			// update keeps identity
			time.Sleep(5 * time.Millisecond)
			w = a.do(t, http.MethodPut, "/api/v1/recipes/"+created.ID, map[string]any{
				"title":        "Cheese omelette",
				"ingredients":  []string{"2 eggs", "cheese"},
				"instructions": []string{"Whisk", "Cook", "Fold"},
			})
			require.Equal(t, http.StatusOK, w.Code)
			var updated types.Recipe
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
			assert.Equal(t, created.ID, updated.ID)
			assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
			assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
			assert.Equal(t, "Cheese omelette", updated.Title)

			// delete, then every item route is 404
			w = a.do(t, http.MethodDelete, "/api/v1/recipes/"+created.ID, nil)
			require.Equal(t, http.StatusOK, w.Code)

			for _, method := range []string{http.MethodGet, http.MethodDelete} {
				w = a.do(t, method, "/api/v1/recipes/"+created.ID, nil)
				assert.Equal(t, http.StatusNotFound, w.Code, method)
				assert.JSONEq(t, `{"error":"Recipe not found"}`, w.Body.String())
			}
		})
	}
}

func TestGetUnknownRecipe(t *testing.T) {
	a := newApp(t, service.NewMemoryRecipeStore(), config.GeminiConfig{}, nil)

	w := a.do(t, http.MethodGet, "/api/v1/recipes/does-not-exist", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Recipe not found"}`, w.Body.String())
}

func TestGenerateFencedReply(t *testing.T) {
	var calls int32
	reply := "```json\n" + `{"title":"Tomato Soup","ingredients":["tomatoes","basil"],"instructions":["Simmer","Blend"],"cookingTime":25,"difficulty":"Easy"}` + "\n```"
	server := fakeGemini(t, reply, &calls)

	a := newApp(t, service.NewMemoryRecipeStore(), config.GeminiConfig{APIKey: "test-key", APIURL: server.URL, Model: "gemini-pro"}, nil)

	w := a.do(t, http.MethodPost, "/api/v1/generate", types.RecipeGenerationRequest{Ingredients: []string{"tomatoes"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var recipe types.RecipeGenerationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	assert.Equal(t, "Tomato Soup", recipe.Title)
	assert.Equal(t, types.CategoryMain, recipe.Category)
	assert.Equal(t, types.DifficultyEasy, recipe.Difficulty)
	assert.Equal(t, []string{}, recipe.Tags)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// the generated recipe saves as-is
	w = a.do(t, http.MethodPost, "/api/v1/recipes", recipe.CreateRequest())
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	var calls int32
	server := fakeGemini(t, "{}", &calls)

	a := newApp(t, service.NewMemoryRecipeStore(), config.GeminiConfig{APIKey: "  ", APIURL: server.URL}, nil)

	w := a.do(t, http.MethodPost, "/api/v1/generate", map[string]any{})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Gemini API key not configured"}`, w.Body.String())
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestGenerateUnparseableReply(t *testing.T) {
	var calls int32
	server := fakeGemini(t, "Sorry, I cannot help with that.", &calls)

	a := newApp(t, service.NewMemoryRecipeStore(), config.GeminiConfig{APIKey: "test-key", APIURL: server.URL}, nil)

	w := a.do(t, http.MethodPost, "/api/v1/generate", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to generate recipe"}`, w.Body.String())
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestLoginProtectsRoutes(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	authSvc := service.NewAuthService(config.AuthConfig{
		User:         "chef",
		PasswordHash: string(hash),
		JWTSecret:    "integration-secret",
		TokenTTL:     time.Hour,
	})
	a := newApp(t, service.NewMemoryRecipeStore(), config.GeminiConfig{}, authSvc)

	w := a.do(t, http.MethodGet, "/api/v1/recipes", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/auth/login", types.LoginRequest{Username: "chef", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/auth/login", types.LoginRequest{Username: "chef", Password: "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	var login types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = a.do(t, http.MethodGet, "/api/v1/recipes", nil, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsExposed(t *testing.T) {
	a := newApp(t, service.NewMemoryRecipeStore(), config.GeminiConfig{}, nil)

	a.do(t, http.MethodGet, "/api/v1/recipes", nil)
	a.do(t, http.MethodPost, "/api/v1/generate", nil)

	w := a.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/api/v1/recipes",status_code="200"} 1`)
	assert.Contains(t, w.Body.String(), `recipe_generations_total{outcome="missing_key"} 1`)
}
