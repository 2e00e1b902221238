package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/types"
)

// MemoryRecipeStore keeps recipes in process memory. Rows go through the same
// serialization as the gorm store.
type MemoryRecipeStore struct {
	mu   sync.RWMutex
	rows map[string]*memoryRow
	seq  uint64
	now  func() time.Time
}

type memoryRow struct {
	recipe model.Recipe
	seq    uint64
}

// NewMemoryRecipeStore creates an empty store
func NewMemoryRecipeStore() *MemoryRecipeStore {
	return &MemoryRecipeStore{
		rows: make(map[string]*memoryRow),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// List returns recipes matching filter, newest first. Recipes created at the same
// instant are ordered by insertion, latest first.
func (s *MemoryRecipeStore) List(_ context.Context, filter types.RecipeFilter) ([]*types.Recipe, error) {
	s.mu.RLock()
	matched := make([]*memoryRow, 0, len(s.rows))
	for _, row := range s.rows {
		if matchesFilter(&row.recipe, filter) {
			matched = append(matched, row)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.recipe.CreatedAt.Equal(b.recipe.CreatedAt) {
			return a.recipe.CreatedAt.After(b.recipe.CreatedAt)
		}
		return a.seq > b.seq
	})

	recipes := make([]*types.Recipe, 0, len(matched))
	for _, row := range matched {
		recipe, err := row.recipe.ToAPI()
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// Get retrieves a recipe by ID
func (s *MemoryRecipeStore) Get(_ context.Context, id string) (*types.Recipe, error) {
	s.mu.RLock()
	row, ok := s.rows[id]
	var snapshot model.Recipe
	if ok {
		snapshot = row.recipe
	}
	s.mu.RUnlock()

	if !ok {
		return nil, ErrRecipeNotFound
	}
	return snapshot.ToAPI()
}

// Create stores a new recipe with a fresh id
func (s *MemoryRecipeStore) Create(_ context.Context, req *types.CreateRecipeRequest) (*types.Recipe, error) {
	row, err := model.NewRecipe(uuid.New().String(), req, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.seq++
	s.rows[row.ID] = &memoryRow{recipe: *row, seq: s.seq}
	s.mu.Unlock()

	return row.ToAPI()
}

// Update replaces the content of an existing recipe, keeping its id and creation time
func (s *MemoryRecipeStore) Update(_ context.Context, id string, req *types.CreateRecipeRequest) (*types.Recipe, error) {
	s.mu.Lock()
	row, ok := s.rows[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrRecipeNotFound
	}
	updated := row.recipe
	if err := updated.Apply(req, s.now()); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	row.recipe = updated
	s.mu.Unlock()

	return updated.ToAPI()
}

// Delete removes a recipe
func (s *MemoryRecipeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return ErrRecipeNotFound
	}
	delete(s.rows, id)
	return nil
}

// matchesFilter mirrors the gorm store's WHERE clause: case-insensitive substring
// over the title and the encoded ingredients, exact enum matches.
func matchesFilter(r *model.Recipe, filter types.RecipeFilter) bool {
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		if !strings.Contains(strings.ToLower(r.Title), search) &&
			!strings.Contains(strings.ToLower(r.Ingredients), search) {
			return false
		}
	}
	if filter.Difficulty != "" && r.Difficulty != string(filter.Difficulty) {
		return false
	}
	if filter.Category != "" && r.Category != string(filter.Category) {
		return false
	}
	return true
}
