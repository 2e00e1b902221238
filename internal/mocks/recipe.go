package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebox/backend/internal/types"
)

// MockRecipeStore is a mock implementation of service.RecipeStore
type MockRecipeStore struct {
	mock.Mock
}

// List mocks the List method
func (m *MockRecipeStore) List(ctx context.Context, filter types.RecipeFilter) ([]*types.Recipe, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Recipe), args.Error(1)
}

// Get mocks the Get method
func (m *MockRecipeStore) Get(ctx context.Context, id string) (*types.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

// Create mocks the Create method
func (m *MockRecipeStore) Create(ctx context.Context, req *types.CreateRecipeRequest) (*types.Recipe, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

// Update mocks the Update method
func (m *MockRecipeStore) Update(ctx context.Context, id string, req *types.CreateRecipeRequest) (*types.Recipe, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

// Delete mocks the Delete method
func (m *MockRecipeStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRecipeGenerator is a mock implementation of service.RecipeGenerator
type MockRecipeGenerator struct {
	mock.Mock
}

// GenerateRecipe mocks the GenerateRecipe method
func (m *MockRecipeGenerator) GenerateRecipe(ctx context.Context, req types.RecipeGenerationRequest) (*types.RecipeGenerationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeGenerationResponse), args.Error(1)
}

// MockTextGenerator is a mock implementation of service.TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

// GenerateText mocks the GenerateText method
func (m *MockTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
