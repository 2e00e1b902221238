package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebox/backend/internal/types"
)

// MockAuthService is a mock implementation of service.IAuthService
type MockAuthService struct {
	mock.Mock
}

// Login mocks the Login method
func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, *types.TokenClaims, error) {
	args := m.Called(ctx, username, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*types.TokenClaims), args.Error(2)
}

// ValidateToken mocks the ValidateToken method
func (m *MockAuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}
