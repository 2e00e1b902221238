package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

func setupAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	return service.NewAuthService(config.AuthConfig{
		User:         "chef",
		PasswordHash: string(hash),
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
	})
}

func TestAuthService_Login(t *testing.T) {
	authSvc := setupAuthService(t)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		token, claims, err := authSvc.Login(ctx, "chef", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "chef", claims.Username)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)

		validated, err := authSvc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "chef", validated.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := authSvc.Login(ctx, "chef", "nope")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("wrong user", func(t *testing.T) {
		_, _, err := authSvc.Login(ctx, "guest", "s3cret")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("no configured user", func(t *testing.T) {
		disabled := service.NewAuthService(config.AuthConfig{JWTSecret: "x"})
		_, _, err := disabled.Login(ctx, "", "")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	authSvc := setupAuthService(t)

	sign := func(secret string, method jwt.SigningMethod, claims *types.TokenClaims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	valid := func() *types.TokenClaims {
		return &types.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
			Username:         "chef",
		}
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: sign("other-secret", jwt.SigningMethodHS256, valid())},
		{name: "expired", token: func() string {
			claims := valid()
			claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
			return sign("test-secret", jwt.SigningMethodHS256, claims)
		}()},
		{name: "no expiry", token: sign("test-secret", jwt.SigningMethodHS256, &types.TokenClaims{Username: "chef"})},
		{name: "other user", token: func() string {
			claims := valid()
			claims.Username = "intruder"
			return sign("test-secret", jwt.SigningMethodHS256, claims)
		}()},
		{name: "none algorithm", token: func() string {
			token, err := jwt.NewWithClaims(jwt.SigningMethodNone, valid()).SignedString(jwt.UnsafeAllowNoneSignatureType)
			require.NoError(t, err)
			return token
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := authSvc.ValidateToken(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, service.ErrInvalidToken)
		})
	}

	claims, err := authSvc.ValidateToken(sign("test-secret", jwt.SigningMethodHS256, valid()))
	require.NoError(t, err)
	assert.Equal(t, "chef", claims.Username)
}

func TestHashPassword(t *testing.T) {
	hash, err := service.HashPassword("s3cret")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, service.PasswordHashCost, cost)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	_, err = service.HashPassword("")
	assert.Error(t, err)
}
