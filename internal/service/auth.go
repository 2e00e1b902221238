package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/types"
)

// PasswordHashCost is the bcrypt cost used for the configured user's password
const PasswordHashCost = 12

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService signs in the single configured user and issues session tokens
type AuthService struct {
	username     string
	passwordHash []byte
	jwtSecret    []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthService(cfg config.AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		username:     cfg.User,
		passwordHash: []byte(cfg.PasswordHash),
		jwtSecret:    []byte(cfg.JWTSecret),
		ttl:          ttl,
		now:          time.Now,
	}
}

// Login checks the credentials and returns a signed token with its claims
func (s *AuthService) Login(_ context.Context, username, password string) (string, *types.TokenClaims, error) {
	if s.username == "" {
		return "", nil, ErrInvalidCredentials
	}

	// Compare password even on a username mismatch so both cost the same
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil || !userOK {
		return "", nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: s.username,
	}

	token, err := s.GenerateToken(claims)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// GenerateToken signs claims with HS256
func (s *AuthService) GenerateToken(claims *types.TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Username == "" || claims.Username != s.username {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashPassword returns the bcrypt hash to configure as AUTH_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
