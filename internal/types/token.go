package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a session JWT
type TokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}
