package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/mocks"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

func setupAuthRouter(t *testing.T, secure bool) (*gin.Engine, *mocks.MockAuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authSvc := &mocks.MockAuthService{}
	t.Cleanup(func() { authSvc.AssertExpectations(t) })

	router := gin.New()
	NewAuthHandler(authSvc, secure, nil).RegisterRoutes(router.Group("/api/v1"))
	return router, authSvc
}

func sessionCookie(t *testing.T, header http.Header) *http.Cookie {
	t.Helper()
	for _, cookie := range (&http.Response{Header: header}).Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie set", middleware.SessionCookieName)
	return nil
}

func TestLogin(t *testing.T) {
	t.Run("success sets cookie", func(t *testing.T) {
		router, authSvc := setupAuthRouter(t, true)
		expires := time.Now().Add(time.Hour).Truncate(time.Second)
		claims := &types.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expires)},
			Username:         "chef",
		}
		authSvc.On("Login", mock.Anything, "chef", "s3cret").Return("signed.jwt.token", claims, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/auth/login", types.LoginRequest{Username: "chef", Password: "s3cret"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"token":"signed.jwt.token","expiresAt":`+jsonInt(expires.Unix())+`}`, w.Body.String())

		cookie := sessionCookie(t, w.Header())
		assert.Equal(t, "signed.jwt.token", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Greater(t, cookie.MaxAge, 0)
	})

	t.Run("bad credentials", func(t *testing.T) {
		router, authSvc := setupAuthRouter(t, false)
		authSvc.On("Login", mock.Anything, "chef", "nope").Return("", nil, service.ErrInvalidCredentials)

		w := doJSON(router, http.MethodPost, "/api/v1/auth/login", types.LoginRequest{Username: "chef", Password: "nope"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid username or password", errorBody(t, w))
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})

	t.Run("signing failure", func(t *testing.T) {
		router, authSvc := setupAuthRouter(t, false)
		authSvc.On("Login", mock.Anything, "chef", "s3cret").Return("", nil, errors.New("key is invalid"))

		w := doJSON(router, http.MethodPost, "/api/v1/auth/login", types.LoginRequest{Username: "chef", Password: "s3cret"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		router, _ := setupAuthRouter(t, false)

		w := doJSON(router, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "chef"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogout(t *testing.T) {
	router, _ := setupAuthRouter(t, false)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w.Header())
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}
