package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/metrics"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
)

// Options holds the dependencies of the HTTP routes. Auth, RateLimiter, Metrics and
// Ping are optional.
type Options struct {
	Logger      *zap.Logger
	CORSOrigins []string

	Store     service.RecipeStore
	Generator service.RecipeGenerator

	// Auth, when set, requires a session for recipe and generation routes
	Auth         service.IAuthService
	CookieSecure bool

	RateLimiter *middleware.RateLimiter
	Metrics     *metrics.Metrics
	Ping        api.Pinger
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(opts.CORSOrigins))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	router.NoRoute(middleware.NotFound)
	router.NoMethod(middleware.MethodNotAllowed)

	health := api.HealthCheck(opts.Ping)
	router.GET("/health", health)
	router.GET("/api/health", health)

	// API v1 routes
	v1 := router.Group("/api/v1")

	protected := v1.Group("")
	if opts.Auth != nil {
		api.NewAuthHandler(opts.Auth, opts.CookieSecure, logger).RegisterRoutes(v1)
		protected.Use(middleware.AuthMiddleware(opts.Auth))
	}

	var limiter gin.HandlerFunc
	if opts.RateLimiter != nil {
		limiter = opts.RateLimiter.RateLimitMiddleware()
		protected.GET("/rate-limits/generation", opts.RateLimiter.StatusHandler)
	}

	api.NewRecipeHandler(opts.Store, logger).RegisterRoutes(protected)
	api.NewLLMHandler(opts.Generator, limiter, logger).RegisterRoutes(protected)

	return router
}
