package api

import (
	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newscms/internal/api/handlers"
	"github.com/amiyamandal-dev/newscms/internal/api/middleware"
	"github.com/amiyamandal-dev/newscms/internal/auth"
	"github.com/amiyamandal-dev/newscms/internal/config"
	"github.com/amiyamandal-dev/newscms/pkg/logger"
)

// Router sets up the HTTP router with all routes and middleware
type Router struct {
	engine         *gin.Engine
	authHandler    *handlers.AuthHandler
	articleHandler *handlers.ArticleHandler
	healthHandler  *handlers.HealthHandler
	jwtManager     *auth.JWTManager
	cfg            *config.Config
	logger         *logger.Logger
}

// NewRouter creates a new router
func NewRouter(
	authHandler *handlers.AuthHandler,
	articleHandler *handlers.ArticleHandler,
	healthHandler *handlers.HealthHandler,
	jwtManager *auth.JWTManager,
	cfg *config.Config,
	logger *logger.Logger,
) *Router {
	return &Router{
		authHandler:    authHandler,
		articleHandler: articleHandler,
		healthHandler:  healthHandler,
		jwtManager:     jwtManager,
		cfg:            cfg,
		logger:         logger,
	}
}

// Setup configures all routes and middleware
func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.cfg.Server.Mode)

	r.engine = gin.New()

	// Global middleware
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.CORSMiddleware(r.cfg.CORS.AllowedOrigins))
	r.engine.Use(middleware.RequestIDMiddleware())
	r.engine.Use(middleware.LoggerMiddleware(r.logger))

	// Health check endpoints (no rate limiting, no auth)
	r.engine.GET("/health", r.healthHandler.Health)
	r.engine.GET("/health/ready", r.healthHandler.Readiness)
	r.engine.GET("/health/live", r.healthHandler.Liveness)

	// API routes (with rate limiting)
	root := r.engine.Group("")
	root.Use(middleware.RateLimitMiddleware(
		r.cfg.RateLimit.RequestsPerMinute,
		r.cfg.RateLimit.Burst,
	))
	{
		// Auth routes (no auth required)
		authRoutes := root.Group("/auth")
		{
			authRoutes.POST("/login", r.authHandler.Login)
		}

		// News routes
		news := root.Group("/news")
		{
			// Public routes
			news.GET("", r.articleHandler.List)
			news.GET("/categories", r.articleHandler.ListCategories)
			news.GET("/search", r.articleHandler.Search)
			news.GET("/:slug", r.articleHandler.GetBySlug)

			// Protected routes
			newsProtected := news.Group("")
			newsProtected.Use(middleware.AuthMiddleware(r.jwtManager))
			{
				newsProtected.POST("", r.articleHandler.Create)
				newsProtected.GET("/admin/all", r.articleHandler.ListForAdmin)
				newsProtected.PATCH("/:id", r.articleHandler.Update)
				newsProtected.DELETE("/:id", r.articleHandler.Delete)
			}
		}
	}

	return r.engine
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	if r.engine == nil {
		return r.Setup()
	}
	return r.engine
}
