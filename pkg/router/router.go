package router

import (
	"time"

	"chatmood/backend/internal/api"
	"chatmood/backend/internal/ws"
	"chatmood/backend/pkg/config"
	"chatmood/backend/pkg/di"
	"chatmood/backend/pkg/errors"
	"chatmood/backend/pkg/logger"
	"chatmood/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Track server start time for uptime calculations
var startTime = time.Now()

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Hub       *ws.Hub
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	// Use the container's logger
	logger.SetGlobal(container.Logger)

	// Load configuration
	cfg := config.New()

	// Configure Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	engine := gin.New()

	// Use the logger middleware first to capture all requests
	engine.Use(logger.Middleware(container.Logger))

	// Request IDs and trace context propagate through logs and responses
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.ContextPropagationMiddleware())

	// Add custom error handler middleware
	engine.Use(errors.ErrorHandler())

	// Add custom recovery middleware with structured logging instead of default
	engine.Use(errors.RecoveryWithLogger())

	// Create rate limiter from the configured limits
	limiterOpts := middleware.DefaultRateLimiterOptions()
	if cfg.Security.RateLimit > 0 {
		limiterOpts.Limit = rate.Limit(cfg.Security.RateLimit)
	}
	if cfg.Security.RateLimitBurst > 0 {
		limiterOpts.Burst = cfg.Security.RateLimitBurst
	}
	rateLimiter := middleware.NewRateLimiter(container.Logger, limiterOpts)

	// Apply rate limiting to all routes
	engine.Use(rateLimiter.Middleware())

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			container.Logger.LogError(err, "Failed to set trusted proxies")
		}
	}

	// Initialize the progress hub and start it
	hub := ws.NewHub(container.Logger)
	go hub.Run()

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Hub:       hub,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	// Add CORS middleware
	r.Engine.Use(corsMiddleware(r.Config.Security.AllowedOrigins))

	analysisController := api.NewAnalysisController(r.Container.AnalysisService, r.Hub, r.Logger)

	// API version 1 routes
	v1 := r.Engine.Group("/api/v1")

	// Component health endpoint backed by the periodic checker
	v1.GET("/health", gin.WrapF(r.Container.Health.HTTPHandler()))

	// Analysis routes
	analysisController.RegisterRoutesV1(v1)

	// Liveness and uptime endpoints
	r.setupHealthRoutes()

	// WebSocket route for progress streaming
	r.Engine.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(r.Hub, c)
	})
}

// corsMiddleware allows the browser frontend to call the API and upgrade
// the progress websocket. An empty or "*" allow-list echoes any origin.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		switch {
		case origin == "":
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case allowAll || allowed[origin]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, X-CSRF-Token, Origin, Upgrade, Connection, Cache-Control")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Upgrade, Connection")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
