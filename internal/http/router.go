// Package http exposes the packing list service over a gin router.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-list-service/internal/metrics"
	"github.com/guttosm/packing-list-service/internal/middleware"
	"github.com/guttosm/packing-list-service/internal/service"
	"github.com/guttosm/packing-list-service/internal/service/cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
	// IdempotencyStore keeps replayable responses; nil disables replay.
	IdempotencyStore   cache.Cache
	LoggingService     service.LoggingService
	ProductService     service.ProductService
	HSCodeService      service.HSCodeService
	PackingListService service.PackingListService
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:      100,
		RateWindow:     15 * time.Minute,
		RequestTimeout: 30 * time.Second,
	}
}

// Router is the configured engine plus the resources it owns.
type Router struct {
	*gin.Engine
	limiter *middleware.RateLimiter
}

// Close stops background work started by the router.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Stop()
	}
}

// NewRouter creates and configures the Gin router.
func NewRouter(healthHandler *HealthHandler, cfg RouterConfig) *Router {
	r := &Router{Engine: gin.New()}

	r.limiter = configureGlobalMiddleware(r.Engine, &cfg)
	registerInfrastructureRoutes(r.Engine, healthHandler, &cfg)

	api := r.Group("/api")
	api.Use(middleware.Idempotency(cfg.IdempotencyStore))
	for _, group := range apiRoutes(&cfg) {
		group.RegisterRoutes(api)
	}

	return r
}

// configureGlobalMiddleware sets up middleware applied to all routes and
// returns the rate limiter, if any.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) *middleware.RateLimiter {
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LoggingService),
		middleware.ErrorHandler(),
		middleware.Timeout(cfg.RequestTimeout),
	)

	router.Use(func(c *gin.Context) {
		if cfg.LoggingService != nil {
			c.Set(middleware.LoggingServiceKey, cfg.LoggingService)
		}
		c.Next()
	})

	if cfg.RateLimit <= 0 {
		return nil
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	router.Use(limiter.RateLimit())
	return limiter
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
