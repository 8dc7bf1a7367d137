// Package app provides router configuration.
package app

import (
	"github.com/guttosm/packing-list-service/config"
	"github.com/guttosm/packing-list-service/internal/http"
)

// InitializeHealth registers every dependency with the readiness probe.
func InitializeHealth(storage *StorageComponents, services *ServiceComponents) *http.HealthHandler {
	h := http.NewHealthHandler()
	if storage != nil {
		if storage.Store != nil && storage.Store.HealthCheck != nil {
			h.RegisterChecker(storage.Store.Backend, http.HealthCheckFunc(storage.Store.HealthCheck))
		}
		for _, cb := range storage.CircuitBreakers {
			h.RegisterCircuitBreaker(cb)
		}
	}
	if services != nil && services.Redis != nil {
		h.RegisterChecker("redis", http.HealthCheckFunc(services.Redis.Ping))
	}
	return h
}

// InitializeRouter builds the router configuration and the router.
func InitializeRouter(storage *StorageComponents, services *ServiceComponents, cfg config.Config) *http.Router {
	routerCfg := http.RouterConfig{
		RateLimit:      cfg.Server.RateLimit,
		RateWindow:     cfg.Server.RateWindow,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
		SwaggerUser:    cfg.Server.SwaggerUser,
		SwaggerPass:    cfg.Server.SwaggerPass,
	}
	if storage != nil {
		routerCfg.LoggingService = storage.LoggingService
	}
	if services != nil {
		routerCfg.IdempotencyStore = services.Cache
		routerCfg.ProductService = services.Products
		routerCfg.HSCodeService = services.HSCodes
		routerCfg.PackingListService = services.PackingLists
	}

	return http.NewRouter(InitializeHealth(storage, services), routerCfg)
}
