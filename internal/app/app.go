// Package app provides application initialization and dependency injection.
package app

import (
	"context"

	"github.com/guttosm/packing-list-service/config"
	"github.com/guttosm/packing-list-service/internal/http"
	"github.com/guttosm/packing-list-service/internal/middleware"
	"github.com/rs/zerolog/log"
)

// App is the wired application.
type App struct {
	Router   *http.Router
	Storage  *StorageComponents
	Services *ServiceComponents
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context, cfg config.Config) (*App, error) {
	InitializeLogger(cfg.Log)

	storage, err := InitializeStorage(ctx, cfg.Storage, cfg.CircuitBreaker)
	if err != nil {
		return nil, err
	}

	if storage.LoggingService != nil {
		middleware.InitAsyncLogger(storage.LoggingService, middleware.DefaultAsyncLoggerConfig())
	}

	services := InitializeServices(ctx, storage.Store, cfg.Cache)

	return &App{
		Router:   InitializeRouter(storage, services, cfg),
		Storage:  storage,
		Services: services,
	}, nil
}

// Close releases everything InitializeApp started, in reverse order.
func (a *App) Close(ctx context.Context) {
	if a.Router != nil {
		a.Router.Close()
	}
	if a.Services != nil && a.Services.Cache != nil {
		a.Services.Cache.Stop()
	}
	middleware.StopAsyncLogger()
	if err := a.Storage.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to close storage")
	}
}
