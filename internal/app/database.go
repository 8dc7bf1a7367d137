// Package app provides storage initialization and setup.
package app

import (
	"context"
	"fmt"

	"github.com/guttosm/packing-list-service/config"
	"github.com/guttosm/packing-list-service/internal/circuitbreaker"
	"github.com/guttosm/packing-list-service/internal/metrics"
	"github.com/guttosm/packing-list-service/internal/repository"
	"github.com/guttosm/packing-list-service/internal/service"
	"github.com/rs/zerolog/log"
)

// StorageComponents holds the selected backend and what was built around it.
type StorageComponents struct {
	Store *repository.Store
	// CircuitBreakers guard the repositories, plus the logs repository on MongoDB.
	CircuitBreakers []*circuitbreaker.CircuitBreaker
	// LoggingService is only available on MongoDB.
	LoggingService service.LoggingService
}

// Close releases the backend.
func (s *StorageComponents) Close(ctx context.Context) error {
	if s == nil || s.Store == nil || s.Store.Close == nil {
		return nil
	}
	return s.Store.Close(ctx)
}

// breakerConfig builds the shared breaker settings and exports every
// transition as a Prometheus gauge.
func breakerConfig(cfg config.CircuitBreakerConfig) circuitbreaker.Config {
	return circuitbreaker.Config{
		FailureThreshold: cfg.FailureThreshold,
		SuccessThreshold: cfg.SuccessThreshold,
		Timeout:          cfg.Timeout,
		OnStateChange: func(name string, state circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(state))
		},
	}
}

// InitializeStorage opens the configured backend. Unlike the cache, storage
// is required: any failure is returned.
func InitializeStorage(ctx context.Context, cfg config.StorageConfig, cbCfg config.CircuitBreakerConfig) (*StorageComponents, error) {
	base := breakerConfig(cbCfg)
	breakers := repository.NewBreakers(base)
	components := &StorageComponents{CircuitBreakers: breakers.All()}

	switch cfg.Backend {
	case config.BackendFile:
		fs, err := repository.OpenFileStore(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		components.Store = repository.NewFileStoreRepositories(fs, breakers)
		log.Info().Str("path", cfg.FilePath).Msg("Using file store")

	case config.BackendMongoDB:
		mongoCfg := repository.DefaultMongoConfig()
		if cfg.ConnectTimeout > 0 {
			mongoCfg.ConnectTimeout = cfg.ConnectTimeout
		}
		db, err := repository.NewMongoDBWithConfig(cfg.MongoURI, cfg.MongoDatabase, mongoCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		log.Info().Str("database", cfg.MongoDatabase).Msg("Connected to MongoDB")

		ttlDays := int(cfg.MongoLogsTTL.Hours() / 24)
		if ttlDays > 0 {
			if err := db.SetLogsTTL(ctx, ttlDays); err != nil {
				log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
			}
		}

		logsCfg := base
		logsCfg.Name = "logs"
		logsCB := circuitbreaker.New(logsCfg)
		logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), logsCB)

		components.Store = repository.NewMongoStore(db, breakers)
		components.LoggingService = service.NewLoggingService(logsRepo)
		components.CircuitBreakers = append(components.CircuitBreakers, logsCB)

	case config.BackendPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("POSTGRES_DSN is required for the %s backend", config.BackendPostgres)
		}
		pg, err := repository.NewPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		components.Store = repository.NewPostgresStore(pg, breakers)
		log.Info().Msg("Connected to PostgreSQL")

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	return components, nil
}
