// Command migrate imports a legacy db.json document into the configured
// storage backend.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/guttosm/packing-list-service/config"
	"github.com/guttosm/packing-list-service/internal/app"
	"github.com/guttosm/packing-list-service/internal/repository"
	"github.com/rs/zerolog/log"
)

var (
	source  = flag.String("source", "db.json", "Legacy store document to import")
	backend = flag.String("backend", "", "Target backend (file, mongodb, postgres); defaults to STORAGE_BACKEND")
	target  = flag.String("target", "", "Target file for the file backend; defaults to STORE_FILE_PATH")
	dryRun  = flag.Bool("dry-run", false, "Decode and count without writing")
	timeout = flag.Duration("timeout", 5*time.Minute, "Overall migration timeout")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	app.InitializeLogger(cfg.Log)
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}
	if *target != "" {
		cfg.Storage.FilePath = *target
	}
	if cfg.Storage.Backend == config.BackendFile && cfg.Storage.FilePath == *source && !*dryRun {
		log.Fatal().Str("path", *source).Msg("Source and target are the same file")
	}

	data, err := os.ReadFile(*source)
	if err != nil {
		log.Fatal().Err(err).Str("path", *source).Msg("Failed to read legacy document")
	}
	snap, err := repository.DecodeSnapshot(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to decode legacy document")
	}

	if err := run(cfg, snap); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}

func run(cfg config.Config, snap repository.Snapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	storage, err := app.InitializeStorage(ctx, cfg.Storage, cfg.CircuitBreaker)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to close storage")
		}
	}()

	report, err := app.Migrate(ctx, storage.Store, snap, *dryRun)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(out, '\n'))
	return err
}
