// Package app provides the legacy document import used by cmd/migrate.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/packing-list-service/internal/repository"
	"github.com/rs/zerolog/log"
)

// MigrationReport counts what an import did per entity.
type MigrationReport struct {
	Products     MigrationCount `json:"products"`
	HSCodes      MigrationCount `json:"hsCodes"`
	PackingLists MigrationCount `json:"packingLists"`
}

// MigrationCount is the outcome for one entity type. Skipped documents
// already existed in the target.
type MigrationCount struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Migrate writes every document of snap into store. Documents that already
// exist are skipped so the import can be re-run. With dryRun nothing is
// written and everything counts as created.
func Migrate(ctx context.Context, store *repository.Store, snap repository.Snapshot, dryRun bool) (MigrationReport, error) {
	var report MigrationReport

	for i := range snap.HSCodes {
		code := snap.HSCodes[i]
		if err := importOne(dryRun, &report.HSCodes, func() error {
			return store.HSCodes.Create(ctx, &code)
		}); err != nil {
			return report, fmt.Errorf("hs code %s: %w", code.Code, err)
		}
	}

	for i := range snap.Products {
		product := snap.Products[i]
		if err := importOne(dryRun, &report.Products, func() error {
			return store.Products.Create(ctx, &product)
		}); err != nil {
			return report, fmt.Errorf("product %s: %w", product.ID, err)
		}
	}

	for i := range snap.PackingLists {
		list := snap.PackingLists[i]
		if err := importOne(dryRun, &report.PackingLists, func() error {
			return store.PackingLists.Create(ctx, &list)
		}); err != nil {
			return report, fmt.Errorf("packing list %s: %w", list.ID, err)
		}
	}

	log.Info().
		Bool("dry_run", dryRun).
		Int("products", report.Products.Created).
		Int("hs_codes", report.HSCodes.Created).
		Int("packing_lists", report.PackingLists.Created).
		Msg("Migration finished")
	return report, nil
}

func importOne(dryRun bool, count *MigrationCount, create func() error) error {
	if dryRun {
		count.Created++
		return nil
	}
	err := create()
	switch {
	case err == nil:
		count.Created++
	case errors.Is(err, repository.ErrDuplicate):
		count.Skipped++
	default:
		return err
	}
	return nil
}
