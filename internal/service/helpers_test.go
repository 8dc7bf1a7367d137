//go:build !integration

package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/packing-list-service/internal/circuitbreaker"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/repository"
	"github.com/stretchr/testify/require"
)

func newFileBackedStore(t *testing.T) *repository.Store {
	t.Helper()
	fs, err := repository.OpenFileStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	return repository.NewFileStoreRepositories(fs, repository.NewBreakers(circuitbreaker.DefaultConfig()))
}

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(100, time.Minute)
	t.Cleanup(c.Stop)
	return c
}

// steppingClock advances one second per call.
func steppingClock(start time.Time) Clock {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func widgetVariant() model.Variant {
	return model.Variant{
		Name:          "Carton 10",
		BoxQuantity:   10,
		BoxDimensions: model.Dimensions{Length: 30, Width: 20, Height: 15},
		Weights:       model.Weights{Gross: 5.5, Net: 5.0},
	}
}

func widgetProduct() model.Product {
	return model.Product{
		Name:     "Widget",
		HSCode:   "848180859000",
		Variants: []model.Variant{widgetVariant()},
	}
}

func seedProduct(t *testing.T, store *repository.Store) *model.Product {
	t.Helper()
	p, err := NewProductService(store.Products, nil).Create(context.Background(), widgetProduct())
	require.NoError(t, err)
	return p
}
