package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the gateway behavior every backend must share.
func runStoreContract(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("products", func(t *testing.T) {
		widget := &model.Product{
			ID:        uuid.NewString(),
			Name:      "Widget",
			HSCode:    "8481.80.85.90.00",
			CreatedAt: base,
			Variants:  []model.Variant{{ID: "v1", Name: "Carton 10", BoxQuantity: 10, IsDefault: true}},
		}
		anchor := &model.Product{ID: uuid.NewString(), Name: "Anchor", HSCode: "7318.15.00.00.00", CreatedAt: base}

		require.NoError(t, store.Products.Create(ctx, widget))
		require.NoError(t, store.Products.Create(ctx, anchor))

		all, total, err := store.Products.List(ctx, ListOptions{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, all, 2)
		assert.Equal(t, "Anchor", all[0].Name)

		second, total, err := store.Products.List(ctx, ListOptions{Skip: 1, Limit: 1})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, second, 1)
		assert.Equal(t, "Widget", second[0].Name)

		got, err := store.Products.GetByID(ctx, widget.ID)
		require.NoError(t, err)
		assert.Equal(t, widget.Variants, got.Variants)

		got.Name = "Widget XL"
		require.NoError(t, store.Products.Update(ctx, got))
		again, err := store.Products.GetByID(ctx, widget.ID)
		require.NoError(t, err)
		assert.Equal(t, "Widget XL", again.Name)

		_, err = store.Products.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.Products.Update(ctx, &model.Product{ID: "missing"}), ErrNotFound)

		require.NoError(t, store.Products.Delete(ctx, anchor.ID))
		assert.ErrorIs(t, store.Products.Delete(ctx, anchor.ID), ErrNotFound)
	})

	t.Run("hs codes are unique", func(t *testing.T) {
		first := &model.HSCode{ID: uuid.NewString(), Code: "8481.80.85.90.00"}
		require.NoError(t, store.HSCodes.Create(ctx, first))
		require.NoError(t, store.HSCodes.Create(ctx, &model.HSCode{ID: uuid.NewString(), Code: "3926.90.97.90.18"}))

		err := store.HSCodes.Create(ctx, &model.HSCode{ID: uuid.NewString(), Code: "8481.80.85.90.00"})
		assert.ErrorIs(t, err, ErrDuplicate)

		codes, err := store.HSCodes.List(ctx)
		require.NoError(t, err)
		require.Len(t, codes, 2)
		assert.Equal(t, "3926.90.97.90.18", codes[0].Code)

		got, err := store.HSCodes.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Code, got.Code)

		require.NoError(t, store.HSCodes.Delete(ctx, first.ID))
		assert.ErrorIs(t, store.HSCodes.Delete(ctx, first.ID), ErrNotFound)
	})

	t.Run("packing lists", func(t *testing.T) {
		ids := make([]string, 3)
		for i := range ids {
			ids[i] = uuid.NewString()
			created := base.Add(time.Duration(i) * time.Minute)
			list := &model.PackingList{
				ID:        ids[i],
				Name:      fmt.Sprintf("List %d", i),
				Status:    model.StatusDraft,
				CreatedAt: created,
				UpdatedAt: created,
				Items: []model.PackageRow{{
					ID:           "p1",
					Kind:         model.KindCarton,
					PackageNo:    "1 to 2",
					PackageRange: &model.PackageRange{Start: 1, End: 2},
					GrossWeight:  11,
					NetWeight:    10,
				}},
			}
			require.NoError(t, store.PackingLists.Create(ctx, list))
		}

		lists, total, err := store.PackingLists.List(ctx, ListOptions{Limit: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, lists, 2)
		assert.Equal(t, ids[2], lists[0].ID, "newest first")
		assert.Equal(t, ids[1], lists[1].ID)

		current, err := store.PackingLists.GetByID(ctx, ids[0])
		require.NoError(t, err)
		require.Len(t, current.Items, 1)
		require.NotNil(t, current.Items[0].PackageRange)
		assert.Equal(t, 2, current.Items[0].PackageRange.End)

		read := current.UpdatedAt
		current.Name = "Renamed"
		current.UpdatedAt = read.Add(time.Second)
		require.NoError(t, store.PackingLists.Update(ctx, current, read))

		stale := *current
		stale.Name = "Lost update"
		stale.UpdatedAt = read.Add(2 * time.Second)
		assert.ErrorIs(t, store.PackingLists.Update(ctx, &stale, read), ErrVersionConflict)

		stored, err := store.PackingLists.GetByID(ctx, ids[0])
		require.NoError(t, err)
		assert.Equal(t, "Renamed", stored.Name)
		assert.True(t, stored.UpdatedAt.Equal(read.Add(time.Second)))

		stale.UpdatedAt = read.Add(3 * time.Second)
		require.NoError(t, store.PackingLists.Update(ctx, &stale, time.Time{}), "zero expected skips the check")

		missing := &model.PackingList{ID: "missing"}
		assert.ErrorIs(t, store.PackingLists.Update(ctx, missing, read), ErrNotFound)

		require.NoError(t, store.PackingLists.Delete(ctx, ids[1]))
		assert.ErrorIs(t, store.PackingLists.Delete(ctx, ids[1]), ErrNotFound)
		_, err = store.PackingLists.GetByID(ctx, ids[1])
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("health", func(t *testing.T) {
		assert.NoError(t, store.HealthCheck(ctx))
	})
}
