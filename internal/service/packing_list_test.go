//go:build !integration

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/packing-list-service/internal/domain/dto"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/export"
	"github.com/guttosm/packing-list-service/internal/mocks"
	"github.com/guttosm/packing-list-service/internal/packing"
	"github.com/guttosm/packing-list-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var listEpoch = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

type listFixture struct {
	svc     *PackingListServiceImpl
	store   *repository.Store
	product *model.Product
}

func newListFixture(t *testing.T, opts ...PackingListOption) listFixture {
	t.Helper()
	store := newFileBackedStore(t)
	product := seedProduct(t, store)
	opts = append([]PackingListOption{WithClock(steppingClock(listEpoch))}, opts...)
	return listFixture{
		svc:     NewPackingListService(store.PackingLists, store.Products, newTestCache(t), opts...),
		store:   store,
		product: product,
	}
}

func (f listFixture) create(t *testing.T) *model.PackingList {
	t.Helper()
	list, err := f.svc.Create(context.Background(), dto.CreatePackingListRequest{Name: "Shipment 42"})
	require.NoError(t, err)
	return list
}

func (f listFixture) cartonRequest(qty float64, start, end int) dto.PackageRequest {
	return dto.PackageRequest{
		Kind:  model.KindCarton,
		Start: start,
		End:   end,
		Items: []dto.PackageItemRequest{{ProductID: f.product.ID, Quantity: qty}},
	}
}

func TestPackingListService_Create(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.CreatePackingListRequest
		wantMsgs []string
		wantErr  error
	}{
		{
			name: "empty draft",
			req:  dto.CreatePackingListRequest{Name: " Shipment 42 "},
		},
		{
			name:     "name required",
			req:      dto.CreatePackingListRequest{Name: "  "},
			wantMsgs: []string{packing.MsgListNameRequired},
		},
		{
			name: "invalid row",
			req: dto.CreatePackingListRequest{
				Name:  "Shipment",
				Items: []model.PackageRow{{Kind: model.KindCarton, PackageNo: "1"}},
			},
			wantMsgs: []string{
				"Package 1: " + packing.MsgPackageEmpty,
				"Package 1: " + packing.MsgDimensionsInvalid,
			},
		},
		{
			name: "reversed range",
			req: dto.CreatePackingListRequest{
				Name:  "Shipment",
				Items: []model.PackageRow{{Kind: model.KindCarton, PackageRange: &model.PackageRange{Start: 4, End: 2}}},
			},
			wantErr: packing.ErrInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newListFixture(t)

			got, err := f.svc.Create(context.Background(), tt.req)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsgs != nil:
				msgs, ok := packing.ValidationMessages(err)
				require.True(t, ok, "expected validation error, got %v", err)
				assert.Equal(t, tt.wantMsgs, msgs)
			default:
				require.NoError(t, err)
				assert.Equal(t, "Shipment 42", got.Name)
				assert.Equal(t, model.StatusDraft, got.Status)
				assert.Equal(t, got.CreatedAt, got.UpdatedAt)
				assert.NotNil(t, got.Items)
			}
		})
	}
}

func TestPackingListService_CreateNormalizesRows(t *testing.T) {
	f := newListFixture(t)
	item := model.PackageItem{
		Product:  model.ProductSnapshot{ID: f.product.ID, Name: "Widget", HSCode: f.product.HSCode},
		Variant:  f.product.Variants[0],
		Quantity: 20,
	}

	got, err := f.svc.Create(context.Background(), dto.CreatePackingListRequest{
		Name: "Imported",
		Items: []model.PackageRow{
			{PackageNo: "1 to 2", Items: []model.PackageItem{item}},
			{PackageNo: "3", Dimensions: model.Dimensions{Length: 80, Width: 120, Height: 100}, Items: []model.PackageItem{item}},
		},
	})
	require.NoError(t, err)
	require.Len(t, got.Items, 2)

	carton := got.Items[0]
	assert.NotEmpty(t, carton.ID)
	assert.Equal(t, model.KindCarton, carton.Kind)
	assert.Equal(t, &model.PackageRange{Start: 1, End: 2}, carton.PackageRange)
	assert.Equal(t, 11.0, carton.GrossWeight)
	assert.Equal(t, 10.0, carton.NetWeight)

	pallet := got.Items[1]
	assert.Equal(t, model.KindPallet, pallet.Kind)
	assert.Nil(t, pallet.PackageRange)
	assert.Equal(t, 35.0, pallet.GrossWeight)

	assert.Equal(t, 46.0, got.TotalGrossWeight)
	assert.Equal(t, 4, got.TotalNumberOfBoxes)
}

func TestPackingListService_AddPackage(t *testing.T) {
	ctx := context.Background()
	f := newListFixture(t)
	list := f.create(t)

	list, err := f.svc.AddPackage(ctx, list.ID, f.cartonRequest(20, 0, 2))
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	row := list.Items[0]
	assert.Equal(t, "1 to 2", row.PackageNo)
	assert.Equal(t, 11.0, row.GrossWeight)
	assert.Equal(t, 10.0, row.NetWeight)
	assert.Equal(t, "Widget", row.Items[0].Product.Name)
	assert.Equal(t, f.product.Variants[0].ID, row.Items[0].Variant.ID, "default variant is used")
	assert.Equal(t, 11.0, list.TotalGrossWeight)
	assert.Equal(t, 2, list.TotalNumberOfBoxes)
	assert.InDelta(t, 0.018, list.TotalVolume, 1e-9)

	list, err = f.svc.AddPackage(ctx, list.ID, dto.PackageRequest{
		Kind:   model.KindPallet,
		Height: 100,
		Items:  []dto.PackageItemRequest{{ProductID: f.product.ID, Quantity: 10}},
	})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	pallet := list.Items[1]
	assert.Equal(t, "3", pallet.PackageNo)
	assert.Equal(t, 29.5, pallet.GrossWeight)
	assert.Equal(t, model.Dimensions{Length: 80, Width: 120, Height: 100}, pallet.Dimensions)

	next, err := f.svc.NextPackageNumber(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, next)

	totals, err := f.svc.Totals(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.5, totals.GrossWeight)
	assert.Equal(t, 15.0, totals.NetWeight)
	assert.Equal(t, 3, totals.TotalBoxes)
}

func TestPackingListService_AddPackageRejects(t *testing.T) {
	tests := []struct {
		name     string
		req      func(f listFixture) dto.PackageRequest
		wantErr  error
		wantMsgs []string
	}{
		{
			name:    "reversed range",
			req:     func(f listFixture) dto.PackageRequest { return f.cartonRequest(10, 5, 3) },
			wantErr: packing.ErrInvalidRange,
		},
		{
			name:    "negative start",
			req:     func(f listFixture) dto.PackageRequest { return f.cartonRequest(10, -1, 3) },
			wantErr: packing.ErrInvalidStart,
		},
		{
			name: "unknown kind",
			req: func(f listFixture) dto.PackageRequest {
				r := f.cartonRequest(10, 1, 1)
				r.Kind = "crate"
				return r
			},
			wantErr: packing.ErrInvalidKind,
		},
		{
			name: "unknown product",
			req: func(f listFixture) dto.PackageRequest {
				return dto.PackageRequest{Kind: model.KindCarton, Items: []dto.PackageItemRequest{{ProductID: "nope", Quantity: 1}}}
			},
			wantMsgs: []string{"Product nope not found"},
		},
		{
			name: "unknown variant",
			req: func(f listFixture) dto.PackageRequest {
				r := f.cartonRequest(10, 1, 1)
				r.Items[0].VariantID = "v-missing"
				return r
			},
			wantMsgs: []string{"Variant v-missing not found for product Widget"},
		},
		{
			name: "no items",
			req: func(f listFixture) dto.PackageRequest {
				return dto.PackageRequest{Kind: model.KindCarton}
			},
			wantMsgs: []string{packing.MsgPackageEmpty, packing.MsgDimensionsInvalid},
		},
		{
			name: "zero quantity",
			req:  func(f listFixture) dto.PackageRequest { return f.cartonRequest(0, 1, 1) },
			wantMsgs: []string{packing.MsgQuantityPositive},
		},
		{
			name: "gross below net",
			req: func(f listFixture) dto.PackageRequest {
				r := f.cartonRequest(10, 1, 1)
				r.Weights = &model.Weights{Gross: 1, Net: 5}
				return r
			},
			wantMsgs: []string{packing.MsgGrossBelowNet},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newListFixture(t)
			list := f.create(t)

			_, err := f.svc.AddPackage(context.Background(), list.ID, tt.req(f))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				msgs, ok := packing.ValidationMessages(err)
				require.True(t, ok, "expected validation error, got %v", err)
				assert.Equal(t, tt.wantMsgs, msgs)
			}

			stored, err := f.svc.Get(context.Background(), list.ID)
			require.NoError(t, err)
			assert.Empty(t, stored.Items)
		})
	}
}

func TestPackingListService_UpdateAndRemovePackage(t *testing.T) {
	ctx := context.Background()
	f := newListFixture(t)
	list := f.create(t)
	list, err := f.svc.AddPackage(ctx, list.ID, f.cartonRequest(20, 3, 4))
	require.NoError(t, err)
	pkgID := list.Items[0].ID

	list, err = f.svc.UpdatePackage(ctx, list.ID, pkgID, f.cartonRequest(30, 0, 5))
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, pkgID, list.Items[0].ID)
	assert.Equal(t, "3 to 5", list.Items[0].PackageNo, "start is kept")
	assert.Equal(t, 16.5, list.Items[0].GrossWeight)
	assert.Equal(t, 16.5, list.TotalGrossWeight)

	_, err = f.svc.UpdatePackage(ctx, list.ID, "missing", f.cartonRequest(1, 1, 1))
	assert.ErrorIs(t, err, ErrPackageNotFound)
	_, err = f.svc.RemovePackage(ctx, list.ID, "missing", false)
	assert.ErrorIs(t, err, ErrPackageNotFound)

	list, err = f.svc.RemovePackage(ctx, list.ID, pkgID, false)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Zero(t, list.TotalGrossWeight)
	assert.Zero(t, list.TotalNumberOfBoxes)
}

func TestPackingListService_CompletedGate(t *testing.T) {
	ctx := context.Background()
	f := newListFixture(t)
	list := f.create(t)
	list, err := f.svc.AddPackage(ctx, list.ID, f.cartonRequest(10, 1, 1))
	require.NoError(t, err)
	pkgID := list.Items[0].ID

	list, err = f.svc.SetStatus(ctx, list.ID, "completed")
	require.NoError(t, err)
	assert.True(t, list.IsCompleted())

	_, err = f.svc.AddPackage(ctx, list.ID, f.cartonRequest(10, 0, 0))
	assert.ErrorIs(t, err, packing.ErrListCompleted)
	_, err = f.svc.RemovePackage(ctx, list.ID, pkgID, false)
	assert.ErrorIs(t, err, packing.ErrListCompleted)
	_, err = f.svc.Update(ctx, list.ID, dto.UpdatePackingListRequest{Name: "Renamed"})
	assert.ErrorIs(t, err, packing.ErrListCompleted)

	same, err := f.svc.Update(ctx, list.ID, dto.UpdatePackingListRequest{
		Name:   list.Name,
		Items:  list.Items,
		Status: model.StatusCompleted,
	})
	require.NoError(t, err, "unchanged content passes the gate")
	assert.True(t, same.IsCompleted())

	req := f.cartonRequest(10, 0, 0)
	req.ConvertToDraft = true
	list, err = f.svc.AddPackage(ctx, list.ID, req)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, list.Status)
	assert.Len(t, list.Items, 2)

	_, err = f.svc.SetStatus(ctx, list.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestPackingListService_Update(t *testing.T) {
	ctx := context.Background()
	f := newListFixture(t)
	list := f.create(t)
	stale := list.UpdatedAt

	list, err := f.svc.AddPackage(ctx, list.ID, f.cartonRequest(10, 1, 1))
	require.NoError(t, err)
	assert.True(t, list.UpdatedAt.After(stale))

	_, err = f.svc.Update(ctx, list.ID, dto.UpdatePackingListRequest{Name: "Renamed", UpdatedAt: &stale})
	assert.ErrorIs(t, err, repository.ErrVersionConflict)

	current := list.UpdatedAt
	got, err := f.svc.Update(ctx, list.ID, dto.UpdatePackingListRequest{Name: "Renamed", UpdatedAt: &current})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Len(t, got.Items, 1, "nil items keep the packages")

	got, err = f.svc.Update(ctx, list.ID, dto.UpdatePackingListRequest{Items: []model.PackageRow{}})
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Equal(t, "Renamed", got.Name)

	_, err = f.svc.Update(ctx, list.ID, dto.UpdatePackingListRequest{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.Update(ctx, "missing", dto.UpdatePackingListRequest{Name: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPackingListService_UpdateExpiresWeightOverride(t *testing.T) {
	ctx := context.Background()
	f := newListFixture(t)
	list := f.create(t)
	req := f.cartonRequest(20, 1, 2)
	req.Weights = &model.Weights{Gross: 12, Net: 10}
	list, err := f.svc.AddPackage(ctx, list.ID, req)
	require.NoError(t, err)
	require.True(t, list.Items[0].WeightOverride)

	got, err := f.svc.Update(ctx, list.ID, dto.UpdatePackingListRequest{Items: list.Items})
	require.NoError(t, err)
	assert.True(t, got.Items[0].WeightOverride, "unchanged items keep the override")
	assert.Equal(t, 12.0, got.Items[0].GrossWeight)

	rows := []model.PackageRow{got.Items[0].Clone()}
	rows[0].Items[0].Quantity = 100
	got, err = f.svc.Update(ctx, list.ID, dto.UpdatePackingListRequest{Items: rows})
	require.NoError(t, err)
	row := got.Items[0]
	assert.False(t, row.WeightOverride)
	assert.Equal(t, 55.0, row.GrossWeight)
	assert.Equal(t, 50.0, row.NetWeight)
	assert.Equal(t, 55.0, got.TotalGrossWeight)
}

func TestPackingListService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newListFixture(t)
	first := f.create(t)
	f.create(t)

	page, err := f.svc.List(ctx, dto.PageQuery{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(2), page.Pagination.TotalItems)
	assert.True(t, page.Pagination.HasNextPage)

	require.NoError(t, f.svc.Delete(ctx, first.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, first.ID), repository.ErrNotFound)

	page, err = f.svc.List(ctx, dto.PageQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	_, err = f.svc.Get(ctx, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPackingListService_Validate(t *testing.T) {
	ctx := context.Background()
	f := newListFixture(t)
	list := f.create(t)
	_, err := f.svc.AddPackage(ctx, list.ID, f.cartonRequest(10, 1, 1))
	require.NoError(t, err)

	report, err := f.svc.Validate(ctx, list.ID)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Messages)
	assert.Empty(t, report.Packages)

	_, err = f.svc.Validate(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPackingListService_Preview(t *testing.T) {
	f := newListFixture(t)
	item := model.PackageItem{
		Product:  model.ProductSnapshot{ID: f.product.ID, Name: "Widget", HSCode: f.product.HSCode},
		Variant:  f.product.Variants[0],
		Quantity: 20,
	}

	preview, err := f.svc.Preview(model.PackingList{
		Items: []model.PackageRow{
			{Kind: model.KindCarton, PackageNo: "1 to 2", Items: []model.PackageItem{item}},
			{Kind: model.KindCarton, PackageNo: "3"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusDraft, preview.List.Status)
	assert.Equal(t, 11.0, preview.Totals.GrossWeight)
	assert.Equal(t, 4, preview.NextPackageNumber)
	assert.False(t, preview.Validation.Valid)
	assert.Equal(t, []string{
		packing.MsgListNameRequired,
		"Package 3: " + packing.MsgPackageEmpty,
		"Package 3: " + packing.MsgDimensionsInvalid,
	}, preview.Validation.Messages)
	require.Len(t, preview.Validation.Packages, 1)
	assert.NotEmpty(t, preview.Layout.Rows)

	_, err = f.svc.Preview(model.PackingList{Items: []model.PackageRow{{Kind: "crate"}}})
	assert.ErrorIs(t, err, packing.ErrInvalidKind)
}

func TestPackingListService_Export(t *testing.T) {
	ctx := context.Background()
	var rendered export.Document
	f := newListFixture(t, WithPDFRenderer(func(doc export.Document) ([]byte, error) {
		rendered = doc
		return []byte("%PDF-fake"), nil
	}))
	list := f.create(t)
	_, err := f.svc.AddPackage(ctx, list.ID, f.cartonRequest(20, 1, 2))
	require.NoError(t, err)

	layout, err := f.svc.ExportLayout(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shipment 42", layout.Title)
	assert.NotEmpty(t, layout.Rows)

	out, err := f.svc.ExportPDF(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), out)
	assert.Equal(t, list.ID, rendered.ID)
	assert.Equal(t, layout, rendered.Layout)

	_, err = f.svc.ExportPDF(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPackingListService_ExportPDFRenderError(t *testing.T) {
	f := newListFixture(t, WithPDFRenderer(func(export.Document) ([]byte, error) {
		return nil, errors.New("font missing")
	}))
	list := f.create(t)

	_, err := f.svc.ExportPDF(context.Background(), list.ID)

	assert.ErrorContains(t, err, "font missing")
}

func TestPackingListService_RetriesVersionConflict(t *testing.T) {
	stored := func() *model.PackingList {
		return &model.PackingList{ID: "l1", Name: "Shipment", Status: model.StatusDraft, UpdatedAt: listEpoch, Items: []model.PackageRow{}}
	}
	lists := new(mocks.MockPackingListRepositoryInterface)
	lists.On("GetByID", mock.Anything, "l1").Return(stored(), nil).Once()
	lists.On("GetByID", mock.Anything, "l1").Return(stored(), nil).Once()
	lists.On("Update", mock.Anything, mock.Anything, listEpoch).Return(repository.ErrVersionConflict).Once()
	lists.On("Update", mock.Anything, mock.Anything, listEpoch).Return(nil).Once()
	svc := NewPackingListService(lists, nil, nil, WithClock(steppingClock(listEpoch)))

	got, err := svc.SetStatus(context.Background(), "l1", "completed")

	require.NoError(t, err)
	assert.True(t, got.IsCompleted())
	assert.True(t, got.UpdatedAt.After(listEpoch))
	lists.AssertExpectations(t)
}

func TestPackingListService_PinnedVersionIsNotRetried(t *testing.T) {
	lists := new(mocks.MockPackingListRepositoryInterface)
	lists.On("GetByID", mock.Anything, "l1").
		Return(&model.PackingList{ID: "l1", Name: "Shipment", Status: model.StatusDraft, UpdatedAt: listEpoch}, nil).Once()
	lists.On("Update", mock.Anything, mock.Anything, listEpoch).Return(repository.ErrVersionConflict).Once()
	svc := NewPackingListService(lists, nil, nil)

	pinned := listEpoch
	_, err := svc.Update(context.Background(), "l1", dto.UpdatePackingListRequest{Name: "x", UpdatedAt: &pinned})

	assert.ErrorIs(t, err, repository.ErrVersionConflict)
	lists.AssertExpectations(t)
}

func TestPackingListService_NoRepository(t *testing.T) {
	svc := NewPackingListService(nil, nil, nil)

	_, err := svc.Get(context.Background(), "l1")
	assert.ErrorIs(t, err, ErrRepositoryNotConfigured)
	_, err = svc.AddPackage(context.Background(), "l1", dto.PackageRequest{})
	assert.ErrorIs(t, err, ErrRepositoryNotConfigured)
}
