//go:build !integration

package http

import (
	"context"

	"github.com/guttosm/packing-list-service/internal/domain/dto"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/packing"
	"github.com/guttosm/packing-list-service/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockProductService struct{ mock.Mock }

func (m *MockProductService) product(args mock.Arguments) (*model.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context, q dto.PageQuery) (dto.Page[model.Product], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(dto.Page[model.Product]), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockProductService) Create(ctx context.Context, p model.Product) (*model.Product, error) {
	return m.product(m.Called(ctx, p))
}

func (m *MockProductService) Update(ctx context.Context, id string, p model.Product) (*model.Product, error) {
	return m.product(m.Called(ctx, id, p))
}

func (m *MockProductService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) AddVariant(ctx context.Context, productID string, v model.Variant) (*model.Product, error) {
	return m.product(m.Called(ctx, productID, v))
}

func (m *MockProductService) RemoveVariant(ctx context.Context, productID, variantID string) (*model.Product, error) {
	return m.product(m.Called(ctx, productID, variantID))
}

func (m *MockProductService) SetDefaultVariant(ctx context.Context, productID, variantID string) (*model.Product, error) {
	return m.product(m.Called(ctx, productID, variantID))
}

type MockHSCodeService struct{ mock.Mock }

func (m *MockHSCodeService) List(ctx context.Context) ([]model.HSCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HSCode), args.Error(1)
}

func (m *MockHSCodeService) Create(ctx context.Context, code string) (*model.HSCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HSCode), args.Error(1)
}

func (m *MockHSCodeService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockPackingListService struct{ mock.Mock }

func (m *MockPackingListService) list(args mock.Arguments) (*model.PackingList, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackingList), args.Error(1)
}

func (m *MockPackingListService) List(ctx context.Context, q dto.PageQuery) (dto.Page[model.PackingList], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(dto.Page[model.PackingList]), args.Error(1)
}

func (m *MockPackingListService) Get(ctx context.Context, id string) (*model.PackingList, error) {
	return m.list(m.Called(ctx, id))
}

func (m *MockPackingListService) Create(ctx context.Context, req dto.CreatePackingListRequest) (*model.PackingList, error) {
	return m.list(m.Called(ctx, req))
}

func (m *MockPackingListService) Update(ctx context.Context, id string, req dto.UpdatePackingListRequest) (*model.PackingList, error) {
	return m.list(m.Called(ctx, id, req))
}

func (m *MockPackingListService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPackingListService) SetStatus(ctx context.Context, id, status string) (*model.PackingList, error) {
	return m.list(m.Called(ctx, id, status))
}

func (m *MockPackingListService) AddPackage(ctx context.Context, listID string, req dto.PackageRequest) (*model.PackingList, error) {
	return m.list(m.Called(ctx, listID, req))
}

func (m *MockPackingListService) UpdatePackage(ctx context.Context, listID, packageID string, req dto.PackageRequest) (*model.PackingList, error) {
	return m.list(m.Called(ctx, listID, packageID, req))
}

func (m *MockPackingListService) RemovePackage(ctx context.Context, listID, packageID string, convertToDraft bool) (*model.PackingList, error) {
	return m.list(m.Called(ctx, listID, packageID, convertToDraft))
}

func (m *MockPackingListService) NextPackageNumber(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockPackingListService) Totals(ctx context.Context, id string) (packing.Totals, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(packing.Totals), args.Error(1)
}

func (m *MockPackingListService) Validate(ctx context.Context, id string) (service.ValidationReport, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.ValidationReport), args.Error(1)
}

func (m *MockPackingListService) ExportLayout(ctx context.Context, id string) (packing.Layout, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(packing.Layout), args.Error(1)
}

func (m *MockPackingListService) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPackingListService) Preview(list model.PackingList) (service.Preview, error) {
	args := m.Called(list)
	return args.Get(0).(service.Preview), args.Error(1)
}

var (
	_ service.ProductService     = (*MockProductService)(nil)
	_ service.HSCodeService      = (*MockHSCodeService)(nil)
	_ service.PackingListService = (*MockPackingListService)(nil)
)
