// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"time"

	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockPackingListRepositoryInterface struct {
	mock.Mock
}

func (m *MockPackingListRepositoryInterface) List(ctx context.Context, opts repository.ListOptions) ([]model.PackingList, int64, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.PackingList), args.Get(1).(int64), args.Error(2)
}

func (m *MockPackingListRepositoryInterface) GetByID(ctx context.Context, id string) (*model.PackingList, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackingList), args.Error(1)
}

func (m *MockPackingListRepositoryInterface) Create(ctx context.Context, list *model.PackingList) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

func (m *MockPackingListRepositoryInterface) Update(ctx context.Context, list *model.PackingList, expectedUpdatedAt time.Time) error {
	args := m.Called(ctx, list, expectedUpdatedAt)
	return args.Error(0)
}

func (m *MockPackingListRepositoryInterface) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
