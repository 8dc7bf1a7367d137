// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockHSCodeRepositoryInterface struct {
	mock.Mock
}

func (m *MockHSCodeRepositoryInterface) List(ctx context.Context) ([]model.HSCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HSCode), args.Error(1)
}

func (m *MockHSCodeRepositoryInterface) GetByID(ctx context.Context, id string) (*model.HSCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HSCode), args.Error(1)
}

func (m *MockHSCodeRepositoryInterface) Create(ctx context.Context, code *model.HSCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockHSCodeRepositoryInterface) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
