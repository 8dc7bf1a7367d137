package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/guttosm/packing-list-service/internal/catalog"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/packing"
	"github.com/guttosm/packing-list-service/internal/repository"
	"github.com/guttosm/packing-list-service/internal/service/cache"
)

// HSCodeService manages the registry of customs codes.
type HSCodeService interface {
	List(ctx context.Context) ([]model.HSCode, error)
	Create(ctx context.Context, code string) (*model.HSCode, error)
	Delete(ctx context.Context, id string) error
}

// HSCodeServiceImpl implements HSCodeService.
type HSCodeServiceImpl struct {
	repo  repository.HSCodeRepositoryInterface
	cache cache.Cache
}

// NewHSCodeService creates an HS code service. A nil cache disables caching.
func NewHSCodeService(repo repository.HSCodeRepositoryInterface, c cache.Cache) *HSCodeServiceImpl {
	return &HSCodeServiceImpl{repo: repo, cache: orNoop(c)}
}

func (s *HSCodeServiceImpl) List(ctx context.Context) ([]model.HSCode, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return cached(ctx, s.cache, HSCodesCachePrefix+"list", func() ([]model.HSCode, error) {
		codes, err := s.repo.List(ctx)
		if codes == nil && err == nil {
			codes = []model.HSCode{}
		}
		return codes, err
	})
}

// Create stores the code in its ####.##.##.##.## form. A code that is
// already registered yields repository.ErrDuplicate.
func (s *HSCodeServiceImpl) Create(ctx context.Context, code string) (*model.HSCode, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	formatted, err := catalog.FormatHSCode(code)
	if err != nil {
		return nil, packing.NewValidationError([]string{catalog.MsgHSCodeInvalid})
	}

	hs := &model.HSCode{ID: uuid.NewString(), Code: formatted}
	if err := s.repo.Create(ctx, hs); err != nil {
		return nil, fmt.Errorf("create hs code %s: %w", formatted, err)
	}
	s.cache.InvalidatePrefix(ctx, HSCodesCachePrefix)
	return hs, nil
}

func (s *HSCodeServiceImpl) Delete(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete hs code %s: %w", id, err)
	}
	s.cache.InvalidatePrefix(ctx, HSCodesCachePrefix)
	return nil
}
