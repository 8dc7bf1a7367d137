package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/guttosm/packing-list-service/internal/catalog"
	"github.com/guttosm/packing-list-service/internal/domain/dto"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/packing"
	"github.com/guttosm/packing-list-service/internal/repository"
	"github.com/guttosm/packing-list-service/internal/service/cache"
)

// ProductService manages catalog products and their variants.
type ProductService interface {
	List(ctx context.Context, q dto.PageQuery) (dto.Page[model.Product], error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, product model.Product) (*model.Product, error)
	Update(ctx context.Context, id string, product model.Product) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	AddVariant(ctx context.Context, productID string, variant model.Variant) (*model.Product, error)
	RemoveVariant(ctx context.Context, productID, variantID string) (*model.Product, error)
	SetDefaultVariant(ctx context.Context, productID, variantID string) (*model.Product, error)
}

// ProductServiceImpl implements ProductService.
type ProductServiceImpl struct {
	repo  repository.ProductRepositoryInterface
	cache cache.Cache
	now   Clock
}

// NewProductService creates a product service. A nil cache disables caching.
func NewProductService(repo repository.ProductRepositoryInterface, c cache.Cache) *ProductServiceImpl {
	return &ProductServiceImpl{repo: repo, cache: orNoop(c), now: systemClock}
}

func (s *ProductServiceImpl) List(ctx context.Context, q dto.PageQuery) (dto.Page[model.Product], error) {
	if s.repo == nil {
		return dto.Page[model.Product]{}, ErrRepositoryNotConfigured
	}
	q = q.Normalize()
	key := fmt.Sprintf("%slist?page=%d&limit=%d", ProductsCachePrefix, q.Page, q.Limit)

	return cached(ctx, s.cache, key, func() (dto.Page[model.Product], error) {
		items, total, err := s.repo.List(ctx, repository.ListOptions{Skip: q.Offset(), Limit: q.Limit})
		if err != nil {
			return dto.Page[model.Product]{}, err
		}
		return dto.Page[model.Product]{Items: items, Pagination: dto.NewPagination(q, total)}, nil
	})
}

func (s *ProductServiceImpl) Get(ctx context.Context, id string) (*model.Product, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	p, err := cached(ctx, s.cache, ProductsCachePrefix+"item:"+id, func() (model.Product, error) {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return model.Product{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create validates and stores a new product. Missing variant ids are
// assigned and the default flag is repaired before validation.
func (s *ProductServiceImpl) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	prepareProduct(&product)
	if err := packing.NewValidationError(catalog.ValidateProduct(product)); err != nil {
		return nil, err
	}

	product.ID = uuid.NewString()
	product.CreatedAt = s.now()
	product.UpdatedAt = product.CreatedAt
	if err := s.repo.Create(ctx, &product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.cache.InvalidatePrefix(ctx, ProductsCachePrefix)
	return &product, nil
}

// Update replaces name, HS code and variants of an existing product.
func (s *ProductServiceImpl) Update(ctx context.Context, id string, product model.Product) (*model.Product, error) {
	return s.modify(ctx, id, func(current *model.Product) error {
		current.Name = product.Name
		current.HSCode = product.HSCode
		current.Variants = product.Variants
		prepareProduct(current)
		return nil
	})
}

func (s *ProductServiceImpl) Delete(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	s.cache.InvalidatePrefix(ctx, ProductsCachePrefix)
	return nil
}

// AddVariant validates the variant on its own before attaching it.
func (s *ProductServiceImpl) AddVariant(ctx context.Context, productID string, variant model.Variant) (*model.Product, error) {
	if err := packing.NewValidationError(catalog.ValidateVariant(variant)); err != nil {
		return nil, err
	}
	return s.modify(ctx, productID, func(p *model.Product) error {
		variant.ID = ""
		catalog.AddVariant(p, variant)
		return nil
	})
}

func (s *ProductServiceImpl) RemoveVariant(ctx context.Context, productID, variantID string) (*model.Product, error) {
	return s.modify(ctx, productID, func(p *model.Product) error {
		return catalog.RemoveVariant(p, variantID)
	})
}

func (s *ProductServiceImpl) SetDefaultVariant(ctx context.Context, productID, variantID string) (*model.Product, error) {
	return s.modify(ctx, productID, func(p *model.Product) error {
		return catalog.SetDefaultVariant(p, variantID)
	})
}

// modify loads the product, applies fn, validates and stores the result.
func (s *ProductServiceImpl) modify(ctx context.Context, id string, fn func(*model.Product) error) (*model.Product, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	if err := fn(current); err != nil {
		return nil, err
	}
	if err := packing.NewValidationError(catalog.ValidateProduct(*current)); err != nil {
		return nil, err
	}

	current.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, current); err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	s.cache.InvalidatePrefix(ctx, ProductsCachePrefix)
	return current, nil
}

// prepareProduct trims the name, formats a valid HS code and repairs variants.
func prepareProduct(p *model.Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.HSCode = strings.TrimSpace(p.HSCode)
	if formatted, err := catalog.FormatHSCode(p.HSCode); err == nil {
		p.HSCode = formatted
	}
	catalog.NormalizeVariants(p)
}
