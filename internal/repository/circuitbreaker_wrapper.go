// Package repository provides circuit breaker wrappers for storage operations.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/packing-list-service/internal/circuitbreaker"
	"github.com/guttosm/packing-list-service/internal/domain/model"
)

// DomainErrors are outcomes of a healthy backend and never trip a breaker.
var DomainErrors = []error{ErrNotFound, ErrDuplicate, ErrVersionConflict}

// Breakers holds one circuit breaker per repository.
type Breakers struct {
	Products     *circuitbreaker.CircuitBreaker
	HSCodes      *circuitbreaker.CircuitBreaker
	PackingLists *circuitbreaker.CircuitBreaker
}

// NewBreakers creates the repository breakers from a base configuration.
func NewBreakers(base circuitbreaker.Config) Breakers {
	named := func(name string) *circuitbreaker.CircuitBreaker {
		cfg := base
		cfg.Name = name
		cfg.IgnoredErrors = DomainErrors
		return circuitbreaker.New(cfg)
	}
	return Breakers{
		Products:     named("products"),
		HSCodes:      named("hs_codes"),
		PackingLists: named("packing_lists"),
	}
}

// All returns the breakers in a stable order for health reporting.
func (b Breakers) All() []*circuitbreaker.CircuitBreaker {
	return []*circuitbreaker.CircuitBreaker{b.Products, b.HSCodes, b.PackingLists}
}

func guarded[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = fn()
		return cbErr
	})
	return result, err
}

// ProductRepositoryWithCircuitBreaker wraps a product repository with circuit breaker protection.
type ProductRepositoryWithCircuitBreaker struct {
	repo           ProductRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewProductRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewProductRepositoryWithCircuitBreaker(repo ProductRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *ProductRepositoryWithCircuitBreaker {
	return &ProductRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

type productPage struct {
	items []model.Product
	total int64
}

func (r *ProductRepositoryWithCircuitBreaker) List(ctx context.Context, opts ListOptions) ([]model.Product, int64, error) {
	res, err := guarded(ctx, r.circuitBreaker, func() (productPage, error) {
		items, total, err := r.repo.List(ctx, opts)
		return productPage{items, total}, err
	})
	return res.items, res.total, err
}

func (r *ProductRepositoryWithCircuitBreaker) GetByID(ctx context.Context, id string) (*model.Product, error) {
	return guarded(ctx, r.circuitBreaker, func() (*model.Product, error) {
		return r.repo.GetByID(ctx, id)
	})
}

func (r *ProductRepositoryWithCircuitBreaker) Create(ctx context.Context, product *model.Product) error {
	return r.circuitBreaker.Execute(ctx, func() error { return r.repo.Create(ctx, product) })
}

func (r *ProductRepositoryWithCircuitBreaker) Update(ctx context.Context, product *model.Product) error {
	return r.circuitBreaker.Execute(ctx, func() error { return r.repo.Update(ctx, product) })
}

func (r *ProductRepositoryWithCircuitBreaker) Delete(ctx context.Context, id string) error {
	return r.circuitBreaker.Execute(ctx, func() error { return r.repo.Delete(ctx, id) })
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *ProductRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// HSCodeRepositoryWithCircuitBreaker wraps an HS code repository with circuit breaker protection.
type HSCodeRepositoryWithCircuitBreaker struct {
	repo           HSCodeRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewHSCodeRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewHSCodeRepositoryWithCircuitBreaker(repo HSCodeRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *HSCodeRepositoryWithCircuitBreaker {
	return &HSCodeRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *HSCodeRepositoryWithCircuitBreaker) List(ctx context.Context) ([]model.HSCode, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]model.HSCode, error) {
		return r.repo.List(ctx)
	})
}

func (r *HSCodeRepositoryWithCircuitBreaker) GetByID(ctx context.Context, id string) (*model.HSCode, error) {
	return guarded(ctx, r.circuitBreaker, func() (*model.HSCode, error) {
		return r.repo.GetByID(ctx, id)
	})
}

func (r *HSCodeRepositoryWithCircuitBreaker) Create(ctx context.Context, code *model.HSCode) error {
	return r.circuitBreaker.Execute(ctx, func() error { return r.repo.Create(ctx, code) })
}

func (r *HSCodeRepositoryWithCircuitBreaker) Delete(ctx context.Context, id string) error {
	return r.circuitBreaker.Execute(ctx, func() error { return r.repo.Delete(ctx, id) })
}

// PackingListRepositoryWithCircuitBreaker wraps a packing list repository with circuit breaker protection.
type PackingListRepositoryWithCircuitBreaker struct {
	repo           PackingListRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewPackingListRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewPackingListRepositoryWithCircuitBreaker(repo PackingListRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *PackingListRepositoryWithCircuitBreaker {
	return &PackingListRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

type packingListPage struct {
	items []model.PackingList
	total int64
}

func (r *PackingListRepositoryWithCircuitBreaker) List(ctx context.Context, opts ListOptions) ([]model.PackingList, int64, error) {
	res, err := guarded(ctx, r.circuitBreaker, func() (packingListPage, error) {
		items, total, err := r.repo.List(ctx, opts)
		return packingListPage{items, total}, err
	})
	return res.items, res.total, err
}

func (r *PackingListRepositoryWithCircuitBreaker) GetByID(ctx context.Context, id string) (*model.PackingList, error) {
	return guarded(ctx, r.circuitBreaker, func() (*model.PackingList, error) {
		return r.repo.GetByID(ctx, id)
	})
}

func (r *PackingListRepositoryWithCircuitBreaker) Create(ctx context.Context, list *model.PackingList) error {
	return r.circuitBreaker.Execute(ctx, func() error { return r.repo.Create(ctx, list) })
}

func (r *PackingListRepositoryWithCircuitBreaker) Update(ctx context.Context, list *model.PackingList, expectedUpdatedAt time.Time) error {
	return r.circuitBreaker.Execute(ctx, func() error { return r.repo.Update(ctx, list, expectedUpdatedAt) })
}

func (r *PackingListRepositoryWithCircuitBreaker) Delete(ctx context.Context, id string) error {
	return r.circuitBreaker.Execute(ctx, func() error { return r.repo.Delete(ctx, id) })
}

// LogsRepositoryWithCircuitBreaker wraps LogsRepository with circuit breaker protection.
type LogsRepositoryWithCircuitBreaker struct {
	repo           LogsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

// Create stores a single log entry. An open circuit drops the entry.
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// CreateMany stores multiple log entries. An open circuit drops the batch.
func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, entries)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// Query retrieves log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]*LogEntryDocument, error) {
		return r.repo.Query(ctx, opts)
	})
}

// Count returns the count of log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	return guarded(ctx, r.circuitBreaker, func() (int64, error) {
		return r.repo.Count(ctx, opts)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
