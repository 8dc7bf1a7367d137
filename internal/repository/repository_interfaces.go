// Package repository provides interfaces for repository operations.
package repository

import (
	"context"
	"time"

	"github.com/guttosm/packing-list-service/internal/domain/model"
)

// ListOptions pages a List call. A zero Limit returns everything after Skip.
type ListOptions struct {
	Skip  int
	Limit int
}

// ProductRepositoryInterface defines the interface for product persistence.
type ProductRepositoryInterface interface {
	List(ctx context.Context, opts ListOptions) ([]model.Product, int64, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
}

// HSCodeRepositoryInterface defines the interface for HS code persistence.
// Codes are unique; creating an existing code returns ErrDuplicate.
type HSCodeRepositoryInterface interface {
	List(ctx context.Context) ([]model.HSCode, error)
	GetByID(ctx context.Context, id string) (*model.HSCode, error)
	Create(ctx context.Context, code *model.HSCode) error
	Delete(ctx context.Context, id string) error
}

// PackingListRepositoryInterface defines the interface for packing list persistence.
// List returns the newest lists first.
type PackingListRepositoryInterface interface {
	List(ctx context.Context, opts ListOptions) ([]model.PackingList, int64, error)
	GetByID(ctx context.Context, id string) (*model.PackingList, error)
	Create(ctx context.Context, list *model.PackingList) error
	// Update replaces the stored document. A non-zero expectedUpdatedAt must
	// match the stored value or ErrVersionConflict is returned.
	Update(ctx context.Context, list *model.PackingList, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// LogsRepositoryInterface defines the interface for logs repository operations.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
	Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error)
	Count(ctx context.Context, opts LogQueryOptions) (int64, error)
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Backend      string
	Products     ProductRepositoryInterface
	HSCodes      HSCodeRepositoryInterface
	PackingLists PackingListRepositoryInterface
	// HealthCheck reports whether the backend is reachable.
	HealthCheck func(ctx context.Context) error
	// Close releases the backend.
	Close func(ctx context.Context) error
}
