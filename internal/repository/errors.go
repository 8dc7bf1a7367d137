package repository

import "errors"

var (
	// ErrNotFound is returned when no document has the requested id.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key already exists.
	ErrDuplicate = errors.New("already exists")
	// ErrVersionConflict is returned when a packing list changed since it was read.
	ErrVersionConflict = errors.New("packing list was modified by another request")
)

// page applies skip/limit to an already sorted slice.
func page[T any](items []T, opts ListOptions) []T {
	if opts.Skip >= len(items) {
		return []T{}
	}
	if opts.Skip > 0 {
		items = items[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}
