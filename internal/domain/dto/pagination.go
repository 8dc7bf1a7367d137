package dto

// Paging defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageQuery holds the page and limit query parameters.
type PageQuery struct {
	Page  int `form:"page" example:"1"`
	Limit int `form:"limit" example:"10"`
}

// Normalize applies defaults and clamps the limit.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	switch {
	case q.Limit < 1:
		q.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	return q
}

// Offset is the number of items before the page.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Pagination describes where a page sits in the full result.
//
// @Description Pagination metadata
type Pagination struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	TotalPages  int   `json:"totalPages" example:"3"`
	TotalItems  int64 `json:"totalItems" example:"25"`
	HasNextPage bool  `json:"hasNextPage" example:"true"`
	HasPrevPage bool  `json:"hasPrevPage" example:"false"`
} // @name Pagination

// NewPagination computes the metadata for a normalized query.
func NewPagination(q PageQuery, total int64) Pagination {
	pages := 0
	if q.Limit > 0 {
		pages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}
	return Pagination{
		CurrentPage: q.Page,
		TotalPages:  pages,
		TotalItems:  total,
		HasNextPage: int64(q.Offset()+q.Limit) < total,
		HasPrevPage: q.Page > 1,
	}
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}
