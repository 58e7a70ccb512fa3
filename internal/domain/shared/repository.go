package shared

import (
	"math"

	"github.com/google/uuid"
)

// Filter represents query filter options shared by all list endpoints.
// Filters holds column=value equality filters; Search is a case-insensitive
// substring match applied by each repository over its fixed text columns.
type Filter struct {
	Page    int
	Limit   int
	Search  string
	OwnerID *uuid.UUID
	Filters map[string]any
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:    1,
		Limit:   20,
		Filters: make(map[string]any),
	}
}

// Offset returns the limit/offset pagination offset for the filter
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, limit int) Paginated[T] {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
