package models

// Pagination defaults and bounds shared by every list endpoint.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PaginationQuery is bound from ?page=&limit=
type PaginationQuery struct {
	Page  int `form:"page" json:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" json:"limit" binding:"omitempty,min=1,max=100"`
}

// Normalize fills in defaults for unset fields
func (q *PaginationQuery) Normalize() {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
}

// Offset is the number of rows to skip
func (q PaginationQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PaginationMeta describes one page of a list
type PaginationMeta struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int64 `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPaginationMeta computes page flags from the total row count
func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return PaginationMeta{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: int64(page)*int64(limit) < total,
		HasPrevPage: page > 1,
	}
}

// PaginatedResult is the {data, meta} envelope of list endpoints
type PaginatedResult[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginatedResult never returns a nil Data slice so it encodes as []
func NewPaginatedResult[T any](data []T, total int64, q PaginationQuery) *PaginatedResult[T] {
	if data == nil {
		data = []T{}
	}
	return &PaginatedResult[T]{
		Data: data,
		Meta: NewPaginationMeta(total, q.Page, q.Limit),
	}
}
