package model

// SortDirection is the ordering of a list query.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// DefaultPageSize is used when no positive page size or window is given.
const DefaultPageSize = 10

// QueryOptions limits and orders a list query.
// Offset without Limit selects a window of DefaultPageSize rows.
type QueryOptions struct {
	Limit     int
	Offset    int
	OrderBy   string
	Direction SortDirection
}

// Filters are column equality conditions joined with AND.
type Filters map[string]any

// Page is one page of a paginated list.
type Page[T any] struct {
	Data            []T  `json:"data"`
	Page            int  `json:"page"`
	PageSize        int  `json:"page_size"`
	TotalCount      int  `json:"total_count"`
	TotalPages      int  `json:"total_pages"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

// NewPage computes page metadata for data taken from a result of totalCount rows.
func NewPage[T any](data []T, page, pageSize, totalCount int) Page[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return Page[T]{
		Data:            data,
		Page:            page,
		PageSize:        pageSize,
		TotalCount:      totalCount,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}
