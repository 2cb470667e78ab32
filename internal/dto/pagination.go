package dto

// Pagination defaults applied when the query string omits page or limit.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// NewPaginationMeta computes the metadata envelope for a page of results.
func NewPaginationMeta(page, pageSize int, totalItems int64) PaginationMeta {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))

	return PaginationMeta{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: pageSize,
	}
}
