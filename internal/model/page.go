package model

// Page is one window of an ordered listing.
type Page[T any] struct {
	Items   []T
	Page    int // 1-based
	PerPage int
	Total   int // records across all pages
}

// TotalPages returns the number of pages needed for Total records (0 when empty).
func (p Page[T]) TotalPages() int {
	if p.PerPage <= 0 || p.Total <= 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages()
}
