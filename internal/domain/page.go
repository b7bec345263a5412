package domain

const (
	// DefaultPageLimit is the page size used when the client sends none.
	DefaultPageLimit = 20
	// MaxPageLimit caps the page size a client may request.
	MaxPageLimit = 100
)

// PaginationParams selects one page of a recipe listing. Page is 1-indexed.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds PaginationParams from the optional ?page= and
// ?limit= query values. Missing or non-positive values use the defaults and
// a limit above MaxPageLimit is clamped.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page > 0 {
		p.Page = *page
	}
	switch {
	case limit == nil || *limit < 1:
	case *limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	default:
		p.Limit = *limit
	}
	return p
}

// Offset is the number of rows preceding this page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
