// Package pagination converts 1-indexed page requests into bounded SQL
// windows and detects pages past the end of a collection.
package pagination

// Plan describes the window for one page of a sorted result set.
// Page is 1-indexed. TotalPages is ceil(total/pageSize).
type Plan struct {
	Page       int
	PageSize   int
	Offset     int
	TotalPages int
	Total      int

	// OutOfRange is true when the requested window starts past the last
	// row of a non-empty collection. A page-1 request against an empty
	// collection is a valid terminal result, not out of range.
	OutOfRange bool

	// RedirectTo is the last real page; only meaningful when OutOfRange.
	RedirectTo int
}

// NewPlan windows a total of `total` rows into pages of `pageSize` and
// resolves the requested page. Page numbers below 1 are clamped to 1.
func NewPlan(page, pageSize, total int) Plan {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	totalPages := (total + pageSize - 1) / pageSize
	offset := (page - 1) * pageSize

	p := Plan{
		Page:       page,
		PageSize:   pageSize,
		Offset:     offset,
		TotalPages: totalPages,
		Total:      total,
	}

	// Past the end with rows skipped: recoverable, point at the last page.
	if offset >= total && offset > 0 {
		p.OutOfRange = true
		p.RedirectTo = totalPages
	}

	return p
}

// Limit returns the page size for a SQL LIMIT clause.
func (p Plan) Limit() int {
	return p.PageSize
}
