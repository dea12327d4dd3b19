package templates

import "strings"

// Sort orders accepted by the public catalog listing.
const (
	SortNameAsc    = "name_asc"
	SortPriceAsc   = "price_asc"
	SortRatingDesc = "rating_desc"
)

// CategoryAll matches every category when used as a filter value.
const CategoryAll = "All"

// ListParams narrows and orders the published catalog.
type ListParams struct {
	Search   string
	Category string
	Sort     string
	Limit    int
	Offset   int
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Normalize trims inputs and applies listing defaults.
func (p ListParams) Normalize() ListParams {
	p.Search = strings.TrimSpace(p.Search)
	p.Category = strings.TrimSpace(p.Category)
	if p.Category == CategoryAll {
		p.Category = ""
	}
	switch p.Sort {
	case SortNameAsc, SortPriceAsc, SortRatingDesc:
	default:
		p.Sort = SortNameAsc
	}
	if p.Limit <= 0 || p.Limit > maxListLimit {
		p.Limit = defaultListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
