package client

import (
	"sort"
	"strings"
)

// CategoryAll matches every category when used as a filter value.
const CategoryAll = "All"

// Sort names a catalog ordering.
type Sort string

const (
	SortNameAsc    Sort = "name_asc"
	SortPriceAsc   Sort = "price_asc"
	SortRatingDesc Sort = "rating_desc"
)

// FilterOptions narrows the catalog by search term and category.
type FilterOptions struct {
	SearchTerm string
	Category   string
}

// FilterTemplates keeps the templates whose title or description
// contains the search term case-insensitively and whose category
// matches. A blank term matches everything, as does CategoryAll.
func FilterTemplates(templates []Template, opts FilterOptions) []Template {
	term := strings.ToLower(strings.TrimSpace(opts.SearchTerm))
	category := strings.TrimSpace(opts.Category)

	matched := make([]Template, 0, len(templates))
	for _, candidate := range templates {
		if term != "" &&
			!strings.Contains(strings.ToLower(candidate.Title), term) &&
			!strings.Contains(strings.ToLower(candidate.Description), term) {
			continue
		}
		if category != "" && category != CategoryAll && candidate.Category != category {
			continue
		}
		matched = append(matched, candidate)
	}
	return matched
}

// SortTemplates returns the templates in the requested order without
// mutating the input. Ties always break on id so the order is
// deterministic; an unknown sort falls back to name ascending.
func SortTemplates(templates []Template, sortBy Sort) []Template {
	sorted := append([]Template(nil), templates...)

	var less func(a, b Template) bool
	switch sortBy {
	case SortPriceAsc:
		less = func(a, b Template) bool {
			if a.PriceCents != b.PriceCents {
				return a.PriceCents < b.PriceCents
			}
			return a.ID < b.ID
		}
	case SortRatingDesc:
		less = func(a, b Template) bool {
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
			return a.ID < b.ID
		}
	default:
		less = func(a, b Template) bool {
			if a.Title != b.Title {
				return a.Title < b.Title
			}
			return a.ID < b.ID
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}
