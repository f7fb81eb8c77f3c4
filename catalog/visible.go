package catalog

import (
	"cmp"
	"slices"
	"strings"

	"heritage/appstate"
	"heritage/models"
)

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortName      SortKey = "name"
)

// ParseSortKey maps unknown or empty keys to SortFeatured.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortNewest, SortPriceLow, SortPriceHigh, SortName:
		return k
	}
	return SortFeatured
}

// VisibleProducts filters and orders all for display. It never modifies all,
// and identical arguments always produce the same sequence.
func VisibleProducts(all []models.Product, f appstate.FilterState, query string, key SortKey) []models.Product {
	q := strings.ToLower(query)
	out := make([]models.Product, 0, len(all))
	for _, p := range all {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if q != "" && !matchesLower(p, q) {
			continue
		}
		if f.Occasion != "" && p.Occasion != f.Occasion {
			continue
		}
		if f.PriceRange != nil && !f.PriceRange.Contains(p.Price) {
			continue
		}
		if len(f.Colors) > 0 && !slices.ContainsFunc(p.Colors, func(c string) bool {
			return slices.Contains(f.Colors, c)
		}) {
			continue
		}
		out = append(out, p)
	}
	sortProducts(out, key)
	return out
}

// MatchesQuery is the case-insensitive substring match used by shop search.
func MatchesQuery(p models.Product, query string) bool {
	return matchesLower(p, strings.ToLower(query))
}

func matchesLower(p models.Product, q string) bool {
	for _, field := range []string{p.Name, p.Description, p.Category, p.Occasion, p.Fabric} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func sortProducts(ps []models.Product, key SortKey) {
	switch ParseSortKey(string(key)) {
	case SortNewest:
		slices.SortStableFunc(ps, flagFirst(func(p models.Product) bool { return p.IsNew }))
	case SortPriceLow:
		slices.SortStableFunc(ps, func(a, b models.Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(ps, func(a, b models.Product) int { return cmp.Compare(b.Price, a.Price) })
	case SortName:
		slices.SortStableFunc(ps, func(a, b models.Product) int { return strings.Compare(a.Name, b.Name) })
	default:
		slices.SortStableFunc(ps, flagFirst(func(p models.Product) bool { return p.IsFeatured }))
	}
}

// flagFirst orders products with the flag set ahead of the rest.
func flagFirst(flag func(models.Product) bool) func(a, b models.Product) int {
	return func(a, b models.Product) int {
		fa, fb := flag(a), flag(b)
		switch {
		case fa == fb:
			return 0
		case fa:
			return -1
		default:
			return 1
		}
	}
}

// SearchPreview returns at most limit matches for the header's live search.
// A blank query yields nothing.
func SearchPreview(all []models.Product, query string, limit int) []models.Product {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return []models.Product{}
	}
	q := strings.ToLower(query)
	out := make([]models.Product, 0, limit)
	for _, p := range all {
		if matchesLower(p, q) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Related lists up to limit other products sharing p's category or occasion.
func Related(all []models.Product, p models.Product, limit int) []models.Product {
	out := make([]models.Product, 0, limit)
	for _, other := range all {
		if len(out) == limit {
			break
		}
		if other.ID == p.ID {
			continue
		}
		if other.Category == p.Category || other.Occasion == p.Occasion {
			out = append(out, other)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func Categories(all []models.Product) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range all {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

func FindByID(all []models.Product, id string) (models.Product, bool) {
	for _, p := range all {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
