package catalog

import (
	"sort"
	"strings"

	"github.com/xenking/shopview/internal/domain/product"
)

// SortMode enumerates the supported result orderings.
type SortMode string

const (
	// SortDefault keeps the original catalog order.
	SortDefault SortMode = "default"
	// SortPriceLow orders by ascending price.
	SortPriceLow SortMode = "price-low"
	// SortPriceHigh orders by descending price.
	SortPriceHigh SortMode = "price-high"
	// SortRating orders by descending rating.
	SortRating SortMode = "rating"
)

// ValidSortMode reports whether m is one of the supported sort modes.
func ValidSortMode(m SortMode) bool {
	switch m {
	case SortDefault, SortPriceLow, SortPriceHigh, SortRating:
		return true
	}
	return false
}

// Query describes one derivation of the visible product page.
type Query struct {
	// Search is matched case-insensitively as a substring of the product
	// title, description, or category. Empty means no search filter.
	Search string
	// Category must exactly equal the product category. Empty means no
	// category filter.
	Category string
	Sort     SortMode
	// Page is 1-indexed. Out-of-range pages yield an empty slice.
	Page     int
	PageSize int
}

// View is the result of running a Query against a Store.
type View struct {
	// Items is the visible slice for the requested page.
	Items []product.Product
	// TotalMatched counts all products passing the filters, across pages.
	TotalMatched int
}

// TotalPages returns the page count for the given page size.
func (v View) TotalPages(pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (v.TotalMatched + pageSize - 1) / pageSize
}

// Compute runs the filter, sort, paginate pipeline. It is pure: identical
// inputs produce identical output, and the store is never mutated.
func Compute(s *Store, q Query) View {
	matched := filter(s.Products(), q.Search, q.Category)
	applySort(matched, q.Sort)

	total := len(matched)
	return View{
		Items:        page(matched, q.Page, q.PageSize),
		TotalMatched: total,
	}
}

func filter(products []product.Product, search, category string) []product.Product {
	needle := strings.ToLower(search)
	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if needle != "" && !matchesSearch(p, needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// matchesSearch reports whether needle (already lowercased) occurs in the
// product title, description, or category.
func matchesSearch(p product.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle)
}

// applySort orders products in place. Stability is required: products with
// equal keys keep their relative catalog order.
func applySort(products []product.Product, mode SortMode) {
	switch mode {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	default:
		// Catalog order, nothing to do.
	}
}

// page slices out the requested 1-indexed page. Out-of-range indices yield
// fewer or zero items, never an error.
func page(products []product.Product, pageNum, pageSize int) []product.Product {
	if pageNum < 1 || pageSize <= 0 {
		return nil
	}
	start := (pageNum - 1) * pageSize
	if start >= len(products) {
		return nil
	}
	end := min(start+pageSize, len(products))
	return products[start:end]
}
