// Package catalog holds the immutable per-load product store and the pure
// query engine that derives a visible page from it.
package catalog

import (
	"github.com/xenking/shopview/internal/domain/product"
)

// Store is an immutable snapshot of the product catalog. It is built once
// per successful feed load and shared read-only between sessions.
type Store struct {
	products   []product.Product
	byID       map[int]int // product id -> index into products
	categories []string    // distinct labels, first-seen order
}

// NewStore builds a Store from the feed result. Feed order is preserved;
// it defines the "default" sort and the category list order.
func NewStore(products []product.Product) *Store {
	s := &Store{
		products: products,
		byID:     make(map[int]int, len(products)),
	}
	seen := make(map[string]struct{})
	for i, p := range products {
		if _, dup := s.byID[p.ID]; !dup {
			s.byID[p.ID] = i
		}
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			s.categories = append(s.categories, p.Category)
		}
	}
	return s
}

// Products returns all products in feed order. Callers must not mutate the
// returned slice.
func (s *Store) Products() []product.Product {
	return s.products
}

// ByID looks up a product by its id.
func (s *Store) ByID(id int) (product.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return product.Product{}, false
	}
	return s.products[i], true
}

// Categories returns the distinct category labels in first-seen order,
// suitable for populating a category selector.
func (s *Store) Categories() []string {
	return s.categories
}

// Len returns the number of products in the store.
func (s *Store) Len() int {
	return len(s.products)
}
