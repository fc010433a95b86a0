// Package wishlist implements wishlist membership: a set of product ids with
// a single toggle mutator.
package wishlist

// Wishlist is a set of product ids. The zero value is not usable; call New.
type Wishlist struct {
	ids map[int]struct{}
}

// New creates an empty wishlist.
func New() *Wishlist {
	return &Wishlist{ids: make(map[int]struct{})}
}

// Toggle flips membership for the given product id and reports whether the
// id is now present. Toggling twice restores the original state.
func (w *Wishlist) Toggle(productID int) (added bool) {
	if _, ok := w.ids[productID]; ok {
		delete(w.ids, productID)
		return false
	}
	w.ids[productID] = struct{}{}
	return true
}

// Contains reports membership for the given product id.
func (w *Wishlist) Contains(productID int) bool {
	_, ok := w.ids[productID]
	return ok
}

// Count returns the number of wishlisted products.
func (w *Wishlist) Count() int {
	return len(w.ids)
}
