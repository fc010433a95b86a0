package session

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/shopview/internal/domain/catalog"
	"github.com/xenking/shopview/internal/domain/order"
	"github.com/xenking/shopview/internal/domain/product"
)

// CatalogState describes whether a usable catalog snapshot exists.
type CatalogState string

const (
	// CatalogLoading means no load has completed yet.
	CatalogLoading CatalogState = "loading"
	// CatalogReady means a snapshot is available.
	CatalogReady CatalogState = "ready"
	// CatalogFailed means the most recent load failed; a retry is possible.
	CatalogFailed CatalogState = "failed"
)

// OverlayKind identifies the currently open overlay, if any. Overlays are
// mutually exclusive; a universal dismiss closes whichever is open.
type OverlayKind string

const (
	OverlayNone     OverlayKind = "none"
	OverlayCart     OverlayKind = "cart"
	OverlayWishlist OverlayKind = "wishlist"
	OverlayDetail   OverlayKind = "detail"
)

// CartLineView is one cart line resolved against the current catalog for
// rendering. LineTotal uses the current catalog price, not the stored
// snapshot (the snapshot is the checkout path).
type CartLineView struct {
	Product   product.Product
	Quantity  int
	LineTotal decimal.Decimal
}

// OverlayView carries the data needed to render the open overlay.
type OverlayView struct {
	Kind OverlayKind
	// Detail is set for the detail overlay.
	Detail *product.Product
	// CartLines is set for the cart overlay.
	CartLines []CartLineView
	// Wishlist is set for the wishlist overlay, in catalog order.
	Wishlist []product.Product
}

// Frame is everything the presentation layer needs after a mutation: the
// visible product slice plus all derived badges and counters. It is rebuilt
// from scratch on every access, never patched incrementally.
type Frame struct {
	CatalogState CatalogState
	// CatalogError holds the load failure message when CatalogState is failed.
	CatalogError string

	Items        []product.Product
	TotalMatched int
	TotalPages   int
	Page         int

	Search     string
	Category   string
	Sort       catalog.SortMode
	Categories []string

	CartCount     int
	CartTotal     decimal.Decimal
	WishlistCount int

	Overlay OverlayView
	Notices []Notice

	// LastOrder is the confirmation of the most recent checkout in this
	// session, nil before the first successful checkout.
	LastOrder *order.Confirmation
}
