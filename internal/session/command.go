package session

import (
	"github.com/go-faster/errors"
)

// CommandKind identifies a user-facing command. The values are the wire
// names accepted by the HTTP surface.
type CommandKind string

const (
	CmdSearchChanged      CommandKind = "search-changed"
	CmdCategoryChanged    CommandKind = "category-changed"
	CmdSortChanged        CommandKind = "sort-changed"
	CmdPageChanged        CommandKind = "page-changed"
	CmdAddToCart          CommandKind = "add-to-cart"
	CmdSetQuantity        CommandKind = "set-quantity"
	CmdRemoveFromCart     CommandKind = "remove-from-cart"
	CmdToggleWishlist     CommandKind = "toggle-wishlist"
	CmdOpenCart           CommandKind = "open-cart"
	CmdCloseCart          CommandKind = "close-cart"
	CmdOpenWishlist       CommandKind = "open-wishlist"
	CmdCloseWishlist      CommandKind = "close-wishlist"
	CmdOpenProductDetail  CommandKind = "open-product-detail"
	CmdCloseProductDetail CommandKind = "close-product-detail"
	CmdCheckout           CommandKind = "checkout"
	CmdDismiss            CommandKind = "dismiss"
)

// Sentinel errors for command validation.
var (
	ErrUnknownCommand = errors.New("unknown command kind")
	ErrInvalidSort    = errors.New("invalid sort mode")
	ErrInvalidPage    = errors.New("page must be >= 1")
)

// Command is the tagged union dispatched through Session.Apply. Only the
// fields relevant to Kind are read:
//
//	search-changed                     Text
//	category-changed                   Text
//	sort-changed                       Text (a catalog.SortMode value)
//	page-changed                       Page
//	add-to-cart, remove-from-cart      ProductID
//	toggle-wishlist, open-product-detail ProductID
//	set-quantity                       ProductID, Quantity
//
// The remaining kinds carry no payload.
type Command struct {
	Kind      CommandKind `json:"kind"`
	ProductID int         `json:"productId,omitempty"`
	Text      string      `json:"text,omitempty"`
	Page      int         `json:"page,omitempty"`
	Quantity  int         `json:"quantity,omitempty"`
}
