// Package order models the local checkout result. Checkout here is a state
// reset plus a generated reference, not a transaction: nothing is persisted
// and no payment happens.
package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrEmptyCart is returned when checkout is attempted with no cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// RefPrefix starts every generated order reference.
const RefPrefix = "ORD-"

// Confirmation summarizes a completed checkout.
type Confirmation struct {
	// Ref is the generated order reference, e.g. "ORD-M3K9Z1QT".
	Ref string
	// TotalItems is the sum of line quantities.
	TotalItems int
	// TotalAmount is the sum of snapshotted unit price times quantity.
	TotalAmount decimal.Decimal
	PlacedAt    time.Time
}

// NewRef generates an order reference from the given time: the prefix plus
// the uppercase base-36 encoding of the unix millisecond timestamp. Calls at
// distinct milliseconds yield distinct, monotonically increasing references.
func NewRef(now time.Time) string {
	return RefPrefix + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
}

// Place builds a confirmation for the given cart summary. It fails with
// ErrEmptyCart when there is nothing to check out.
func Place(now time.Time, totalItems int, totalAmount decimal.Decimal) (Confirmation, error) {
	if totalItems == 0 {
		return Confirmation{}, ErrEmptyCart
	}
	return Confirmation{
		Ref:         NewRef(now),
		TotalItems:  totalItems,
		TotalAmount: totalAmount,
		PlacedAt:    now,
	}, nil
}
