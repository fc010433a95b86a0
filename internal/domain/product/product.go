package product

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product represents a single catalog item as delivered by the remote
// catalog feed. Instances are immutable once loaded.
type Product struct {
	ID                 int
	Title              string
	Description        string
	Category           string
	Price              decimal.Decimal
	DiscountPercentage decimal.Decimal
	Rating             float64
	Stock              int
	Brand              string
	Thumbnail          string
	Images             []string
}

// Source loads the full product list from an external feed. Implementations
// must return products in feed order; the catalog store preserves it.
type Source interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}
