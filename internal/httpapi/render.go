package httpapi

import (
	"github.com/xenking/shopview/internal/domain/product"
	"github.com/xenking/shopview/internal/session"
)

// Wire DTOs for the render frame. Money is serialized as fixed two-decimal
// strings so clients never do float math on prices.

type productDTO struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Price              string   `json:"price"`
	DiscountPercentage string   `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images,omitempty"`
}

type noticeDTO struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type cartLineDTO struct {
	Product   productDTO `json:"product"`
	Quantity  int        `json:"quantity"`
	LineTotal string     `json:"lineTotal"`
}

type overlayDTO struct {
	Kind      string        `json:"kind"`
	Detail    *productDTO   `json:"detail,omitempty"`
	CartLines []cartLineDTO `json:"cartLines,omitempty"`
	Wishlist  []productDTO  `json:"wishlist,omitempty"`
}

type orderDTO struct {
	Ref         string `json:"ref"`
	TotalItems  int    `json:"totalItems"`
	TotalAmount string `json:"totalAmount"`
	PlacedAt    string `json:"placedAt"`
}

type frameDTO struct {
	CatalogState string `json:"catalogState"`
	CatalogError string `json:"catalogError,omitempty"`

	Items        []productDTO `json:"items"`
	TotalMatched int          `json:"totalMatched"`
	TotalPages   int          `json:"totalPages"`
	Page         int          `json:"page"`

	Search     string   `json:"search"`
	Category   string   `json:"category"`
	Sort       string   `json:"sort"`
	Categories []string `json:"categories"`

	CartCount     int    `json:"cartCount"`
	CartTotal     string `json:"cartTotal"`
	WishlistCount int    `json:"wishlistCount"`

	Overlay   overlayDTO  `json:"overlay"`
	Notices   []noticeDTO `json:"notices"`
	LastOrder *orderDTO   `json:"lastOrder,omitempty"`
}

func toProductDTO(p product.Product) productDTO {
	return productDTO{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Category:           p.Category,
		Price:              p.Price.StringFixed(2),
		DiscountPercentage: p.DiscountPercentage.String(),
		Rating:             p.Rating,
		Stock:              p.Stock,
		Brand:              p.Brand,
		Thumbnail:          p.Thumbnail,
		Images:             p.Images,
	}
}

func toProductDTOs(products []product.Product) []productDTO {
	out := make([]productDTO, len(products))
	for i, p := range products {
		out[i] = toProductDTO(p)
	}
	return out
}

func toFrameDTO(f session.Frame) frameDTO {
	dto := frameDTO{
		CatalogState:  string(f.CatalogState),
		CatalogError:  f.CatalogError,
		Items:         toProductDTOs(f.Items),
		TotalMatched:  f.TotalMatched,
		TotalPages:    f.TotalPages,
		Page:          f.Page,
		Search:        f.Search,
		Category:      f.Category,
		Sort:          string(f.Sort),
		Categories:    f.Categories,
		CartCount:     f.CartCount,
		CartTotal:     f.CartTotal.StringFixed(2),
		WishlistCount: f.WishlistCount,
		Overlay:       overlayDTO{Kind: string(f.Overlay.Kind)},
		Notices:       make([]noticeDTO, 0, len(f.Notices)),
	}

	if f.Overlay.Detail != nil {
		d := toProductDTO(*f.Overlay.Detail)
		dto.Overlay.Detail = &d
	}
	for _, l := range f.Overlay.CartLines {
		dto.Overlay.CartLines = append(dto.Overlay.CartLines, cartLineDTO{
			Product:   toProductDTO(l.Product),
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal.StringFixed(2),
		})
	}
	dto.Overlay.Wishlist = toProductDTOs(f.Overlay.Wishlist)

	for _, n := range f.Notices {
		dto.Notices = append(dto.Notices, noticeDTO{
			ID:      n.ID,
			Kind:    string(n.Kind),
			Message: n.Message,
		})
	}

	if f.LastOrder != nil {
		dto.LastOrder = &orderDTO{
			Ref:         f.LastOrder.Ref,
			TotalItems:  f.LastOrder.TotalItems,
			TotalAmount: f.LastOrder.TotalAmount.StringFixed(2),
			PlacedAt:    f.LastOrder.PlacedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		}
	}
	return dto
}
