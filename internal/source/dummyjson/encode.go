package dummyjson

import (
	"github.com/go-faster/jx"

	"github.com/xenking/shopview/internal/domain/product"
)

// EncodePage serializes products into the same envelope DecodePage reads:
// {"products": [...], "total": N}. Used by cmd/catalog-dump to write
// snapshots that the snapshot source can load back.
func EncodePage(products []product.Product) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("products", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, p := range products {
					encodeProduct(e, p)
				}
			})
		})
		e.Field("total", func(e *jx.Encoder) {
			e.Int(len(products))
		})
	})
	return e.Bytes()
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int(p.ID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(p.Title) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		e.Field("price", func(e *jx.Encoder) { e.Raw(jx.Raw(p.Price.String())) })
		e.Field("discountPercentage", func(e *jx.Encoder) { e.Raw(jx.Raw(p.DiscountPercentage.String())) })
		e.Field("rating", func(e *jx.Encoder) { e.Float64(p.Rating) })
		e.Field("stock", func(e *jx.Encoder) { e.Int(p.Stock) })
		e.Field("brand", func(e *jx.Encoder) { e.Str(p.Brand) })
		e.Field("thumbnail", func(e *jx.Encoder) { e.Str(p.Thumbnail) })
		e.Field("images", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, img := range p.Images {
					e.Str(img)
				}
			})
		})
	})
}
