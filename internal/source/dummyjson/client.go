// Package dummyjson fetches the product catalog from a dummyjson-style HTTP
// API: GET {base}/products?limit=N&skip=M returning a JSON envelope with a
// products array and a total count.
package dummyjson

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/shopview/internal/domain/product"
)

// DefaultBaseURL points at the public dummyjson instance.
const DefaultBaseURL = "https://dummyjson.com"

// defaultPageLimit is the per-request product count. dummyjson caps a single
// response at 100 items regardless of the requested limit.
const defaultPageLimit = 100

// Client fetches products over HTTP. The zero value is not usable; call New.
type Client struct {
	base      string
	http      *http.Client
	pageLimit int
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithPageLimit overrides the per-request item limit.
func WithPageLimit(n int) Option {
	return func(c *Client) { c.pageLimit = n }
}

// New creates a Client for the given base URL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:      baseURL,
		http:      http.DefaultClient,
		pageLimit: defaultPageLimit,
	}
	if c.base == "" {
		c.base = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ product.Source = (*Client)(nil)

// FetchProducts retrieves the complete product list in feed order. The first
// page reveals the total count; any remaining pages are fetched concurrently
// and reassembled in order.
func (c *Client) FetchProducts(ctx context.Context) ([]product.Product, error) {
	first, total, err := c.fetchPage(ctx, 0)
	if err != nil {
		return nil, errors.Wrap(err, "fetch first page")
	}
	if total <= len(first) {
		return first, nil
	}

	// Remaining pages, keyed by skip offset so feed order survives the
	// concurrent fetch.
	type chunk struct {
		skip     int
		products []product.Product
	}

	var (
		mu     sync.Mutex
		chunks []chunk
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for skip := len(first); skip < total; skip += c.pageLimit {
		g.Go(func() error {
			products, _, err := c.fetchPage(gctx, skip)
			if err != nil {
				return errors.Wrapf(err, "fetch page at skip %d", skip)
			}
			mu.Lock()
			chunks = append(chunks, chunk{skip: skip, products: products})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].skip < chunks[j].skip })
	all := first
	for _, ch := range chunks {
		all = append(all, ch.products...)
	}
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, skip int) ([]product.Product, int, error) {
	u := fmt.Sprintf("%s/products?limit=%d&skip=%d", c.base, c.pageLimit, skip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, errors.Wrap(err, "read body")
	}

	products, total, err := DecodePage(body)
	if err != nil {
		return nil, 0, errors.Wrap(err, "decode body")
	}
	return products, total, nil
}

// DecodePage parses a products envelope: {"products": [...], "total": N}.
func DecodePage(data []byte) ([]product.Product, int, error) {
	var (
		products []product.Product
		total    int
	)
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "products":
			return d.Arr(func(d *jx.Decoder) error {
				p, err := decodeProduct(d)
				if err != nil {
					return err
				}
				products = append(products, p)
				return nil
			})
		case "total":
			n, err := d.Int()
			if err != nil {
				return err
			}
			total = n
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		total = len(products)
	}
	return products, total, nil
}

// decodeProduct parses one product object. Prices are decoded from the raw
// JSON number text into decimals so no float rounding sneaks in.
func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Int()
		case "title":
			p.Title, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "category":
			p.Category, err = d.Str()
		case "price":
			p.Price, err = decodeDecimal(d)
		case "discountPercentage":
			p.DiscountPercentage, err = decodeDecimal(d)
		case "rating":
			p.Rating, err = d.Float64()
		case "stock":
			p.Stock, err = d.Int()
		case "brand":
			p.Brand, err = d.Str()
		case "thumbnail":
			p.Thumbnail, err = d.Str()
		case "images":
			err = d.Arr(func(d *jx.Decoder) error {
				s, err := d.Str()
				if err != nil {
					return err
				}
				p.Images = append(p.Images, s)
				return nil
			})
		default:
			err = d.Skip()
		}
		return err
	})
	return p, err
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	num, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(num.String())
}
