// Package snapshot loads the product catalog from a local file written by
// cmd/catalog-dump: either a raw JSON products envelope or the same payload
// compressed with gzip (decompressed in parallel via pgzip). Useful for
// offline development and deterministic tests.
package snapshot

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/xenking/shopview/internal/domain/product"
	"github.com/xenking/shopview/internal/source/dummyjson"
)

// Source reads products from a snapshot file. Files ending in .gz are
// transparently decompressed.
type Source struct {
	path string
}

// New creates a Source for the given snapshot path.
func New(path string) *Source {
	return &Source{path: path}
}

var _ product.Source = (*Source)(nil)

// FetchProducts reads and decodes the snapshot.
func (s *Source) FetchProducts(_ context.Context) ([]product.Product, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrap(err, "open snapshot")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(s.path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip reader")
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read snapshot")
	}

	products, _, err := dummyjson.DecodePage(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	return products, nil
}
