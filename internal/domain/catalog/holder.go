package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-faster/errors"

	"github.com/xenking/shopview/internal/domain/product"
)

// ErrNotLoaded is returned by Holder.Store before a successful load.
var ErrNotLoaded = errors.New("catalog not loaded")

// Holder owns the current catalog snapshot. The store pointer is swapped
// atomically on a successful load, so readers never observe partial data.
// A failed load keeps the previous snapshot (nil on first load) and retains
// the error for the retry-capable error state.
type Holder struct {
	source product.Source

	store atomic.Pointer[Store]

	mu      sync.Mutex // serializes Load calls; lastErr writes
	lastErr error
}

// NewHolder creates a Holder backed by the given feed source. No fetch
// happens until Load is called.
func NewHolder(source product.Source) *Holder {
	return &Holder{source: source}
}

// Load fetches the product feed and swaps in a fresh Store. It may be called
// again after a failure to retry the whole fetch+initialize sequence.
func (h *Holder) Load(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	products, err := h.source.FetchProducts(ctx)
	if err != nil {
		h.lastErr = err
		return errors.Wrap(err, "fetch products")
	}

	h.store.Store(NewStore(products))
	h.lastErr = nil
	return nil
}

// Store returns the current snapshot, or false when no load has succeeded yet.
func (h *Holder) Store() (*Store, bool) {
	s := h.store.Load()
	return s, s != nil
}

// Err returns the error from the most recent failed load, or nil.
func (h *Holder) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErr
}

// Ready reports whether a catalog snapshot is available.
func (h *Holder) Ready() bool {
	return h.store.Load() != nil
}
