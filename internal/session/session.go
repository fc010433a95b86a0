// Package session owns the mutable per-session state of the catalog browser:
// filters, pagination cursor, cart, wishlist, overlay, and transient notices.
// Every mutation goes through Session.Apply and ends with a freshly derived
// render frame, so badges and counters can never drift from the state they
// are derived from.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/shopview/internal/domain/cart"
	"github.com/xenking/shopview/internal/domain/catalog"
	"github.com/xenking/shopview/internal/domain/order"
	"github.com/xenking/shopview/internal/domain/wishlist"
)

// Config holds the tunables for a session.
type Config struct {
	// PageSize is the fixed number of products per page. Defaults to 10.
	PageSize int
	// NoticeTTL is how long a notice stays active. Defaults to 3s.
	NoticeTTL time.Duration
	// Now overrides the time source, for tests. Defaults to time.Now.
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.PageSize <= 0 {
		c.PageSize = 10
	}
	if c.NoticeTTL <= 0 {
		c.NoticeTTL = 3 * time.Second
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

type filters struct {
	search   string
	category string
	sort     catalog.SortMode
}

type overlay struct {
	kind      OverlayKind
	productID int
}

// Session is the view-state reconciliation engine for one user session.
// Each mutation+recompute pair is one critical section under mu, so a frame
// never observes a half-applied command.
type Session struct {
	holder *catalog.Holder
	cfg    Config

	mu        sync.Mutex
	filters   filters
	page      int
	cart      *cart.Cart
	wishlist  *wishlist.Wishlist
	overlay   overlay
	notices   *noticeBoard
	lastOrder *order.Confirmation
	lastSeen  time.Time

	onRender func(Frame)
}

// New creates a session with empty cart and wishlist, default filters, and
// page 1. The holder may not have a loaded catalog yet; the session renders
// a loading or failed state until it does.
func New(holder *catalog.Holder, cfg Config) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		holder:   holder,
		cfg:      cfg,
		filters:  filters{sort: catalog.SortDefault},
		page:     1,
		cart:     cart.New(),
		wishlist: wishlist.New(),
		overlay:  overlay{kind: OverlayNone},
		notices:  newNoticeBoard(cfg.NoticeTTL),
		lastSeen: cfg.Now(),
	}
}

// OnRender registers a hook invoked with the fresh frame after every
// mutation. The hook runs with the session lock held and must not call back
// into the session.
func (s *Session) OnRender(fn func(Frame)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRender = fn
}

// Apply dispatches a command, mutates the session state accordingly, and
// returns the resulting frame. Commands referencing unknown product ids are
// silent no-ops; malformed commands return an error without mutating state.
func (s *Session) Apply(cmd Command) (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.cfg.Now()

	switch cmd.Kind {
	case CmdSearchChanged:
		s.filters.search = cmd.Text
		s.page = 1
	case CmdCategoryChanged:
		s.filters.category = cmd.Text
		s.page = 1
	case CmdSortChanged:
		mode := catalog.SortMode(cmd.Text)
		if !catalog.ValidSortMode(mode) {
			return Frame{}, ErrInvalidSort
		}
		s.filters.sort = mode
		s.page = 1
	case CmdPageChanged:
		if cmd.Page < 1 {
			return Frame{}, ErrInvalidPage
		}
		s.page = cmd.Page
	case CmdAddToCart:
		s.addToCart(cmd.ProductID)
	case CmdSetQuantity:
		s.setQuantity(cmd.ProductID, cmd.Quantity)
	case CmdRemoveFromCart:
		s.removeFromCart(cmd.ProductID)
	case CmdToggleWishlist:
		s.toggleWishlist(cmd.ProductID)
	case CmdOpenCart:
		s.overlay = overlay{kind: OverlayCart}
	case CmdCloseCart, CmdCloseWishlist, CmdCloseProductDetail, CmdDismiss:
		s.overlay = overlay{kind: OverlayNone}
	case CmdOpenWishlist:
		s.overlay = overlay{kind: OverlayWishlist}
	case CmdOpenProductDetail:
		s.openDetail(cmd.ProductID)
	case CmdCheckout:
		s.checkout()
	default:
		return Frame{}, ErrUnknownCommand
	}

	frame := s.buildFrame()
	if s.onRender != nil {
		s.onRender(frame)
	}
	return frame, nil
}

// Frame derives the current render frame without mutating any state beyond
// pruning expired notices.
func (s *Session) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.cfg.Now()
	return s.buildFrame()
}

// LastSeen returns the time of the most recent command or frame access.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) addToCart(productID int) {
	store, ok := s.holder.Store()
	if !ok {
		return
	}
	p, ok := store.ByID(productID)
	if !ok {
		return
	}
	s.cart.Add(p)
	s.notices.push(s.cfg.Now(), NoticeSuccess, fmt.Sprintf("Added %s to cart", p.Title))
}

func (s *Session) setQuantity(productID, quantity int) {
	if quantity <= 0 {
		s.removeFromCart(productID)
		return
	}
	s.cart.SetQuantity(productID, quantity)
}

func (s *Session) removeFromCart(productID int) {
	if s.cart.Remove(productID) {
		s.notices.push(s.cfg.Now(), NoticeSuccess, "Item removed from cart")
	}
}

func (s *Session) toggleWishlist(productID int) {
	store, ok := s.holder.Store()
	if !ok {
		return
	}
	if _, ok := store.ByID(productID); !ok {
		return
	}
	if s.wishlist.Toggle(productID) {
		s.notices.push(s.cfg.Now(), NoticeSuccess, "Added to wishlist")
	} else {
		s.notices.push(s.cfg.Now(), NoticeError, "Removed from wishlist")
	}
}

func (s *Session) openDetail(productID int) {
	store, ok := s.holder.Store()
	if !ok {
		return
	}
	if _, ok := store.ByID(productID); !ok {
		return
	}
	s.overlay = overlay{kind: OverlayDetail, productID: productID}
}

// checkout validates the cart, builds a confirmation from the snapshotted
// line prices, and resets the cart. The wishlist is untouched.
func (s *Session) checkout() {
	now := s.cfg.Now()
	conf, err := order.Place(now, s.cart.ItemCount(), s.cart.SnapshotTotal())
	if err != nil {
		s.notices.push(now, NoticeError, "Your cart is empty!")
		return
	}

	s.lastOrder = &conf
	s.cart.Clear()
	if s.overlay.kind == OverlayCart {
		s.overlay = overlay{kind: OverlayNone}
	}
	s.notices.push(now, NoticeSuccess,
		fmt.Sprintf("Order placed successfully! Total: $%s", conf.TotalAmount.StringFixed(2)))
}

// buildFrame derives the full render frame from the current state. Must be
// called with mu held.
func (s *Session) buildFrame() Frame {
	now := s.cfg.Now()
	frame := Frame{
		CatalogState:  CatalogLoading,
		Page:          s.page,
		Search:        s.filters.search,
		Category:      s.filters.category,
		Sort:          s.filters.sort,
		CartCount:     s.cart.ItemCount(),
		CartTotal:     decimal.Zero,
		WishlistCount: s.wishlist.Count(),
		Overlay:       OverlayView{Kind: s.overlay.kind},
		Notices:       s.notices.active(now),
		LastOrder:     s.lastOrder,
	}

	store, ok := s.holder.Store()
	if !ok {
		if err := s.holder.Err(); err != nil {
			frame.CatalogState = CatalogFailed
			frame.CatalogError = err.Error()
		}
		return frame
	}

	view := catalog.Compute(store, catalog.Query{
		Search:   s.filters.search,
		Category: s.filters.category,
		Sort:     s.filters.sort,
		Page:     s.page,
		PageSize: s.cfg.PageSize,
	})

	frame.CatalogState = CatalogReady
	frame.Items = view.Items
	frame.TotalMatched = view.TotalMatched
	frame.TotalPages = view.TotalPages(s.cfg.PageSize)
	frame.Categories = store.Categories()
	frame.CartTotal = s.cart.Total(store.ByID)
	frame.Overlay = s.buildOverlay(store)
	return frame
}

// buildOverlay resolves the open overlay's contents against the catalog.
// The cart overlay re-resolves current catalog prices for display; the
// checkout totals path uses the stored snapshots instead.
func (s *Session) buildOverlay(store *catalog.Store) OverlayView {
	ov := OverlayView{Kind: s.overlay.kind}
	switch s.overlay.kind {
	case OverlayDetail:
		if p, ok := store.ByID(s.overlay.productID); ok {
			ov.Detail = &p
		} else {
			ov.Kind = OverlayNone
		}
	case OverlayCart:
		for _, l := range s.cart.Lines() {
			p, ok := store.ByID(l.ProductID)
			if !ok {
				continue
			}
			ov.CartLines = append(ov.CartLines, CartLineView{
				Product:   p,
				Quantity:  l.Quantity,
				LineTotal: p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
			})
		}
	case OverlayWishlist:
		for _, p := range store.Products() {
			if s.wishlist.Contains(p.ID) {
				ov.Wishlist = append(ov.Wishlist, p)
			}
		}
	}
	return ov
}
