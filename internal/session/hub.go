package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xenking/shopview/internal/domain/catalog"
)

// Hub tracks live sessions for the HTTP host. Sessions are identified by
// opaque UUIDs and evicted after a period of inactivity.
type Hub struct {
	holder *catalog.Holder
	cfg    Config
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewHub creates a Hub that builds sessions against the given catalog holder.
// Sessions idle longer than ttl are removed by the eviction loop.
func NewHub(holder *catalog.Holder, cfg Config, ttl time.Duration) *Hub {
	return &Hub{
		holder:   holder,
		cfg:      cfg,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create starts a fresh session and returns its id.
func (h *Hub) Create() (string, *Session) {
	id := uuid.New().String()
	s := New(h.holder, h.cfg)

	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()
	return id, s
}

// Get returns the session for the given id.
func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// StartEviction launches a goroutine that periodically drops sessions whose
// last activity is older than the hub TTL. It stops when ctx is cancelled.
func (h *Hub) StartEviction(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				h.evict(now)
			}
		}
	}()
}

func (h *Hub) evict(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.sessions {
		if now.Sub(s.LastSeen()) > h.ttl {
			delete(h.sessions, id)
		}
	}
}
