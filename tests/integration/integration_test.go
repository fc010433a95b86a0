//go:build integration

// Package integration contains black-box tests that exercise the full HTTP
// stack: middleware chain, health endpoints, and the session API, backed by
// a local catalog feed.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	mnoop "go.opentelemetry.io/otel/metric/noop"
	tnoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/xenking/shopview/internal/domain/catalog"
	"github.com/xenking/shopview/internal/httpapi"
	"github.com/xenking/shopview/internal/session"
	"github.com/xenking/shopview/internal/source/dummyjson"
	"github.com/xenking/shopview/pkg/health"
	"github.com/xenking/shopview/pkg/httpmiddleware"
)

var (
	baseURL    string
	httpClient = &http.Client{Timeout: 10 * time.Second}
)

const feedBody = `{
	"products": [
		{"id": 1, "title": "Red Shirt", "description": "A red shirt", "category": "clothing", "price": 10.00, "discountPercentage": 0, "rating": 4.1, "stock": 12, "brand": "Acme", "thumbnail": "red.png"},
		{"id": 2, "title": "Blue Mug", "description": "A blue mug", "category": "kitchen", "price": 5.00, "discountPercentage": 2.5, "rating": 4.8, "stock": 40, "brand": "Acme", "thumbnail": "mug.png"},
		{"id": 3, "title": "Laptop", "description": "A fast laptop", "category": "electronics", "price": 999.99, "discountPercentage": 10, "rating": 4.5, "stock": 3, "brand": "Compute", "thumbnail": "laptop.png"}
	],
	"total": 3, "skip": 0, "limit": 3
}`

func TestMain(m *testing.M) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, feedBody)
	}))
	defer feed.Close()

	holder := catalog.NewHolder(dummyjson.New(feed.URL))
	if err := holder.Load(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "catalog load:", err)
		os.Exit(1)
	}

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddReadinessCheck("catalog", time.Second, func(_ context.Context) error {
		if holder.Ready() {
			return nil
		}
		return catalog.ErrNotLoaded
	})
	healthSvc.SetReady(true)

	hub := session.NewHub(holder, session.Config{PageSize: 10, NoticeTTL: 3 * time.Second}, 30*time.Minute)

	apiHandler, err := httpapi.NewHandler(hub, holder, mnoop.NewMeterProvider(), tnoop.NewTracerProvider())
	if err != nil {
		fmt.Fprintln(os.Stderr, "create api handler:", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", http.StripPrefix("/api", apiHandler.Routes()))

	handler := httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowHeaders: []string{"Content-Type", httpapi.SessionHeader},
			MaxAge:       86400,
		}),
		httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
			Max:    1000,
			Window: time.Minute,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(zap.NewNop()),
		httpmiddleware.LogRequests(),
	)

	server := httptest.NewServer(handler)
	defer server.Close()
	baseURL = server.URL

	os.Exit(m.Run())
}

type frameResponse struct {
	CatalogState string `json:"catalogState"`
	Items        []struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
		Price string `json:"price"`
	} `json:"items"`
	TotalMatched int      `json:"totalMatched"`
	Page         int      `json:"page"`
	Categories   []string `json:"categories"`
	CartCount    int      `json:"cartCount"`
	CartTotal    string   `json:"cartTotal"`
	Notices      []struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"notices"`
	LastOrder *struct {
		Ref         string `json:"ref"`
		TotalItems  int    `json:"totalItems"`
		TotalAmount string `json:"totalAmount"`
	} `json:"lastOrder"`
}

type sessionResponse struct {
	SessionID string        `json:"sessionId"`
	Frame     frameResponse `json:"frame"`
}

func doGet(t *testing.T, path string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func doPost(t *testing.T, path, sessionID, payload string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader([]byte(payload)))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(httpapi.SessionHeader, sessionID)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func createSession(t *testing.T) sessionResponse {
	t.Helper()
	resp, body := doPost(t, "/api/session", "", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: status %d, body %s", resp.StatusCode, body)
	}
	var out sessionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode session response: %v", err)
	}
	if out.SessionID == "" {
		t.Fatal("create session: empty session id")
	}
	return out
}

func TestHealthEndpoints(t *testing.T) {
	resp, _ := doGet(t, "/livez", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("livez: status %d, want %d", resp.StatusCode, http.StatusOK)
	}

	resp, body := doGet(t, "/readyz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("readyz: status %d, want %d, body %s", resp.StatusCode, http.StatusOK, body)
	}
}

func TestSessionInitialFrame(t *testing.T) {
	s := createSession(t)

	if s.Frame.CatalogState != "ready" {
		t.Errorf("catalog state = %q, want ready", s.Frame.CatalogState)
	}
	if s.Frame.TotalMatched != 3 {
		t.Errorf("total matched = %d, want 3", s.Frame.TotalMatched)
	}
	if s.Frame.Page != 1 {
		t.Errorf("page = %d, want 1", s.Frame.Page)
	}
	if len(s.Frame.Categories) != 3 {
		t.Errorf("categories = %v, want 3 entries", s.Frame.Categories)
	}
}

func TestCartAndCheckoutFlow(t *testing.T) {
	s := createSession(t)

	resp, body := doPost(t, "/api/command", s.SessionID, `{"kind": "add-to-cart", "productId": 1}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add-to-cart: status %d, body %s", resp.StatusCode, body)
	}
	var frame frameResponse
	if err := json.Unmarshal(body, &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if frame.CartCount != 1 {
		t.Errorf("cart count = %d, want 1", frame.CartCount)
	}
	if frame.CartTotal != "10.00" {
		t.Errorf("cart total = %q, want 10.00", frame.CartTotal)
	}

	resp, body = doPost(t, "/api/command", s.SessionID, `{"kind": "set-quantity", "productId": 1, "quantity": 3}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set-quantity: status %d, body %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if frame.CartTotal != "30.00" {
		t.Errorf("cart total = %q, want 30.00", frame.CartTotal)
	}

	resp, body = doPost(t, "/api/command", s.SessionID, `{"kind": "checkout"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("checkout: status %d, body %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if frame.CartCount != 0 {
		t.Errorf("cart count after checkout = %d, want 0", frame.CartCount)
	}
	if frame.LastOrder == nil {
		t.Fatal("last order missing after checkout")
	}
	if !strings.HasPrefix(frame.LastOrder.Ref, "ORD-") {
		t.Errorf("order ref = %q, want ORD- prefix", frame.LastOrder.Ref)
	}
	if frame.LastOrder.TotalAmount != "30.00" {
		t.Errorf("order total = %q, want 30.00", frame.LastOrder.TotalAmount)
	}
}

func TestFilterCommands(t *testing.T) {
	s := createSession(t)

	resp, body := doPost(t, "/api/command", s.SessionID, `{"kind": "search-changed", "text": "laptop"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search-changed: status %d, body %s", resp.StatusCode, body)
	}
	var frame frameResponse
	if err := json.Unmarshal(body, &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if frame.TotalMatched != 1 {
		t.Errorf("total matched = %d, want 1", frame.TotalMatched)
	}
	if len(frame.Items) != 1 || frame.Items[0].ID != 3 {
		t.Errorf("items = %v, want single laptop", frame.Items)
	}
}

func TestUnknownSession(t *testing.T) {
	resp, _ := doGet(t, "/api/view", map[string]string{httpapi.SessionHeader: "nonexistent"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session: status %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	resp, _ = doGet(t, "/api/view", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing session header: status %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestRequestIDGenerated(t *testing.T) {
	resp, _ := doGet(t, "/livez", nil)
	if got := resp.Header.Get("X-Request-ID"); got == "" {
		t.Error("X-Request-ID header not set on response")
	}
}

func TestRequestIDEchoed(t *testing.T) {
	const id = "integration-test-request-id"
	resp, _ := doGet(t, "/livez", map[string]string{"X-Request-ID": id})
	if got := resp.Header.Get("X-Request-ID"); got != id {
		t.Errorf("X-Request-ID = %q, want %q", got, id)
	}
}

func TestCORSPreflight(t *testing.T) {
	req, err := http.NewRequest(http.MethodOptions, baseURL+"/api/session", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight: status %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRateLimitExceeded(t *testing.T) {
	// A separate server with a tight limit so the shared one stays usable.
	limited := httptest.NewServer(httpmiddleware.Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		httpmiddleware.RateLimit(httpmiddleware.RateLimitConfig{Max: 3, Window: time.Minute}),
	))
	defer limited.Close()

	var got429 bool
	for i := 0; i < 10; i++ {
		resp, err := httpClient.Get(limited.URL)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			got429 = true
			break
		}
	}
	if !got429 {
		t.Error("never received 429 after exhausting the limit")
	}
}
