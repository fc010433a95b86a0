package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/shopview/internal/domain/catalog"
	"github.com/xenking/shopview/internal/domain/product"
	"github.com/xenking/shopview/internal/httpapi"
	"github.com/xenking/shopview/internal/session"
	"github.com/xenking/shopview/internal/source/dummyjson"
	"github.com/xenking/shopview/internal/source/snapshot"
	"github.com/xenking/shopview/pkg/health"
	"github.com/xenking/shopview/pkg/httpmiddleware"
)

// Run creates all dependencies, performs the initial catalog load, starts
// the HTTP server, and handles graceful shutdown. It is the single wiring
// point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// Catalog source: local snapshot takes precedence over the remote feed.
	var source product.Source
	if cfg.SnapshotPath != "" {
		lg.Info("Using snapshot catalog source", zap.String("path", cfg.SnapshotPath))
		source = snapshot.New(cfg.SnapshotPath)
	} else {
		lg.Info("Using remote catalog source", zap.String("url", cfg.CatalogURL))
		source = dummyjson.New(cfg.CatalogURL)
	}

	holder := catalog.NewHolder(source)

	// Initial load. A failure is not fatal: the server starts in the failed
	// catalog state and clients retry via POST /api/catalog/reload.
	if err := holder.Load(ctx); err != nil {
		lg.Error("Initial catalog load failed, serving retry-capable error state", zap.Error(err))
	} else {
		store, _ := holder.Store()
		lg.Info("Catalog loaded",
			zap.Int("products", store.Len()),
			zap.Int("categories", len(store.Categories())),
		)
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddReadinessCheck("catalog", time.Second, func(_ context.Context) error {
		if holder.Ready() {
			return nil
		}
		if err := holder.Err(); err != nil {
			return err
		}
		return catalog.ErrNotLoaded
	})
	healthSvc.SetReady(true)

	// Session hub.
	hub := session.NewHub(holder, session.Config{
		PageSize:  cfg.PageSize,
		NoticeTTL: cfg.NoticeTTL,
	}, cfg.SessionTTL)
	hub.StartEviction(ctx, cfg.SessionTTL/4)

	// HTTP surface.
	apiHandler, err := httpapi.NewHandler(hub, holder, m.MeterProvider(), m.TracerProvider())
	if err != nil {
		return errors.Wrap(err, "create api handler")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", http.StripPrefix("/api", apiHandler.Routes()))

	handler := httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Content-Type", httpapi.SessionHeader},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		httpmiddleware.LogRequests(),
	)
	handler = otelhttp.NewHandler(handler, "shopview",
		otelhttp.WithMeterProvider(m.MeterProvider()),
		otelhttp.WithTracerProvider(m.TracerProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           handler,
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
