// Package httpapi exposes the session commands and render frames over a
// small JSON HTTP surface. It is a stand-in presentation host: every command
// responds with the freshly derived frame, which is the render trigger
// hand-off for whatever UI sits on the other side.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/shopview/internal/domain/catalog"
	"github.com/xenking/shopview/internal/session"
)

// SessionHeader carries the session id on every session-scoped request.
const SessionHeader = "X-Session-ID"

// Handler serves the catalog browser API.
type Handler struct {
	hub    *session.Hub
	holder *catalog.Holder

	commands metric.Int64Counter
	reloads  metric.Int64Counter
	tracer   trace.Tracer
}

// NewHandler constructs a Handler. The meter and tracer providers typically
// come from the app telemetry.
func NewHandler(
	hub *session.Hub,
	holder *catalog.Holder,
	mp metric.MeterProvider,
	tp trace.TracerProvider,
) (*Handler, error) {
	meter := mp.Meter("shopview.httpapi")

	commands, err := meter.Int64Counter("shopview.commands",
		metric.WithDescription("Session commands applied, by kind"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create commands counter")
	}
	reloads, err := meter.Int64Counter("shopview.catalog.reloads",
		metric.WithDescription("Catalog reload attempts, by outcome"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create reloads counter")
	}

	return &Handler{
		hub:      hub,
		holder:   holder,
		commands: commands,
		reloads:  reloads,
		tracer:   tp.Tracer("shopview.httpapi"),
	}, nil
}

// Routes mounts all API endpoints on a fresh chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/session", h.createSession)
	r.Get("/view", h.getView)
	r.Post("/command", h.postCommand)
	r.Get("/categories", h.getCategories)
	r.Post("/catalog/reload", h.reloadCatalog)
	return r
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	id, s := h.hub.Create()
	zctx.From(r.Context()).Info("Session created", zap.String("session_id", id))

	writeJSON(w, http.StatusCreated, struct {
		SessionID string   `json:"sessionId"`
		Frame     frameDTO `json:"frame"`
	}{
		SessionID: id,
		Frame:     toFrameDTO(s.Frame()),
	})
}

func (h *Handler) getView(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toFrameDTO(s.Frame()))
}

func (h *Handler) postCommand(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var cmd session.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid command body")
		return
	}

	ctx, span := h.tracer.Start(r.Context(), "session.Apply",
		trace.WithAttributes(attribute.String("command.kind", string(cmd.Kind))),
	)
	frame, err := s.Apply(cmd)
	span.End()

	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.commands.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(cmd.Kind)),
	))
	writeJSON(w, http.StatusOK, toFrameDTO(frame))
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	store, ok := h.holder.Store()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "catalog not loaded")
		return
	}
	categories := store.Categories()
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, struct {
		Categories []string `json:"categories"`
	}{Categories: categories})
}

// reloadCatalog re-runs the whole fetch+initialize sequence. This is the
// user-triggered retry path for a failed initial load.
func (h *Handler) reloadCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.holder.Load(ctx); err != nil {
		h.reloads.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		zctx.From(ctx).Error("Catalog reload failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "catalog load failed: "+err.Error())
		return
	}

	h.reloads.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
	store, _ := h.holder.Store()
	writeJSON(w, http.StatusOK, struct {
		Products int `json:"products"`
	}{Products: store.Len()})
}

// session resolves the request's session or writes an error response.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing "+SessionHeader+" header")
		return nil, false
	}
	s, ok := h.hub.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return nil, false
	}
	return s, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}{Code: status, Message: message})
}
