package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"plansign/internal/identity"
	"plansign/internal/platform/metrics"
	"plansign/internal/platform/middleware"
)

// NewRouter wires the public endpoints. Everything under /contracts and
// /events requires an authenticated caller; health and metrics stay open.
func NewRouter(h *Handler, verifier identity.Verifier, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	api := chi.NewRouter()
	api.Use(middleware.Timeout(30 * time.Second))
	api.Use(middleware.ContentTypeJSON)
	api.Use(middleware.RequireAuth(verifier, logger))

	api.Post("/contracts", h.handleCreateContract)
	api.Get("/contracts/{contractID}", h.handleGetContract)
	api.Delete("/contracts/{contractID}", h.handleDeleteContract)
	api.Get("/events/{eventID}/contracts", h.handleListByEvent)

	api.Post("/contracts/{contractID}/fields", h.handleAddField)
	api.Patch("/contracts/{contractID}/fields/{fieldID}", h.handleUpdateField)
	api.Delete("/contracts/{contractID}/fields/{fieldID}", h.handleRemoveField)

	api.Post("/contracts/{contractID}/save", h.handleSave)
	api.Post("/contracts/{contractID}/send", h.handleSend)
	api.Post("/contracts/{contractID}/cancel", h.handleCancel)

	api.Post("/contracts/{contractID}/fields/{fieldID}/sign", h.handleSign)
	api.Get("/contracts/{contractID}/fields/{fieldID}/display", h.handleDisplay)
	api.Get("/contracts/{contractID}/status", h.handleStatus)
	api.Get("/contracts/{contractID}/audit", h.handleAuditTrail)

	r.Mount("/", api)
	return r
}
