// Package http assembles the registry's HTTP surface.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"terraspark/internal/platform/middleware"
	"terraspark/internal/registry/handler"
)

// NewRouter builds the full route tree: unauthenticated health and metrics
// endpoints, and the authenticated /v1 registry API.
func NewRouter(h *handler.Handler, verifier middleware.IdentityVerifier, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(middleware.RequireAuth(verifier, logger))
		h.Register(v1)
	})

	return r
}
