package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"invoicegate/internal/invoice"
)

// HealthCheck probes one dependency for the readiness endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handler is the thin HTTP layer over the invoice service. It translates
// requests and errors; all decision logic stays in the service.
type Handler struct {
	service *invoice.Service
	logger  *slog.Logger
	checks  []HealthCheck
}

func NewHandler(service *invoice.Service, logger *slog.Logger, checks ...HealthCheck) *Handler {
	return &Handler{service: service, logger: logger, checks: checks}
}

// HandleHealthz reports readiness: ok when every registered dependency check
// passes, 503 naming the failing components otherwise.
func (h *Handler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var failed []string
	for _, hc := range h.checks {
		if err := hc.Check(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed", "component", hc.Name, "error", err)
			failed = append(failed, hc.Name)
		}
	}

	if len(failed) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded",
			"failed": failed,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewRouter wires all public endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.HandleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/invoices", func(r chi.Router) {
		r.Post("/validate", h.HandleValidate)
		r.Post("/extract", h.HandleExtract)
		r.Post("/process", h.HandleProcess)
	})

	r.Route("/approvals", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/pending-over-threshold", h.HandlePendingOverThreshold)
		r.Get("/{id}", h.HandleGet)
		r.Post("/{id}/approve", h.HandleApprove)
		r.Post("/{id}/reject", h.HandleReject)
	})

	return r
}
