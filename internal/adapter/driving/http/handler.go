// Package httphandler is the JSON API driving adapter.
package httphandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/certpanel/internal/application"
	"github.com/ericfisherdev/certpanel/internal/domain/port/driven"
)

const (
	defaultActionLimit = 20
	maxActionLimit     = 100
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	certSvc  *application.CertificateService
	provider *application.CertificateAPIProvider
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	certSvc *application.CertificateService,
	provider *application.CertificateAPIProvider,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		certSvc:  certSvc,
		provider: provider,
		logger:   logger,
	}
}

// RegisterAPIRoutes registers the JSON API routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/certificates", h.ListCertificates)
	mux.HandleFunc("GET /api/v1/actions", h.ListActions)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:            "ok",
		Time:              time.Now().UTC().Format(time.RFC3339),
		BackendConfigured: h.provider.HasClient(),
	})
}

// ListCertificates returns the filtered certificates and dashboard stats.
// Query parameters match the dashboard: q, view, course, status.
func (h *Handler) ListCertificates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := application.NewListQuery(q.Get("view"), q.Get("course"), q.Get("q"), q.Get("status"))

	listing, err := h.certSvc.List(r.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, driven.ErrNoToken), errors.Is(err, driven.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "authentication required")
		case errors.Is(err, driven.ErrCertificateNotFound):
			writeError(w, http.StatusNotFound, "course not found")
		default:
			h.logger.Error("failed to list certificates", "view", string(query.View), "course", query.CourseID, "error", err)
			writeError(w, http.StatusBadGateway, "failed to load certificates")
		}
		return
	}

	writeJSON(w, http.StatusOK, toCertificateListResponse(listing))
}

// ListActions returns the most recent admin actions, newest first.
func (h *Handler) ListActions(w http.ResponseWriter, r *http.Request) {
	limit := defaultActionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxActionLimit)
	}

	actions, err := h.certSvc.RecentActions(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list admin actions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]ActionResponse, 0, len(actions))
	for _, a := range actions {
		resp = append(resp, toActionResponse(a))
	}

	writeJSON(w, http.StatusOK, resp)
}
