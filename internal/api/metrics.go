package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/parvagarwal/hireagent/internal/store"
)

// AnalyticsHandler serves pipeline dashboards.
type AnalyticsHandler struct {
	*Handler
}

// NewAnalyticsHandler creates an analytics handler.
func NewAnalyticsHandler(base *Handler) *AnalyticsHandler {
	return &AnalyticsHandler{Handler: base}
}

// RegisterRoutes registers analytics routes.
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/metrics", func(r chi.Router) {
		r.Get("/pipeline", h.Pipeline)
		r.Get("/scores", h.Scores)
		r.Get("/jobs", h.Jobs)
	})
}

// Pipeline returns candidate counts per pipeline stage.
func (h *AnalyticsHandler) Pipeline(w http.ResponseWriter, r *http.Request) {
	m, err := h.repo.GetPipelineMetrics(r.Context())
	if err != nil {
		slog.Error("Failed to compute pipeline metrics", "error", err)
		Error(w, http.StatusInternalServerError, "failed to compute pipeline metrics")
		return
	}
	JSON(w, http.StatusOK, m)
}

// Scores returns the fit-score distribution across all candidates.
func (h *AnalyticsHandler) Scores(w http.ResponseWriter, r *http.Request) {
	m, err := h.repo.GetScoreDistribution(r.Context())
	if err != nil {
		slog.Error("Failed to compute score distribution", "error", err)
		Error(w, http.StatusInternalServerError, "failed to compute score distribution")
		return
	}
	JSON(w, http.StatusOK, m)
}

// Jobs returns posting activity metrics.
func (h *AnalyticsHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	m, err := h.repo.GetJobMetrics(r.Context())
	if err != nil {
		slog.Error("Failed to compute job metrics", "error", err)
		Error(w, http.StatusInternalServerError, "failed to compute job metrics")
		return
	}
	JSON(w, http.StatusOK, m)
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	repo store.Repository
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(repo store.Repository) *HealthHandler {
	return &HealthHandler{repo: repo}
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/health", h.Health)
}

// Health returns the health status of the API and its dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := map[string]interface{}{
		"status": "healthy",
		"checks": map[string]string{"api": "ok"},
	}
	statusCode := http.StatusOK

	if err := h.repo.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		status["status"] = "degraded"
		status["checks"].(map[string]string)["database"] = "unreachable"
		statusCode = http.StatusServiceUnavailable
	} else {
		status["checks"].(map[string]string)["database"] = "ok"
	}

	JSON(w, statusCode, status)
}
