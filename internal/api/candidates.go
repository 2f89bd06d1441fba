package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/parvagarwal/hireagent/internal/domain"
	"github.com/parvagarwal/hireagent/internal/store"
)

// CandidateHandler handles candidate lookup, HR feedback, and the per-candidate
// audit trail.
type CandidateHandler struct {
	*Handler
}

// NewCandidateHandler creates a candidate handler.
func NewCandidateHandler(base *Handler) *CandidateHandler {
	return &CandidateHandler{Handler: base}
}

// RegisterRoutes registers candidate routes.
func (h *CandidateHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/candidates/{candidateID}", func(r chi.Router) {
		r.Get("/", h.GetCandidate)
		r.Post("/feedback", h.SubmitFeedback)
		r.Get("/audit", h.AuditTrail)
	})
}

// GetCandidate returns one candidate.
func (h *CandidateHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := pathID(r, "candidateID")
	if !ok {
		Error(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	candidate, err := h.repo.GetCandidate(r.Context(), candidateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Error(w, http.StatusNotFound, "candidate not found")
			return
		}
		slog.Error("Failed to get candidate", "error", err, "candidate_id", candidateID)
		Error(w, http.StatusInternalServerError, "failed to get candidate")
		return
	}
	JSON(w, http.StatusOK, candidate)
}

type feedbackRequest struct {
	HRDecision string `json:"hr_decision"`
	HRComments string `json:"hr_comments"`
}

// SubmitFeedback records HR's verdict on the agent's scoring of a candidate.
func (h *CandidateHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := pathID(r, "candidateID")
	if !ok {
		Error(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	decision := strings.ToLower(strings.TrimSpace(req.HRDecision))
	if decision != "agree" && decision != "disagree" {
		Error(w, http.StatusBadRequest, "hr_decision must be 'agree' or 'disagree'")
		return
	}

	candidate, err := h.repo.GetCandidate(r.Context(), candidateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Error(w, http.StatusNotFound, "candidate not found")
			return
		}
		slog.Error("Failed to get candidate", "error", err, "candidate_id", candidateID)
		Error(w, http.StatusInternalServerError, "failed to get candidate")
		return
	}

	fb := &domain.Feedback{
		JobID:       candidate.JobID,
		CandidateID: candidateID,
		AgentScore:  candidate.FitScore,
		HRDecision:  decision,
		HRComments:  req.HRComments,
	}
	if err := h.repo.CreateFeedback(r.Context(), fb); err != nil {
		slog.Error("Failed to record feedback", "error", err, "candidate_id", candidateID)
		Error(w, http.StatusInternalServerError, "failed to record feedback")
		return
	}

	slog.Info("Feedback recorded", "candidate_id", candidateID, "decision", decision)
	JSON(w, http.StatusCreated, fb)
}

// AuditTrail returns every recorded action for a candidate, oldest first.
func (h *CandidateHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := pathID(r, "candidateID")
	if !ok {
		Error(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	entries, err := h.repo.ListAuditForCandidate(r.Context(), candidateID)
	if err != nil {
		slog.Error("Failed to list audit entries", "error", err, "candidate_id", candidateID)
		Error(w, http.StatusInternalServerError, "failed to list audit entries")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
