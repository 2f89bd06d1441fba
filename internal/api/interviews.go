package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/parvagarwal/hireagent/internal/domain"
	"github.com/parvagarwal/hireagent/internal/store"
)

// InterviewHandler exposes the human approval step: listing proposals the
// agent has filed and approving or rejecting them. Approve and reject are
// idempotency-guarded; a repeated decision gets a conflict, not a second
// booking.
type InterviewHandler struct {
	*Handler
	workflow        ApprovalRunner
	workflowTimeout time.Duration
}

// NewInterviewHandler creates an interview handler.
func NewInterviewHandler(base *Handler, workflow ApprovalRunner, workflowTimeout time.Duration) *InterviewHandler {
	return &InterviewHandler{
		Handler:         base,
		workflow:        workflow,
		workflowTimeout: workflowTimeout,
	}
}

// RegisterRoutes registers interview approval routes.
func (h *InterviewHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/interviews", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/{interviewID}/approve", h.Approve)
		r.Post("/{interviewID}/reject", h.Reject)
	})
}

// List returns ledger entries in the requested status, pending by default.
func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.InterviewStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.InterviewPending
	}
	switch status {
	case domain.InterviewPending, domain.InterviewApproved, domain.InterviewScheduled,
		domain.InterviewRejected, domain.InterviewError:
	default:
		Error(w, http.StatusBadRequest, "unknown status")
		return
	}

	interviews, err := h.repo.ListInterviewsByStatus(r.Context(), status)
	if err != nil {
		slog.Error("Failed to list interviews", "error", err, "status", status)
		Error(w, http.StatusInternalServerError, "failed to list interviews")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"interviews": interviews})
}

// Approve moves a pending proposal to approved and kicks off the booking
// workflow in the background. The guarded transition makes a double approve
// harmless: the loser of the race gets 409 and no second workflow starts.
func (h *InterviewHandler) Approve(w http.ResponseWriter, r *http.Request) {
	interviewID, ok := pathID(r, "interviewID")
	if !ok {
		Error(w, http.StatusBadRequest, "invalid interview id")
		return
	}

	iv, err := h.repo.GetInterview(r.Context(), interviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Error(w, http.StatusNotFound, "interview not found")
			return
		}
		slog.Error("Failed to get interview", "error", err, "interview_id", interviewID)
		Error(w, http.StatusInternalServerError, "failed to get interview")
		return
	}

	err = h.repo.TransitionInterviewStatus(r.Context(), interviewID, domain.InterviewPending, domain.InterviewApproved)
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			Error(w, http.StatusConflict, "interview is not pending")
			return
		}
		slog.Error("Failed to approve interview", "error", err, "interview_id", interviewID)
		Error(w, http.StatusInternalServerError, "failed to approve interview")
		return
	}

	h.audit(r.Context(), iv, domain.AuditInterviewApproved)
	slog.Info("Interview approved", "interview_id", interviewID)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.workflowTimeout)
		defer cancel()
		h.workflow.Run(ctx, interviewID)
	}()

	JSON(w, http.StatusOK, map[string]interface{}{
		"interview_id": interviewID,
		"status":       string(domain.InterviewApproved),
	})
}

// Reject moves a pending proposal to rejected. Nothing is booked and the
// candidate is not contacted.
func (h *InterviewHandler) Reject(w http.ResponseWriter, r *http.Request) {
	interviewID, ok := pathID(r, "interviewID")
	if !ok {
		Error(w, http.StatusBadRequest, "invalid interview id")
		return
	}

	iv, err := h.repo.GetInterview(r.Context(), interviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Error(w, http.StatusNotFound, "interview not found")
			return
		}
		slog.Error("Failed to get interview", "error", err, "interview_id", interviewID)
		Error(w, http.StatusInternalServerError, "failed to get interview")
		return
	}

	err = h.repo.TransitionInterviewStatus(r.Context(), interviewID, domain.InterviewPending, domain.InterviewRejected)
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			Error(w, http.StatusConflict, "interview is not pending")
			return
		}
		slog.Error("Failed to reject interview", "error", err, "interview_id", interviewID)
		Error(w, http.StatusInternalServerError, "failed to reject interview")
		return
	}

	h.audit(r.Context(), iv, domain.AuditInterviewRejected)
	slog.Info("Interview rejected", "interview_id", interviewID)

	JSON(w, http.StatusOK, map[string]interface{}{
		"interview_id": interviewID,
		"status":       string(domain.InterviewRejected),
	})
}

func (h *InterviewHandler) audit(ctx context.Context, iv *domain.Interview, action string) {
	entry := &domain.AuditEntry{
		CandidateID: iv.CandidateID,
		JobID:       iv.JobID,
		Action:      action,
	}
	if err := h.repo.CreateAuditEntry(ctx, entry); err != nil {
		slog.Warn("Failed to write audit entry", "action", action, "error", err)
	}
}
