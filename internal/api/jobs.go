package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/parvagarwal/hireagent/internal/agent"
	"github.com/parvagarwal/hireagent/internal/domain"
	"github.com/parvagarwal/hireagent/internal/llm"
	"github.com/parvagarwal/hireagent/internal/score"
	"github.com/parvagarwal/hireagent/internal/store"
)

// JobHandler handles job postings and candidate intake. Candidate intake is
// the entry point of the pipeline: a high-fit upload launches the agent run
// in the background.
type JobHandler struct {
	*Handler
	embedder     llm.Embedder
	scorer       score.Scorer
	runner       AgentRunner
	fitThreshold float64
	runTimeout   time.Duration
}

// NewJobHandler creates a job handler.
func NewJobHandler(base *Handler, embedder llm.Embedder, scorer score.Scorer, runner AgentRunner, fitThreshold float64, runTimeout time.Duration) *JobHandler {
	return &JobHandler{
		Handler:      base,
		embedder:     embedder,
		scorer:       scorer,
		runner:       runner,
		fitThreshold: fitThreshold,
		runTimeout:   runTimeout,
	}
}

// RegisterRoutes registers job and candidate-intake routes.
func (h *JobHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/jobs", func(r chi.Router) {
		r.Post("/", h.CreateJob)
		r.Get("/", h.ListJobs)
		r.Get("/{jobID}", h.GetJob)
		r.Post("/{jobID}/candidates", h.UploadCandidate)
		r.Get("/{jobID}/candidates", h.ListCandidates)
		r.Get("/{jobID}/shortlist", h.Shortlist)
	})
}

type createJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateJob creates a job posting. The description is embedded up front so
// later uploads can be scored against it.
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		Error(w, http.StatusBadRequest, "title and description are required")
		return
	}

	job := &domain.Job{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.JobOpen,
	}

	vec, err := h.embedder.EmbedText(r.Context(), req.Description)
	if err != nil {
		// Scoring falls back to embedding the description per upload.
		slog.Warn("Failed to embed job description", "error", err)
	} else {
		job.Embedding = vec
	}

	if err := h.repo.CreateJob(r.Context(), job); err != nil {
		slog.Error("Failed to create job", "error", err)
		Error(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	slog.Info("Job created", "job_id", job.JobID, "title", job.Title)
	JSON(w, http.StatusCreated, job)
}

// ListJobs returns job postings, newest first.
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 50)

	jobs, err := h.repo.ListJobs(r.Context(), offset, limit)
	if err != nil {
		slog.Error("Failed to list jobs", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

// GetJob returns one job posting.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, "jobID")
	if !ok {
		Error(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := h.repo.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Error(w, http.StatusNotFound, "job not found")
			return
		}
		slog.Error("Failed to get job", "error", err, "job_id", jobID)
		Error(w, http.StatusInternalServerError, "failed to get job")
		return
	}
	JSON(w, http.StatusOK, job)
}

type uploadCandidateRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	ResumeText string `json:"resume_text"`
}

// UploadCandidate registers a candidate for a job, scores their fit, and
// launches the interview proposal workflow when the score clears the
// threshold.
func (h *JobHandler) UploadCandidate(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, "jobID")
	if !ok {
		Error(w, http.StatusBadRequest, "invalid job id")
		return
	}

	var req uploadCandidateRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" || !strings.Contains(req.Email, "@") {
		Error(w, http.StatusBadRequest, "name and a valid email are required")
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		Error(w, http.StatusBadRequest, "resume_text is required")
		return
	}

	job, err := h.repo.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Error(w, http.StatusNotFound, "job not found")
			return
		}
		slog.Error("Failed to get job", "error", err, "job_id", jobID)
		Error(w, http.StatusInternalServerError, "failed to get job")
		return
	}
	if !job.IsOpen() {
		Error(w, http.StatusConflict, "job is closed")
		return
	}

	fit, resumeVec, err := h.scorer.Score(r.Context(), req.ResumeText, job)
	if err != nil {
		slog.Error("Failed to score candidate", "error", err, "job_id", jobID)
		Error(w, http.StatusBadGateway, "failed to score candidate")
		return
	}

	candidate := &domain.Candidate{
		JobID:      jobID,
		Name:       req.Name,
		Email:      req.Email,
		ResumeText: req.ResumeText,
		Embedding:  resumeVec,
		FitScore:   fit,
	}
	if err := h.repo.CreateCandidate(r.Context(), candidate); err != nil {
		slog.Error("Failed to create candidate", "error", err, "job_id", jobID)
		Error(w, http.StatusInternalServerError, "failed to create candidate")
		return
	}

	triggered := candidate.IsGoodFit(h.fitThreshold)
	if triggered {
		h.launchAgent(candidate)
	}

	slog.Info("Candidate uploaded",
		"candidate_id", candidate.CandidateID,
		"job_id", jobID,
		"fit_score", fit,
		"agent_triggered", triggered)

	JSON(w, http.StatusCreated, map[string]interface{}{
		"candidate":       candidate,
		"agent_triggered": triggered,
	})
}

// launchAgent runs the proposal loop on a background context so the upload
// response is not held open for the whole agent run.
func (h *JobHandler) launchAgent(c *domain.Candidate) {
	task := agent.Task{
		JobID:          c.JobID,
		CandidateID:    c.CandidateID,
		CandidateName:  c.Name,
		CandidateEmail: c.Email,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.runTimeout)
		defer cancel()

		if _, err := h.runner.Run(ctx, task); err != nil {
			slog.Error("Agent run failed", "error", err, "candidate_id", c.CandidateID)
		}
	}()
}

// ListCandidates returns all candidates for a job, best fit first.
func (h *JobHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, "jobID")
	if !ok {
		Error(w, http.StatusBadRequest, "invalid job id")
		return
	}

	candidates, err := h.repo.ListCandidatesForJob(r.Context(), jobID)
	if err != nil {
		slog.Error("Failed to list candidates", "error", err, "job_id", jobID)
		Error(w, http.StatusInternalServerError, "failed to list candidates")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"candidates": candidates})
}

// Shortlist returns candidates at or above a minimum fit score. The default
// minimum matches the agent trigger threshold.
func (h *JobHandler) Shortlist(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, "jobID")
	if !ok {
		Error(w, http.StatusBadRequest, "invalid job id")
		return
	}

	minScore := h.fitThreshold
	if v := r.URL.Query().Get("min_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			Error(w, http.StatusBadRequest, "min_score must be in [0, 1]")
			return
		}
		minScore = f
	}

	candidates, err := h.repo.ListShortlist(r.Context(), jobID, minScore)
	if err != nil {
		slog.Error("Failed to build shortlist", "error", err, "job_id", jobID)
		Error(w, http.StatusInternalServerError, "failed to build shortlist")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"min_score":  minScore,
		"candidates": candidates,
	})
}
