package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/parvagarwal/hireagent/internal/domain"
	"github.com/parvagarwal/hireagent/internal/llm"
	"github.com/parvagarwal/hireagent/internal/store"
)

// ExamHandler generates screening exams for jobs and serves them to
// candidates through opaque access tokens.
type ExamHandler struct {
	*Handler
	client llm.Client
}

// NewExamHandler creates an exam handler.
func NewExamHandler(base *Handler, client llm.Client) *ExamHandler {
	return &ExamHandler{Handler: base, client: client}
}

// RegisterRoutes registers exam routes. The take endpoints are keyed by
// token, not id, so a candidate link leaks nothing about other assignments.
func (h *ExamHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/jobs/{jobID}/exam", h.GenerateExam)
	r.Post("/api/exams/{examID}/assign", h.AssignExam)
	r.Get("/api/exams/take/{token}", h.GetExamByToken)
	r.Post("/api/exams/take/{token}", h.SubmitExam)
}

type generateExamRequest struct {
	NumQuestions int `json:"num_questions"`
}

// GenerateExam asks the reasoning service for screening questions tailored
// to the job description and stores them as an exam.
func (h *ExamHandler) GenerateExam(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, "jobID")
	if !ok {
		Error(w, http.StatusBadRequest, "invalid job id")
		return
	}

	var req generateExamRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.NumQuestions <= 0 || req.NumQuestions > 20 {
		req.NumQuestions = 5
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

	questions, err := h.generateQuestions(r, job, req.NumQuestions)
	if err != nil {
		slog.Error("Failed to generate exam questions", "error", err, "job_id", jobID)
		Error(w, http.StatusBadGateway, "failed to generate exam questions")
		return
	}

	exam := &domain.Exam{JobID: jobID, QuestionsJSON: questions}
	if err := h.repo.CreateExam(r.Context(), exam); err != nil {
		slog.Error("Failed to store exam", "error", err, "job_id", jobID)
		Error(w, http.StatusInternalServerError, "failed to store exam")
		return
	}

	slog.Info("Exam generated", "exam_id", exam.ExamID, "job_id", jobID)
	JSON(w, http.StatusCreated, exam)
}

func (h *ExamHandler) generateQuestions(r *http.Request, job *domain.Job, n int) (string, error) {
	prompt := fmt.Sprintf(
		`Generate %d screening questions for the role below. Respond with ONLY a JSON
array of objects, each with "question" and "category" fields. No prose, no
markdown fences.

Role: %s

Description:
%s`, n, job.Title, job.Description)

	resp, err := h.client.Complete(r.Context(), llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	questions := stripCodeFence(resp.Content)
	var parsed []json.RawMessage
	if err := json.Unmarshal([]byte(questions), &parsed); err != nil || len(parsed) == 0 {
		return "", fmt.Errorf("response is not a JSON question array")
	}
	return questions, nil
}

// stripCodeFence removes a surrounding markdown code fence, which models emit
// even when told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

type assignExamRequest struct {
	CandidateID int64 `json:"candidate_id"`
}

// AssignExam links a candidate to an exam and mints their access token.
func (h *ExamHandler) AssignExam(w http.ResponseWriter, r *http.Request) {
	examID, ok := pathID(r, "examID")
	if !ok {
		Error(w, http.StatusBadRequest, "invalid exam id")
		return
	}

	var req assignExamRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CandidateID <= 0 {
		Error(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	if _, err := h.repo.GetExam(r.Context(), examID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Error(w, http.StatusNotFound, "exam not found")
			return
		}
		slog.Error("Failed to get exam", "error", err, "exam_id", examID)
		Error(w, http.StatusInternalServerError, "failed to get exam")
		return
	}
	if _, err := h.repo.GetCandidate(r.Context(), req.CandidateID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Error(w, http.StatusNotFound, "candidate not found")
			return
		}
		slog.Error("Failed to get candidate", "error", err, "candidate_id", req.CandidateID)
		Error(w, http.StatusInternalServerError, "failed to get candidate")
		return
	}

	ce := &domain.CandidateExam{
		CandidateID: req.CandidateID,
		ExamID:      examID,
		AccessToken: uuid.NewString(),
		Status:      domain.ExamPending,
	}
	if err := h.repo.CreateCandidateExam(r.Context(), ce); err != nil {
		slog.Error("Failed to assign exam", "error", err, "exam_id", examID, "candidate_id", req.CandidateID)
		Error(w, http.StatusInternalServerError, "failed to assign exam")
		return
	}

	slog.Info("Exam assigned", "exam_id", examID, "candidate_id", req.CandidateID)
	JSON(w, http.StatusCreated, map[string]interface{}{
		"candidate_exam_id": ce.CandidateExamID,
		"access_token":      ce.AccessToken,
	})
}

// GetExamByToken returns the questions for an assignment.
func (h *ExamHandler) GetExamByToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	ce, err := h.repo.GetCandidateExamByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Error(w, http.StatusNotFound, "exam not found")
			return
		}
		slog.Error("Failed to get candidate exam", "error", err)
		Error(w, http.StatusInternalServerError, "failed to get exam")
		return
	}

	exam, err := h.repo.GetExam(r.Context(), ce.ExamID)
	if err != nil {
		slog.Error("Failed to get exam", "error", err, "exam_id", ce.ExamID)
		Error(w, http.StatusInternalServerError, "failed to get exam")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"status":    ce.Status,
		"questions": json.RawMessage(exam.QuestionsJSON),
	})
}

type submitExamRequest struct {
	Answers json.RawMessage `json:"answers"`
}

// SubmitExam records a candidate's answers. A second submission for the same
// token gets 409.
func (h *ExamHandler) SubmitExam(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req submitExamRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Answers) == 0 || !json.Valid(req.Answers) {
		Error(w, http.StatusBadRequest, "answers must be a JSON document")
		return
	}

	ce, err := h.repo.SubmitCandidateExam(r.Context(), token, string(req.Answers))
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			Error(w, http.StatusConflict, "exam already submitted")
			return
		}
		slog.Error("Failed to submit exam", "error", err)
		Error(w, http.StatusInternalServerError, "failed to submit exam")
		return
	}

	slog.Info("Exam submitted", "candidate_exam_id", ce.CandidateExamID, "candidate_id", ce.CandidateID)
	JSON(w, http.StatusOK, ce)
}
