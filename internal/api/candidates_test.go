package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/parvagarwal/hireagent/internal/domain"
	"github.com/parvagarwal/hireagent/internal/store"
)

func newCandidateRouter(repo store.Repository) chi.Router {
	r := chi.NewRouter()
	NewCandidateHandler(NewHandler(repo)).RegisterRoutes(r)
	return r
}

func TestGetCandidate(t *testing.T) {
	repo := newAPITestRepo(t)
	seedPipeline(t, repo)
	router := newCandidateRouter(repo)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/candidates/1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/candidates/99", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestSubmitFeedback(t *testing.T) {
	repo := newAPITestRepo(t)
	_, c, _ := seedPipeline(t, repo)
	router := newCandidateRouter(repo)

	body := strings.NewReader(`{"hr_decision": "Agree", "hr_comments": "Strong candidate."}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/candidates/1/feedback", body))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var fb domain.Feedback
	if err := json.NewDecoder(w.Body).Decode(&fb); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if fb.HRDecision != "agree" || fb.AgentScore != c.FitScore {
		t.Errorf("Unexpected feedback: %+v", fb)
	}
}

func TestSubmitFeedbackRejectsUnknownDecision(t *testing.T) {
	repo := newAPITestRepo(t)
	seedPipeline(t, repo)
	router := newCandidateRouter(repo)

	body := strings.NewReader(`{"hr_decision": "maybe"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/candidates/1/feedback", body))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestAuditTrailEndpoint(t *testing.T) {
	repo := newAPITestRepo(t)
	_, c, _ := seedPipeline(t, repo)
	entry := &domain.AuditEntry{CandidateID: c.CandidateID, JobID: c.JobID, Action: domain.AuditAgentTriggered}
	if err := repo.CreateAuditEntry(context.Background(), entry); err != nil {
		t.Fatalf("CreateAuditEntry failed: %v", err)
	}
	router := newCandidateRouter(repo)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/candidates/1/audit", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp struct {
		Entries []*domain.AuditEntry `json:"entries"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].Action != domain.AuditAgentTriggered {
		t.Errorf("Unexpected entries: %+v", resp.Entries)
	}
}
