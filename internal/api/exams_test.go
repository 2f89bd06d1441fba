package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/parvagarwal/hireagent/internal/llm"
	"github.com/parvagarwal/hireagent/internal/store"
)

// cannedClient returns one fixed completion.
type cannedClient struct {
	content string
	err     error
}

func (c *cannedClient) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Message, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &llm.Message{Role: llm.RoleAssistant, Content: c.content}, nil
}

func newExamRouter(repo store.Repository, client llm.Client) chi.Router {
	r := chi.NewRouter()
	NewExamHandler(NewHandler(repo), client).RegisterRoutes(r)
	return r
}

func TestExamLifecycle(t *testing.T) {
	repo := newAPITestRepo(t)
	seedPipeline(t, repo)
	client := &cannedClient{content: "```json\n[{\"question\": \"Explain goroutines.\", \"category\": \"concurrency\"}]\n```"}
	router := newExamRouter(repo, client)

	// Generate.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/jobs/1/exam", strings.NewReader(`{"num_questions": 1}`)))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var exam struct {
		ExamID    int64  `json:"exam_id"`
		Questions string `json:"questions"`
	}
	if err := json.NewDecoder(w.Body).Decode(&exam); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !strings.Contains(exam.Questions, "Explain goroutines.") || strings.Contains(exam.Questions, "```") {
		t.Errorf("Expected fences stripped from stored questions, got %q", exam.Questions)
	}

	// Assign.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/exams/1/assign", strings.NewReader(`{"candidate_id": 1}`)))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var assigned struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(w.Body).Decode(&assigned); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if assigned.AccessToken == "" {
		t.Fatal("Expected access token")
	}

	// Take.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/exams/take/"+assigned.AccessToken, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	// Submit.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/exams/take/"+assigned.AccessToken,
		strings.NewReader(`{"answers": ["channels and goroutines"]}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Resubmission conflicts.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/exams/take/"+assigned.AccessToken,
		strings.NewReader(`{"answers": ["second try"]}`)))
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 on resubmission, got %d", w.Code)
	}
}

func TestGenerateExamRejectsNonJSONResponse(t *testing.T) {
	repo := newAPITestRepo(t)
	seedPipeline(t, repo)
	router := newExamRouter(repo, &cannedClient{content: "Sure! Here are some questions: 1) ..."})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/jobs/1/exam", nil))
	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected 502 for prose response, got %d", w.Code)
	}
}

func TestGenerateExamReasoningFailure(t *testing.T) {
	repo := newAPITestRepo(t)
	seedPipeline(t, repo)
	router := newExamRouter(repo, &cannedClient{err: errors.New("rate limited")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/jobs/1/exam", nil))
	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", w.Code)
	}
}

func TestTakeExamUnknownToken(t *testing.T) {
	repo := newAPITestRepo(t)
	router := newExamRouter(repo, &cannedClient{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/exams/take/no-such-token", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}
