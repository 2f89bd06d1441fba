package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/parvagarwal/hireagent/internal/domain"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return repo
}

func seedJob(t *testing.T, repo Repository) *domain.Job {
	t.Helper()
	job := &domain.Job{
		Title:       "Backend Engineer",
		Description: "Go services, SQL, distributed systems.",
		Embedding:   []float64{0.1, 0.2, 0.3},
		Status:      domain.JobOpen,
	}
	if err := repo.CreateJob(context.Background(), job); err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	return job
}

func seedCandidate(t *testing.T, repo Repository, jobID int64, name string, fit float64) *domain.Candidate {
	t.Helper()
	c := &domain.Candidate{
		JobID:      jobID,
		Name:       name,
		Email:      name + "@example.com",
		ResumeText: "resume",
		FitScore:   fit,
	}
	if err := repo.CreateCandidate(context.Background(), c); err != nil {
		t.Fatalf("CreateCandidate failed: %v", err)
	}
	return c
}

func seedInterview(t *testing.T, repo Repository, c *domain.Candidate, status domain.InterviewStatus) *domain.Interview {
	t.Helper()
	iv := &domain.Interview{
		CandidateID:   c.CandidateID,
		JobID:         c.JobID,
		Summary:       "Interview with " + c.Name,
		ProposedStart: time.Date(2025, 11, 10, 10, 0, 0, 0, time.UTC),
		ProposedEnd:   time.Date(2025, 11, 10, 11, 0, 0, 0, time.UTC),
		Status:        status,
	}
	if err := repo.CreateInterview(context.Background(), iv); err != nil {
		t.Fatalf("CreateInterview failed: %v", err)
	}
	return iv
}

func TestJobRoundTrip(t *testing.T) {
	repo := newTestStore(t)
	job := seedJob(t, repo)

	got, err := repo.GetJob(context.Background(), job.JobID)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.Title != job.Title || got.Status != domain.JobOpen {
		t.Errorf("Unexpected job: %+v", got)
	}
	if len(got.Embedding) != 3 || got.Embedding[1] != 0.2 {
		t.Errorf("Embedding not preserved: %v", got.Embedding)
	}

	if _, err := repo.GetJob(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestShortlistOrderingAndThreshold(t *testing.T) {
	repo := newTestStore(t)
	job := seedJob(t, repo)
	seedCandidate(t, repo, job.JobID, "low", 0.3)
	seedCandidate(t, repo, job.JobID, "mid", 0.75)
	seedCandidate(t, repo, job.JobID, "high", 0.9)

	shortlist, err := repo.ListShortlist(context.Background(), job.JobID, 0.7)
	if err != nil {
		t.Fatalf("ListShortlist failed: %v", err)
	}
	if len(shortlist) != 2 {
		t.Fatalf("Expected 2 shortlisted candidates, got %d", len(shortlist))
	}
	if shortlist[0].Name != "high" || shortlist[1].Name != "mid" {
		t.Errorf("Expected descending score order, got %s, %s", shortlist[0].Name, shortlist[1].Name)
	}
}

func TestInterviewTransitions(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	job := seedJob(t, repo)
	c := seedCandidate(t, repo, job.JobID, "ada", 0.8)
	iv := seedInterview(t, repo, c, domain.InterviewPending)

	if err := repo.TransitionInterviewStatus(ctx, iv.InterviewID, domain.InterviewPending, domain.InterviewApproved); err != nil {
		t.Fatalf("approve transition failed: %v", err)
	}

	// A second approval of the same entry must lose the guard.
	err := repo.TransitionInterviewStatus(ctx, iv.InterviewID, domain.InterviewPending, domain.InterviewApproved)
	if !errors.Is(err, domain.ErrStatusConflict) {
		t.Errorf("Expected ErrStatusConflict on double approve, got %v", err)
	}

	if err := repo.TransitionInterviewStatus(ctx, iv.InterviewID, domain.InterviewApproved, domain.InterviewScheduled); err != nil {
		t.Fatalf("schedule transition failed: %v", err)
	}

	got, err := repo.GetInterview(ctx, iv.InterviewID)
	if err != nil {
		t.Fatalf("GetInterview failed: %v", err)
	}
	if got.Status != domain.InterviewScheduled {
		t.Errorf("Expected scheduled, got %s", got.Status)
	}
}

func TestInterviewTransitionRejectsInvalidEdge(t *testing.T) {
	repo := newTestStore(t)
	job := seedJob(t, repo)
	c := seedCandidate(t, repo, job.JobID, "ada", 0.8)
	iv := seedInterview(t, repo, c, domain.InterviewPending)

	err := repo.TransitionInterviewStatus(context.Background(), iv.InterviewID, domain.InterviewPending, domain.InterviewScheduled)
	if err == nil || errors.Is(err, domain.ErrStatusConflict) {
		t.Errorf("Expected invalid-transition error, got %v", err)
	}
}

func TestSetInterviewMeetLink(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	job := seedJob(t, repo)
	c := seedCandidate(t, repo, job.JobID, "ada", 0.8)
	iv := seedInterview(t, repo, c, domain.InterviewApproved)

	if err := repo.SetInterviewMeetLink(ctx, iv.InterviewID, "https://meet.google.com/xyz"); err != nil {
		t.Fatalf("SetInterviewMeetLink failed: %v", err)
	}
	got, err := repo.GetInterview(ctx, iv.InterviewID)
	if err != nil {
		t.Fatalf("GetInterview failed: %v", err)
	}
	if got.MeetLink != "https://meet.google.com/xyz" {
		t.Errorf("Expected meet link recorded, got %q", got.MeetLink)
	}
}

func TestListInterviewsByStatus(t *testing.T) {
	repo := newTestStore(t)
	job := seedJob(t, repo)
	c := seedCandidate(t, repo, job.JobID, "ada", 0.8)
	seedInterview(t, repo, c, domain.InterviewPending)
	seedInterview(t, repo, c, domain.InterviewRejected)

	pending, err := repo.ListInterviewsByStatus(context.Background(), domain.InterviewPending)
	if err != nil {
		t.Fatalf("ListInterviewsByStatus failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Status != domain.InterviewPending {
		t.Errorf("Expected exactly one pending interview, got %d", len(pending))
	}
}

func TestCandidateExamSubmission(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	job := seedJob(t, repo)
	c := seedCandidate(t, repo, job.JobID, "ada", 0.8)

	exam := &domain.Exam{JobID: job.JobID, QuestionsJSON: `[{"question": "Explain goroutines."}]`}
	if err := repo.CreateExam(ctx, exam); err != nil {
		t.Fatalf("CreateExam failed: %v", err)
	}

	ce := &domain.CandidateExam{
		CandidateID: c.CandidateID,
		ExamID:      exam.ExamID,
		AccessToken: "token-123",
	}
	if err := repo.CreateCandidateExam(ctx, ce); err != nil {
		t.Fatalf("CreateCandidateExam failed: %v", err)
	}

	submitted, err := repo.SubmitCandidateExam(ctx, "token-123", `["answer one"]`)
	if err != nil {
		t.Fatalf("SubmitCandidateExam failed: %v", err)
	}
	if submitted.Status != domain.ExamCompleted || submitted.SubmittedAt == nil {
		t.Errorf("Expected completed exam with timestamp, got %+v", submitted)
	}

	// Resubmission is blocked by the status guard.
	if _, err := repo.SubmitCandidateExam(ctx, "token-123", `["second try"]`); !errors.Is(err, domain.ErrStatusConflict) {
		t.Errorf("Expected ErrStatusConflict on resubmission, got %v", err)
	}

	if _, err := repo.GetCandidateExamByToken(ctx, "no-such-token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown token, got %v", err)
	}
}

func TestAuditTrail(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	job := seedJob(t, repo)
	c := seedCandidate(t, repo, job.JobID, "ada", 0.8)

	for _, action := range []string{domain.AuditAgentTriggered, domain.AuditInterviewProposed} {
		entry := &domain.AuditEntry{CandidateID: c.CandidateID, JobID: job.JobID, Action: action}
		if err := repo.CreateAuditEntry(ctx, entry); err != nil {
			t.Fatalf("CreateAuditEntry failed: %v", err)
		}
	}

	entries, err := repo.ListAuditForCandidate(ctx, c.CandidateID)
	if err != nil {
		t.Fatalf("ListAuditForCandidate failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Action != domain.AuditAgentTriggered {
		t.Errorf("Expected ordered audit trail, got %+v", entries)
	}
}

func TestPipelineMetrics(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	job := seedJob(t, repo)
	good := seedCandidate(t, repo, job.JobID, "good", 0.85)
	seedCandidate(t, repo, job.JobID, "weak", 0.2)
	iv := seedInterview(t, repo, good, domain.InterviewPending)

	m, err := repo.GetPipelineMetrics(ctx)
	if err != nil {
		t.Fatalf("GetPipelineMetrics failed: %v", err)
	}
	if m.TotalCandidates != 2 {
		t.Errorf("Expected 2 candidates, got %d", m.TotalCandidates)
	}
	if m.Shortlisted != 1 || m.Rejected != 1 {
		t.Errorf("Expected 1 shortlisted and 1 rejected by score, got %+v", m)
	}
	if m.InterviewPending != 1 {
		t.Errorf("Expected 1 pending interview, got %d", m.InterviewPending)
	}

	if err := repo.TransitionInterviewStatus(ctx, iv.InterviewID, domain.InterviewPending, domain.InterviewApproved); err != nil {
		t.Fatalf("approve transition failed: %v", err)
	}
	if err := repo.TransitionInterviewStatus(ctx, iv.InterviewID, domain.InterviewApproved, domain.InterviewScheduled); err != nil {
		t.Fatalf("schedule transition failed: %v", err)
	}
	m, err = repo.GetPipelineMetrics(ctx)
	if err != nil {
		t.Fatalf("GetPipelineMetrics failed: %v", err)
	}
	if m.InterviewPending != 0 || m.InterviewScheduled != 1 {
		t.Errorf("Expected scheduling reflected in metrics, got %+v", m)
	}
}

func TestJobMetrics(t *testing.T) {
	repo := newTestStore(t)
	job := seedJob(t, repo)
	seedCandidate(t, repo, job.JobID, "ada", 0.8)
	seedCandidate(t, repo, job.JobID, "bob", 0.5)

	m, err := repo.GetJobMetrics(context.Background())
	if err != nil {
		t.Fatalf("GetJobMetrics failed: %v", err)
	}
	if m.TotalJobs != 1 || m.OpenJobs != 1 {
		t.Errorf("Unexpected job metrics: %+v", m)
	}
	if m.AvgCandidatesPerJob != 2 {
		t.Errorf("Expected 2 candidates per job, got %v", m.AvgCandidatesPerJob)
	}
}

func TestScoreDistribution(t *testing.T) {
	repo := newTestStore(t)
	job := seedJob(t, repo)
	seedCandidate(t, repo, job.JobID, "a", 0.1)
	seedCandidate(t, repo, job.JobID, "b", 0.55)
	seedCandidate(t, repo, job.JobID, "c", 0.95)

	m, err := repo.GetScoreDistribution(context.Background())
	if err != nil {
		t.Fatalf("GetScoreDistribution failed: %v", err)
	}
	if m.Range0to20 != 1 || m.Range40to60 != 1 || m.Range80to100 != 1 {
		t.Errorf("Unexpected distribution: %+v", m)
	}
}
