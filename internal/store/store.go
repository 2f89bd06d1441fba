// Package store provides persistence for the hiring pipeline.
package store

import (
	"context"
	"errors"

	"github.com/parvagarwal/hireagent/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// PipelineMetrics summarizes candidate progress through the pipeline.
type PipelineMetrics struct {
	TotalCandidates    int `json:"total_candidates"`
	Screened           int `json:"screened"`
	Shortlisted        int `json:"shortlisted"`
	InterviewPending   int `json:"interview_pending"`
	InterviewScheduled int `json:"interview_scheduled"`
	Rejected           int `json:"rejected"`
}

// ScoreDistribution buckets candidate fit scores.
type ScoreDistribution struct {
	Range0to20   int `json:"range_0_20"`
	Range20to40  int `json:"range_20_40"`
	Range40to60  int `json:"range_40_60"`
	Range60to80  int `json:"range_60_80"`
	Range80to100 int `json:"range_80_100"`
}

// JobMetrics summarizes posting activity.
type JobMetrics struct {
	TotalJobs           int     `json:"total_jobs"`
	OpenJobs            int     `json:"open_jobs"`
	ClosedJobs          int     `json:"closed_jobs"`
	AvgCandidatesPerJob float64 `json:"avg_candidates_per_job"`
}

// Repository defines the persistence operations used by the API layer and
// the agent orchestrator. The pending-interview ledger methods are the only
// ones mutated from more than one background execution; their transitions
// are guarded (see TransitionInterviewStatus).
type Repository interface {
	Ping(ctx context.Context) error
	Close() error

	// Jobs.
	CreateJob(ctx context.Context, job *domain.Job) error
	GetJob(ctx context.Context, jobID int64) (*domain.Job, error)
	ListJobs(ctx context.Context, offset, limit int) ([]*domain.Job, error)

	// Candidates.
	CreateCandidate(ctx context.Context, c *domain.Candidate) error
	GetCandidate(ctx context.Context, candidateID int64) (*domain.Candidate, error)
	ListCandidatesForJob(ctx context.Context, jobID int64) ([]*domain.Candidate, error)
	ListShortlist(ctx context.Context, jobID int64, minScore float64) ([]*domain.Candidate, error)

	// Pending-interview ledger.
	CreateInterview(ctx context.Context, iv *domain.Interview) error
	GetInterview(ctx context.Context, interviewID int64) (*domain.Interview, error)
	ListInterviewsByStatus(ctx context.Context, status domain.InterviewStatus) ([]*domain.Interview, error)
	// TransitionInterviewStatus applies a guarded status change: the row is
	// updated only if it is still in the expected state. Returns
	// domain.ErrStatusConflict when another execution got there first.
	TransitionInterviewStatus(ctx context.Context, interviewID int64, from, to domain.InterviewStatus) error
	SetInterviewMeetLink(ctx context.Context, interviewID int64, link string) error

	// Feedback.
	CreateFeedback(ctx context.Context, fb *domain.Feedback) error

	// Audit trail.
	CreateAuditEntry(ctx context.Context, entry *domain.AuditEntry) error
	ListAuditForCandidate(ctx context.Context, candidateID int64) ([]*domain.AuditEntry, error)

	// Exams.
	CreateExam(ctx context.Context, exam *domain.Exam) error
	GetExam(ctx context.Context, examID int64) (*domain.Exam, error)
	CreateCandidateExam(ctx context.Context, ce *domain.CandidateExam) error
	GetCandidateExamByToken(ctx context.Context, token string) (*domain.CandidateExam, error)
	SubmitCandidateExam(ctx context.Context, token, answersJSON string) (*domain.CandidateExam, error)

	// Analytics.
	GetPipelineMetrics(ctx context.Context) (*PipelineMetrics, error)
	GetScoreDistribution(ctx context.Context) (*ScoreDistribution, error)
	GetJobMetrics(ctx context.Context) (*JobMetrics, error)
}
