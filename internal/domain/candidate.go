package domain

import (
	"time"
)

// Candidate represents an applicant for a job, scored against the posting.
type Candidate struct {
	CandidateID int64     `json:"candidate_id"`
	JobID       int64     `json:"job_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ResumeText  string    `json:"-"`
	Embedding   []float64 `json:"-"`
	FitScore    float64   `json:"fit_score"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsGoodFit returns true if the candidate's fit score clears the threshold
// that triggers the interview proposal workflow.
func (c *Candidate) IsGoodFit(threshold float64) bool {
	return c.FitScore >= threshold
}
