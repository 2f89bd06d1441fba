package domain

import (
	"time"
)

// Feedback records HR's verdict on an agent scoring decision. It is the raw
// material for correcting the scorer over time.
type Feedback struct {
	FeedbackID  int64     `json:"feedback_id"`
	JobID       int64     `json:"job_id"`
	CandidateID int64     `json:"candidate_id"`
	AgentScore  float64   `json:"agent_score"`
	HRDecision  string    `json:"hr_decision"`
	HRComments  string    `json:"hr_comments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
