package domain

import (
	"time"
)

// Audit actions recorded by the orchestration core.
const (
	AuditAgentTriggered     = "agent_triggered"
	AuditInterviewProposed  = "interview_proposed"
	AuditInterviewApproved  = "interview_approved"
	AuditInterviewRejected  = "interview_rejected"
	AuditInterviewScheduled = "interview_scheduled"
	AuditWorkflowFailed     = "workflow_failed"
	AuditAgentFinished      = "agent_finished"
)

// AuditEntry is one durable record of an action taken for a candidate.
type AuditEntry struct {
	LogID       int64     `json:"log_id"`
	CandidateID int64     `json:"candidate_id"`
	JobID       int64     `json:"job_id"`
	Action      string    `json:"action"`
	Details     string    `json:"details,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
