package domain

import (
	"errors"
	"time"
)

// InterviewStatus is the lifecycle state of a proposed interview.
type InterviewStatus string

const (
	// InterviewPending awaits a human approval decision.
	InterviewPending InterviewStatus = "pending"
	// InterviewApproved has been approved but not yet booked.
	InterviewApproved InterviewStatus = "approved"
	// InterviewScheduled has been booked on the calendar and the candidate notified.
	InterviewScheduled InterviewStatus = "scheduled"
	// InterviewRejected was declined by a human before booking.
	InterviewRejected InterviewStatus = "rejected"
	// InterviewError means booking failed after approval; a human must re-drive it.
	InterviewError InterviewStatus = "error"
)

// ErrStatusConflict is returned when a guarded status transition finds the
// entry no longer in its expected state.
var ErrStatusConflict = errors.New("interview status conflict")

// Interview is the durable record of a proposed interview awaiting approval.
// Entries are never deleted; they form the audit trail of agent proposals.
type Interview struct {
	InterviewID   int64           `json:"interview_id"`
	CandidateID   int64           `json:"candidate_id"`
	JobID         int64           `json:"job_id"`
	Summary       string          `json:"summary"`
	ProposedStart time.Time       `json:"proposed_start_time"`
	ProposedEnd   time.Time       `json:"proposed_end_time"`
	Status        InterviewStatus `json:"status"`
	MeetLink      string          `json:"meet_link,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// validTransitions lists the allowed status edges.
var validTransitions = map[InterviewStatus][]InterviewStatus{
	InterviewPending:  {InterviewApproved, InterviewRejected},
	InterviewApproved: {InterviewScheduled, InterviewError},
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to InterviewStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true for statuses with no outgoing transitions.
func (s InterviewStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}
