package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/parvagarwal/hireagent/internal/domain"
	"github.com/parvagarwal/hireagent/internal/store"
	"github.com/parvagarwal/hireagent/internal/tools"
)

// meetLinkFallback is used when the booking result carries no meeting link.
const meetLinkFallback = "A Google Meet link will be included in the calendar invite."

// ApprovalWorkflow finalizes an approved ledger entry: it books the calendar
// event, emails the candidate, and advances the entry to scheduled. It runs
// as an independent background unit of work; the only state it shares with
// the control loop is the durable ledger.
type ApprovalWorkflow struct {
	repo    store.Repository
	booking tools.Tool
	notify  tools.Tool
	events  *Broker
	logger  *slog.Logger
}

// NewApprovalWorkflow creates an approval workflow. booking and notify are
// the calendar-event and email action tools.
func NewApprovalWorkflow(repo store.Repository, booking, notify tools.Tool, events *Broker) *ApprovalWorkflow {
	if events == nil {
		events = NewBroker()
	}
	return &ApprovalWorkflow{
		repo:    repo,
		booking: booking,
		notify:  notify,
		events:  events,
		logger:  slog.Default(),
	}
}

// Run executes the workflow for one approved ledger entry. It never returns
// an error or panics to its caller: failure is expressed entirely through
// the entry's status.
func (w *ApprovalWorkflow) Run(ctx context.Context, interviewID int64) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("approval workflow panicked", "interview_id", interviewID, "panic", r)
			w.markError(ctx, interviewID, fmt.Sprintf("panic: %v", r))
		}
	}()

	iv, err := w.repo.GetInterview(ctx, interviewID)
	if err != nil {
		w.logger.Error("approval workflow: interview lookup failed", "interview_id", interviewID, "error", err)
		return
	}
	// Defensive re-check: only an entry that actually reached approved may be
	// booked. Anything else is a stale or duplicate trigger.
	if iv.Status != domain.InterviewApproved {
		w.logger.Warn("approval workflow: interview not in approved state",
			"interview_id", interviewID, "status", iv.Status)
		return
	}

	candidate, err := w.repo.GetCandidate(ctx, iv.CandidateID)
	if err != nil {
		w.logger.Error("approval workflow: candidate lookup failed",
			"interview_id", interviewID, "candidate_id", iv.CandidateID, "error", err)
		return
	}

	w.logger.Info("scheduling interview", "interview_id", interviewID, "candidate", candidate.Email)

	// Booking must precede notification: the email body is built from the
	// booking result.
	meetLink, err := w.book(ctx, iv, candidate)
	if err != nil {
		w.fail(ctx, iv, fmt.Sprintf("booking failed: %v", err))
		return
	}
	if err := w.repo.SetInterviewMeetLink(ctx, interviewID, meetLink); err != nil {
		w.logger.Warn("failed to record meet link", "interview_id", interviewID, "error", err)
	}

	if err := w.sendConfirmation(ctx, iv, candidate, meetLink); err != nil {
		w.fail(ctx, iv, fmt.Sprintf("notification failed: %v", err))
		return
	}

	if err := w.repo.TransitionInterviewStatus(ctx, interviewID, domain.InterviewApproved, domain.InterviewScheduled); err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			w.logger.Warn("interview already transitioned", "interview_id", interviewID)
			return
		}
		w.logger.Error("failed to mark interview scheduled", "interview_id", interviewID, "error", err)
		return
	}

	w.events.Publish(Event{Type: EventScheduled, CandidateID: iv.CandidateID, InterviewID: interviewID})
	w.auditTransition(ctx, iv, domain.AuditInterviewScheduled, meetLink)
	w.logger.Info("approval workflow complete", "interview_id", interviewID)
}

// book invokes the calendar-event tool and extracts the meeting link from
// its result, falling back to a placeholder when the link is absent.
func (w *ApprovalWorkflow) book(ctx context.Context, iv *domain.Interview, candidate *domain.Candidate) (string, error) {
	args, err := json.Marshal(map[string]interface{}{
		"summary":    iv.Summary,
		"start_time": iv.ProposedStart.Format(time.RFC3339),
		"end_time":   iv.ProposedEnd.Format(time.RFC3339),
		"attendees":  []string{candidate.Email},
	})
	if err != nil {
		return "", fmt.Errorf("marshal booking args: %w", err)
	}

	result, err := safeCall(ctx, w.booking, args)
	if err != nil {
		return "", err
	}

	meetLink := meetLinkFallback
	if raw, err := json.Marshal(result); err == nil {
		var parsed struct {
			MeetLink string `json:"meet_link"`
		}
		if json.Unmarshal(raw, &parsed) == nil && parsed.MeetLink != "" {
			meetLink = parsed.MeetLink
		}
	}
	return meetLink, nil
}

func (w *ApprovalWorkflow) sendConfirmation(ctx context.Context, iv *domain.Interview, candidate *domain.Candidate, meetLink string) error {
	when := iv.ProposedStart.Format("Monday, January 2, 2006 at 3:04 PM MST")
	body := fmt.Sprintf(`Hi %s,

Congratulations! We were impressed with your application and we are excited to
invite you to the next step of our interview process.

Your interview has been confirmed for:

Date & Time: %s

A calendar invite has been sent to you. The meeting link is also here for your
convenience:
%s

If you have any questions or need to reschedule (please let us know at least
24 hours in advance), just reply to this email.

Best regards,
The Hiring Team`, candidate.Name, when, meetLink)

	args, err := json.Marshal(map[string]string{
		"to":      candidate.Email,
		"subject": fmt.Sprintf("Interview Confirmed: %s", iv.Summary),
		"body":    body,
	})
	if err != nil {
		return fmt.Errorf("marshal notification args: %w", err)
	}

	_, err = safeCall(ctx, w.notify, args)
	return err
}

// fail moves the entry to the error state so a human can inspect and
// re-drive it. There is no automatic retry.
func (w *ApprovalWorkflow) fail(ctx context.Context, iv *domain.Interview, detail string) {
	w.logger.Error("approval workflow failed", "interview_id", iv.InterviewID, "detail", detail)
	w.markError(ctx, iv.InterviewID, detail)
	w.events.Publish(Event{Type: EventWorkflowErr, CandidateID: iv.CandidateID, InterviewID: iv.InterviewID, Detail: detail})
	w.auditTransition(ctx, iv, domain.AuditWorkflowFailed, detail)
}

func (w *ApprovalWorkflow) markError(ctx context.Context, interviewID int64, detail string) {
	err := w.repo.TransitionInterviewStatus(ctx, interviewID, domain.InterviewApproved, domain.InterviewError)
	if err != nil && !errors.Is(err, domain.ErrStatusConflict) {
		w.logger.Error("failed to mark interview errored",
			"interview_id", interviewID, "detail", detail, "error", err)
	}
}

func (w *ApprovalWorkflow) auditTransition(ctx context.Context, iv *domain.Interview, action, details string) {
	entry := &domain.AuditEntry{
		CandidateID: iv.CandidateID,
		JobID:       iv.JobID,
		Action:      action,
		Details:     details,
	}
	if err := w.repo.CreateAuditEntry(ctx, entry); err != nil {
		w.logger.Warn("failed to write audit entry", "action", action, "error", err)
	}
}
