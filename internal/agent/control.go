package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parvagarwal/hireagent/internal/domain"
)

// ControlToolName is the reserved name of the one tool that mutates the
// pending-interview ledger. It is deliberately absent from the action-tool
// registry; the dispatcher recognizes it by name.
const ControlToolName = "create_pending_interview"

// controlArgs tolerates both argument shapes the reasoning service emits:
// the canonical start_time/end_time pair, and the legacy
// interview_time/interview_duration_minutes pair.
type controlArgs struct {
	StartTime       string `json:"start_time"`
	InterviewTime   string `json:"interview_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes *int   `json:"interview_duration_minutes"`
}

// proposeInterview handles the control tool: it validates the proposed
// interval, persists a pending ledger entry, and records the interval on the
// conversation. The returned payload always carries a "success" boolean the
// reasoning service treats as a hard gate.
func (o *Orchestrator) proposeInterview(ctx context.Context, conv *Conversation, raw json.RawMessage) map[string]interface{} {
	start, end, err := parseControlArgs(raw)
	if err != nil {
		o.logger.Warn("control tool rejected arguments", "candidate_id", conv.Task.CandidateID, "error", err)
		return map[string]interface{}{"error": err.Error(), "success": false}
	}

	iv := &domain.Interview{
		CandidateID:   conv.Task.CandidateID,
		JobID:         conv.Task.JobID,
		Summary:       fmt.Sprintf("Interview with %s", conv.Task.CandidateName),
		ProposedStart: start,
		ProposedEnd:   end,
		Status:        domain.InterviewPending,
	}
	if err := o.repo.CreateInterview(ctx, iv); err != nil {
		o.logger.Error("failed to persist interview proposal", "candidate_id", conv.Task.CandidateID, "error", err)
		return map[string]interface{}{"error": err.Error(), "success": false}
	}

	// The conversation's task context is the single source of truth for the
	// proposed interval; only this handler writes it.
	conv.ProposedStart = start
	conv.ProposedEnd = end
	conv.InterviewID = iv.InterviewID

	o.logger.Info("interview proposed",
		"interview_id", iv.InterviewID,
		"candidate_id", conv.Task.CandidateID,
		"start", start, "end", end)
	o.audit(ctx, conv.Task, domain.AuditInterviewProposed,
		fmt.Sprintf("interview %d: %s - %s", iv.InterviewID, start.Format(time.RFC3339), end.Format(time.RFC3339)))

	return map[string]interface{}{
		"interview_id": iv.InterviewID,
		"status":       string(domain.InterviewPending),
		"success":      true,
	}
}

func parseControlArgs(raw json.RawMessage) (start, end time.Time, err error) {
	var args controlArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid arguments: %w", err)
	}

	startStr := args.StartTime
	if startStr == "" {
		startStr = args.InterviewTime
	}
	if startStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("missing 'start_time' or 'interview_time' argument")
	}
	start, err = parseTimestamp(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	switch {
	case args.EndTime != "":
		end, err = parseTimestamp(args.EndTime)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	case args.DurationMinutes != nil:
		end = start.Add(time.Duration(*args.DurationMinutes) * time.Minute)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("missing 'end_time' or 'interview_duration_minutes' argument")
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("proposed end %s is not after start %s", end, start)
	}
	return start, end, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t.UTC(), nil
}
