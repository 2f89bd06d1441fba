// Package agent implements the orchestration core: the bounded tool-calling
// control loop, the dispatcher that routes tool calls, the control tool that
// writes the pending-interview ledger, and the approval workflow that books
// approved interviews.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/parvagarwal/hireagent/internal/domain"
	"github.com/parvagarwal/hireagent/internal/llm"
	"github.com/parvagarwal/hireagent/internal/store"
	"github.com/parvagarwal/hireagent/internal/tools"
)

// Config tunes one orchestrator instance.
type Config struct {
	// MaxCycles bounds reasoning/acting alternations so a malfunctioning
	// reasoning backend cannot loop forever.
	MaxCycles int
	// HRManagerEmail receives the pending-approval notification.
	HRManagerEmail string
}

// Orchestrator drives the agent control loop for one candidate workflow at a
// time. Instances are independent: the registry, the reasoning client and
// the storage handle are passed in at construction, so tests can run many
// non-interfering orchestrators.
type Orchestrator struct {
	client   llm.Client
	registry *tools.Registry
	repo     store.Repository
	cfg      Config
	events   *Broker
	logger   *slog.Logger
}

// New creates an orchestrator.
func New(client llm.Client, registry *tools.Registry, repo store.Repository, cfg Config, events *Broker) *Orchestrator {
	if cfg.MaxCycles <= 0 {
		cfg.MaxCycles = 10
	}
	if events == nil {
		events = NewBroker()
	}
	return &Orchestrator{
		client:   client,
		registry: registry,
		repo:     repo,
		cfg:      cfg,
		events:   events,
		logger:   slog.Default(),
	}
}

// Events returns the activity broker for this orchestrator.
func (o *Orchestrator) Events() *Broker {
	return o.events
}

// Run executes the control loop for one candidate until the reasoning
// service returns a message with no tool calls, the reasoning service fails,
// or the cycle budget is exhausted. The returned Conversation is complete in
// every case; the error reports why the loop stopped early.
func (o *Orchestrator) Run(ctx context.Context, task Task) (*Conversation, error) {
	kickoff := fmt.Sprintf(
		"New high-fit candidate detected: %s. Start the interview proposal workflow. "+
			"Search for a 60-minute slot starting from tomorrow.", task.CandidateName)
	conv := NewConversation(task, kickoff)

	o.logger.Info("agent run started", "candidate_id", task.CandidateID, "job_id", task.JobID)
	o.events.Publish(Event{Type: EventRunStarted, CandidateID: task.CandidateID})
	o.audit(ctx, task, domain.AuditAgentTriggered, "")

	for cycle := 0; cycle < o.cfg.MaxCycles; cycle++ {
		resp, err := o.client.Complete(ctx, llm.CompletionRequest{
			System:   systemPrompt(o.cfg.HRManagerEmail),
			Messages: conv.Messages,
			Tools:    o.registry.Defs(),
		})
		if err != nil {
			// Fail-stop: one synthetic terminal message, no retry.
			o.logger.Error("reasoning service failed", "candidate_id", task.CandidateID, "error", err)
			conv.append(llm.Message{Role: llm.RoleAssistant, Content: fmt.Sprintf("Error: %v", err)})
			o.events.Publish(Event{Type: EventRunFailed, CandidateID: task.CandidateID, Detail: err.Error()})
			return conv, fmt.Errorf("reasoning service: %w", err)
		}

		conv.append(*resp)

		if !resp.HasToolCalls() {
			o.logger.Info("agent run finished", "candidate_id", task.CandidateID, "cycles", cycle+1)
			o.events.Publish(Event{Type: EventRunFinished, CandidateID: task.CandidateID, Detail: resp.Content})
			o.audit(ctx, task, domain.AuditAgentFinished, resp.Content)
			return conv, nil
		}

		for _, msg := range o.dispatch(ctx, conv, resp.ToolCalls) {
			conv.append(msg)
		}
	}

	conv.append(llm.Message{Role: llm.RoleAssistant, Content: "Error: cycle budget exhausted"})
	o.events.Publish(Event{Type: EventRunFailed, CandidateID: task.CandidateID, Detail: "cycle budget exhausted"})
	return conv, fmt.Errorf("cycle budget exhausted after %d cycles", o.cfg.MaxCycles)
}

// dispatch invokes each requested tool call and produces exactly one result
// message per call, in request order. A failing tool never aborts the batch;
// failures come back as structured error payloads.
func (o *Orchestrator) dispatch(ctx context.Context, conv *Conversation, calls []llm.ToolCall) []llm.Message {
	results := make([]llm.Message, 0, len(calls))
	for _, call := range calls {
		o.events.Publish(Event{Type: EventToolCall, CandidateID: conv.Task.CandidateID, Tool: call.Name})

		var payload interface{}
		switch {
		case call.Name == ControlToolName:
			payload = o.proposeInterview(ctx, conv, call.Args)
		default:
			tool, ok := o.registry.Get(call.Name)
			if !ok {
				o.logger.Warn("unknown tool requested", "tool", call.Name)
				payload = map[string]interface{}{"error": fmt.Sprintf("Tool '%s' not found.", call.Name)}
				break
			}
			result, err := safeCall(ctx, tool, call.Args)
			if err != nil {
				o.logger.Warn("tool call failed", "tool", call.Name, "error", err)
				payload = map[string]interface{}{"error": err.Error()}
			} else {
				payload = result
			}
		}

		content, err := json.Marshal(payload)
		if err != nil {
			content = []byte(fmt.Sprintf(`{"error": "marshal tool result: %v"}`, err))
		}
		o.events.Publish(Event{Type: EventToolResult, CandidateID: conv.Task.CandidateID, Tool: call.Name, Detail: string(content)})

		results = append(results, llm.Message{
			Role:       llm.RoleTool,
			Content:    string(content),
			ToolCallID: call.ID,
			ToolName:   call.Name,
		})
	}
	return results
}

// safeCall shields the loop from a panicking tool implementation.
func safeCall(ctx context.Context, tool tools.Tool, args json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool panicked: %v", r)
		}
	}()
	return tool.Call(ctx, args)
}

func (o *Orchestrator) audit(ctx context.Context, task Task, action, details string) {
	entry := &domain.AuditEntry{
		CandidateID: task.CandidateID,
		JobID:       task.JobID,
		Action:      action,
		Details:     details,
	}
	if err := o.repo.CreateAuditEntry(ctx, entry); err != nil {
		o.logger.Warn("failed to write audit entry", "action", action, "error", err)
	}
}
