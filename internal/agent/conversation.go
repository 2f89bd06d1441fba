package agent

import (
	"time"

	"github.com/parvagarwal/hireagent/internal/llm"
)

// Task identifies the candidate workflow one control-loop run operates on.
type Task struct {
	JobID          int64
	CandidateID    int64
	CandidateName  string
	CandidateEmail string
}

// Conversation is the mutable state threaded through one control-loop run:
// the append-only message history plus the task parameters. A run owns its
// Conversation exclusively; nothing else mutates it.
type Conversation struct {
	Task     Task
	Messages []llm.Message

	// Proposed interval and ledger id, written only by the control-tool
	// handler once a proposal has been persisted.
	ProposedStart time.Time
	ProposedEnd   time.Time
	InterviewID   int64
}

// NewConversation seeds a conversation with the kickoff instruction for the
// given task.
func NewConversation(task Task, kickoff string) *Conversation {
	return &Conversation{
		Task:     task,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: kickoff}},
	}
}

func (c *Conversation) append(msg llm.Message) {
	c.Messages = append(c.Messages, msg)
}

// LastMessage returns the most recent message, or nil for an empty history.
func (c *Conversation) LastMessage() *llm.Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}
