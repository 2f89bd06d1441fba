package agent

import (
	"sync"
	"time"
)

// Activity event types published by the orchestrator and approval workflow.
const (
	EventRunStarted  = "run_started"
	EventToolCall    = "tool_call"
	EventToolResult  = "tool_result"
	EventRunFinished = "run_finished"
	EventRunFailed   = "run_failed"
	EventScheduled   = "interview_scheduled"
	EventWorkflowErr = "workflow_failed"
)

// Event is one item on the live activity feed.
type Event struct {
	Type        string    `json:"type"`
	CandidateID int64     `json:"candidate_id"`
	InterviewID int64     `json:"interview_id,omitempty"`
	Tool        string    `json:"tool,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	Time        time.Time `json:"time"`
}

// Broker fans agent activity out to websocket subscribers. Publishing never
// blocks; slow subscribers drop events.
type Broker struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewBroker creates an activity broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a listener. The returned cancel function must be
// called to release it.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 100)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to all current subscribers.
func (b *Broker) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
