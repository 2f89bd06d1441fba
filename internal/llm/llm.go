// Package llm defines the reasoning-service contract and its Gemini-backed
// implementation. The orchestrator depends only on the interfaces here, so a
// scripted fake can stand in for the real backend in tests.
package llm

import (
	"context"
	"encoding/json"
)

// Role identifies the author of a message.
type Role string

const (
	// RoleUser marks input from the hosting application or a human.
	RoleUser Role = "user"
	// RoleAssistant marks output from the reasoning service.
	RoleAssistant Role = "assistant"
	// RoleTool marks a tool result fed back to the reasoning service.
	RoleTool Role = "tool"
)

// ToolCall is a structured request emitted by the reasoning service, naming
// an action and its arguments. The ID correlates the call with its result.
type ToolCall struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// Message is one turn in a conversation.
type Message struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// Set on RoleTool messages only.
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`
}

// HasToolCalls reports whether the message requests tool invocations.
func (m *Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// Property describes one parameter in a tool schema.
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Items       *Property `json:"items,omitempty"`
}

// Schema is the JSON-schema subset used for tool parameter declarations.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// ToolDef advertises one callable tool to the reasoning service.
type ToolDef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  Schema `json:"parameters"`
}

// CompletionRequest carries everything the reasoning service needs for one
// step: the fixed system instruction, the ordered history, and the catalog
// of available tools.
type CompletionRequest struct {
	System   string
	Messages []Message
	Tools    []ToolDef
}

// Client is the reasoning-service capability: given context, return the next
// action (a message with tool calls) or a final answer (a plain message).
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*Message, error)
}

// Embedder produces a vector representation of text.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
}
