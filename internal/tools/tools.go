// Package tools defines the action-tool contract and the registry the agent
// dispatches against. Action tools perform exactly one external effect per
// call and are never retried by the dispatcher.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parvagarwal/hireagent/internal/llm"
)

// Tool is one callable action advertised to the reasoning service.
type Tool interface {
	Name() string
	Description() string
	Parameters() llm.Schema
	Call(ctx context.Context, args json.RawMessage) (interface{}, error)
}

// Registry maps tool names to implementations. It is populated at startup;
// an unknown name at registration time is a configuration error, while
// unknown names arriving from the reasoning service at runtime fail soft in
// the dispatcher.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds a registry, rejecting duplicate tool names.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if _, exists := r.tools[t.Name()]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name())
		}
		r.tools[t.Name()] = t
		r.order = append(r.order, t.Name())
	}
	return r, nil
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Defs returns tool definitions in registration order, for the reasoning
// service's tool catalog.
func (r *Registry) Defs() []llm.ToolDef {
	defs := make([]llm.ToolDef, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, llm.ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// parseTime accepts RFC 3339 timestamps, with or without an offset, and
// normalizes to UTC.
func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t.UTC(), nil
}
