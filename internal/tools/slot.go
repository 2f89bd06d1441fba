package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parvagarwal/hireagent/internal/calendar"
	"github.com/parvagarwal/hireagent/internal/config"
	"github.com/parvagarwal/hireagent/internal/google"
	"github.com/parvagarwal/hireagent/internal/llm"
)

// FindFreeSlotName is the slot-search tool's advertised name.
const FindFreeSlotName = "find_free_calendar_slot"

// FindFreeSlotTool searches the calendar for the next open interval.
type FindFreeSlotTool struct {
	cal        google.CalendarService
	scheduling config.SchedulingConfig
}

// NewFindFreeSlotTool creates the slot-search tool.
func NewFindFreeSlotTool(cal google.CalendarService, scheduling config.SchedulingConfig) *FindFreeSlotTool {
	return &FindFreeSlotTool{cal: cal, scheduling: scheduling}
}

// Name implements Tool.
func (t *FindFreeSlotTool) Name() string { return FindFreeSlotName }

// Description implements Tool.
func (t *FindFreeSlotTool) Description() string {
	return "Finds the next available free time slot on the calendar. " +
		"Input is 'start_time' (ISO 8601) and 'duration_minutes'. " +
		"It searches business hours over the configured horizon."
}

// Parameters implements Tool.
func (t *FindFreeSlotTool) Parameters() llm.Schema {
	return llm.Schema{
		Type: "object",
		Properties: map[string]llm.Property{
			"start_time": {
				Type:        "string",
				Description: "The earliest time to search from, in ISO 8601 format, e.g. '2025-11-10T09:00:00Z'.",
			},
			"duration_minutes": {
				Type:        "integer",
				Description: "The duration of the meeting in minutes.",
			},
		},
		Required: []string{"start_time"},
	}
}

type findFreeSlotArgs struct {
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Call implements Tool. The free/busy fetch is the only external effect; the
// slot search itself is pure.
func (t *FindFreeSlotTool) Call(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	var args findFreeSlotArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if args.StartTime == "" {
		return nil, fmt.Errorf("missing 'start_time' argument")
	}

	from, err := parseTime(args.StartTime)
	if err != nil {
		return nil, err
	}
	duration := time.Duration(args.DurationMinutes) * time.Minute
	if duration <= 0 {
		duration = t.scheduling.DefaultDuration
	}

	busy, err := t.cal.FreeBusy(ctx, from, from.Add(t.scheduling.SearchHorizon))
	if err != nil {
		return nil, err
	}

	slot, err := calendar.FindFreeSlot(calendar.SearchParams{
		From:      from,
		Duration:  duration,
		OpenHour:  t.scheduling.BusinessOpenHour,
		CloseHour: t.scheduling.BusinessCloseHour,
		Horizon:   t.scheduling.SearchHorizon,
	}, busy)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"start_time": slot.Start.Format(time.RFC3339),
		"end_time":   slot.End.Format(time.RFC3339),
	}, nil
}
