package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/parvagarwal/hireagent/internal/google"
	"github.com/parvagarwal/hireagent/internal/llm"
)

// CreateEventName is the calendar booking tool's advertised name.
const CreateEventName = "create_calendar_event"

// CreateEventTool books a calendar event with attendees.
type CreateEventTool struct {
	cal google.CalendarService
}

// NewCreateEventTool creates the booking tool.
func NewCreateEventTool(cal google.CalendarService) *CreateEventTool {
	return &CreateEventTool{cal: cal}
}

// Name implements Tool.
func (t *CreateEventTool) Name() string { return CreateEventName }

// Description implements Tool.
func (t *CreateEventTool) Description() string {
	return "Creates a calendar event with a Meet link and invites the attendees. " +
		"Input is 'summary', 'start_time', 'end_time' (ISO 8601) and 'attendees' (emails)."
}

// Parameters implements Tool.
func (t *CreateEventTool) Parameters() llm.Schema {
	return llm.Schema{
		Type: "object",
		Properties: map[string]llm.Property{
			"summary":    {Type: "string", Description: "Event title."},
			"start_time": {Type: "string", Description: "Event start, ISO 8601."},
			"end_time":   {Type: "string", Description: "Event end, ISO 8601."},
			"attendees": {
				Type:        "array",
				Description: "Attendee email addresses.",
				Items:       &llm.Property{Type: "string"},
			},
			"location": {Type: "string", Description: "Optional location."},
		},
		Required: []string{"summary", "start_time", "end_time"},
	}
}

type createEventArgs struct {
	Summary   string   `json:"summary"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Attendees []string `json:"attendees"`
	Location  string   `json:"location"`
}

// Call implements Tool.
func (t *CreateEventTool) Call(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	var args createEventArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if args.Summary == "" || args.StartTime == "" || args.EndTime == "" {
		return nil, fmt.Errorf("missing required 'summary', 'start_time' or 'end_time' argument")
	}

	start, err := parseTime(args.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseTime(args.EndTime)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, fmt.Errorf("end_time must be after start_time")
	}

	return t.cal.InsertEvent(ctx, google.EventRequest{
		Summary:   args.Summary,
		Start:     start,
		End:       end,
		Attendees: args.Attendees,
		Location:  args.Location,
	})
}
