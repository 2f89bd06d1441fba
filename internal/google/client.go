// Package google provides thin REST clients for the Google Calendar and
// Gmail APIs. Token acquisition and refresh are handled outside the service;
// the clients take a ready bearer token.
package google

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/parvagarwal/hireagent/internal/calendar"
)

const (
	calendarBaseURL = "https://www.googleapis.com/calendar/v3"
	gmailBaseURL    = "https://gmail.googleapis.com/gmail/v1"
)

// CalendarService is the calendar collaborator boundary.
type CalendarService interface {
	// FreeBusy returns the busy intervals on the configured calendar
	// between from and to.
	FreeBusy(ctx context.Context, from, to time.Time) ([]calendar.BusyInterval, error)
	// InsertEvent books an event and returns its links.
	InsertEvent(ctx context.Context, req EventRequest) (*EventResult, error)
}

// MailService is the notification collaborator boundary.
type MailService interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EventRequest describes a calendar event to create.
type EventRequest struct {
	Summary   string
	Start     time.Time
	End       time.Time
	Attendees []string
	Location  string
}

// EventResult carries the booked event's links.
type EventResult struct {
	Status   string `json:"status"`
	HTMLLink string `json:"html_link"`
	MeetLink string `json:"meet_link"`
}

// Client implements CalendarService and MailService over REST.
type Client struct {
	httpClient      *http.Client
	calendarBaseURL string
	gmailBaseURL    string
	accessToken     string
	calendarID      string
}

// ClientConfig configures the Google API client.
type ClientConfig struct {
	AccessToken     string
	CalendarID      string
	CalendarBaseURL string // overridden in tests
	GmailBaseURL    string // overridden in tests
}

// NewClient creates a Google API client.
func NewClient(cfg ClientConfig) *Client {
	calBase := cfg.CalendarBaseURL
	if calBase == "" {
		calBase = calendarBaseURL
	}
	gmailBase := cfg.GmailBaseURL
	if gmailBase == "" {
		gmailBase = gmailBaseURL
	}
	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		calendarBaseURL: calBase,
		gmailBaseURL:    gmailBase,
		accessToken:     cfg.AccessToken,
		calendarID:      calendarID,
	}
}

type freeBusyRequest struct {
	TimeMin  string           `json:"timeMin"`
	TimeMax  string           `json:"timeMax"`
	TimeZone string           `json:"timeZone"`
	Items    []freeBusyItemID `json:"items"`
}

type freeBusyItemID struct {
	ID string `json:"id"`
}

type freeBusyResponse struct {
	Calendars map[string]struct {
		Busy []struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
		} `json:"busy"`
	} `json:"calendars"`
}

// FreeBusy queries busy intervals on the configured calendar.
func (c *Client) FreeBusy(ctx context.Context, from, to time.Time) ([]calendar.BusyInterval, error) {
	body := freeBusyRequest{
		TimeMin:  from.UTC().Format(time.RFC3339),
		TimeMax:  to.UTC().Format(time.RFC3339),
		TimeZone: "UTC",
		Items:    []freeBusyItemID{{ID: c.calendarID}},
	}

	var resp freeBusyResponse
	if err := c.post(ctx, c.calendarBaseURL+"/freeBusy", body, &resp); err != nil {
		return nil, fmt.Errorf("freebusy query: %w", err)
	}

	var busy []calendar.BusyInterval
	for _, interval := range resp.Calendars[c.calendarID].Busy {
		busy = append(busy, calendar.BusyInterval{
			Start: interval.Start.UTC(),
			End:   interval.End.UTC(),
		})
	}
	return busy, nil
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type eventAttendee struct {
	Email string `json:"email"`
}

type insertEventRequest struct {
	Summary        string          `json:"summary"`
	Location       string          `json:"location,omitempty"`
	Start          eventTime       `json:"start"`
	End            eventTime       `json:"end"`
	Attendees      []eventAttendee `json:"attendees,omitempty"`
	ConferenceData *conferenceData `json:"conferenceData,omitempty"`
}

type conferenceData struct {
	CreateRequest conferenceCreateRequest `json:"createRequest"`
}

type conferenceCreateRequest struct {
	RequestID string `json:"requestId"`
}

type insertEventResponse struct {
	Status         string `json:"status"`
	HTMLLink       string `json:"htmlLink"`
	ConferenceData *struct {
		EntryPoints []struct {
			EntryPointType string `json:"entryPointType"`
			URI            string `json:"uri"`
		} `json:"entryPoints"`
	} `json:"conferenceData"`
	HangoutLink string `json:"hangoutLink"`
}

// InsertEvent books a calendar event with a Meet conference attached.
func (c *Client) InsertEvent(ctx context.Context, req EventRequest) (*EventResult, error) {
	body := insertEventRequest{
		Summary:  req.Summary,
		Location: req.Location,
		Start:    eventTime{DateTime: req.Start.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		End:      eventTime{DateTime: req.End.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		ConferenceData: &conferenceData{
			CreateRequest: conferenceCreateRequest{RequestID: fmt.Sprintf("hireagent-%d", time.Now().UnixNano())},
		},
	}
	for _, email := range req.Attendees {
		body.Attendees = append(body.Attendees, eventAttendee{Email: email})
	}

	url := fmt.Sprintf("%s/calendars/%s/events?conferenceDataVersion=1", c.calendarBaseURL, c.calendarID)
	var resp insertEventResponse
	if err := c.post(ctx, url, body, &resp); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	result := &EventResult{
		Status:   resp.Status,
		HTMLLink: resp.HTMLLink,
		MeetLink: resp.HangoutLink,
	}
	if result.MeetLink == "" && resp.ConferenceData != nil {
		for _, ep := range resp.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				result.MeetLink = ep.URI
				break
			}
		}
	}
	return result, nil
}

type gmailSendRequest struct {
	Raw string `json:"raw"`
}

// Send delivers an email through the Gmail API.
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	raw := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s", to, subject, body)
	req := gmailSendRequest{Raw: base64.URLEncoding.EncodeToString([]byte(raw))}

	var resp json.RawMessage
	if err := c.post(ctx, c.gmailBaseURL+"/users/me/messages/send", req, &resp); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call google api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("google api status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var (
	_ CalendarService = (*Client)(nil)
	_ MailService     = (*Client)(nil)
)
