package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFreeBusyParsesIntervals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/freeBusy" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("Unexpected auth header: %s", auth)
		}
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req["timeZone"] != "UTC" {
			t.Errorf("Expected UTC timezone, got %v", req["timeZone"])
		}
		_, _ = w.Write([]byte(`{
			"calendars": {"primary": {"busy": [
				{"start": "2025-11-10T09:00:00Z", "end": "2025-11-10T10:00:00Z"}
			]}}
		}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{AccessToken: "test-token", CalendarBaseURL: srv.URL, GmailBaseURL: srv.URL})

	busy, err := client.FreeBusy(context.Background(),
		time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FreeBusy failed: %v", err)
	}
	if len(busy) != 1 {
		t.Fatalf("Expected 1 busy interval, got %d", len(busy))
	}
	if !busy[0].Start.Equal(time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected interval start: %v", busy[0].Start)
	}
}

func TestInsertEventExtractsMeetLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/calendars/primary/events") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("conferenceDataVersion") != "1" {
			t.Error("Expected conferenceDataVersion=1")
		}
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req["conferenceData"] == nil {
			t.Error("Expected conference create request")
		}
		_, _ = w.Write([]byte(`{
			"status": "confirmed",
			"htmlLink": "https://calendar.google.com/event?eid=1",
			"conferenceData": {"entryPoints": [
				{"entryPointType": "phone", "uri": "tel:+1234"},
				{"entryPointType": "video", "uri": "https://meet.google.com/abc-defg-hij"}
			]}
		}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{AccessToken: "t", CalendarBaseURL: srv.URL, GmailBaseURL: srv.URL})

	result, err := client.InsertEvent(context.Background(), EventRequest{
		Summary:   "Interview with Ada",
		Start:     time.Date(2025, 11, 10, 10, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 11, 10, 11, 0, 0, 0, time.UTC),
		Attendees: []string{"ada@example.com"},
	})
	if err != nil {
		t.Fatalf("InsertEvent failed: %v", err)
	}
	if result.Status != "confirmed" {
		t.Errorf("Unexpected status: %s", result.Status)
	}
	if result.MeetLink != "https://meet.google.com/abc-defg-hij" {
		t.Errorf("Expected video entry point as meet link, got %q", result.MeetLink)
	}
}

func TestSendEncodesRFC822Message(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me/messages/send" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		var req struct {
			Raw string `json:"raw"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		raw = req.Raw
		_, _ = w.Write([]byte(`{"id": "msg-1"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{AccessToken: "t", CalendarBaseURL: srv.URL, GmailBaseURL: srv.URL})

	if err := client.Send(context.Background(), "ada@example.com", "Interview Confirmed", "See you soon."); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("Raw message is not base64url: %v", err)
	}
	msg := string(decoded)
	if !strings.Contains(msg, "To: ada@example.com") || !strings.Contains(msg, "Subject: Interview Confirmed") {
		t.Errorf("Unexpected message headers: %q", msg)
	}
	if !strings.HasSuffix(msg, "See you soon.") {
		t.Errorf("Expected body at end of message, got %q", msg)
	}
}

func TestPostSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid credentials"}}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{AccessToken: "bad", CalendarBaseURL: srv.URL, GmailBaseURL: srv.URL})

	_, err := client.FreeBusy(context.Background(), time.Now(), time.Now().Add(time.Hour))
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Errorf("Expected 401 error, got %v", err)
	}
}
