// Package calendar implements free/busy interval search for interview
// scheduling. Times are normalized to UTC and busy intervals are half-open:
// [Start, End).
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoSlot is returned when no free interval exists within the horizon.
var ErrNoSlot = errors.New("no free slot within the search horizon")

// BusyInterval is a half-open time range during which the calendar is
// unavailable for new bookings.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the half-open ranges [b.Start, b.End) and
// [start, end) intersect.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && end.After(b.Start)
}

// Slot is a free interval suitable for booking.
type Slot struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

// SearchParams constrains the slot search.
type SearchParams struct {
	From      time.Time
	Duration  time.Duration
	OpenHour  int // business window open, 24h clock, UTC
	CloseHour int // business window close, exclusive
	Horizon   time.Duration
}

func (p SearchParams) validate() error {
	if p.Duration <= 0 {
		return fmt.Errorf("duration must be > 0, got %s", p.Duration)
	}
	if p.OpenHour < 0 || p.CloseHour > 24 || p.OpenHour >= p.CloseHour {
		return fmt.Errorf("business hours window %d-%d is invalid", p.OpenHour, p.CloseHour)
	}
	if p.Horizon <= 0 {
		return fmt.Errorf("horizon must be > 0, got %s", p.Horizon)
	}
	return nil
}

// FindFreeSlot returns the earliest interval of the requested duration that
// starts within business hours, overlaps no busy interval, and lies within
// the horizon.
//
// The cursor advances monotonically: outside business hours it jumps to the
// next window open; on overlap it jumps to the end of the blocking interval
// and rescans. Jumping to the busy interval's end (rather than probing on a
// fixed grid) guarantees termination and yields the earliest feasible start.
func FindFreeSlot(p SearchParams, busy []BusyInterval) (Slot, error) {
	if err := p.validate(); err != nil {
		return Slot{}, err
	}

	cursor := p.From.UTC()
	horizonEnd := cursor.Add(p.Horizon)

	for cursor.Before(horizonEnd) {
		if cursor.Hour() < p.OpenHour {
			cursor = atHour(cursor, p.OpenHour)
			continue
		}
		if cursor.Hour() >= p.CloseHour {
			cursor = atHour(cursor.AddDate(0, 0, 1), p.OpenHour)
			continue
		}

		candidateEnd := cursor.Add(p.Duration)
		blocked := false
		for _, b := range busy {
			if b.Overlaps(cursor, candidateEnd) {
				cursor = b.End.UTC()
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		return Slot{Start: cursor, End: candidateEnd}, nil
	}

	return Slot{}, ErrNoSlot
}

func atHour(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, time.UTC)
}
