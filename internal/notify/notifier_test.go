package notify

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/wrenfield/perch/internal/model"
)

// 2026-08-26 is a Wednesday, day index 2.
var nineAM = time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)

func eventAt(id, title string, day int, start string) model.Event {
	return model.Event{
		ID:        id,
		Template:  model.Template{Name: title},
		StartTime: start,
		Day:       day,
	}
}

func TestUpcomingWindow(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		wantNil bool
		minutes int
	}{
		{"half hour ahead", "09:30", false, 30},
		{"exactly at window edge", "10:00", false, 60},
		{"one minute past window", "10:01", true, 0},
		{"already started", "08:59", true, 0},
		{"starting this instant", "09:00", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []model.Event{eventAt("e1", "Standup", 2, tt.start)}
			got := Upcoming(events, nineAM, time.Hour)

			if tt.wantNil {
				if got != nil {
					t.Fatalf("got notice %+v, want none", got)
				}
				return
			}
			if got == nil {
				t.Fatal("got no notice, want one")
			}
			if got.MinutesLeft != tt.minutes {
				t.Errorf("minutes_left = %d, want %d", got.MinutesLeft, tt.minutes)
			}
			if got.Title != "Standup" {
				t.Errorf("title = %q", got.Title)
			}
		})
	}
}

func TestUpcomingPartialMinutesRoundUp(t *testing.T) {
	// 29m30s out rounds up to 30 minutes.
	now := time.Date(2026, 8, 26, 9, 0, 30, 0, time.UTC)
	events := []model.Event{eventAt("e1", "Standup", 2, "09:30")}

	got := Upcoming(events, now, time.Hour)
	if got == nil {
		t.Fatal("got no notice")
	}
	if got.MinutesLeft != 30 {
		t.Errorf("minutes_left = %d, want ceil to 30", got.MinutesLeft)
	}
}

func TestUpcomingPicksSoonest(t *testing.T) {
	events := []model.Event{
		eventAt("far", "Lunch", 2, "09:55"),
		eventAt("near", "Standup", 2, "09:10"),
		eventAt("other-day", "Gym", 3, "09:05"),
	}

	got := Upcoming(events, nineAM, time.Hour)
	if got == nil {
		t.Fatal("got no notice")
	}
	if got.EventID != "near" {
		t.Errorf("picked %q, want the soonest %q", got.EventID, "near")
	}
}

func TestUpcomingTieKeepsFirstEncountered(t *testing.T) {
	events := []model.Event{
		eventAt("first", "A", 2, "09:30"),
		eventAt("second", "B", 2, "09:30"),
	}

	got := Upcoming(events, nineAM, time.Hour)
	if got == nil || got.EventID != "first" {
		t.Errorf("got %+v, want deterministic first-encountered tie break", got)
	}
}

func TestUpcomingIgnoresOtherDays(t *testing.T) {
	events := []model.Event{eventAt("e1", "Gym", 3, "09:30")}
	if got := Upcoming(events, nineAM, time.Hour); got != nil {
		t.Errorf("got %+v for an event on another day", got)
	}
}

func TestUpcomingEmpty(t *testing.T) {
	if got := Upcoming(nil, nineAM, time.Hour); got != nil {
		t.Errorf("got %+v for no events", got)
	}
}

type fakeSource struct {
	cal *model.Calendar
}

func (f *fakeSource) SelectedCalendar() *model.Calendar { return f.cal }

func TestNotifierScanAndChangeCallback(t *testing.T) {
	src := &fakeSource{cal: &model.Calendar{
		Events: []model.Event{eventAt("e1", "Standup", 2, "09:30")},
	}}

	var fired []*Notice
	n := New(src, time.Minute, time.Hour, func(notice *Notice) {
		fired = append(fired, notice)
	}, slog.Default())
	n.now = func() time.Time { return nineAM }

	n.Scan()
	if got := n.Current(); got == nil || got.MinutesLeft != 30 {
		t.Fatalf("current = %+v, want 30 minutes left", got)
	}
	if len(fired) != 1 {
		t.Fatalf("change callback fired %d times, want 1", len(fired))
	}

	// Unchanged scan does not re-fire.
	n.Scan()
	if len(fired) != 1 {
		t.Errorf("callback fired on unchanged notice")
	}

	// Event removed: notice clears and the callback reports nil.
	src.cal.Events = nil
	n.Scan()
	if n.Current() != nil {
		t.Error("notice should clear when the event disappears")
	}
	if len(fired) != 2 || fired[1] != nil {
		t.Errorf("expected a nil change notification, got %v", fired)
	}
}

func TestNotifierNoSelectedCalendar(t *testing.T) {
	n := New(&fakeSource{cal: nil}, time.Minute, time.Hour, nil, slog.Default())
	n.now = func() time.Time { return nineAM }

	n.Scan()
	if n.Current() != nil {
		t.Error("no calendar should mean no notice")
	}
}

func TestNotifierStopCancelsTimer(t *testing.T) {
	n := New(&fakeSource{cal: &model.Calendar{}}, 10*time.Millisecond, time.Hour, nil, slog.Default())
	n.now = func() time.Time { return nineAM }

	n.Start(context.Background())

	stopped := make(chan struct{})
	go func() {
		n.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return; timer leaked")
	}
}
