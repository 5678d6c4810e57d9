// Package share serializes today's events for the share/export surface:
// a human-readable text listing and an iCalendar document.
package share

import (
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/wrenfield/perch/internal/grid"
	"github.com/wrenfield/perch/internal/model"
)

// TodayEvents returns the events placed on now's weekday, ordered by start
// time (then id, for a stable order).
func TodayEvents(cal *model.Calendar, now time.Time) []model.Event {
	if cal == nil {
		return nil
	}
	today := grid.DayIndex(now)

	var events []model.Event
	for _, e := range cal.Events {
		if e.Day == today {
			events = append(events, e.Clone())
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].StartTime != events[j].StartTime {
			return events[i].StartTime < events[j].StartTime
		}
		return events[i].ID < events[j].ID
	})
	return events
}

// TodayText renders today's events as human-readable text.
func TodayText(cal *model.Calendar, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Today — %s\n", now.Format("Monday, 2 January 2006"))

	events := TodayEvents(cal, now)
	if len(events) == 0 {
		b.WriteString("\nNo events today.\n")
		return b.String()
	}

	b.WriteString("\n")
	for _, e := range events {
		fmt.Fprintf(&b, "%s–%s  %s", e.StartTime, e.EndTime, e.Template.Name)
		if len(e.Template.URLs) > 0 {
			fmt.Fprintf(&b, " (%s)", e.Template.URLs[0])
		}
		b.WriteString("\n")
	}
	return b.String()
}

// TodayICS renders today's events as an iCalendar document. Events whose
// clock strings fail to parse are skipped.
func TodayICS(cal *model.Calendar, now time.Time) string {
	c := ics.NewCalendar()
	c.SetMethod(ics.MethodPublish)
	c.SetProductId("-//perch//perch//EN")

	for _, e := range TodayEvents(cal, now) {
		start, err := grid.On(now, e.StartTime)
		if err != nil {
			continue
		}
		end, err := grid.On(now, e.EndTime)
		if err != nil {
			continue
		}
		if !end.After(start) {
			// Wrapped past midnight.
			end = end.AddDate(0, 0, 1)
		}

		ev := c.AddEvent(fmt.Sprintf("%s@perch", e.ID))
		ev.SetDtStampTime(now.UTC())
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(e.Template.Name)
		if e.Template.Description != "" {
			ev.SetDescription(e.Template.Description)
		}
		if len(e.Template.URLs) > 0 {
			ev.SetURL(e.Template.URLs[0])
		}
	}

	return c.Serialize()
}
