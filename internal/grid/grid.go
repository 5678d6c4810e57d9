// Package grid generates the month and week cell layouts the widget renders,
// using a Monday-start week throughout.
package grid

import (
	"fmt"
	"time"
)

// MonthCells is the fixed cell count of a month view: 6 full weeks.
const MonthCells = 42

// Cell is one day slot in a month or week view.
type Cell struct {
	DayNumber      int       `json:"day_number"`
	InCurrentMonth bool      `json:"in_current_month"`
	Date           time.Time `json:"date"`
}

// DayIndex maps a date to the Monday-start weekday index: 0=Monday .. 6=Sunday.
// time.Weekday counts from Sunday, hence the +6 remap.
func DayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekStart returns midnight of the Monday of the week containing ref.
func WeekStart(ref time.Time) time.Time {
	return startOfDay(ref).AddDate(0, 0, -DayIndex(ref))
}

// MonthGrid returns exactly 42 cells covering the month of ref, starting on
// the Monday at or before the 1st and filling trailing days from the next
// month so the view always spans 6 weeks.
func MonthGrid(ref time.Time) []Cell {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	start := first.AddDate(0, 0, -DayIndex(first))

	cells := make([]Cell, 0, MonthCells)
	for i := 0; i < MonthCells; i++ {
		d := start.AddDate(0, 0, i)
		cells = append(cells, Cell{
			DayNumber:      d.Day(),
			InCurrentMonth: d.Month() == ref.Month() && d.Year() == ref.Year(),
			Date:           d,
		})
	}
	return cells
}

// WeekGrid returns the 7 cells of the Monday-start week containing ref.
// Every cell is marked in-month relative to ref's month.
func WeekGrid(ref time.Time) []Cell {
	start := WeekStart(ref)

	cells := make([]Cell, 0, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		cells = append(cells, Cell{
			DayNumber:      d.Day(),
			InCurrentMonth: d.Month() == ref.Month() && d.Year() == ref.Year(),
			Date:           d,
		})
	}
	return cells
}

// ParseClock parses an "HH:MM" wall-clock string into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// On combines a calendar date with an "HH:MM" clock string into an absolute
// instant in the date's location.
func On(date time.Time, clock string) (time.Time, error) {
	h, m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location()), nil
}

// AddMinutes returns the "HH:MM" clock that is minutes after clock,
// wrapping past midnight.
func AddMinutes(clock string, minutes int) (string, error) {
	h, m, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	t := time.Date(2000, 1, 1, h, m, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
	return t.Format("15:04"), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
