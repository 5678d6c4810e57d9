package store

import (
	"strings"

	"github.com/google/uuid"

	"github.com/wrenfield/perch/internal/model"
)

// CalendarByID returns a deep copy of the calendar, or nil when absent.
func (s *Store) CalendarByID(id string) *model.Calendar {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.findCalendar(id)
	if cal == nil {
		return nil
	}
	c := cal.Clone()
	return &c
}

// AddCalendar creates a new empty calendar and selects it.
func (s *Store) AddCalendar(name string) (*model.Calendar, error) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	cal := model.Calendar{
		ID:        uuid.NewString(),
		Name:      name,
		Templates: []model.Template{},
		Events:    []model.Event{},
	}
	s.calendars = append(s.calendars, cal)
	s.selectedID = cal.ID
	s.selectedTemplateID = ""

	if err := s.persistCalendars(); err != nil {
		return nil, err
	}
	if err := s.persistSelection(); err != nil {
		return nil, err
	}

	c := cal.Clone()
	return &c, nil
}

// RenameCalendar changes a calendar's name. An absent id is a no-op
// returning nil.
func (s *Store) RenameCalendar(id, name string) (*model.Calendar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.findCalendar(id)
	if cal == nil {
		return nil, nil
	}
	cal.Name = strings.TrimSpace(name)

	if err := s.persistCalendars(); err != nil {
		return nil, err
	}
	c := cal.Clone()
	return &c, nil
}

// DeleteCalendar removes a calendar. If it was selected, selection falls
// back to the first remaining calendar, or to none when it was the last.
// An absent id is a no-op.
func (s *Store) DeleteCalendar(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.calendars {
		if s.calendars[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	s.calendars = append(s.calendars[:idx], s.calendars[idx+1:]...)

	if s.selectedID == id {
		s.selectedID = ""
		if len(s.calendars) > 0 {
			s.selectedID = s.calendars[0].ID
		}
		s.selectedTemplateID = ""
	}

	if err := s.persistCalendars(); err != nil {
		return err
	}
	return s.persistSelection()
}

// ReorderCalendars performs a stable move of the calendar at from to
// position to. Out-of-range indices are a no-op.
func (s *Store) ReorderCalendars(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.calendars)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return nil
	}

	moved := s.calendars[from]
	s.calendars = append(s.calendars[:from], s.calendars[from+1:]...)
	s.calendars = append(s.calendars[:to], append([]model.Calendar{moved}, s.calendars[to:]...)...)

	return s.persistCalendars()
}

// SelectCalendar makes the calendar with id the selected one. An absent id
// is a no-op returning nil.
func (s *Store) SelectCalendar(id string) (*model.Calendar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.findCalendar(id)
	if cal == nil {
		return nil, nil
	}
	if s.selectedID != id {
		s.selectedID = id
		s.selectedTemplateID = ""
	}

	if err := s.persistSelection(); err != nil {
		return nil, err
	}
	c := cal.Clone()
	return &c, nil
}
