package store

import (
	"fmt"

	"github.com/wrenfield/perch/internal/grid"
	"github.com/wrenfield/perch/internal/model"
)

// EventPatch carries the fields an event move or resize supplies. Nil
// fields are left unchanged. End times are never recomputed from the
// template duration here; callers supply a consistent end themselves.
type EventPatch struct {
	Day       *int    `json:"day"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

// EventByID returns a deep copy of an event in the selected calendar, or
// nil when absent.
func (s *Store) EventByID(id string) *model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.selected()
	if cal == nil {
		return nil
	}
	for i := range cal.Events {
		if cal.Events[i].ID == id {
			e := cal.Events[i].Clone()
			return &e
		}
	}
	return nil
}

// AddEvent places a template onto the grid. The event takes an independent
// deep copy of the template as its snapshot, and its end time is derived
// from the snapshot duration. Returns nil when the template is absent.
func (s *Store) AddEvent(templateID string, day int, startTime string) (*model.Event, error) {
	if day < 0 || day > 6 {
		return nil, fmt.Errorf("day %d out of range 0..6", day)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.selected()
	if cal == nil {
		return nil, nil
	}

	var tpl *model.Template
	for i := range cal.Templates {
		if cal.Templates[i].ID == templateID {
			tpl = &cal.Templates[i]
			break
		}
	}
	if tpl == nil {
		return nil, nil
	}

	endTime, err := grid.AddMinutes(startTime, tpl.DurationMinutes)
	if err != nil {
		return nil, err
	}

	event := model.Event{
		ID:         s.newID(),
		TemplateID: tpl.ID,
		Template:   tpl.Clone(),
		StartTime:  startTime,
		EndTime:    endTime,
		Day:        day,
	}
	cal.Events = append(cal.Events, event)

	if err := s.persistCalendars(); err != nil {
		return nil, err
	}
	e := event.Clone()
	return &e, nil
}

// UpdateEvent shallow-merges the patch into an existing event. An absent id
// is a no-op returning nil.
func (s *Store) UpdateEvent(id string, patch EventPatch) (*model.Event, error) {
	if patch.Day != nil && (*patch.Day < 0 || *patch.Day > 6) {
		return nil, fmt.Errorf("day %d out of range 0..6", *patch.Day)
	}
	if patch.StartTime != nil {
		if _, _, err := grid.ParseClock(*patch.StartTime); err != nil {
			return nil, err
		}
	}
	if patch.EndTime != nil {
		if _, _, err := grid.ParseClock(*patch.EndTime); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.selected()
	if cal == nil {
		return nil, nil
	}

	for i := range cal.Events {
		if cal.Events[i].ID != id {
			continue
		}
		ev := &cal.Events[i]
		if patch.Day != nil {
			ev.Day = *patch.Day
		}
		if patch.StartTime != nil {
			ev.StartTime = *patch.StartTime
		}
		if patch.EndTime != nil {
			ev.EndTime = *patch.EndTime
		}

		if err := s.persistCalendars(); err != nil {
			return nil, err
		}
		e := ev.Clone()
		return &e, nil
	}
	return nil, nil
}

// RecomputeEventEnd refreshes an event's template snapshot from the current
// template definition (when it still exists) and re-derives the end time
// from the snapshot duration. This is the only operation that lets template
// edits reach an already-placed event. Absent event id is a no-op.
func (s *Store) RecomputeEventEnd(id string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.selected()
	if cal == nil {
		return nil, nil
	}

	for i := range cal.Events {
		if cal.Events[i].ID != id {
			continue
		}
		ev := &cal.Events[i]

		for j := range cal.Templates {
			if cal.Templates[j].ID == ev.TemplateID {
				ev.Template = cal.Templates[j].Clone()
				break
			}
		}

		endTime, err := grid.AddMinutes(ev.StartTime, ev.Template.DurationMinutes)
		if err != nil {
			return nil, err
		}
		ev.EndTime = endTime

		if err := s.persistCalendars(); err != nil {
			return nil, err
		}
		e := ev.Clone()
		return &e, nil
	}
	return nil, nil
}

// DeleteEvent removes an event by id. An absent id is a no-op.
func (s *Store) DeleteEvent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.selected()
	if cal == nil {
		return nil
	}

	kept := cal.Events[:0]
	removed := false
	for _, e := range cal.Events {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return nil
	}
	cal.Events = kept

	return s.persistCalendars()
}
