package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wrenfield/perch/internal/model"
)

// MaxAttachmentBytes is the combined decoded-size ceiling across a single
// template's attachments.
const MaxAttachmentBytes = 20 << 20 // 20 MB

// ErrAttachmentTooLarge is returned when adding a file would push a
// template's combined attachment size past MaxAttachmentBytes.
var ErrAttachmentTooLarge = errors.New("combined attachment size exceeds 20 MB")

// TemplateByID returns a deep copy of a template in the selected calendar,
// or nil when absent.
func (s *Store) TemplateByID(id string) *model.Template {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.selected()
	if cal == nil {
		return nil
	}
	for i := range cal.Templates {
		if cal.Templates[i].ID == id {
			t := cal.Templates[i].Clone()
			return &t
		}
	}
	return nil
}

// AddTemplate creates a template in the selected calendar. Returns nil when
// no calendar is selected.
func (s *Store) AddTemplate(name, description, color string, durationMinutes int, urls []string) (*model.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.selected()
	if cal == nil {
		return nil, nil
	}

	tpl := model.Template{
		ID:              s.newID(),
		Name:            strings.TrimSpace(name),
		Description:     description,
		Color:           color,
		DurationMinutes: durationMinutes,
		URLs:            append([]string{}, urls...),
		Attachments:     []model.Attachment{},
	}
	cal.Templates = append(cal.Templates, tpl)

	if err := s.persistCalendars(); err != nil {
		return nil, err
	}
	t := tpl.Clone()
	return &t, nil
}

// UpdateTemplate replaces a template's definition fields. Attachments are
// managed separately and kept as-is. Events placed from the template keep
// their snapshots unchanged. An absent id is a no-op returning nil.
func (s *Store) UpdateTemplate(id, name, description, color string, durationMinutes int, urls []string) (*model.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.selected()
	if cal == nil {
		return nil, nil
	}

	for i := range cal.Templates {
		if cal.Templates[i].ID != id {
			continue
		}
		tpl := &cal.Templates[i]
		tpl.Name = strings.TrimSpace(name)
		tpl.Description = description
		tpl.Color = color
		tpl.DurationMinutes = durationMinutes
		tpl.URLs = append([]string{}, urls...)

		if err := s.persistCalendars(); err != nil {
			return nil, err
		}
		t := tpl.Clone()
		return &t, nil
	}
	return nil, nil
}

// DeleteTemplate removes a template from the selected calendar. Events
// placed from it keep their snapshots; nothing cascades. An absent id is a
// no-op.
func (s *Store) DeleteTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.selected()
	if cal == nil {
		return nil
	}

	kept := cal.Templates[:0]
	removed := false
	for _, t := range cal.Templates {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	if !removed {
		return nil
	}
	cal.Templates = kept

	if s.selectedTemplateID == id {
		s.selectedTemplateID = ""
	}
	return s.persistCalendars()
}

// ToggleTemplate flips the template selection: selecting an already-selected
// template clears the selection. Returns the resulting selection. Toggling
// an absent template leaves the selection unchanged.
func (s *Store) ToggleTemplate(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedTemplateID == id {
		s.selectedTemplateID = ""
		return ""
	}

	cal := s.selected()
	if cal == nil {
		return s.selectedTemplateID
	}
	for i := range cal.Templates {
		if cal.Templates[i].ID == id {
			s.selectedTemplateID = id
			return id
		}
	}
	return s.selectedTemplateID
}

// AddAttachment appends a file to a template, enforcing the combined-size
// ceiling. On rejection the attachment list is left untouched. An absent
// template id is a no-op returning nil.
func (s *Store) AddAttachment(templateID string, att model.Attachment) (*model.Template, error) {
	if err := att.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.selected()
	if cal == nil {
		return nil, nil
	}

	for i := range cal.Templates {
		if cal.Templates[i].ID != templateID {
			continue
		}
		tpl := &cal.Templates[i]

		if tpl.AttachmentSize()+att.DecodedSize() > MaxAttachmentBytes {
			return nil, fmt.Errorf("attachment %q: %w", att.FileName, ErrAttachmentTooLarge)
		}

		tpl.Attachments = append(tpl.Attachments, att.Sanitized())
		if err := s.persistCalendars(); err != nil {
			return nil, err
		}
		t := tpl.Clone()
		return &t, nil
	}
	return nil, nil
}

// RemoveAttachment deletes an attachment by file name. Absent template or
// file name is a no-op returning nil.
func (s *Store) RemoveAttachment(templateID, fileName string) (*model.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.selected()
	if cal == nil {
		return nil, nil
	}

	for i := range cal.Templates {
		if cal.Templates[i].ID != templateID {
			continue
		}
		tpl := &cal.Templates[i]

		kept := tpl.Attachments[:0]
		removed := false
		for _, a := range tpl.Attachments {
			if a.FileName == fileName {
				removed = true
				continue
			}
			kept = append(kept, a)
		}
		if !removed {
			return nil, nil
		}
		tpl.Attachments = kept

		if err := s.persistCalendars(); err != nil {
			return nil, err
		}
		t := tpl.Clone()
		return &t, nil
	}
	return nil, nil
}
