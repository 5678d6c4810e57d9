// Package store owns the canonical in-memory state for all calendars and
// synchronizes it to local storage on every mutation. A single mutex guards
// the state; each mutation writes the full affected storage key before
// returning, last-write-wins.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wrenfield/perch/internal/model"
	"github.com/wrenfield/perch/internal/storage"
)

// Storage keys. Each holds a whole JSON document (or a bare string).
const (
	keyCalendars        = "calendars"
	keySelectedCalendar = "selected_calendar"
	keyViewMode         = "view_mode"
	keyPrefs            = "widget_prefs"
)

const defaultCalendarName = "My Calendar"

type Store struct {
	mu     sync.Mutex
	kv     *storage.KV
	logger *slog.Logger

	calendars          []model.Calendar
	selectedID         string
	selectedTemplateID string
	viewMode           string
	prefs              model.Prefs

	lastID int64
}

func New(kv *storage.KV, logger *slog.Logger) *Store {
	return &Store{
		kv:       kv,
		logger:   logger,
		viewMode: model.ViewWeek,
		prefs:    model.DefaultPrefs(),
	}
}

// Load reads the persisted state. Missing or unparseable calendars are
// recovered by bootstrapping a single empty default calendar and persisting
// it immediately so subsequent loads are stable. Parse failures are never
// fatal.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadCalendars(); err != nil {
		return err
	}
	if err := s.loadSelection(); err != nil {
		return err
	}
	if err := s.loadViewMode(); err != nil {
		return err
	}
	return s.loadPrefs()
}

func (s *Store) loadCalendars() error {
	raw, ok, err := s.kv.Get(keyCalendars)
	if err != nil {
		return fmt.Errorf("load calendars: %w", err)
	}

	if ok {
		var cals []model.Calendar
		if err := json.Unmarshal([]byte(raw), &cals); err != nil {
			s.logger.Warn("persisted calendars unparseable, resetting to default", "error", err)
		} else if len(cals) > 0 {
			for i := range cals {
				cals[i].Normalize()
			}
			s.calendars = cals
			return nil
		}
	}

	def := model.Calendar{
		ID:        uuid.NewString(),
		Name:      defaultCalendarName,
		Templates: []model.Template{},
		Events:    []model.Event{},
	}
	s.calendars = []model.Calendar{def}
	s.selectedID = def.ID

	if err := s.persistCalendars(); err != nil {
		return err
	}
	return s.persistSelection()
}

func (s *Store) loadSelection() error {
	id, ok, err := s.kv.Get(keySelectedCalendar)
	if err != nil {
		return fmt.Errorf("load selection: %w", err)
	}
	if ok && s.findCalendar(id) != nil {
		s.selectedID = id
		return nil
	}

	// Stored selection absent or dangling: fall back to the first calendar.
	if len(s.calendars) > 0 {
		s.selectedID = s.calendars[0].ID
	} else {
		s.selectedID = ""
	}
	return s.persistSelection()
}

func (s *Store) loadViewMode() error {
	mode, ok, err := s.kv.Get(keyViewMode)
	if err != nil {
		return fmt.Errorf("load view mode: %w", err)
	}
	if ok && model.ValidViewMode(mode) {
		s.viewMode = mode
		return nil
	}
	s.viewMode = model.ViewWeek
	return nil
}

func (s *Store) loadPrefs() error {
	raw, ok, err := s.kv.Get(keyPrefs)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}
	if ok {
		var p model.Prefs
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			s.logger.Warn("persisted prefs unparseable, using defaults", "error", err)
		} else {
			s.prefs = p
			return nil
		}
	}
	s.prefs = model.DefaultPrefs()
	return nil
}

// persistCalendars writes the whole calendar list. Transient attachment
// fields carry a json:"-" tag, so only the data-bearing fields reach disk.
// Callers must hold s.mu.
func (s *Store) persistCalendars() error {
	data, err := json.Marshal(s.calendars)
	if err != nil {
		return fmt.Errorf("marshal calendars: %w", err)
	}
	if err := s.kv.Set(keyCalendars, string(data)); err != nil {
		return fmt.Errorf("persist calendars: %w", err)
	}
	return nil
}

func (s *Store) persistSelection() error {
	if err := s.kv.Set(keySelectedCalendar, s.selectedID); err != nil {
		return fmt.Errorf("persist selection: %w", err)
	}
	return nil
}

// newID returns a timestamp-derived id, bumped past the previous one so
// rapid calls within the same millisecond stay unique. Callers must hold s.mu.
func (s *Store) newID() string {
	now := time.Now().UnixMilli()
	if now <= s.lastID {
		now = s.lastID + 1
	}
	s.lastID = now
	return strconv.FormatInt(now, 10)
}

// findCalendar returns a pointer into s.calendars. Callers must hold s.mu
// and must not retain the pointer past the critical section.
func (s *Store) findCalendar(id string) *model.Calendar {
	for i := range s.calendars {
		if s.calendars[i].ID == id {
			return &s.calendars[i]
		}
	}
	return nil
}

// selected returns the selected calendar, or nil when none is selected.
// Callers must hold s.mu.
func (s *Store) selected() *model.Calendar {
	if s.selectedID == "" {
		return nil
	}
	return s.findCalendar(s.selectedID)
}

// Calendars returns deep copies of all calendars in order.
func (s *Store) Calendars() []model.Calendar {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Calendar, len(s.calendars))
	for i, c := range s.calendars {
		out[i] = c.Clone()
	}
	return out
}

// SelectedCalendar returns a deep copy of the selected calendar, or nil.
func (s *Store) SelectedCalendar() *model.Calendar {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.selected()
	if cal == nil {
		return nil
	}
	c := cal.Clone()
	return &c
}

// SelectedCalendarID returns the selected calendar id, or "" when none.
func (s *Store) SelectedCalendarID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// SelectedTemplateID returns the toggled template selection, or "" when none.
func (s *Store) SelectedTemplateID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedTemplateID
}

// ViewMode returns the persisted view mode ("week" or "month").
func (s *Store) ViewMode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewMode
}

// SetViewMode persists a new view mode. Unknown modes are rejected.
func (s *Store) SetViewMode(mode string) error {
	if !model.ValidViewMode(mode) {
		return fmt.Errorf("unknown view mode %q", mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewMode = mode
	if err := s.kv.Set(keyViewMode, mode); err != nil {
		return fmt.Errorf("persist view mode: %w", err)
	}
	return nil
}

// Prefs returns the widget preferences.
func (s *Store) Prefs() model.Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// SetPrefs persists new widget preferences.
func (s *Store) SetPrefs(p model.Prefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := s.kv.Set(keyPrefs, string(data)); err != nil {
		return fmt.Errorf("persist prefs: %w", err)
	}
	s.prefs = p
	return nil
}

// Snapshot is a full copy of the persisted state, used by the share and
// backup surfaces.
type Snapshot struct {
	Calendars        []model.Calendar `json:"calendars"`
	SelectedCalendar string           `json:"selected_calendar"`
	ViewMode         string           `json:"view_mode"`
	Prefs            model.Prefs      `json:"widget_prefs"`
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SelectedCalendar: s.selectedID,
		ViewMode:         s.viewMode,
		Prefs:            s.prefs,
	}
	snap.Calendars = make([]model.Calendar, len(s.calendars))
	for i, c := range s.calendars {
		snap.Calendars[i] = c.Clone()
	}
	return snap
}

// Restore replaces the whole state with snap and persists every key.
func (s *Store) Restore(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range snap.Calendars {
		snap.Calendars[i].Normalize()
	}
	s.calendars = snap.Calendars

	s.selectedID = snap.SelectedCalendar
	if s.findCalendar(s.selectedID) == nil {
		s.selectedID = ""
		if len(s.calendars) > 0 {
			s.selectedID = s.calendars[0].ID
		}
	}
	s.selectedTemplateID = ""

	if model.ValidViewMode(snap.ViewMode) {
		s.viewMode = snap.ViewMode
	} else {
		s.viewMode = model.ViewWeek
	}
	s.prefs = snap.Prefs

	if err := s.persistCalendars(); err != nil {
		return err
	}
	if err := s.persistSelection(); err != nil {
		return err
	}
	if err := s.kv.Set(keyViewMode, s.viewMode); err != nil {
		return fmt.Errorf("persist view mode: %w", err)
	}
	data, err := json.Marshal(s.prefs)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := s.kv.Set(keyPrefs, string(data)); err != nil {
		return fmt.Errorf("persist prefs: %w", err)
	}
	return nil
}
