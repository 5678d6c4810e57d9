package handler

import (
	"net/http"

	"github.com/wrenfield/perch/internal/model"
	"github.com/wrenfield/perch/internal/store"
)

// StateHandler serves the full widget state in one round trip, the first
// thing a freshly-opened widget fetches.
type StateHandler struct {
	store *store.Store
}

func NewStateHandler(st *store.Store) *StateHandler {
	return &StateHandler{store: st}
}

type stateResponse struct {
	Calendars        []model.Calendar `json:"calendars"`
	SelectedCalendar string           `json:"selected_calendar"`
	SelectedTemplate string           `json:"selected_template"`
	ViewMode         string           `json:"view_mode"`
	Prefs            model.Prefs      `json:"widget_prefs"`
}

func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse{
		Calendars:        h.store.Calendars(),
		SelectedCalendar: h.store.SelectedCalendarID(),
		SelectedTemplate: h.store.SelectedTemplateID(),
		ViewMode:         h.store.ViewMode(),
		Prefs:            h.store.Prefs(),
	})
}
