package handler

import (
	"net/http"
	"strings"

	"github.com/wrenfield/perch/internal/store"
	"github.com/wrenfield/perch/internal/websocket"
)

type CalendarHandler struct {
	store *store.Store
	hub   *websocket.Hub
}

func NewCalendarHandler(st *store.Store, hub *websocket.Hub) *CalendarHandler {
	return &CalendarHandler{store: st, hub: hub}
}

type calendarRequest struct {
	Name string `json:"name"`
}

func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req calendarRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	cal, err := h.store.AddCalendar(req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create calendar")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("calendar", "created", cal.ID, nil))
	writeJSON(w, http.StatusCreated, cal)
}

func (h *CalendarHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req calendarRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	cal, err := h.store.RenameCalendar(id, req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to rename calendar")
		return
	}
	if cal == nil {
		writeError(w, http.StatusNotFound, "calendar not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("calendar", "updated", cal.ID, nil))
	writeJSON(w, http.StatusOK, cal)
}

func (h *CalendarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if h.store.CalendarByID(id) == nil {
		writeError(w, http.StatusNotFound, "calendar not found")
		return
	}
	if err := h.store.DeleteCalendar(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete calendar")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("calendar", "deleted", id, map[string]any{
		"selected_calendar": h.store.SelectedCalendarID(),
	}))
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (h *CalendarHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.store.ReorderCalendars(req.From, req.To); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reorder calendars")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("calendar", "reordered", "", nil))
	writeJSON(w, http.StatusOK, h.store.Calendars())
}

func (h *CalendarHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	cal, err := h.store.SelectCalendar(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to select calendar")
		return
	}
	if cal == nil {
		writeError(w, http.StatusNotFound, "calendar not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("calendar", "selected", cal.ID, nil))
	writeJSON(w, http.StatusOK, cal)
}
