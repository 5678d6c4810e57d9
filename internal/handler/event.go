package handler

import (
	"net/http"

	"github.com/wrenfield/perch/internal/store"
	"github.com/wrenfield/perch/internal/websocket"
)

type EventHandler struct {
	store *store.Store
	hub   *websocket.Hub
}

func NewEventHandler(st *store.Store, hub *websocket.Hub) *EventHandler {
	return &EventHandler{store: st, hub: hub}
}

type eventRequest struct {
	TemplateID string `json:"template_id"`
	Day        int    `json:"day"`
	StartTime  string `json:"start_time"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.store.AddEvent(req.TemplateID, req.Day, req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("event", "created", event.ID, map[string]any{
		"day": event.Day,
	}))
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch store.EventPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	event, err := h.store.UpdateEvent(id, patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("event", "updated", event.ID, map[string]any{
		"day": event.Day,
	}))
	writeJSON(w, http.StatusOK, event)
}

// RecomputeEnd refreshes the event's template snapshot and re-derives its
// end time. Widgets call this from the event context menu after editing a
// template.
func (h *EventHandler) RecomputeEnd(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	event, err := h.store.RecomputeEventEnd(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("event", "updated", event.ID, nil))
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if h.store.EventByID(id) == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err := h.store.DeleteEvent(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("event", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
