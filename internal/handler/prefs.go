package handler

import (
	"net/http"

	"github.com/wrenfield/perch/internal/model"
	"github.com/wrenfield/perch/internal/store"
	"github.com/wrenfield/perch/internal/websocket"
)

type PrefsHandler struct {
	store *store.Store
	hub   *websocket.Hub
}

func NewPrefsHandler(st *store.Store, hub *websocket.Hub) *PrefsHandler {
	return &PrefsHandler{store: st, hub: hub}
}

func (h *PrefsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Prefs())
}

func (h *PrefsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p model.Prefs
	if !decodeJSON(w, r, &p) {
		return
	}

	if err := h.store.SetPrefs(p); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("prefs", "updated", "", nil))
	writeJSON(w, http.StatusOK, p)
}

type viewModeRequest struct {
	ViewMode string `json:"view_mode"`
}

func (h *PrefsHandler) SetViewMode(w http.ResponseWriter, r *http.Request) {
	var req viewModeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.store.SetViewMode(req.ViewMode); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.hub.Broadcast(websocket.NewMessage("prefs", "updated", "", map[string]any{
		"view_mode": req.ViewMode,
	}))
	writeJSON(w, http.StatusOK, map[string]string{"view_mode": req.ViewMode})
}
