package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/wrenfield/perch/internal/model"
	"github.com/wrenfield/perch/internal/store"
	"github.com/wrenfield/perch/internal/websocket"
)

type TemplateHandler struct {
	store *store.Store
	hub   *websocket.Hub
}

func NewTemplateHandler(st *store.Store, hub *websocket.Hub) *TemplateHandler {
	return &TemplateHandler{store: st, hub: hub}
}

type templateRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Color           string   `json:"color"`
	DurationMinutes int      `json:"duration_minutes"`
	URLs            []string `json:"urls"`
}

func (h *TemplateHandler) validate(w http.ResponseWriter, req *templateRequest) bool {
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return false
	}
	if req.DurationMinutes <= 0 {
		writeError(w, http.StatusBadRequest, "duration_minutes must be positive")
		return false
	}
	return true
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validate(w, &req) {
		return
	}

	tpl, err := h.store.AddTemplate(req.Name, req.Description, req.Color, req.DurationMinutes, req.URLs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create template")
		return
	}
	if tpl == nil {
		writeError(w, http.StatusConflict, "no calendar selected")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("template", "created", tpl.ID, nil))
	writeJSON(w, http.StatusCreated, tpl)
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req templateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validate(w, &req) {
		return
	}

	tpl, err := h.store.UpdateTemplate(id, req.Name, req.Description, req.Color, req.DurationMinutes, req.URLs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update template")
		return
	}
	if tpl == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("template", "updated", tpl.ID, nil))
	writeJSON(w, http.StatusOK, tpl)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if h.store.TemplateByID(id) == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	if err := h.store.DeleteTemplate(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete template")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("template", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *TemplateHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	selected := h.store.ToggleTemplate(id)

	h.hub.Broadcast(websocket.NewMessage("template", "toggled", id, map[string]any{
		"selected_template": selected,
	}))
	writeJSON(w, http.StatusOK, map[string]string{"selected_template": selected})
}

func (h *TemplateHandler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var att model.Attachment
	if !decodeJSON(w, r, &att) {
		return
	}

	tpl, err := h.store.AddAttachment(id, att)
	if err != nil {
		if errors.Is(err, store.ErrAttachmentTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if tpl == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("template", "updated", tpl.ID, nil))
	writeJSON(w, http.StatusCreated, tpl)
}

func (h *TemplateHandler) RemoveAttachment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	name := r.PathValue("name")

	tpl, err := h.store.RemoveAttachment(id, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to remove attachment")
		return
	}
	if tpl == nil {
		writeError(w, http.StatusNotFound, "attachment not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("template", "updated", tpl.ID, nil))
	writeJSON(w, http.StatusOK, tpl)
}
