package handler

import (
	"net/http"

	"github.com/wrenfield/perch/internal/backup"
	"github.com/wrenfield/perch/internal/websocket"
)

type BackupHandler struct {
	manager *backup.Manager
	hub     *websocket.Hub
}

func NewBackupHandler(m *backup.Manager, hub *websocket.Hub) *BackupHandler {
	return &BackupHandler{manager: m, hub: hub}
}

type exportRequest struct {
	Passphrase string `json:"passphrase"`
}

func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	path, err := h.manager.Export(req.Passphrase)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to write snapshot")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

type importRequest struct {
	Path       string `json:"path"`
	Passphrase string `json:"passphrase"`
}

func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	if err := h.manager.Import(req.Path, req.Passphrase); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Everything may have changed; tell widgets to refetch.
	h.hub.Broadcast(websocket.NewMessage("state", "restored", "", nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.manager.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	if files == nil {
		files = []string{}
	}
	writeJSON(w, http.StatusOK, files)
}
