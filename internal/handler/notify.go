package handler

import (
	"net/http"

	"github.com/wrenfield/perch/internal/notify"
)

// NotifyHandler exposes the current upcoming-event notice. Widgets that
// miss the websocket push can poll this instead.
type NotifyHandler struct {
	notifier *notify.Notifier
}

func NewNotifyHandler(n *notify.Notifier) *NotifyHandler {
	return &NotifyHandler{notifier: n}
}

func (h *NotifyHandler) Next(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]*notify.Notice{
		"notice": h.notifier.Current(),
	})
}
