package handler

import (
	"net/http"
	"time"

	"github.com/wrenfield/perch/internal/share"
	"github.com/wrenfield/perch/internal/store"
)

// ShareHandler serves today's events as plain text and as an iCalendar
// download.
type ShareHandler struct {
	store *store.Store
	loc   *time.Location
	now   func() time.Time
}

func NewShareHandler(st *store.Store, loc *time.Location) *ShareHandler {
	return &ShareHandler{store: st, loc: loc, now: time.Now}
}

func (h *ShareHandler) TodayText(w http.ResponseWriter, r *http.Request) {
	text := share.TodayText(h.store.SelectedCalendar(), h.now().In(h.loc))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

func (h *ShareHandler) TodayICS(w http.ResponseWriter, r *http.Request) {
	doc := share.TodayICS(h.store.SelectedCalendar(), h.now().In(h.loc))
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="today.ics"`)
	w.Write([]byte(doc))
}
