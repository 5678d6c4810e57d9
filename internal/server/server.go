// Package server wires the store, notifier and backup manager into the
// HTTP API the widget talks to.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/wrenfield/perch/internal/backup"
	"github.com/wrenfield/perch/internal/handler"
	"github.com/wrenfield/perch/internal/middleware"
	"github.com/wrenfield/perch/internal/notify"
	"github.com/wrenfield/perch/internal/store"
	ws "github.com/wrenfield/perch/internal/websocket"
)

type Server struct {
	hub      *ws.Hub
	notifier *notify.Notifier

	stateH    *handler.StateHandler
	calendarH *handler.CalendarHandler
	templateH *handler.TemplateHandler
	eventH    *handler.EventHandler
	gridH     *handler.GridHandler
	prefsH    *handler.PrefsHandler
	notifyH   *handler.NotifyHandler
	shareH    *handler.ShareHandler
	backupH   *handler.BackupHandler

	logger *slog.Logger
}

func New(st *store.Store, backupMgr *backup.Manager, loc *time.Location, notifyInterval, notifyWindow time.Duration, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	notifier := notify.New(st, notifyInterval, notifyWindow, func(n *notify.Notice) {
		extra := map[string]any{}
		if n != nil {
			extra["title"] = n.Title
			extra["minutes_left"] = n.MinutesLeft
		}
		id := ""
		if n != nil {
			id = n.EventID
		}
		hub.Broadcast(ws.NewMessage("notice", "changed", id, extra))
	}, logger.With("component", "notify"))

	return &Server{
		hub:       hub,
		notifier:  notifier,
		stateH:    handler.NewStateHandler(st),
		calendarH: handler.NewCalendarHandler(st, hub),
		templateH: handler.NewTemplateHandler(st, hub),
		eventH:    handler.NewEventHandler(st, hub),
		gridH:     handler.NewGridHandler(loc),
		prefsH:    handler.NewPrefsHandler(st, hub),
		notifyH:   handler.NewNotifyHandler(notifier),
		shareH:    handler.NewShareHandler(st, loc),
		backupH:   handler.NewBackupHandler(backupMgr, hub),
		logger:    logger,
	}
}

// Hub exposes the broadcast hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Notifier exposes the upcoming-event poller so main can start and stop it.
func (s *Server) Notifier() *notify.Notifier {
	return s.notifier
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))

	mux.HandleFunc("GET /api/state", s.stateH.Get)

	// Calendars
	mux.HandleFunc("POST /api/calendars", s.calendarH.Create)
	mux.HandleFunc("PUT /api/calendars/reorder", s.calendarH.Reorder)
	mux.HandleFunc("PUT /api/calendars/{id}", s.calendarH.Rename)
	mux.HandleFunc("DELETE /api/calendars/{id}", s.calendarH.Delete)
	mux.HandleFunc("POST /api/calendars/{id}/select", s.calendarH.Select)

	// Templates
	mux.HandleFunc("POST /api/templates", s.templateH.Create)
	mux.HandleFunc("PUT /api/templates/{id}", s.templateH.Update)
	mux.HandleFunc("DELETE /api/templates/{id}", s.templateH.Delete)
	mux.HandleFunc("POST /api/templates/{id}/toggle", s.templateH.Toggle)
	mux.HandleFunc("POST /api/templates/{id}/attachments", s.templateH.AddAttachment)
	mux.HandleFunc("DELETE /api/templates/{id}/attachments/{name}", s.templateH.RemoveAttachment)

	// Events
	mux.HandleFunc("POST /api/events", s.eventH.Create)
	mux.HandleFunc("PATCH /api/events/{id}", s.eventH.Update)
	mux.HandleFunc("POST /api/events/{id}/recompute-end", s.eventH.RecomputeEnd)
	mux.HandleFunc("DELETE /api/events/{id}", s.eventH.Delete)

	// Grid layouts
	mux.HandleFunc("GET /api/grid/month", s.gridH.Month)
	mux.HandleFunc("GET /api/grid/week", s.gridH.Week)

	// Preferences
	mux.HandleFunc("GET /api/prefs", s.prefsH.Get)
	mux.HandleFunc("PUT /api/prefs", s.prefsH.Update)
	mux.HandleFunc("PUT /api/prefs/view-mode", s.prefsH.SetViewMode)

	// Notifications
	mux.HandleFunc("GET /api/notify/next", s.notifyH.Next)

	// Share / export
	mux.HandleFunc("GET /api/share/today", s.shareH.TodayText)
	mux.HandleFunc("GET /api/share/today.ics", s.shareH.TodayICS)

	// Snapshots
	mux.HandleFunc("GET /api/backup", s.backupH.List)
	mux.HandleFunc("POST /api/backup/export", s.backupH.Export)
	mux.HandleFunc("POST /api/backup/import", s.backupH.Import)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
