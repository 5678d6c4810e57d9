package handler

import (
	"net/http"
	"time"

	"github.com/wrenfield/perch/internal/grid"
)

// GridHandler serves the month and week cell layouts. The widget renders
// them directly; all day math lives server side so every client agrees on
// the Monday-start week.
type GridHandler struct {
	loc *time.Location
	now func() time.Time
}

func NewGridHandler(loc *time.Location) *GridHandler {
	return &GridHandler{loc: loc, now: time.Now}
}

// refDate resolves the optional ?date=YYYY-MM-DD query parameter, falling
// back to today.
func (h *GridHandler) refDate(r *http.Request) (time.Time, bool) {
	q := r.URL.Query().Get("date")
	if q == "" {
		return h.now().In(h.loc), true
	}
	d, err := time.ParseInLocation("2006-01-02", q, h.loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

type gridResponse struct {
	Reference string      `json:"reference"`
	Today     int         `json:"today"`
	Cells     []grid.Cell `json:"cells"`
}

func (h *GridHandler) Month(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.refDate(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	writeJSON(w, http.StatusOK, gridResponse{
		Reference: ref.Format("2006-01-02"),
		Today:     grid.DayIndex(h.now().In(h.loc)),
		Cells:     grid.MonthGrid(ref),
	})
}

func (h *GridHandler) Week(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.refDate(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	writeJSON(w, http.StatusOK, gridResponse{
		Reference: ref.Format("2006-01-02"),
		Today:     grid.DayIndex(h.now().In(h.loc)),
		Cells:     grid.WeekGrid(ref),
	})
}
