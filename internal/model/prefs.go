package model

// View modes for the widget grid.
const (
	ViewWeek  = "week"
	ViewMonth = "month"
)

// ValidViewMode reports whether mode is a known view mode.
func ValidViewMode(mode string) bool {
	return mode == ViewWeek || mode == ViewMonth
}

// Prefs holds per-widget UI preferences.
type Prefs struct {
	WidgetHeight int  `json:"widget_height"`
	Collapsed    bool `json:"collapsed"`
	PosX         int  `json:"pos_x"`
	PosY         int  `json:"pos_y"`
}

// DefaultPrefs returns the preferences used before the user has saved any.
func DefaultPrefs() Prefs {
	return Prefs{WidgetHeight: 480}
}
