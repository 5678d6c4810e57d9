package model

// Event is a placed occurrence of a template on the weekly grid.
// Template is a decoupled snapshot taken when the event was placed;
// later edits to the template definition leave it untouched.
// Day uses the Monday-start convention: 0=Monday .. 6=Sunday.
type Event struct {
	ID         string   `json:"id"`
	TemplateID string   `json:"template_id"`
	Template   Template `json:"template"`
	StartTime  string   `json:"start_time"` // "HH:MM"
	EndTime    string   `json:"end_time"`   // "HH:MM"
	Day        int      `json:"day"`
}

// Clone returns an independent deep copy of the event.
func (e Event) Clone() Event {
	c := e
	c.Template = e.Template.Clone()
	return c
}
