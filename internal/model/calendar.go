package model

// Calendar is a named collection of templates and placed events.
// A user may keep several; exactly one is selected at a time.
type Calendar struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Templates []Template `json:"templates"`
	Events    []Event    `json:"events"`
}

// Clone returns an independent deep copy of the calendar.
func (c Calendar) Clone() Calendar {
	out := Calendar{ID: c.ID, Name: c.Name}
	out.Templates = make([]Template, len(c.Templates))
	for i, t := range c.Templates {
		out.Templates[i] = t.Clone()
	}
	out.Events = make([]Event, len(c.Events))
	for i, e := range c.Events {
		out.Events[i] = e.Clone()
	}
	return out
}

// Normalize ensures slices are non-nil so persisted JSON stays stable.
func (c *Calendar) Normalize() {
	if c.Templates == nil {
		c.Templates = []Template{}
	}
	if c.Events == nil {
		c.Events = []Event{}
	}
}
