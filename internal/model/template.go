package model

import "encoding/json"

// Template is a reusable event definition. Events placed from a template
// carry their own snapshot of it, so editing a template never rewrites
// history on the grid.
type Template struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Color           string       `json:"color"`
	DurationMinutes int          `json:"duration_minutes"`
	URLs            []string     `json:"urls"`
	Attachments     []Attachment `json:"attachments"`
}

// templateJSON mirrors Template plus the legacy single-file fields that
// older persisted states used before attachments became a list.
type templateJSON struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Color           string       `json:"color"`
	DurationMinutes int          `json:"duration_minutes"`
	URLs            []string     `json:"urls"`
	Attachments     []Attachment `json:"attachments"`

	// Legacy shape: one inline file directly on the template.
	LegacyFileName string `json:"file_name"`
	LegacyFileType string `json:"file_type"`
	LegacyFileData string `json:"file_data"`
}

// UnmarshalJSON resolves the persisted attachment shape once at load time:
// an attachments list wins, otherwise legacy single-file fields become a
// one-element list, otherwise the list is empty.
func (t *Template) UnmarshalJSON(data []byte) error {
	var raw templateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.ID = raw.ID
	t.Name = raw.Name
	t.Description = raw.Description
	t.Color = raw.Color
	t.DurationMinutes = raw.DurationMinutes
	t.URLs = raw.URLs
	t.Attachments = raw.Attachments

	if len(t.Attachments) == 0 && raw.LegacyFileData != "" {
		t.Attachments = []Attachment{{
			FileName: raw.LegacyFileName,
			FileType: raw.LegacyFileType,
			Data:     raw.LegacyFileData,
		}}
	}

	if t.URLs == nil {
		t.URLs = []string{}
	}
	if t.Attachments == nil {
		t.Attachments = []Attachment{}
	}
	return nil
}

// Clone returns an independent deep copy of the template.
func (t Template) Clone() Template {
	c := t
	c.URLs = append([]string{}, t.URLs...)
	c.Attachments = append([]Attachment{}, t.Attachments...)
	return c
}

// AttachmentSize returns the combined decoded size of all attachments.
func (t Template) AttachmentSize() int {
	var total int
	for _, a := range t.Attachments {
		total += a.DecodedSize()
	}
	return total
}
