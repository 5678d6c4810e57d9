package model

import (
	"encoding/base64"
	"fmt"
)

// Attachment is a file stored inline on a template. Data holds the
// base64-encoded payload; FileType is the MIME type reported at upload.
// TempPath points at the staging file the upload came from and is never
// persisted.
type Attachment struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	Data     string `json:"file_data"`
	TempPath string `json:"-"`
}

// DecodedSize returns the byte length of the decoded payload.
// Invalid base64 counts as zero; Validate catches it separately.
func (a Attachment) DecodedSize() int {
	n, err := decodedLen(a.Data)
	if err != nil {
		return 0
	}
	return n
}

// Validate checks that the payload is well-formed base64.
func (a Attachment) Validate() error {
	if a.FileName == "" {
		return fmt.Errorf("attachment file name is required")
	}
	if _, err := decodedLen(a.Data); err != nil {
		return fmt.Errorf("attachment %q: invalid base64 payload: %w", a.FileName, err)
	}
	return nil
}

// Sanitized returns a copy with the transient staging path cleared.
func (a Attachment) Sanitized() Attachment {
	a.TempPath = ""
	return a
}

func decodedLen(data string) (int, error) {
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}
