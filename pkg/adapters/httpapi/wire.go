package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/notekeeper/pkg/core"
)

// wireNote is the JSON shape of a note on the wire. Timestamps are decoded
// leniently: servers frequently omit the zone or use a space separator.
type wireNote struct {
	ID        core.ID   `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt timestamp `json:"created_at"`
	UpdatedAt timestamp `json:"updated_at"`
}

func (w wireNote) toNote() (core.Note, error) {
	if w.ID == "" {
		return core.Note{}, errors.New("note without id")
	}
	return core.Note{
		ID:        w.ID,
		Title:     w.Title,
		Content:   w.Content,
		CreatedAt: time.Time(w.CreatedAt),
		UpdatedAt: time.Time(w.UpdatedAt),
	}, nil
}

type timestamp time.Time

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*t = timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = timestamp(parsed.UTC())
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
