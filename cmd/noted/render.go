package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notekeeper/pkg/core"
	"github.com/aretw0/notekeeper/pkg/session"
)

type format string

const (
	formatText format = "text"
	formatJSON format = "json"
	formatYAML format = "yaml"
)

func pickFormat(asJSON, asYAML bool) (format, error) {
	switch {
	case asJSON && asYAML:
		return "", fmt.Errorf("--json and --yaml are mutually exclusive")
	case asJSON:
		return formatJSON, nil
	case asYAML:
		return formatYAML, nil
	}
	return formatText, nil
}

func encode(w io.Writer, f format, v any) error {
	switch f {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("unsupported format %q", f)
}

// printNotes writes one line per note, most recent first.
func printNotes(w io.Writer, f format, snap session.Snapshot) error {
	if f != formatText {
		notes := snap.Notes
		if notes == nil {
			notes = []core.Note{}
		}
		return encode(w, f, notes)
	}

	if len(snap.Notes) == 0 {
		_, err := fmt.Fprintln(w, "No notes yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, n := range snap.Notes {
		marker := " "
		if snap.Mode.References(n.ID) {
			marker = "*"
		} else if snap.Pending.Deleting(n.ID) {
			marker = "-"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\n", marker, n.ID, oneLine(n.Title, 40), stamp(n.UpdatedAt))
	}
	return tw.Flush()
}

// printNote writes a single note.
func printNote(w io.Writer, f format, n core.Note) error {
	if f != formatText {
		return encode(w, f, n)
	}
	fmt.Fprintf(w, "%s\n", n.Title)
	fmt.Fprintf(w, "id: %s  created: %s  updated: %s\n\n", n.ID, stamp(n.CreatedAt), stamp(n.UpdatedAt))
	_, err := fmt.Fprintln(w, n.Content)
	return err
}

// printStatus writes the mode, pending operations and feedback.
func printStatus(w io.Writer, snap session.Snapshot) {
	fmt.Fprintf(w, "mode: %s\n", snap.Mode)
	var pending []string
	if snap.Pending.ListInFlight {
		pending = append(pending, "list")
	}
	if snap.Pending.SubmitInFlight {
		pending = append(pending, "submit")
	}
	for _, id := range snap.Pending.DeletingIDs {
		pending = append(pending, "delete "+string(id))
	}
	if len(pending) > 0 {
		fmt.Fprintf(w, "pending: %s\n", strings.Join(pending, ", "))
	}
	if snap.Feedback.Error != "" {
		fmt.Fprintf(w, "error: %s\n", snap.Feedback.Error)
	}
	if snap.Feedback.Info != "" {
		fmt.Fprintf(w, "info: %s\n", snap.Feedback.Info)
	}
}

func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
