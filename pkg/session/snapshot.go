package session

import (
	"fmt"

	"github.com/aretw0/notekeeper/pkg/core"
)

// PendingOps lists the asynchronous operations currently outstanding.
type PendingOps struct {
	ListInFlight   bool      `json:"list_in_flight" yaml:"list_in_flight"`
	SubmitInFlight bool      `json:"submit_in_flight" yaml:"submit_in_flight"`
	DeletingIDs    []core.ID `json:"deleting_ids,omitempty" yaml:"deleting_ids,omitempty"`
}

// Deleting reports whether a delete of id is outstanding.
func (p PendingOps) Deleting(id core.ID) bool {
	for _, d := range p.DeletingIDs {
		if d == id {
			return true
		}
	}
	return false
}

// Any reports whether at least one operation is outstanding.
func (p PendingOps) Any() bool {
	return p.ListInFlight || p.SubmitInFlight || len(p.DeletingIDs) > 0
}

// Snapshot is the read-only view handed to presentation code after every transition.
type Snapshot struct {
	Seq      uint64      `json:"seq" yaml:"seq"`
	Mode     Mode        `json:"mode" yaml:"mode"`
	Pending  PendingOps  `json:"pending" yaml:"pending"`
	Notes    []core.Note `json:"notes" yaml:"notes"`
	Feedback Feedback    `json:"feedback" yaml:"feedback"`
}

// Busy reports whether any operation is outstanding.
func (s Snapshot) Busy() bool {
	return s.Pending.Any()
}

// Note looks up a note in the snapshot.
func (s Snapshot) Note(id core.ID) (core.Note, bool) {
	for _, n := range s.Notes {
		if n.ID == id {
			return n, true
		}
	}
	return core.Note{}, false
}

// Selected returns the note selected in Viewing mode. It returns false when
// nothing is selected or the selection is not (or no longer) in the store.
func (s Snapshot) Selected() (core.Note, bool) {
	if s.Mode.Kind != ModeViewing || s.Mode.Selected == "" {
		return core.Note{}, false
	}
	return s.Note(s.Mode.Selected)
}

// Change is published after every transition.
type Change struct {
	Seq      uint64
	Event    string
	Snapshot Snapshot
}

func (c Change) String() string {
	return fmt.Sprintf("#%d %s %s", c.Seq, c.Event, c.Snapshot.Mode)
}
