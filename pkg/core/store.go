package core

import (
	"sort"
)

// Store is the local cache of the remote note collection, keyed by id.
//
// Every mutation bumps the revision counter, including mutations that turn out
// to be no-ops (removing an absent id, refusing a stale upsert). Full list
// fetches are arbitrated with a ListTicket: see IssueList and ReplaceAllIf.
//
// Store is not safe for concurrent use. It is owned by a single session loop.
type Store struct {
	notes    map[ID]Note
	revision uint64

	// writes counts Upsert and Remove calls.
	writes uint64
	// issued and applied are list ticket sequence numbers.
	issued  uint64
	applied uint64
}

// ListTicket records when a full list fetch was issued.
type ListTicket struct {
	seq    uint64
	writes uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		notes: make(map[ID]Note),
	}
}

// Revision returns the number of mutations applied so far.
func (s *Store) Revision() uint64 {
	return s.revision
}

// ReplaceAll overwrites the whole collection. Duplicate ids keep the last entry.
// Lists issued before the call can no longer be applied.
func (s *Store) ReplaceAll(notes []Note) {
	s.replace(notes, s.issued)
}

// IssueList hands out the ticket for a list fetch about to be sent.
func (s *Store) IssueList() ListTicket {
	s.issued++
	return ListTicket{seq: s.issued, writes: s.writes}
}

// ReplaceAllIf applies the result of the list fetch identified by t.
// The result is stale, and dropped, when an Upsert or Remove landed after t was
// issued, or when a list issued after t has already been applied.
// It reports whether the collection was replaced.
func (s *Store) ReplaceAllIf(notes []Note, t ListTicket) bool {
	if t.writes != s.writes || t.seq <= s.applied {
		return false
	}
	s.replace(notes, t.seq)
	return true
}

func (s *Store) replace(notes []Note, seq uint64) {
	next := make(map[ID]Note, len(notes))
	for _, n := range notes {
		next[n.ID] = n
	}
	s.notes = next
	s.applied = seq
	s.revision++
}

// Upsert inserts the note, or replaces the stored entry whole.
// A replacement whose UpdatedAt is older than the stored one is refused,
// keeping updated_at non-decreasing per note. It reports whether the note was stored.
func (s *Store) Upsert(n Note) bool {
	s.revision++
	s.writes++
	if cur, ok := s.notes[n.ID]; ok && n.UpdatedAt.Before(cur.UpdatedAt) {
		return false
	}
	s.notes[n.ID] = n
	return true
}

// Remove deletes the entry if present. Removing an absent id is not an error.
// It reports whether an entry was removed.
func (s *Store) Remove(id ID) bool {
	s.revision++
	s.writes++
	if _, ok := s.notes[id]; !ok {
		return false
	}
	delete(s.notes, id)
	return true
}

// Get retrieves a note by id.
func (s *Store) Get(id ID) (Note, bool) {
	n, ok := s.notes[id]
	return n, ok
}

// Has reports whether a note with this id is cached.
func (s *Store) Has(id ID) bool {
	_, ok := s.notes[id]
	return ok
}

// Len returns the number of cached notes.
func (s *Store) Len() int {
	return len(s.notes)
}

// Snapshot returns the notes ordered by UpdatedAt, newest first, ties broken by id.
// The order is computed on every call and never stored.
func (s *Store) Snapshot() []Note {
	out := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID.compare(b.ID) < 0
	})
	return out
}
