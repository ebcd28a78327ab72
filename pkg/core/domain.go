// Package core holds the domain of a note-taking session: the Note entity,
// the local Store that caches the remote collection, and the Gateway port
// through which the remote persistence service is reached.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ID is the opaque identifier assigned to a note by the remote store.
type ID string

// String returns the identifier as text.
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts both JSON strings and JSON numbers, since remote
// stores disagree on how they encode identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid note id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// compare orders identifiers numerically when both are plain digit strings,
// lexicographically otherwise. Equal numbers spelled differently ("01", "1")
// fall back to the raw text so distinct ids never compare equal.
func (id ID) compare(other ID) int {
	a, b := string(id), string(other)
	if isDigits(a) && isDigits(b) {
		ta, tb := trimZeros(a), trimZeros(b)
		if len(ta) != len(tb) {
			if len(ta) < len(tb) {
				return -1
			}
			return 1
		}
		if c := strings.Compare(ta, tb); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func trimZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}

// Note is the central entity of the domain.
// Identity and timestamps are always assigned by the remote store.
type Note struct {
	ID        ID        `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
