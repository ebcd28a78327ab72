package session

import (
	"fmt"
	"strings"

	"github.com/aretw0/notekeeper/pkg/core"
)

// ModeKind names the interaction mode of a session.
type ModeKind int

const (
	ModeViewing ModeKind = iota
	ModeCreating
	ModeEditing
)

func (k ModeKind) String() string {
	switch k {
	case ModeViewing:
		return "viewing"
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	default:
		return fmt.Sprintf("mode(%d)", int(k))
	}
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k ModeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Draft is the unsaved title and content of an open form.
type Draft struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// Valid reports whether both fields are non-blank after trimming.
func (d Draft) Valid() bool {
	return strings.TrimSpace(d.Title) != "" && strings.TrimSpace(d.Content) != ""
}

// Field selects a draft field for EditDraft.
type Field string

const (
	FieldTitle   Field = "title"
	FieldContent Field = "content"
)

// ParseField converts user input into a Field.
func ParseField(s string) (Field, error) {
	switch Field(strings.ToLower(strings.TrimSpace(s))) {
	case FieldTitle:
		return FieldTitle, nil
	case FieldContent:
		return FieldContent, nil
	}
	return "", fmt.Errorf("unknown draft field %q (want title or content)", s)
}

// Mode is the state machine value of a session:
//
//	Viewing(selected)            Selected may be empty
//	Creating(draft)
//	Editing(target, draft)
//
// Fields that do not belong to the current kind are always zero.
type Mode struct {
	Kind     ModeKind `json:"kind" yaml:"kind"`
	Selected core.ID  `json:"selected,omitempty" yaml:"selected,omitempty"`
	Target   core.ID  `json:"target,omitempty" yaml:"target,omitempty"`
	Draft    Draft    `json:"draft" yaml:"draft"`
}

// Viewing returns the viewing mode with an optional selection.
func Viewing(selected core.ID) Mode {
	return Mode{Kind: ModeViewing, Selected: selected}
}

// Creating returns the creation form mode.
func Creating(title, content string) Mode {
	return Mode{Kind: ModeCreating, Draft: Draft{Title: title, Content: content}}
}

// Editing returns the edit form mode for note id.
func Editing(id core.ID, title, content string) Mode {
	return Mode{Kind: ModeEditing, Target: id, Draft: Draft{Title: title, Content: content}}
}

// InForm reports whether a draft is open.
func (m Mode) InForm() bool {
	return m.Kind == ModeCreating || m.Kind == ModeEditing
}

// References reports whether the mode points at note id, either as the
// selection or as the edit target.
func (m Mode) References(id core.ID) bool {
	switch m.Kind {
	case ModeViewing:
		return m.Selected != "" && m.Selected == id
	case ModeEditing:
		return m.Target == id
	}
	return false
}

func (m Mode) String() string {
	switch m.Kind {
	case ModeViewing:
		if m.Selected == "" {
			return "Viewing(none)"
		}
		return fmt.Sprintf("Viewing(%s)", m.Selected)
	case ModeCreating:
		return fmt.Sprintf("Creating(%q, %q)", m.Draft.Title, m.Draft.Content)
	case ModeEditing:
		return fmt.Sprintf("Editing(%s, %q, %q)", m.Target, m.Draft.Title, m.Draft.Content)
	}
	return m.Kind.String()
}
