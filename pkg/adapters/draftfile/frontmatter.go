// Package draftfile mirrors an open session draft into a Markdown file with
// YAML frontmatter so it can be edited in an external editor. Changes saved
// to the file are fed back to the session as draft edits.
//
// A draft file looks like:
//
//	---
//	title: Groceries
//	note: "42"
//	---
//	milk, eggs
package draftfile

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notekeeper/pkg/core"
	"github.com/aretw0/notekeeper/pkg/session"
)

const (
	keyTitle = "title"
	keyNote  = "note"
)

// Document is a parsed draft file.
type Document struct {
	Meta    map[string]any
	Content string
}

// Title returns the title from the frontmatter, if present.
func (d Document) Title() (string, bool) {
	v, ok := d.Meta[keyTitle]
	if !ok || v == nil {
		return "", ok
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Draft merges the document into base. A frontmatter without a title key
// keeps the base title.
func (d Document) Draft(base session.Draft) session.Draft {
	out := session.Draft{Title: base.Title, Content: d.Content}
	if title, ok := d.Title(); ok {
		out.Title = title
	}
	return out
}

// Encode renders a draft file. target is the edited note, empty for a new one.
func Encode(d session.Draft, target core.ID) ([]byte, error) {
	meta := yaml.Node{Kind: yaml.MappingNode}
	meta.Content = append(meta.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: keyTitle},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: d.Title},
	)
	if target != "" {
		meta.Content = append(meta.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: keyNote},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(target)},
		)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&meta); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("---\n")
	buf.WriteString(d.Content)
	if d.Content != "" && !strings.HasSuffix(d.Content, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Decode parses a draft file. A file without frontmatter is all content.
// One trailing newline, as added by most editors, is dropped.
func Decode(data []byte) (Document, error) {
	doc := Document{Meta: make(map[string]any)}

	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		doc.Content = trimEOL(string(data))
		return doc, nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("\n---"), 2)
	if len(parts) == 1 {
		return Document{}, errors.New("frontmatter started but no closing delimiter found")
	}

	if err := yaml.Unmarshal(parts[0], &doc.Meta); err != nil {
		return Document{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if doc.Meta == nil {
		doc.Meta = make(map[string]any)
	}

	content := string(parts[1])
	content = strings.TrimPrefix(content, "\r\n")
	content = strings.TrimPrefix(content, "\n")
	doc.Content = trimEOL(content)
	return doc, nil
}

func trimEOL(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}
