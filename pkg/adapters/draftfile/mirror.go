package draftfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/notekeeper/pkg/core"
	"github.com/aretw0/notekeeper/pkg/session"
)

// Editor receives draft edits read back from the file.
// *session.Controller implements it.
type Editor interface {
	EditDraft(ctx context.Context, field session.Field, value string) error
}

// Config holds the configuration for a Mirror.
type Config struct {
	// Dir holds the draft file. Empty means a fresh temporary directory,
	// removed again by Close.
	Dir string
	// Name is the file name. Defaults to "draft.md".
	Name   string
	Logger *slog.Logger
}

// Mirror keeps one draft file in sync with a session draft.
type Mirror struct {
	path    string
	tempDir bool
	editor  Editor
	logger  *slog.Logger

	mu   sync.Mutex
	last session.Draft
}

// Open prepares the draft file location. Nothing is written until Write.
func Open(editor Editor, config Config) (*Mirror, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	name := config.Name
	if name == "" {
		name = "draft.md"
	}

	dir, tempDir := config.Dir, false
	if dir == "" {
		tmp, err := os.MkdirTemp("", "noted-draft-")
		if err != nil {
			return nil, fmt.Errorf("failed to create draft directory: %w", err)
		}
		dir, tempDir = tmp, true
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create draft directory: %w", err)
	}

	return &Mirror{
		path:    filepath.Join(dir, name),
		tempDir: tempDir,
		editor:  editor,
		logger:  logger,
	}, nil
}

// Path returns the draft file path.
func (m *Mirror) Path() string {
	return m.path
}

// Dir returns the directory holding the draft file.
func (m *Mirror) Dir() string {
	return filepath.Dir(m.path)
}

// Write replaces the file with draft d of note target (empty when creating).
func (m *Mirror) Write(d session.Draft, target core.ID) error {
	data, err := Encode(d, target)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := writeFileAtomic(m.path, data, 0o600); err != nil {
		return err
	}
	m.last = d
	return nil
}

// Sync reads the file and forwards each changed field to the editor.
// It returns the draft as read.
func (m *Mirror) Sync(ctx context.Context) (session.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		return m.last, fmt.Errorf("failed to read draft: %w", err)
	}
	doc, err := Decode(data)
	if err != nil {
		return m.last, fmt.Errorf("invalid draft %s: %w", m.path, err)
	}

	next := doc.Draft(m.last)
	if next.Title != m.last.Title {
		if err := m.editor.EditDraft(ctx, session.FieldTitle, next.Title); err != nil {
			return m.last, err
		}
		m.last.Title = next.Title
	}
	if next.Content != m.last.Content {
		if err := m.editor.EditDraft(ctx, session.FieldContent, next.Content); err != nil {
			return m.last, err
		}
		m.last.Content = next.Content
	}

	m.logger.Debug("draft synced", "path", m.path)
	return m.last, nil
}

// Close removes the draft file, and its directory when Open created it.
func (m *Mirror) Close() error {
	if m.tempDir {
		return os.RemoveAll(m.Dir())
	}
	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
