package draftfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notekeeper/pkg/session"
)

// DefaultPattern selects the files that trigger a sync.
const DefaultPattern = "*.md"

// Watcher feeds saves of the draft file back into the session.
type Watcher struct {
	*worker.BaseWorker
	mirror  *Mirror
	pattern string
	logger  *slog.Logger
	onSync  func(session.Draft, error)
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
}

// NewWatcher watches the mirror's directory for writes to files matching
// pattern (doublestar syntax, matched against the base name). onSync, if
// set, is called after every sync attempt.
func NewWatcher(m *Mirror, pattern string, onSync func(session.Draft, error)) (*Watcher, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid draft pattern %q", pattern)
	}
	return &Watcher{
		BaseWorker: worker.NewBaseWorker("draft-watcher"),
		mirror:     m,
		pattern:    pattern,
		logger:     m.logger,
		onSync:     onSync,
	}, nil
}

func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.mirror.Dir()); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.mirror.Dir(), err)
	}
	w.watcher = watcher

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *Watcher) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"path":              w.mirror.Path(),
			"pattern":           w.pattern,
		}
	})
}

// matches reports whether an event should trigger a sync.
func (w *Watcher) matches(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, TempFilePrefix) {
		return false
	}
	ok, err := doublestar.Match(w.pattern, base)
	return err == nil && ok
}

func (w *Watcher) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("draft watcher panic: %v", recovered)
			if w.logger.Enabled(ctx, slog.LevelDebug) {
				w.logger.Error("draft watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.logger.Error("draft watcher panic", "error", err)
			}
		}
	}()
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.matches(event) {
				continue
			}
			w.logger.Debug("draft changed", "name", event.Name, "op", event.Op.String())

			draft, syncErr := w.mirror.Sync(ctx)
			if syncErr != nil && !errors.Is(syncErr, context.Canceled) {
				w.logger.Warn("draft sync failed", "error", syncErr)
			}
			if w.onSync != nil {
				w.onSync(draft, syncErr)
			}

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", wErr)
		}
	}
}
