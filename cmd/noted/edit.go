package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeeper/pkg/adapters/draftfile"
	"github.com/aretw0/notekeeper/pkg/core"
	"github.com/aretw0/notekeeper/pkg/session"
)

var (
	editTitle   string
	editContent string
	editEditor  bool
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Update a note",
	Long: `Edit replaces the title and/or content of a note. Fields not given keep
their current value. With --editor the note is opened in your editor.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !editEditor && !cmd.Flags().Changed("title") && !cmd.Flags().Changed("content") {
			fatal("Error", fmt.Errorf("nothing to change: pass --title, --content or --editor"))
		}

		ctx := context.Background()
		ctrl := mustOpen(ctx)

		check(ctrl.StartEdit(ctx, core.ID(args[0])))
		if cmd.Flags().Changed("title") {
			check(ctrl.EditDraft(ctx, session.FieldTitle, editTitle))
		}
		if cmd.Flags().Changed("content") {
			check(ctrl.EditDraft(ctx, session.FieldContent, editContent))
		}
		if editEditor {
			if err := openEditor(ctx, ctrl); err != nil {
				closeSession(ctrl)
				fatal("Error editing draft", err)
			}
		}
		check(ctrl.Submit(ctx))

		finish(ctx, ctrl)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&editContent, "content", "c", "", "New content")
	editCmd.Flags().BoolVarP(&editEditor, "editor", "e", false, "Edit the note in $EDITOR")
}

// editorCommand resolves the editor: config file, $VISUAL, $EDITOR, then vi.
func editorCommand(cfg string) []string {
	for _, candidate := range []string{cfg, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// openEditor mirrors the open draft into a file, runs the editor on it and
// feeds every save back into the session.
func openEditor(ctx context.Context, ctrl *session.Controller) error {
	_, cfg, err := settings()
	if err != nil {
		return err
	}

	mode := ctrl.Snapshot().Mode
	if !mode.InForm() {
		return fmt.Errorf("no draft open")
	}

	name := "new-note.md"
	if mode.Kind == session.ModeEditing {
		name = "note-" + sanitize(string(mode.Target)) + ".md"
	}

	mirror, err := draftfile.Open(ctrl, draftfile.Config{Dir: cfg.DraftDir, Name: name, Logger: slog.Default()})
	if err != nil {
		return err
	}
	defer mirror.Close()

	if err := mirror.Write(mode.Draft, mode.Target); err != nil {
		return err
	}

	watcher, err := draftfile.NewWatcher(mirror, name, func(d session.Draft, err error) {
		if err == nil {
			slog.Debug("draft updated from file", "title", d.Title)
		}
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		_ = watcher.Stop(stopCtx)
	}()

	argv := editorCommand(cfg.Editor)
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], mirror.Path())...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", argv[0], err)
	}

	// The editor may exit before the watcher saw its last write.
	_, err = mirror.Sync(ctx)
	return err
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
