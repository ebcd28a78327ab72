package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeeper/pkg/core"
	"github.com/aretw0/notekeeper/pkg/session"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session",
	Long: `Shell keeps one session open and reads commands from stdin. Remote calls run
in the background; results are printed as they land. Type 'help' for the
command list.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ctrl := mustOpen(ctx)
		defer closeSession(ctrl)

		if err := runShell(ctx, ctrl, os.Stdin, os.Stdout, openEditor); err != nil {
			fatal("Error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

const shellHelp = `Commands:
  list                     list notes (* selected, - being deleted)
  show <id>                select a note and print it
  new [title]              open the creation form
  edit <id>                open the edit form for a note
  title <text>             set the draft title
  content <text>           set the draft content
  editor                   edit the draft in $EDITOR
  submit                   save the draft
  cancel                   close the form
  delete <id>...           delete notes
  refresh                  reload the list from the service
  dismiss [error|info]     clear feedback messages
  status                   print mode, pending operations and feedback
  state                    print session internals as JSON
  wait                     wait until no remote call is pending
  help                     show this help
  quit                     leave the shell
`

// editorFunc opens the current draft in an external editor.
type editorFunc func(ctx context.Context, ctrl *session.Controller) error

// syncWriter serializes command output and background reports.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type shell struct {
	ctrl   *session.Controller
	out    io.Writer
	editor editorFunc
}

// runShell reads commands from in until EOF or quit.
func runShell(ctx context.Context, ctrl *session.Controller, in io.Reader, out io.Writer, editor editorFunc) error {
	sh := &shell{ctrl: ctrl, out: &syncWriter{w: out}, editor: editor}

	changes, err := ctrl.Subscribe(ctx)
	if err != nil {
		return err
	}
	reportCtx, cancel := context.WithCancel(ctx)
	reported := make(chan struct{})
	go func() {
		defer close(reported)
		sh.reportFeedback(reportCtx, changes, ctrl.Snapshot().Feedback)
	}()
	defer func() {
		cancel()
		<-reported
	}()

	fmt.Fprintln(sh.out, "noted shell. Type 'help' for commands.")
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		quit, err := sh.exec(ctx, line)
		switch {
		case errors.Is(err, session.ErrRejected):
			fmt.Fprintf(sh.out, "rejected: %s\n", strings.TrimPrefix(err.Error(), session.ErrRejected.Error()+": "))
		case errors.Is(err, session.ErrStopped):
			return err
		case err != nil:
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// reportFeedback prints every new feedback message as transitions land.
// Changes still buffered when ctx ends are drained first.
func (sh *shell) reportFeedback(ctx context.Context, changes <-chan session.Change, last session.Feedback) {
	show := func(c session.Change) {
		fb := c.Snapshot.Feedback
		if fb.Error != "" && fb.Error != last.Error {
			fmt.Fprintf(sh.out, "! %s\n", fb.Error)
		}
		if fb.Info != "" && fb.Info != last.Info {
			fmt.Fprintf(sh.out, "* %s\n", fb.Info)
		}
		last = fb
	}

	for {
		select {
		case c, ok := <-changes:
			if !ok {
				return
			}
			show(c)
		case <-ctx.Done():
			for {
				select {
				case c, ok := <-changes:
					if !ok {
						return
					}
					show(c)
				default:
					return
				}
			}
		}
	}
}

func (sh *shell) exec(ctx context.Context, line string) (quit bool, err error) {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	ctrl := sh.ctrl

	switch strings.ToLower(name) {
	case "quit", "exit", "q":
		return true, nil

	case "help", "?":
		fmt.Fprint(sh.out, shellHelp)

	case "list", "ls":
		return false, printNotes(sh.out, formatText, ctrl.Snapshot())

	case "show", "select":
		if rest == "" {
			return false, fmt.Errorf("usage: show <id>")
		}
		if err := ctrl.SelectNote(ctx, core.ID(rest)); err != nil {
			return false, err
		}
		note, ok := ctrl.Snapshot().Selected()
		if !ok {
			fmt.Fprintln(sh.out, "Note not found.")
			return false, nil
		}
		return false, printNote(sh.out, formatText, note)

	case "new":
		if err := ctrl.StartCreate(ctx); err != nil {
			return false, err
		}
		if rest != "" {
			return false, ctrl.EditDraft(ctx, session.FieldTitle, rest)
		}

	case "edit":
		if rest == "" {
			return false, fmt.Errorf("usage: edit <id>")
		}
		if err := ctrl.StartEdit(ctx, core.ID(rest)); err != nil {
			return false, err
		}
		d := ctrl.Snapshot().Mode.Draft
		fmt.Fprintf(sh.out, "editing %s: %q\n", rest, d.Title)

	case "title", "content":
		field, _ := session.ParseField(name)
		return false, ctrl.EditDraft(ctx, field, rest)

	case "editor":
		if sh.editor == nil {
			return false, fmt.Errorf("no editor available")
		}
		return false, sh.editor(ctx, ctrl)

	case "submit", "save":
		err := ctrl.Submit(ctx)
		var fault *core.Fault
		if errors.As(err, &fault) && fault.Kind == core.FaultValidation {
			// Already reported as feedback.
			return false, nil
		}
		return false, err

	case "cancel":
		return false, ctrl.CancelForm(ctx)

	case "delete", "rm":
		ids := strings.Fields(rest)
		if len(ids) == 0 {
			return false, fmt.Errorf("usage: delete <id>...")
		}
		return false, deleteAll(ctx, ctrl, ids)

	case "refresh":
		return false, ctrl.RequestList(ctx)

	case "dismiss":
		switch rest {
		case "error":
			return false, ctrl.DismissError(ctx)
		case "info":
			return false, ctrl.DismissInfo(ctx)
		case "", "all":
			return false, ctrl.ClearFeedback(ctx)
		}
		return false, fmt.Errorf("usage: dismiss [error|info]")

	case "status":
		printStatus(sh.out, ctrl.Snapshot())

	case "state":
		data, err := json.MarshalIndent(ctrl.State(), "", "  ")
		if err != nil {
			return false, err
		}
		fmt.Fprintln(sh.out, string(data))

	case "wait":
		return false, ctrl.Settle(ctx)

	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", name)
	}
	return false, nil
}
