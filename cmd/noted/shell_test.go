package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeeper"
	"github.com/aretw0/notekeeper/internal/notesrv"
	"github.com/aretw0/notekeeper/pkg/core"
	"github.com/aretw0/notekeeper/pkg/session"
)

func startTestSession(t *testing.T, seed ...core.Note) (*session.Controller, *notesrv.Server) {
	t.Helper()
	srv := notesrv.New()
	srv.Seed(seed...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	ctx := context.Background()
	ctrl, err := notekeeper.Open(ctx, ts.URL, notekeeper.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	t.Cleanup(func() { closeSession(ctrl) })

	settleCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, ctrl.Settle(settleCtx))
	return ctrl, srv
}

func TestShell_Script(t *testing.T) {
	ctrl, srv := startTestSession(t)

	script := strings.Join([]string{
		"help",
		"new Groceries",
		"content milk, eggs",
		"submit",
		"wait",
		"list",
		"status",
		"# comment lines are ignored",
		"new",
		"submit",
		"status",
		"cancel",
		"edit missing",
		"bogus",
		"quit",
		"list",
	}, "\n")

	var out bytes.Buffer
	err := runShell(context.Background(), ctrl, strings.NewReader(script), &out, nil)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Commands:")
	assert.Contains(t, got, "Groceries")
	assert.Contains(t, got, "info: "+session.MsgCreated)
	assert.Contains(t, got, "* "+session.MsgCreated)
	assert.Contains(t, got, "error: "+session.MsgValidation)
	assert.Contains(t, got, "rejected: note missing is not in the store")
	assert.Contains(t, got, `error: unknown command "bogus"`)
	assert.Equal(t, 1, strings.Count(got, "Groceries"), "nothing runs after quit")
	assert.Equal(t, 1, srv.Len())
}

func TestShell_DeleteAndShow(t *testing.T) {
	now := time.Now().UTC()
	ctrl, srv := startTestSession(t,
		core.Note{ID: "a", Title: "first", Content: "one", CreatedAt: now, UpdatedAt: now},
		core.Note{ID: "b", Title: "second", Content: "two", CreatedAt: now, UpdatedAt: now.Add(time.Second)},
	)

	script := "show a\ndelete a b\nwait\nlist\nstatus\nshow a\n"
	var out bytes.Buffer
	require.NoError(t, runShell(context.Background(), ctrl, strings.NewReader(script), &out, nil))

	got := out.String()
	assert.Contains(t, got, "first\nid: a")
	assert.Contains(t, got, "No notes yet.")
	assert.Contains(t, got, "info: "+session.MsgDeleted)
	assert.Contains(t, got, "Note not found.")
	assert.Equal(t, 0, srv.Len())
}

func TestShell_EditorHook(t *testing.T) {
	ctrl, _ := startTestSession(t)

	called := false
	editor := func(ctx context.Context, c *session.Controller) error {
		called = true
		return c.EditDraft(ctx, session.FieldContent, "from editor")
	}

	var out bytes.Buffer
	script := "editor\nnew T\neditor\nstatus\n"
	require.NoError(t, runShell(context.Background(), ctrl, strings.NewReader(script), &out, editor))

	assert.True(t, called)
	assert.Contains(t, out.String(), "rejected: no form open")
	assert.Contains(t, out.String(), `mode: Creating("T", "from editor")`)
}

func TestDeleteAll_ReportsDuplicates(t *testing.T) {
	now := time.Now().UTC()
	ctrl, srv := startTestSession(t, core.Note{ID: "x", Title: "t", Content: "c", CreatedAt: now, UpdatedAt: now})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := deleteAll(ctx, ctrl, []string{"x", "x"})
	require.NoError(t, ctrl.Settle(ctx))

	// The second delete of x is either rejected while the first is pending,
	// or succeeds idempotently after it completed.
	if err != nil {
		assert.ErrorIs(t, err, session.ErrRejected)
	}
	assert.Equal(t, 0, srv.Len())
	assert.Empty(t, ctrl.Snapshot().Notes)
	assert.Empty(t, ctrl.Snapshot().Feedback.Error)
}

func TestReport(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := report(&stdout, &stderr, session.Snapshot{Feedback: session.Feedback{Info: "Note deleted."}})
	assert.Equal(t, 0, code)
	assert.Equal(t, "Note deleted.\n", stdout.String())

	stdout.Reset()
	code = report(&stdout, &stderr, session.Snapshot{Feedback: session.Feedback{Error: "Failed to fetch notes: boom"}})
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Equal(t, "Error: Failed to fetch notes: boom\n", stderr.String())
}

func TestPickFormat(t *testing.T) {
	f, err := pickFormat(false, false)
	require.NoError(t, err)
	assert.Equal(t, formatText, f)

	f, err = pickFormat(false, true)
	require.NoError(t, err)
	assert.Equal(t, formatYAML, f)

	_, err = pickFormat(true, true)
	assert.Error(t, err)
}

func TestPrintNotes_Structured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printNotes(&buf, formatJSON, session.Snapshot{}))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	snap := session.Snapshot{Notes: []core.Note{{ID: "1", Title: "t", Content: "c"}}}
	require.NoError(t, printNotes(&buf, formatYAML, snap))
	assert.Contains(t, buf.String(), "- id: \"1\"\n")
	assert.Contains(t, buf.String(), "title: t\n")
}

func TestEditorCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "nano -w")
	assert.Equal(t, []string{"nano", "-w"}, editorCommand(""))
	assert.Equal(t, []string{"code", "--wait"}, editorCommand("code --wait"))

	t.Setenv("EDITOR", "")
	assert.Equal(t, []string{"vi"}, editorCommand(" "))
	assert.Equal(t, "note-a_b", "note-"+sanitize("a/b"))
}
