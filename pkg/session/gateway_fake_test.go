package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/notekeeper/pkg/core"
)

const waitTimeout = 2 * time.Second

// pendingCall is a gateway call held open until the test answers it.
type pendingCall struct {
	op      string
	id      core.ID
	title   string
	content string
	reply   chan callResult
}

type callResult struct {
	notes []core.Note
	note  core.Note
	err   error
}

func (c *pendingCall) list(notes ...core.Note) { c.reply <- callResult{notes: notes} }
func (c *pendingCall) note(n core.Note)        { c.reply <- callResult{note: n} }
func (c *pendingCall) ok()                     { c.reply <- callResult{} }
func (c *pendingCall) fail(err error)          { c.reply <- callResult{err: err} }

// fakeGateway implements core.Gateway. Every call blocks until the test
// answers it, so completion order is fully under test control.
type fakeGateway struct {
	calls chan *pendingCall
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: make(chan *pendingCall, 64)}
}

func (g *fakeGateway) hold(ctx context.Context, c *pendingCall) (callResult, error) {
	c.reply = make(chan callResult, 1)
	g.calls <- c
	select {
	case r := <-c.reply:
		return r, r.err
	case <-ctx.Done():
		return callResult{}, ctx.Err()
	}
}

func (g *fakeGateway) List(ctx context.Context) ([]core.Note, error) {
	r, err := g.hold(ctx, &pendingCall{op: "list"})
	return r.notes, err
}

func (g *fakeGateway) Create(ctx context.Context, title, content string) (core.Note, error) {
	r, err := g.hold(ctx, &pendingCall{op: "create", title: title, content: content})
	return r.note, err
}

func (g *fakeGateway) Update(ctx context.Context, id core.ID, title, content string) (core.Note, error) {
	r, err := g.hold(ctx, &pendingCall{op: "update", id: id, title: title, content: content})
	return r.note, err
}

func (g *fakeGateway) Delete(ctx context.Context, id core.ID) error {
	_, err := g.hold(ctx, &pendingCall{op: "delete", id: id})
	return err
}

// next returns the next call and checks its operation.
func (g *fakeGateway) next(t *testing.T, op string) *pendingCall {
	t.Helper()
	select {
	case c := <-g.calls:
		if c.op != op {
			t.Fatalf("expected %s call, got %s (id=%q)", op, c.op, c.id)
		}
		return c
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for %s call", op)
		return nil
	}
}

// quiet asserts that no further gateway call is made.
func (g *fakeGateway) quiet(t *testing.T) {
	t.Helper()
	select {
	case c := <-g.calls:
		t.Fatalf("unexpected %s call (id=%q)", c.op, c.id)
	case <-time.After(50 * time.Millisecond):
	}
}
