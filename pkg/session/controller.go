// Package session implements the client-side session controller of a
// note-taking application.
//
// A Controller owns the local note cache, the interaction mode (viewing,
// creating, editing) and the set of pending remote operations. All state is
// mutated on a single loop goroutine: user intents and gateway completions are
// both delivered to that loop as discrete events, so ordering between
// overlapping asynchronous operations is arbitrated explicitly instead of
// depending on callback timing.
//
// Usage:
//
//	ctrl := session.New(gateway, session.Config{Logger: logger})
//	if err := ctrl.Start(ctx); err != nil { ... }  // issues the initial list
//	defer ctrl.Stop(context.Background())
//
//	_ = ctrl.StartCreate(ctx)
//	_ = ctrl.EditDraft(ctx, session.FieldTitle, "Groceries")
//	_ = ctrl.EditDraft(ctx, session.FieldContent, "milk, eggs")
//	_ = ctrl.Submit(ctx)
//	_ = ctrl.Settle(ctx)
//	snap := ctrl.Snapshot()
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notekeeper/pkg/core"
)

// Common errors.
var (
	// ErrRejected wraps every intent refused by a precondition.
	// A rejected intent has no observable effect.
	ErrRejected = errors.New("intent rejected")
	// ErrStopped is returned once the controller loop has exited.
	ErrStopped = errors.New("session stopped")
	// ErrNotStarted is returned by intents issued before Start.
	ErrNotStarted = errors.New("session not started")
)

// errAborted marks a gateway call that never returned (it panicked).
var errAborted = errors.New("operation aborted")

const defaultChangeBuffer = 64

// Config holds the configuration for a Controller.
type Config struct {
	Logger *slog.Logger
	// Feedback, if set, receives every feedback signal in addition to the
	// snapshot's own Feedback state.
	Feedback FeedbackSink
	// ChangeBuffer is the per-subscriber buffer size. Zero means default (64).
	ChangeBuffer int
}

// Controller is the session state machine.
type Controller struct {
	gateway core.Gateway
	config  Config
	logger  *slog.Logger

	inbox   chan func()
	stopped chan struct{}
	started atomic.Bool
	last    atomic.Pointer[Snapshot]
	calls   sync.WaitGroup

	lifeMu sync.Mutex
	runCtx context.Context
	cancel context.CancelFunc

	// Owned by the loop goroutine.
	store      *core.Store
	mode       Mode
	lists      int
	submitting bool
	deleting   map[core.ID]struct{}
	updating   *pendingUpdate
	feedback   Feedback
	seq        uint64
	inflight   int
	settled    []chan struct{}
	subs       []chan Change
}

// pendingUpdate tracks the update in flight. gone is set when a delete of
// the same note completes before it.
type pendingUpdate struct {
	id   core.ID
	gone bool
}

// New creates a Controller in Viewing(none) with an empty store.
// Nothing runs until Start.
func New(gateway core.Gateway, config Config) *Controller {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if config.ChangeBuffer <= 0 {
		config.ChangeBuffer = defaultChangeBuffer
	}

	c := &Controller{
		gateway:  gateway,
		config:   config,
		logger:   logger,
		inbox:    make(chan func()),
		stopped:  make(chan struct{}),
		store:    core.NewStore(),
		mode:     Viewing(""),
		deleting: make(map[core.ID]struct{}),
	}
	snap := c.snapshot()
	c.last.Store(&snap)
	return c
}

// Start runs the session loop and issues the initial list.
// The loop lives until Stop is called or ctx is done.
func (c *Controller) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("session already started")
	}

	c.lifeMu.Lock()
	c.runCtx, c.cancel = context.WithCancel(ctx)
	runCtx := c.runCtx
	c.lifeMu.Unlock()

	go c.run(runCtx)

	return c.intent(ctx, "start", func() error {
		c.requestList()
		return nil
	})
}

// Stop ends the session loop, cancels outstanding gateway calls and waits
// for their goroutines to return. Subscriber channels are closed.
func (c *Controller) Stop(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	c.lifeMu.Lock()
	cancel := c.cancel
	c.lifeMu.Unlock()
	cancel()

	select {
	case <-c.stopped:
	case <-ctx.Done():
		return ctx.Err()
	}

	done := make(chan struct{})
	go func() {
		c.calls.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the session loop has exited.
func (c *Controller) Done() <-chan struct{} {
	return c.stopped
}

// Snapshot returns the view published by the latest transition.
func (c *Controller) Snapshot() Snapshot {
	return *c.last.Load()
}

// Subscribe returns a channel receiving a Change after every transition.
// When a subscriber falls behind, the oldest undelivered change is dropped.
// The channel is closed when the session stops.
func (c *Controller) Subscribe(ctx context.Context) (<-chan Change, error) {
	ch := make(chan Change, c.config.ChangeBuffer)
	err := c.do(ctx, func() error {
		c.subs = append(c.subs, ch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// Settle blocks until no gateway call is outstanding and every completion
// has been applied.
func (c *Controller) Settle(ctx context.Context) error {
	var wait chan struct{}
	err := c.do(ctx, func() error {
		if c.inflight > 0 {
			wait = make(chan struct{})
			c.settled = append(c.settled, wait)
		}
		return nil
	})
	if err != nil || wait == nil {
		return err
	}

	select {
	case <-wait:
		return nil
	case <-c.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) run(ctx context.Context) {
	defer close(c.stopped)
	defer c.closeSubscribers()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-c.inbox:
			fn()
		}
	}
}

// do runs fn on the session loop and waits for its result.
func (c *Controller) do(ctx context.Context, fn func() error) error {
	if !c.started.Load() {
		return ErrNotStarted
	}

	reply := make(chan error, 1)
	op := func() { reply <- fn() }

	select {
	case c.inbox <- op:
	case <-c.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-c.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// intent runs a user intent on the loop. Anything but a rejection is a
// transition and gets published.
func (c *Controller) intent(ctx context.Context, event string, fn func() error) error {
	return c.do(ctx, func() error {
		err := fn()
		if errors.Is(err, ErrRejected) {
			c.logger.Debug("intent rejected", "event", event, "reason", err)
			return err
		}
		c.publish(event)
		return err
	})
}

func reject(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}

// launch runs a gateway call on its own goroutine and feeds its completion
// back into the loop. Must be called from the loop.
func launch[T any](c *Controller, op string, id core.ID, call func(context.Context) (T, error), done func(T, *core.Fault)) {
	c.inflight++
	c.calls.Add(1)
	c.logger.Debug("dispatching gateway call", "op", op, "id", id)

	lifecycle.Go(c.runCtx, func(ctx context.Context) error {
		defer c.calls.Done()

		var (
			result T
			err    = errAborted
		)
		defer func() {
			fault := toFault(op, err)
			c.complete(op+".done", func() { done(result, fault) })
		}()

		result, err = call(ctx)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		c.logger.Error("gateway call panicked", "op", op, "id", id, "error", err)
	}))
}

// complete delivers a completion to the loop. It is dropped once the loop has exited.
func (c *Controller) complete(event string, apply func()) {
	op := func() {
		apply()
		c.inflight--
		c.publish(event)
		if c.inflight == 0 {
			for _, w := range c.settled {
				close(w)
			}
			c.settled = nil
		}
	}

	select {
	case c.inbox <- op:
	case <-c.stopped:
	}
}

func toFault(op string, err error) *core.Fault {
	if err == nil {
		return nil
	}
	if f, ok := core.AsFault(err); ok {
		if f.Op == "" {
			f.Op = op
		}
		return f
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return core.NewFault(core.FaultNetwork, op, "request cancelled or timed out", err)
	}
	return core.NewFault(core.FaultNetwork, op, err.Error(), err)
}

func (c *Controller) publish(event string) {
	c.seq++
	snap := c.snapshot()
	c.last.Store(&snap)

	change := Change{Seq: c.seq, Event: event, Snapshot: snap}
	for _, sub := range c.subs {
		select {
		case sub <- change:
			continue
		default:
		}
		// Full: drop the oldest change, then retry once.
		select {
		case <-sub:
		default:
		}
		select {
		case sub <- change:
		default:
		}
	}
}

func (c *Controller) closeSubscribers() {
	for _, sub := range c.subs {
		close(sub)
	}
	c.subs = nil
}

func (c *Controller) snapshot() Snapshot {
	pending := PendingOps{
		ListInFlight:   c.lists > 0,
		SubmitInFlight: c.submitting,
	}
	if len(c.deleting) > 0 {
		pending.DeletingIDs = make([]core.ID, 0, len(c.deleting))
		for id := range c.deleting {
			pending.DeletingIDs = append(pending.DeletingIDs, id)
		}
		sort.Slice(pending.DeletingIDs, func(i, j int) bool {
			return pending.DeletingIDs[i] < pending.DeletingIDs[j]
		})
	}

	return Snapshot{
		Seq:      c.seq,
		Mode:     c.mode,
		Pending:  pending,
		Notes:    c.store.Snapshot(),
		Feedback: c.feedback,
	}
}
