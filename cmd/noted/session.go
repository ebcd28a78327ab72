package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/notekeeper"
	"github.com/aretw0/notekeeper/pkg/session"
)

const stopTimeout = 5 * time.Second

// openSession starts a session against the configured service and waits for
// the initial list.
func openSession(ctx context.Context) (*session.Controller, error) {
	path, _, err := settings()
	if err != nil {
		return nil, err
	}

	opts := []notekeeper.Option{notekeeper.WithLogger(slog.Default())}
	if path != "" {
		opts = append(opts, notekeeper.WithConfigFile(path))
	}

	ctrl, err := notekeeper.Open(ctx, apiBase, opts...)
	if err != nil {
		return nil, err
	}
	if err := ctrl.Settle(ctx); err != nil {
		closeSession(ctrl)
		return nil, err
	}
	return ctrl, nil
}

func closeSession(ctrl *session.Controller) {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := ctrl.Stop(ctx); err != nil {
		slog.Warn("session did not stop cleanly", "error", err)
	}
}

// mustOpen is openSession for one-shot commands.
func mustOpen(ctx context.Context) *session.Controller {
	ctrl, err := openSession(ctx)
	if err != nil {
		fatal("Error opening session", err)
	}
	return ctrl
}

// finish waits for outstanding calls, reports feedback and stops the
// session. It exits with status 1 when the session ends in error.
func finish(ctx context.Context, ctrl *session.Controller) {
	if err := ctrl.Settle(ctx); err != nil && !errors.Is(err, session.ErrStopped) {
		slog.Warn("settle failed", "error", err)
	}
	snap := ctrl.Snapshot()
	closeSession(ctrl)

	if code := report(os.Stdout, os.Stderr, snap); code != 0 {
		os.Exit(code)
	}
}

// report prints the feedback of snap and returns the exit status.
func report(stdout, stderr io.Writer, snap session.Snapshot) int {
	if snap.Feedback.Info != "" {
		fmt.Fprintln(stdout, snap.Feedback.Info)
	}
	if snap.Feedback.Error != "" {
		fmt.Fprintf(stderr, "Error: %s\n", snap.Feedback.Error)
		return 1
	}
	return 0
}

// check fails the command when an intent is rejected or faults locally.
func check(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, session.ErrRejected) {
		fatal("Rejected", err)
	}
	fatal("Error", err)
}
