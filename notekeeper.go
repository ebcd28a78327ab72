package notekeeper

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/notekeeper/internal/platform"
	"github.com/aretw0/notekeeper/pkg/core"
	"github.com/aretw0/notekeeper/pkg/session"
)

// --- Types ---

// Note is a public alias for the note entity.
type Note = core.Note

// Session is a public alias for the session controller.
type Session = session.Controller

// Snapshot is a public alias for the session view.
type Snapshot = session.Snapshot

// --- Configuration ---

// Option defines a functional option for configuring a session.
type Option = platform.Option

// WithLogger sets the logger for the session and its gateway.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithGateway allows injecting a custom gateway.
func WithGateway(gw core.Gateway) Option {
	return platform.WithGateway(gw)
}

// WithAdapter allows specifying the gateway adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithTimeout bounds every remote call.
func WithTimeout(d time.Duration) Option {
	return platform.WithTimeout(d)
}

// WithHTTPClient sets the client used by the http adapter.
func WithHTTPClient(client *http.Client) Option {
	return platform.WithHTTPClient(client)
}

// WithEventBuffer sets the per-subscriber change buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithFeedbackSink forwards every feedback signal to sink.
func WithFeedbackSink(sink session.FeedbackSink) Option {
	return platform.WithFeedbackSink(sink)
}

// WithConfigFile reads defaults from a YAML file.
func WithConfigFile(path string) Option {
	return platform.WithConfigFile(path)
}

// --- Factory ---

// New creates a session bound to the notes service at apiBase.
// The session is not started.
func New(apiBase string, opts ...Option) (*session.Controller, error) {
	return platform.New(apiBase, opts...)
}

// Open creates a session and starts it, which issues the initial list.
func Open(ctx context.Context, apiBase string, opts ...Option) (*session.Controller, error) {
	ctrl, err := platform.New(apiBase, opts...)
	if err != nil {
		return nil, err
	}
	if err := ctrl.Start(ctx); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// Init builds the gateway explicitly.
func Init(apiBase string, opts ...Option) (core.Gateway, error) {
	return platform.Init(apiBase, opts...)
}
