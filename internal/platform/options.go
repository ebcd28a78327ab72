package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/notekeeper/pkg/core"
	"github.com/aretw0/notekeeper/pkg/session"
)

// options holds the internal configuration for a notekeeper session.
type options struct {
	gateway    core.Gateway
	logger     *slog.Logger
	adapter    string
	httpClient *http.Client
	feedback   session.FeedbackSink
	config     map[string]interface{}
}

// Option defines a functional option for configuring a session.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "http",
		config:  make(map[string]interface{}),
	}
}

// WithLogger sets the logger for the session and its gateway.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithGateway injects a custom gateway (e.g. a fake in tests).
// If provided, the adapter and its settings are ignored.
func WithGateway(gw core.Gateway) Option {
	return func(o *options) {
		o.gateway = gw
	}
}

// WithAdapter selects the gateway adapter by name. Defaults to "http".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithTimeout bounds every remote call. Zero means the adapter default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.config["timeout"] = d
	}
}

// WithHTTPClient sets the client used by the http adapter.
// It takes precedence over WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithEventBuffer sets the per-subscriber change buffer.
// Zero means default (64).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithFeedbackSink forwards every feedback signal to sink.
func WithFeedbackSink(sink session.FeedbackSink) Option {
	return func(o *options) {
		o.feedback = sink
	}
}

// WithConfigFile reads defaults from a YAML file. Explicit options and the
// environment take precedence over its values.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.config["config_file"] = path
	}
}
