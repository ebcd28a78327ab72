package platform

import (
	"github.com/aretw0/notekeeper/pkg/session"
)

// New wires a session controller to the gateway selected by opts.
// The controller is not started.
//
//	ctrl, err := platform.New("http://localhost:8000", platform.WithLogger(logger))
func New(uri string, opts ...Option) (*session.Controller, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	gw, err := initGateway(uri, o)
	if err != nil {
		return nil, err
	}

	buffer, _ := o.config["event_buffer"].(int)
	if buffer == 0 {
		if file, err := o.fileConfig(); err == nil {
			buffer = file.EventBuffer
		}
	}

	return session.New(gw, session.Config{
		Logger:       o.logger,
		Feedback:     o.feedback,
		ChangeBuffer: buffer,
	}), nil
}
