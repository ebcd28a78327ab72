package platform

import (
	"fmt"
	"time"

	"github.com/aretw0/notekeeper/pkg/adapters/httpapi"
	"github.com/aretw0/notekeeper/pkg/core"
)

// Init builds the gateway selected by the options.
// The uri argument is adapter-specific (the api base for "http"); an empty
// uri falls back to the environment, the config file and the default.
func Init(uri string, opts ...Option) (core.Gateway, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initGateway(uri, o)
}

func initGateway(uri string, o *options) (core.Gateway, error) {
	if o.gateway != nil {
		return o.gateway, nil
	}

	file, err := o.fileConfig()
	if err != nil {
		return nil, err
	}

	switch o.adapter {
	case "http":
		return initHTTP(uri, file, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

func initHTTP(uri string, file FileConfig, o *options) (core.Gateway, error) {
	timeout, _ := o.config["timeout"].(time.Duration)
	if timeout == 0 {
		var err error
		if timeout, err = file.TimeoutDuration(); err != nil {
			return nil, err
		}
	}

	return httpapi.New(httpapi.Config{
		BaseURL:    ResolveAPIBase(uri, file),
		Timeout:    timeout,
		HTTPClient: o.httpClient,
		Logger:     o.logger,
	})
}

// fileConfig loads the configured file, if any.
func (o *options) fileConfig() (FileConfig, error) {
	path, _ := o.config["config_file"].(string)
	if path == "" {
		return FileConfig{}, nil
	}
	return LoadConfig(path)
}
