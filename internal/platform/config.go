package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notekeeper/pkg/adapters/httpapi"
)

// EnvAPIBase overrides the configured api base.
const EnvAPIBase = "NOTEKEEPER_API_BASE"

// ConfigFileNames are the file names FindConfig looks for, in order.
var ConfigFileNames = []string{".noted.yaml", "noted.yaml"}

// FileConfig is the YAML configuration file.
type FileConfig struct {
	APIBase     string `yaml:"api_base"`
	Timeout     string `yaml:"timeout"`
	EventBuffer int    `yaml:"event_buffer"`
	Editor      string `yaml:"editor"`
	DraftDir    string `yaml:"draft_dir"`
}

// TimeoutDuration parses Timeout. An empty value is zero.
func (c FileConfig) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.Timeout))
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", c.Timeout)
	}
	return d, nil
}

// LoadConfig reads a configuration file. Unknown keys are an error.
func LoadConfig(path string) (FileConfig, error) {
	var cfg FileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if _, err := cfg.TimeoutDuration(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.EventBuffer < 0 {
		return cfg, fmt.Errorf("config %s: event_buffer must not be negative", path)
	}
	return cfg, nil
}

// ResolveAPIBase picks the api base: explicit value, then the environment,
// then the file, then the default.
func ResolveAPIBase(explicit string, file FileConfig) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIBase)); v != "" {
		return v
	}
	if v := strings.TrimSpace(file.APIBase); v != "" {
		return v
	}
	return httpapi.DefaultBaseURL
}
