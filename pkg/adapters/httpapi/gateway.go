// Package httpapi implements core.Gateway over the notes REST endpoint:
//
//	GET    /notes         list
//	POST   /notes         create  {title, content}
//	PUT    /notes/{id}    update  {title, content}
//	DELETE /notes/{id}    delete  (any 2xx, usually 204)
//
// Every failure is returned as a *core.Fault. Transport errors and timeouts
// are network faults; 404 is not-found; any other non-2xx status is a
// rejection carrying the server's message when the body has one; a body
// that cannot be decoded into notes is a malformed-response fault.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aretw0/notekeeper/pkg/core"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout bounds every request unless overridden.
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 64 << 10
)

// Config holds the configuration for the HTTP gateway.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Gateway talks to a remote notes service. It is safe for concurrent use.
type Gateway struct {
	base   *url.URL
	client *http.Client
	logger *slog.Logger

	requests atomic.Int64
	faults   atomic.Int64
	lastErr  atomic.Pointer[string]
}

// New creates a Gateway. The base URL must be absolute (scheme and host).
func New(config Config) (*Gateway, error) {
	raw := strings.TrimSpace(config.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base %q: %w", raw, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base %q: want http(s)://host[:port]", raw)
	}

	client := config.HTTPClient
	if client == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Gateway{base: base, client: client, logger: logger}, nil
}

// BaseURL returns the normalized endpoint root.
func (g *Gateway) BaseURL() string {
	return g.base.String()
}

type notePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// List fetches every note.
func (g *Gateway) List(ctx context.Context) ([]core.Note, error) {
	resp, err := g.do(ctx, "list", http.MethodGet, "/notes", nil)
	if err != nil {
		return nil, err
	}

	var wire []wireNote
	if err := g.decode("list", resp, &wire); err != nil {
		return nil, err
	}

	notes := make([]core.Note, 0, len(wire))
	for i, w := range wire {
		n, err := w.toNote()
		if err != nil {
			return nil, g.fault(core.NewFault(core.FaultMalformed, "list", fmt.Sprintf("note #%d: %v", i, err), err))
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// Create stores a new note and returns it with its server-assigned id and timestamps.
func (g *Gateway) Create(ctx context.Context, title, content string) (core.Note, error) {
	resp, err := g.do(ctx, "create", http.MethodPost, "/notes", notePayload{Title: title, Content: content})
	if err != nil {
		return core.Note{}, err
	}
	return g.decodeNote("create", resp)
}

// Update replaces the title and content of note id.
func (g *Gateway) Update(ctx context.Context, id core.ID, title, content string) (core.Note, error) {
	resp, err := g.do(ctx, "update", http.MethodPut, notePath(id), notePayload{Title: title, Content: content})
	if err != nil {
		return core.Note{}, err
	}
	return g.decodeNote("update", resp)
}

// Delete removes note id. A note that is already gone counts as deleted.
func (g *Gateway) Delete(ctx context.Context, id core.ID) error {
	resp, err := g.do(ctx, "delete", http.MethodDelete, notePath(id), nil)
	if err != nil {
		if core.IsNotFound(err) {
			g.logger.Debug("note already absent", "id", id)
			return nil
		}
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func notePath(id core.ID) string {
	return "/notes/" + url.PathEscape(string(id))
}

// do sends a request and returns the response for any 2xx status. Every
// other outcome is converted to a fault and the body is closed.
func (g *Gateway) do(ctx context.Context, op, method, path string, body any) (*http.Response, error) {
	g.requests.Add(1)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, g.fault(core.NewFault(core.FaultValidation, op, "failed to encode request", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.base.String()+path, reader)
	if err != nil {
		return nil, g.fault(core.NewFault(core.FaultValidation, op, "failed to build request", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, g.fault(core.NewFault(core.FaultNetwork, op, networkMessage(err), err))
	}

	g.logger.Debug("api request",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	msg := errorMessage(resp)
	kind := core.FaultRejected
	if resp.StatusCode == http.StatusNotFound {
		kind = core.FaultNotFound
	}
	return nil, g.fault(core.NewFault(kind, op, msg, fmt.Errorf("status %d", resp.StatusCode)))
}

func (g *Gateway) decode(op string, resp *http.Response, target any) error {
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(target); err != nil {
		return g.fault(core.NewFault(core.FaultMalformed, op, "invalid response body", err))
	}
	return nil
}

func (g *Gateway) decodeNote(op string, resp *http.Response) (core.Note, error) {
	var w wireNote
	if err := g.decode(op, resp, &w); err != nil {
		return core.Note{}, err
	}
	n, err := w.toNote()
	if err != nil {
		return core.Note{}, g.fault(core.NewFault(core.FaultMalformed, op, err.Error(), err))
	}
	return n, nil
}

func (g *Gateway) fault(f *core.Fault) *core.Fault {
	g.faults.Add(1)
	msg := f.Error()
	g.lastErr.Store(&msg)
	return f
}

func networkMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if uerr.Timeout() {
			return "request timed out"
		}
		return uerr.Err.Error()
	}
	return err.Error()
}

// errorMessage extracts a human-readable message from an error response.
// JSON bodies may carry it in "message", "detail" or "error"; a short
// plain-text body is used as is. Otherwise the status text is returned.
func errorMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body map[string]any
	if json.Unmarshal(data, &body) == nil {
		for _, key := range []string{"message", "detail", "error"} {
			if s, ok := body[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}

	text := strings.TrimSpace(string(data))
	if text != "" && len(text) <= 200 && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "<") {
		return text
	}
	if st := http.StatusText(resp.StatusCode); st != "" {
		return st
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}

var _ core.Gateway = (*Gateway)(nil)
