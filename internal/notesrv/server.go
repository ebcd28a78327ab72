// Package notesrv is an in-memory notes service speaking the REST protocol
// consumed by the httpapi gateway. It backs `noted serve` and the HTTP tests.
package notesrv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/aretw0/notekeeper/pkg/core"
)

const maxBody = 1 << 20

// Server holds notes in memory. It is safe for concurrent use.
type Server struct {
	mu     sync.RWMutex
	notes  map[core.ID]core.Note
	now    func() time.Time
	newID  func() core.ID
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithIDs overrides id assignment. The default is a random UUID.
func WithIDs(next func() core.ID) Option {
	return func(s *Server) { s.newID = next }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates an empty Server.
func New(opts ...Option) *Server {
	s := &Server{
		notes:  make(map[core.ID]core.Note),
		now:    time.Now,
		newID:  func() core.ID { return core.ID(uuid.NewString()) },
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed stores notes as they are, replacing entries with the same id.
func (s *Server) Seed(notes ...core.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range notes {
		s.notes[n.ID] = n
	}
}

// Len returns the number of stored notes.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Handler returns the HTTP routes:
//
//	GET    /health
//	GET    /notes
//	POST   /notes
//	PUT    /notes/{id}
//	DELETE /notes/{id}
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/notes", s.handleList).Methods(http.MethodGet)
	router.HandleFunc("/notes", s.handleCreate).Methods(http.MethodPost)
	router.HandleFunc("/notes/{id}", s.handleUpdate).Methods(http.MethodPut)
	router.HandleFunc("/notes/{id}", s.handleDelete).Methods(http.MethodDelete)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	router.Use(s.logRequests)
	return router
}

// Serve listens on l until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(l)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type notePayload struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (p notePayload) validate() (string, string, bool) {
	if p.Title == nil || p.Content == nil {
		return "", "", false
	}
	title, content := strings.TrimSpace(*p.Title), strings.TrimSpace(*p.Content)
	if title == "" || content == "" {
		return "", "", false
	}
	return *p.Title, *p.Content, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "notes": s.Len()})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	notes := make([]core.Note, 0, len(s.notes))
	for _, n := range s.notes {
		notes = append(notes, n)
	}
	s.mu.RUnlock()

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
	respondJSON(w, http.StatusOK, notes)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	title, content, ok := payload.validate()
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "title and content are required")
		return
	}

	s.mu.Lock()
	now := s.now().UTC()
	n := core.Note{
		ID:        s.newID(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.notes[n.ID] = n
	s.mu.Unlock()

	respondJSON(w, http.StatusCreated, n)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := core.ID(mux.Vars(r)["id"])

	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	title, content, ok := payload.validate()
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "title and content are required")
		return
	}

	s.mu.Lock()
	n, found := s.notes[id]
	if found {
		now := s.now().UTC()
		// updated_at never moves backwards, even if the clock does.
		if now.Before(n.UpdatedAt) {
			now = n.UpdatedAt
		}
		n.Title, n.Content, n.UpdatedAt = title, content, now
		s.notes[id] = n
	}
	s.mu.Unlock()

	if !found {
		respondError(w, http.StatusNotFound, "note not found")
		return
	}
	respondJSON(w, http.StatusOK, n)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := core.ID(mux.Vars(r)["id"])

	s.mu.Lock()
	_, found := s.notes[id]
	delete(s.notes, id)
	s.mu.Unlock()

	if !found {
		respondError(w, http.StatusNotFound, "note not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func decodePayload(w http.ResponseWriter, r *http.Request) (notePayload, bool) {
	var p notePayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return p, false
	}
	return p, true
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
