package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ishe/internal/api"
	"ishe/internal/journal"
	"ishe/internal/logging"
	"ishe/internal/recordings"
	"ishe/internal/services"
)

const defaultUploadLimit = 32 << 20

// Store is the recordings storage the server exposes.
type Store interface {
	Entries(ctx context.Context) ([]recordings.Entry, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
	Bundle(ctx context.Context) ([]byte, []string, error)
	Root() string
}

// Journal records mutations. It may be nil.
type Journal interface {
	Record(ctx context.Context, entry journal.Entry) (journal.Entry, error)
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
	Counts(ctx context.Context) (map[journal.Action]int, error)
}

// Options configures a Server.
type Options struct {
	Store       Store
	Journal     Journal
	Logger      *slog.Logger
	Token       string
	UploadLimit int64
	Clock       func() time.Time
}

// Server holds no session state; each request reads or mutates the store.
type Server struct {
	store       Store
	journal     Journal
	logger      *slog.Logger
	token       string
	uploadLimit int64
	clock       func() time.Time
	startedAt   time.Time
}

// New builds a server around the given store.
func New(opts Options) *Server {
	s := &Server{
		store:       opts.Store,
		journal:     opts.Journal,
		logger:      logging.NewComponentLogger(opts.Logger, "api-server"),
		token:       opts.Token,
		uploadLimit: opts.UploadLimit,
		clock:       opts.Clock,
	}
	if s.uploadLimit <= 0 {
		s.uploadLimit = defaultUploadLimit
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	s.startedAt = s.clock()
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestContext)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Group(func(r chi.Router) {
		r.Use(s.bearerAuth)

		r.Get("/api/status", s.handleStatus)
		r.Route("/api/recordings", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Get("/{name}", s.handleDownload)
			r.Put("/{name}", s.handleUpload)
			r.Delete("/{name}", s.handleDelete)
		})
		r.Get("/api/bundle", s.handleBundle)
		r.Get("/api/journal", s.handleJournal)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, "no such endpoint", "not_found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", "")
	})
	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message, kind string) {
	rid, _ := services.RequestIDFromContext(r.Context())
	s.writeJSON(w, status, api.Error{Error: message, Kind: kind, RequestID: rid})
}

// fail maps err to a status code and writes it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.WithContext(r.Context(), s.logger).Error("request error",
			logging.String("path", r.URL.Path),
			logging.Error(err),
		)
	}
	s.writeError(w, r, status, err.Error(), errorKind(err))
}

func errorKind(err error) string {
	if errors.Is(err, recordings.ErrInvalidName) {
		return api.KindInvalidName
	}
	return services.Kind(err)
}

func (s *Server) record(ctx context.Context, action journal.Action, name string, size int64) {
	if s.journal == nil {
		return
	}
	rid, _ := services.RequestIDFromContext(ctx)
	_, err := s.journal.Record(ctx, journal.Entry{
		Action:    action,
		Name:      name,
		Bytes:     size,
		RequestID: rid,
		CreatedAt: s.clock(),
	})
	if err != nil {
		logging.WithContext(ctx, s.logger).Warn("journal write failed",
			logging.String("action", string(action)),
			logging.Error(err),
		)
	}
}

func pid() int { return os.Getpid() }
