// Package httpapi exposes rule evaluation and object inspection over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-showif/internal/logging"
	"github.com/goliatone/go-showif/pkg/api"
	"github.com/goliatone/go-showif/pkg/inspector"
	"github.com/goliatone/go-showif/pkg/render"
)

// DefaultBodyLimit caps request bodies.
const DefaultBodyLimit int64 = 1 << 20

// Server routes API requests. Build it with New; the zero value is not usable.
type Server struct {
	router    *chi.Mux
	logger    *logging.Logger
	inspector *inspector.Inspector
	renderers *render.Registry
	version   string
	bodyLimit int64
	timeout   time.Duration
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(logger *logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithInspector replaces the inspector used by the inspect endpoint.
func WithInspector(insp *inspector.Inspector) Option {
	return func(s *Server) {
		if insp != nil {
			s.inspector = insp
		}
	}
}

// WithRenderers sets the registry consulted for non-JSON inspect formats.
// Without one only JSON is served.
func WithRenderers(registry *render.Registry) Option {
	return func(s *Server) {
		s.renderers = registry
	}
}

func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithBodyLimit overrides DefaultBodyLimit. Non-positive values are ignored.
func WithBodyLimit(limit int64) Option {
	return func(s *Server) {
		if limit > 0 {
			s.bodyLimit = limit
		}
	}
}

// WithTimeout bounds request handling time.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// New builds a server with its routes mounted.
func New(options ...Option) *Server {
	s := &Server{
		logger:    logging.Nop(),
		bodyLimit: DefaultBodyLimit,
		timeout:   30 * time.Second,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.inspector == nil {
		s.inspector = inspector.New(inspector.WithLogger(s.logger))
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(traceID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get(api.HealthPath, s.handleHealth)
	r.Post(api.EvaluatePath, s.handleEvaluate)
	r.Post(api.InspectPath, s.handleInspect)

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, api.HealthResponse{
		Status:  "ok",
		Version: s.version,
	})
}
