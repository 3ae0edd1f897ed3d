// Package server exposes a fitted pipeline over HTTP: GET /health and
// POST /predict.
package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/YuminosukeSato/salarygo/dataset"
	"github.com/YuminosukeSato/salarygo/pkg/errors"
	"github.com/YuminosukeSato/salarygo/pkg/log"
)

// DefaultAddr is the listen address of the service.
const DefaultAddr = "0.0.0.0:5000"

const shutdownGrace = 10 * time.Second

// Predictor turns one decoded request object into a salary.
type Predictor interface {
	PredictRecord(rec map[string]any) (float64, error)
}

// Deps is everything a request handler may touch. It is built once at
// startup and never mutated afterwards.
type Deps struct {
	Predictor Predictor
	Logger    log.Logger
	Schema    dataset.Schema
}

// Server is the inference service.
type Server struct {
	deps   Deps
	addr   string
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// New builds the service around deps. A nil Predictor is an error; a nil
// Logger discards logs.
func New(deps Deps, opts ...Option) (*Server, error) {
	if deps.Predictor == nil {
		return nil, errors.NewValidationError("predictor", "is required", nil)
	}
	if len(deps.Schema.Columns) == 0 {
		return nil, errors.NewValidationError("schema", "must name the required fields", deps.Schema.Names())
	}
	if deps.Logger == nil {
		deps.Logger = log.NewZerologLogger(io.Discard, log.LevelError)
	}
	deps.Logger = deps.Logger.With(log.ComponentKey, "server")

	s := &Server{deps: deps, addr: DefaultAddr}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.deps.Logger))
	r.Use(recoverJSON(s.deps.Logger))

	r.Get("/health", s.handleHealth)
	r.Post("/predict", s.handlePredict)
	return r
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("Server starting", log.ListenAddrKey, ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server error")
	case <-ctx.Done():
	}

	s.deps.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown failed")
	}
	s.deps.Logger.Info("Server stopped")
	return nil
}
