package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/routestate/pkg/middleware"
	"github.com/vango-dev/routestate/pkg/router"
)

// ControlPrefix is the path prefix of the control routes.
const ControlPrefix = "/_router"

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAddress sets the listen address used by ListenAndServe.
func WithAddress(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLive enables the WebSocket state stream.
func WithLive(enabled bool) Option {
	return func(s *Server) {
		s.live = enabled
	}
}

// WithMetrics records WebSocket activity into m and serves handler on
// /metrics.
func WithMetrics(m *middleware.Metrics, handler http.Handler) Option {
	return func(s *Server) {
		s.metrics = m
		s.metricsHandler = handler
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// Server serves one router at a time; SetRouter swaps it.
type Server struct {
	mu     sync.RWMutex
	router *router.Router
	mux    *chi.Mux
	unsub  func()

	hub *Hub

	addr            string
	live            bool
	metrics         *middleware.Metrics
	metricsHandler  http.Handler
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// New creates a server for rt.
func New(rt *router.Router, opts ...Option) *Server {
	s := &Server{
		addr:            ":8080",
		shutdownTimeout: 10 * time.Second,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = newHub(s.logger, s.metrics)
	s.SetRouter(rt)
	return s
}

// Router returns the router currently served.
func (s *Server) Router() *router.Router {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.router
}

// Hub returns the live-state hub.
func (s *Server) Hub() *Hub { return s.hub }

// SetRouter replaces the served router, rebuilding the routes and moving
// the live subscribers to it. Connected clients receive a reload frame.
func (s *Server) SetRouter(rt *router.Router) {
	mux := s.routes(rt)

	s.mu.Lock()
	old := s.unsub
	replaced := s.router != nil
	s.router = rt
	s.mux = mux
	s.unsub = rt.SubscribeFunc(func(router.Location) {
		s.hub.Broadcast(frameFor(TypeNavigate, rt))
	})
	s.mu.Unlock()

	if old != nil {
		old()
	}
	if replaced {
		s.hub.Broadcast(frameFor(TypeReload, rt))
		s.logger.Info("router replaced", "endpoints", rt.Endpoints().Len())
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	mux := s.mux
	s.mu.RUnlock()
	mux.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.hub.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}
