package metric

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	errs "github.com/lixenwraith/termflow/errors"
)

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Server exposes metrics over HTTP. It implements service.Service.
type Server struct {
	addr    string
	path    string
	metrics *Metrics
	logger  *slog.Logger

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewServer creates a metrics server listening on addr. An empty path serves /metrics.
func NewServer(addr, path string, m *Metrics, logger *slog.Logger) *Server {
	if path == "" {
		path = "/metrics"
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		addr:    addr,
		path:    path,
		metrics: m,
		logger:  logger.With("component", "metric"),
	}
}

func (s *Server) Name() string           { return "metrics" }
func (s *Server) Dependencies() []string { return nil }

// Init binds the listen address so port conflicts surface before the UI starts
func (s *Server) Init(args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}
	if s.metrics == nil {
		return errs.WrapInvalid(errs.ErrInvalidConfig, "metric", "Init", "check registry")
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errs.WrapFatal(err, "metric", "Init", "listen on "+s.addr)
	}
	s.listener = ln
	return nil
}

// Start serves in a background goroutine
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return errs.WrapLifecycle(errs.ErrNotStarted, "metric", "Start", "check listener")
	}
	if s.server != nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(s.path, s.metrics.Handler())
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv, ln := s.server, s.listener
	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()
	s.logger.Info("serving metrics", "addr", ln.Addr().String(), "path", s.path)
	return nil
}

// Stop shuts the server down. Safe to call multiple times.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		if s.listener != nil {
			s.listener.Close()
			s.listener = nil
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.server, s.listener = nil, nil
	return err
}

// Addr returns the bound address, empty before Init
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
