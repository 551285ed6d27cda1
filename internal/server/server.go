// Package server is a demo facility backend. It serves random status
// snapshots in the same shape a real backend returns, so the dashboard can
// run without hardware.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	perrors "github.com/rileyhilliard/perimeter/internal/errors"
	"github.com/rileyhilliard/perimeter/internal/logger"
	"github.com/rileyhilliard/perimeter/internal/status"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// Listen is the TCP address, e.g. ":5000".
	Listen string
	// AccessLog receives one Apache-style line per request. Nil discards.
	AccessLog io.Writer
	Logger    logger.Logger
	// Registry collects the server's metrics and backs /metrics. Nil creates
	// a private registry with the Go runtime and process collectors.
	Registry *prometheus.Registry
	// Rand drives the demo readings. Nil seeds from the clock.
	Rand *rand.Rand
	Now  func() time.Time
}

// Server is the demo backend.
type Server struct {
	listen    string
	accessLog io.Writer
	log       logger.Logger
	metrics   *Metrics
	gatherer  prometheus.Gatherer
	now       func() time.Time

	mu       sync.Mutex
	rng      *rand.Rand
	lockdown status.LockdownCommand
}

// New creates a Server. The lockdown state starts armed.
func New(opts Options) *Server {
	s := &Server{
		listen:    opts.Listen,
		accessLog: opts.AccessLog,
		log:       opts.Logger,
		rng:       opts.Rand,
		now:       opts.Now,
	}
	if s.accessLog == nil {
		s.accessLog = io.Discard
	}
	if s.log == nil {
		s.log = logger.Noop()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.now == nil {
		s.now = time.Now
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	s.metrics = NewMetrics(reg)
	s.gatherer = reg

	s.lockdown = status.LockdownCommand{State: status.LockdownArmed, RequestedAt: s.now().UTC()}
	return s
}

// Router returns the routes wrapped in the access log.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/status", s.count("status", s.handleStatus)).Methods(http.MethodGet)
	r.HandleFunc("/api/health", s.count("health", s.handleHealth)).Methods(http.MethodGet)
	r.HandleFunc("/api/lockdown", s.count("lockdown", s.handleGetLockdown)).Methods(http.MethodGet)
	r.HandleFunc("/api/lockdown", s.count("lockdown", s.handlePostLockdown)).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return handlers.LoggingHandler(s.accessLog, r)
}

// Lockdown returns the last recorded lockdown command.
func (s *Server) Lockdown() status.LockdownCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockdown
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return perrors.WrapWithCode(err, perrors.ErrServe,
			fmt.Sprintf("Couldn't listen on %s", s.listen),
			"Pick another address with --listen or server.listen in your config.")
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info("demo backend listening on %s", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return perrors.WrapWithCode(err, perrors.ErrServe, "Demo backend stopped", "")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return perrors.WrapWithCode(err, perrors.ErrServe, "Demo backend didn't shut down cleanly", "")
	}
	s.log.Info("demo backend stopped")
	return nil
}

// count records one request per route and response code.
func (s *Server) count(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}
