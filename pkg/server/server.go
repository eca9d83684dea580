// Package server is the local HTTP surface of the serving process.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/rightkit/pkg/metric"
)

const (
	// DefaultHost is loopback; the menu surface is only for local consumers.
	DefaultHost = "127.0.0.1"

	// DefaultPort is used when WithPort is not given.
	DefaultPort = 9876

	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultMaxHeaderBytes caps request headers at 64 KiB. Menu requests are tiny.
	DefaultMaxHeaderBytes = 64 << 10
)

// Server is an HTTP server whose lifetime is bound to a context.
type Server interface {
	// Serve binds, serves and blocks until ctx is canceled. A graceful
	// shutdown returns nil.
	Serve(ctx context.Context) error

	// IsRunning reports whether the socket is bound and serving.
	IsRunning() bool

	// Addr returns the bound address, or "" while not running.
	Addr() string
}

type timeouts struct {
	read, write, idle, shutdown time.Duration
}

type server struct {
	host     string
	port     int
	timeouts timeouts
	mux      *http.ServeMux
	errLog   *log.Logger
	registry *prometheus.Registry

	mu      sync.RWMutex
	running bool
	addr    string
}

// Option configures the server.
type Option func(*server)

// WithHost sets the interface to bind.
func WithHost(host string) Option {
	return func(s *server) { s.host = host }
}

// WithPort sets the port to bind. Zero lets the kernel pick a free port.
func WithPort(port int) Option {
	return func(s *server) { s.port = port }
}

// WithReadTimeout bounds reading a whole request.
func WithReadTimeout(d time.Duration) Option {
	return func(s *server) { s.timeouts.read = d }
}

// WithWriteTimeout bounds writing a response.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *server) { s.timeouts.write = d }
}

// WithShutdownTimeout bounds the graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *server) { s.timeouts.shutdown = d }
}

// WithErrorLog sets the logger net/http uses for connection errors.
func WithErrorLog(l *log.Logger) Option {
	return func(s *server) { s.errLog = l }
}

// WithHandler mounts handler at pattern. It may be given more than once.
func WithHandler(pattern string, handler http.Handler) Option {
	return func(s *server) { s.mux.Handle(pattern, handler) }
}

// WithHealthCheck serves /healthz. A nil check always reports ok; a failing
// check answers 503 with the error.
func WithHealthCheck(check func() error) Option {
	return func(s *server) {
		s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			status, body := http.StatusOK, map[string]string{"status": "ok"}
			if check != nil {
				if err := check(); err != nil {
					status, body = http.StatusServiceUnavailable, map[string]string{
						"status": "unavailable",
						"error":  err.Error(),
					}
				}
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
		})
	}
}

// WithSimpleHealth serves a /healthz that always reports ok.
func WithSimpleHealth() Option {
	return WithHealthCheck(nil)
}

// WithRegistry sets the registry exposed by WithPrometheusMetrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *server) { s.registry = reg }
}

// WithPrometheusMetrics serves the registry at /metrics. Give it after
// WithRegistry.
func WithPrometheusMetrics() Option {
	return func(s *server) {
		s.mux.Handle("/metrics", metric.GetHandlerForRegistry(s.registry))
	}
}

// New creates a server. Nothing is bound until Serve.
func New(opts ...Option) Server {
	s := &server{
		host: DefaultHost,
		port: DefaultPort,
		timeouts: timeouts{
			read:     DefaultReadTimeout,
			write:    DefaultWriteTimeout,
			idle:     DefaultIdleTimeout,
			shutdown: DefaultShutdownTimeout,
		},
		mux:      http.NewServeMux(),
		errLog:   log.Default(),
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

func (s *server) setRunning(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = addr != ""
	s.addr = addr
}

// Serve binds before reporting running, then serves next to a goroutine that
// shuts the server down once ctx is done.
func (s *server) Serve(ctx context.Context) error {
	hs := &http.Server{
		Handler:        s.mux,
		ReadTimeout:    s.timeouts.read,
		WriteTimeout:   s.timeouts.write,
		IdleTimeout:    s.timeouts.idle,
		MaxHeaderBytes: DefaultMaxHeaderBytes,
		ErrorLog:       s.errLog,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", net.JoinHostPort(s.host, strconv.Itoa(s.port)))
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	s.setRunning(ln.Addr().String())
	defer s.setRunning("")

	slog.Info("serving", "addr", ln.Addr().String())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), s.timeouts.shutdown)
		defer cancel()
		start := time.Now()
		if err := hs.Shutdown(sctx); err != nil {
			slog.Error("server shutdown", "error", err)
		}
		slog.Info("server stopped", "took", time.Since(start))
		return nil
	})
	return g.Wait()
}
