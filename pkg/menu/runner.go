package menu

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/rightkit/pkg/server"
)

// Listener delivers update signals until its context is done.
type Listener interface {
	Run(ctx context.Context) error
}

// Runner serves the menu surface of the serving process.
type Runner struct {
	// Cache is the menu cache behind /menu and /dispatch.
	Cache *Cache

	// Executor runs resolved selections.
	Executor Executor

	// Listener feeds update signals into Cache.Invalidate. Optional.
	Listener Listener

	// Registry is exposed at /metrics. Optional.
	Registry *prometheus.Registry

	// OnInvalidate is called for every manual invalidation. Optional.
	OnInvalidate func()

	// Health backs /healthz. Optional.
	Health func() error
}

// Run starts the HTTP server and the update listener and blocks until ctx is
// canceled or either fails.
func (r *Runner) Run(ctx context.Context, opt ...server.Option) error {
	opts := make([]server.Option, 0, len(opt)+6)
	if r.Registry != nil {
		opts = append(opts, server.WithRegistry(r.Registry), server.WithPrometheusMetrics())
	}
	opts = append(opts,
		server.WithHealthCheck(r.Health),
		server.WithHandler("/menu", r.Cache.Handler()),
		server.WithHandler("/dispatch", r.Cache.DispatchHandler(r.Executor)),
		server.WithHandler("/invalidate", r.Cache.InvalidateHandler(r.OnInvalidate)),
	)
	opts = append(opts, opt...)

	srv := server.New(opts...)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Serve(gCtx)
	})

	if r.Listener != nil {
		g.Go(func() error {
			return r.Listener.Run(gCtx)
		})
	}

	err := g.Wait()

	if w, ok := r.Executor.(interface{ Wait() }); ok {
		w.Wait()
	}

	slog.Info("menu runner stopped")
	return err
}
