// Package servecmd implements `rightkit serve`, the process the browser
// extension talks to.
package servecmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mchmarny/rightkit/cmd/rightkit/shared"
	"github.com/mchmarny/rightkit/pkg/buildinfo"
	"github.com/mchmarny/rightkit/pkg/logger"
	"github.com/mchmarny/rightkit/pkg/menu"
	"github.com/mchmarny/rightkit/pkg/notify"
	"github.com/mchmarny/rightkit/pkg/server"
)

// Command implements `rightkit serve`.
type Command struct {
	ctx  *shared.Context
	cmd  *cobra.Command
	port int
}

// New creates the serve command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the menu and run selected actions",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().IntVar(&c.port, "port", 0, "Loopback port (default: config port)")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	app, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer app.Close()

	logger.SetDefaultLogger("rightkit", buildinfo.Version, app.Config.LogLevel)
	slog.Info("starting rightkit",
		"commit", buildinfo.Commit,
		"date", buildinfo.Date,
		"home", app.Home)

	cache := app.Cache()
	runner := &menu.Runner{
		Cache:    cache,
		Executor: app.Dispatcher(),
		Listener: notify.NewListener(app.Home, func() {
			app.Metrics.Invalidations.Increment("signal")
			cache.Invalidate()
		}),
		Registry:     app.Registry,
		OnInvalidate: func() { app.Metrics.Invalidations.Increment("http") },
		Health:       app.KV.Ping,
	}

	port := app.Config.Port
	if c.port > 0 {
		port = c.port
	}

	return runner.Run(cmd.Context(),
		server.WithPort(port),
		server.WithErrorLog(logger.NewLogLogger(slog.LevelError, false)),
	)
}
