// Package shared holds the context passed to all CLI commands and the wiring
// of the services built from it.
package shared

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mchmarny/rightkit/pkg/clipboard"
	"github.com/mchmarny/rightkit/pkg/config"
	"github.com/mchmarny/rightkit/pkg/cutpaste"
	"github.com/mchmarny/rightkit/pkg/dispatch"
	"github.com/mchmarny/rightkit/pkg/kv"
	"github.com/mchmarny/rightkit/pkg/menu"
	"github.com/mchmarny/rightkit/pkg/metric"
	"github.com/mchmarny/rightkit/pkg/notify"
	"github.com/mchmarny/rightkit/pkg/store"
	"github.com/mchmarny/rightkit/pkg/template"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// Home overrides the shared container directory.
	Home string

	// MemoryClipboard swaps the system clipboard for an in-process one.
	MemoryClipboard bool
}

// App is the set of services of one process, built once at start.
type App struct {
	Home      string
	Config    *config.Config
	KV        *kv.DB
	Clipboard clipboard.Clipboard
	Cut       *cutpaste.Coordinator
	Store     *store.Store
	Templates *template.Dir
	Registry  *prometheus.Registry
	Metrics   *metric.Set
}

// Open resolves the container and builds the services.
func (c *Context) Open() (*App, error) {
	home, source := config.ResolveHome(c.Home)
	slog.Debug("shared container resolved", "home", home, "source", source)

	cfg, err := config.Load(home)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := kv.Open(filepath.Join(home, kv.DefaultFileName), cfg.Namespace)
	if err != nil {
		return nil, err
	}

	clip := chooseClipboard(db, c.MemoryClipboard, clipboard.Available())

	reg := metric.NewRegistry()

	return &App{
		Home:      home,
		Config:    cfg,
		KV:        db,
		Clipboard: clip,
		Cut:       cutpaste.New(db, clip),
		Store:     store.New(home, store.WithNotifier(notify.NewFilePoster(home))),
		Templates: template.NewDir(cfg.TemplatesDir),
		Registry:  reg,
		Metrics:   metric.NewSet(reg),
	}, nil
}

// chooseClipboard returns the system clipboard unless memory is requested or
// the host has no clipboard utility. A process-local clipboard carries no
// marker across processes, so a cut begun elsewhere always reads as superseded.
func chooseClipboard(db kv.Store, memory, available bool) clipboard.Clipboard {
	switch {
	case memory:
		return clipboard.NewMemory()
	case !available:
		slog.Warn("system clipboard unavailable, using a process-local clipboard; cuts are not shared with other processes")
		return clipboard.NewMemory()
	default:
		return clipboard.NewSystem(db)
	}
}

// Close releases the shared store.
func (a *App) Close() error {
	return a.KV.Close()
}

// Dispatcher builds the action dispatcher with host capabilities.
func (a *App) Dispatcher() *dispatch.Dispatcher {
	host := dispatch.Host{}
	return dispatch.New(
		dispatch.WithFallbackDir(a.Config.FallbackDir),
		dispatch.WithDesktopDir(a.Config.DesktopDir),
		dispatch.WithBrowser(host),
		dispatch.WithTerminal(host),
		dispatch.WithOpener(host),
		dispatch.WithFinder(host),
		dispatch.WithScriptRunner(dispatch.ShellRunner{}),
		dispatch.WithTemplates(a.Templates),
		dispatch.WithCutCoordinator(a.Cut),
		dispatch.WithClipboard(a.Clipboard),
		dispatch.WithActionCounter(a.Metrics.Actions),
	)
}

// Cache builds the menu cache over the store.
func (a *App) Cache() *menu.Cache {
	return menu.NewCache(a.Store, a.Cut,
		menu.WithLabels(menu.Labels{Cut: a.Config.CutLabel, Paste: a.Config.PasteLabel}),
		menu.WithCounters(a.Metrics.MenuLoads, a.Metrics.MenuBuilds),
	)
}
