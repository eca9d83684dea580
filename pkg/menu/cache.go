// Package menu turns the persisted configuration into the menu shown by the
// browser and resolves selections back to actions.
package menu

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mchmarny/rightkit/pkg/metric"
	"github.com/mchmarny/rightkit/pkg/model"
	"github.com/mchmarny/rightkit/pkg/store"
)

// CutState reports whether a cut is waiting to be pasted.
type CutState interface {
	HasPendingCut() bool
}

// State is the validity of the cache relative to the persisted configuration.
type State int

const (
	Stale State = iota
	Fresh
)

func (s State) String() string {
	if s == Fresh {
		return "fresh"
	}
	return "stale"
}

// Cache holds the last loaded configuration and the lookup tables of the
// last built menu. It starts Stale. Only Invalidate and BuildMenu change it.
type Cache struct {
	mu sync.Mutex

	loader store.Loader
	cut    CutState
	labels Labels

	loads  metric.IncrementalCounter
	builds metric.IncrementalCounter

	state   State
	config  model.MenuConfiguration
	menu    Menu
	byLabel map[string]string
	byID    map[string]string

	// pasting is the cut state the current tables were built for.
	pasting bool
	built   bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithLabels overrides DefaultLabels.
func WithLabels(l Labels) Option {
	return func(c *Cache) { c.labels = l }
}

// WithCounters counts loads and builds.
func WithCounters(loads, builds metric.IncrementalCounter) Option {
	return func(c *Cache) {
		c.loads = loads
		c.builds = builds
	}
}

// NewCache creates a stale cache over loader.
func NewCache(loader store.Loader, cut CutState, opts ...Option) *Cache {
	c := &Cache{
		loader: loader,
		cut:    cut,
		labels: DefaultLabels,
		state:  Stale,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current cache state.
func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Invalidate marks the cache Stale. The menu being served is untouched until
// the next BuildMenu.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Stale
}

// BuildMenu returns the renderable menu. A Stale cache reloads the
// configuration first. The lookup tables are regenerated in full from the
// cached tree whenever it was reloaded or the cut state changed the
// cut/paste label, so a resolved label always matches what was last rendered.
func (c *Cache) BuildMenu(ctx context.Context) Menu {
	c.mu.Lock()
	defer c.mu.Unlock()

	reloaded := false
	if c.state == Stale {
		c.config = c.loader.Load()
		c.state = Fresh
		reloaded = true
		if c.loads != nil {
			c.loads.Increment()
		}
		slog.DebugContext(ctx, "menu configuration reloaded", "items", len(c.config.Items))
	}

	pasting := c.cut != nil && c.cut.HasPendingCut()

	if reloaded || !c.built || pasting != c.pasting {
		c.rebuild(pasting)
		if c.builds != nil {
			c.builds.Increment("miss")
		}
	} else if c.builds != nil {
		c.builds.Increment("hit")
	}

	return c.menu.clone()
}

// Resolve returns the action registered for a label in the last built menu.
func (c *Cache) Resolve(label string) (model.Action, bool) {
	c.mu.Lock()
	wire, ok := c.byLabel[label]
	c.mu.Unlock()
	return parse(wire, ok)
}

// ResolveID returns the action of the item with the given id in the last built menu.
func (c *Cache) ResolveID(id string) (model.Action, bool) {
	c.mu.Lock()
	wire, ok := c.byID[id]
	c.mu.Unlock()
	return parse(wire, ok)
}

func parse(wire string, ok bool) (model.Action, bool) {
	if !ok {
		return model.Action{}, false
	}
	a, err := model.ParseWire(wire)
	if err != nil {
		return model.Action{}, false
	}
	return a, true
}

// rebuild regenerates the menu and both tables from the cached tree.
func (c *Cache) rebuild(pasting bool) {
	byLabel := map[string]string{}
	byID := map[string]string{}
	items := c.render(c.config.Items, pasting, byLabel, byID)

	c.menu = Menu{Version: c.config.Version, Items: items}
	c.byLabel = byLabel
	c.byID = byID
	c.pasting = pasting
	c.built = true
}

func (c *Cache) render(src []model.MenuItem, pasting bool, byLabel, byID map[string]string) []Item {
	out := make([]Item, 0, len(src))
	for _, it := range src {
		if it.IsSeparator() {
			out = append(out, Item{ID: it.ID, Separator: true})
			continue
		}

		entry := Item{ID: it.ID, Title: it.Name, Icon: it.Icon}
		if it.Action != nil {
			if it.Action.Type == model.CutFile {
				entry.Title = c.labels.Cut
				if pasting {
					entry.Title = c.labels.Paste
				}
			}
			entry.Action = it.Action.Wire()

			// Identical labels collide: the entry built last wins.
			if prev, dup := byLabel[entry.Title]; dup && prev != entry.Action {
				slog.Warn("duplicate menu label", "label", entry.Title, "id", it.ID)
			}
			byLabel[entry.Title] = entry.Action
			byID[it.ID] = entry.Action
		}

		if it.HasChildren() {
			entry.Items = c.render(it.Children, pasting, byLabel, byID)
		}
		out = append(out, entry)
	}
	return out
}
