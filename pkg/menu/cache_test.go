package menu_test

import (
	"context"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/mchmarny/rightkit/pkg/clipboard"
	"github.com/mchmarny/rightkit/pkg/cutpaste"
	"github.com/mchmarny/rightkit/pkg/kv"
	"github.com/mchmarny/rightkit/pkg/menu"
	"github.com/mchmarny/rightkit/pkg/model"
	"github.com/mchmarny/rightkit/pkg/notify"
	"github.com/mchmarny/rightkit/pkg/store"
)

// countingLoader returns cfg and counts calls.
type countingLoader struct {
	cfg   model.MenuConfiguration
	loads int
}

func (l *countingLoader) Load() model.MenuConfiguration {
	l.loads++
	return l.cfg.Clone()
}

type fixedCut bool

func (f *fixedCut) HasPendingCut() bool { return bool(*f) }

func act(t model.ActionType, p string) *model.Action {
	return &model.Action{Type: t, Parameter: p}
}

func sampleConfig() model.MenuConfiguration {
	return model.MenuConfiguration{
		Version: "1.0",
		Items: []model.MenuItem{
			{ID: "new", Name: "New", Children: []model.MenuItem{
				{ID: "txt", Name: "Text File", Action: act(model.CreateEmptyFile, "txt")},
			}},
			{ID: "sep", Action: act(model.Separator, "")},
			{ID: "cut", Name: "ignored", Action: act(model.CutFile, "")},
		},
	}
}

func TestBuildMenu_LoadCounts(t *testing.T) {
	c := qt.New(t)
	l := &countingLoader{cfg: sampleConfig()}
	cache := menu.NewCache(l, nil)
	ctx := context.Background()

	c.Assert(cache.State(), qt.Equals, menu.Stale)

	cache.BuildMenu(ctx)
	c.Assert(l.loads, qt.Equals, 1)
	c.Assert(cache.State(), qt.Equals, menu.Fresh)

	cache.BuildMenu(ctx)
	c.Assert(l.loads, qt.Equals, 1)

	cache.Invalidate()
	cache.Invalidate()
	c.Assert(cache.State(), qt.Equals, menu.Stale)
	cache.BuildMenu(ctx)
	c.Assert(l.loads, qt.Equals, 2)
	cache.BuildMenu(ctx)
	c.Assert(l.loads, qt.Equals, 2)
}

func TestBuildMenu_Rendering(t *testing.T) {
	c := qt.New(t)
	cache := menu.NewCache(&countingLoader{cfg: sampleConfig()}, nil)

	m := cache.BuildMenu(context.Background())
	c.Assert(m.Version, qt.Equals, "1.0")
	c.Assert(m.Items, qt.HasLen, 3)
	c.Assert(m.Items[0].Action, qt.Equals, "")
	c.Assert(m.Items[0].Items[0], qt.DeepEquals, menu.Item{ID: "txt", Title: "Text File", Action: "createEmptyFile|txt"})
	c.Assert(m.Items[1].Separator, qt.IsTrue)
	c.Assert(m.Items[2].Title, qt.Equals, menu.DefaultLabels.Cut)

	a, ok := cache.Resolve("Text File")
	c.Assert(ok, qt.IsTrue)
	c.Assert(a, qt.DeepEquals, model.Action{Type: model.CreateEmptyFile, Parameter: "txt"})

	_, ok = cache.Resolve("New")
	c.Assert(ok, qt.IsFalse)

	a, ok = cache.ResolveID("cut")
	c.Assert(ok, qt.IsTrue)
	c.Assert(a.Type, qt.Equals, model.CutFile)
}

func TestBuildMenu_ReturnsCopy(t *testing.T) {
	c := qt.New(t)
	cache := menu.NewCache(&countingLoader{cfg: sampleConfig()}, nil)
	m := cache.BuildMenu(context.Background())
	m.Items[0].Items[0].Title = "tampered"

	again := cache.BuildMenu(context.Background())
	c.Assert(again.Items[0].Items[0].Title, qt.Equals, "Text File")
}

func TestBuildMenu_ActionWithChildren(t *testing.T) {
	c := qt.New(t)
	cfg := model.MenuConfiguration{Version: "1.0", Items: []model.MenuItem{
		{ID: "both", Name: "Terminal", Action: act(model.OpenTerminal, ""), Children: []model.MenuItem{
			{ID: "child", Name: "Folder", Action: act(model.CreateFolder, "")},
		}},
	}}
	cache := menu.NewCache(&countingLoader{cfg: cfg}, nil)
	m := cache.BuildMenu(context.Background())

	c.Assert(m.Items[0].Action, qt.Equals, "openTerminal|")
	c.Assert(m.Items[0].Items, qt.HasLen, 1)
	a, ok := cache.Resolve("Terminal")
	c.Assert(ok, qt.IsTrue)
	c.Assert(a.Type, qt.Equals, model.OpenTerminal)
	_, ok = cache.Resolve("Folder")
	c.Assert(ok, qt.IsTrue)
}

func TestBuildMenu_DuplicateLabelLastWins(t *testing.T) {
	c := qt.New(t)
	cfg := model.MenuConfiguration{Version: "1.0", Items: []model.MenuItem{
		{ID: "one", Name: "Same", Action: act(model.CreateEmptyFile, "txt")},
		{ID: "two", Name: "Same", Action: act(model.CreateEmptyFile, "md")},
	}}
	cache := menu.NewCache(&countingLoader{cfg: cfg}, nil)
	cache.BuildMenu(context.Background())

	a, _ := cache.Resolve("Same")
	c.Assert(a.Parameter, qt.Equals, "md")
	a, _ = cache.ResolveID("one")
	c.Assert(a.Parameter, qt.Equals, "txt")
}

func TestBuildMenu_TableRegeneratedOnReload(t *testing.T) {
	c := qt.New(t)
	l := &countingLoader{cfg: sampleConfig()}
	cache := menu.NewCache(l, nil)
	cache.BuildMenu(context.Background())

	l.cfg.Items[0].Children[0].Name = "Plain Text"
	cache.BuildMenu(context.Background())
	_, ok := cache.Resolve("Plain Text")
	c.Assert(ok, qt.IsFalse) // still fresh

	cache.Invalidate()
	cache.BuildMenu(context.Background())
	_, ok = cache.Resolve("Text File")
	c.Assert(ok, qt.IsFalse)
	_, ok = cache.Resolve("Plain Text")
	c.Assert(ok, qt.IsTrue)
}

func TestBuildMenu_CutLabelFollowsCutState(t *testing.T) {
	c := qt.New(t)
	cut := fixedCut(false)
	l := &countingLoader{cfg: sampleConfig()}
	cache := menu.NewCache(l, &cut, menu.WithLabels(menu.Labels{Cut: "Cut It", Paste: "Drop It"}))

	m := cache.BuildMenu(context.Background())
	c.Assert(m.Items[2].Title, qt.Equals, "Cut It")

	cut = true
	m = cache.BuildMenu(context.Background())
	c.Assert(m.Items[2].Title, qt.Equals, "Drop It")
	c.Assert(l.loads, qt.Equals, 1)

	_, ok := cache.Resolve("Cut It")
	c.Assert(ok, qt.IsFalse)
	a, ok := cache.Resolve("Drop It")
	c.Assert(ok, qt.IsTrue)
	c.Assert(a.Wire(), qt.Equals, "cutFile|")
}

func TestEndToEnd_CutPasteLabel(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()

	db, err := kv.Open(filepath.Join(dir, kv.DefaultFileName), "test")
	c.Assert(err, qt.IsNil)
	defer db.Close()
	coord := cutpaste.New(db, clipboard.NewMemory())

	var bus notify.Bus
	s := store.New(dir, store.WithNotifier(&bus))
	c.Assert(s.Save(model.MenuConfiguration{Version: "1.0", Items: []model.MenuItem{
		{ID: "cp", Name: "Cut or Paste", Action: act(model.CutFile, "")},
	}}), qt.IsNil)

	cache := menu.NewCache(s, coord)
	bus.Subscribe(cache.Invalidate)

	m := cache.BuildMenu(context.Background())
	c.Assert(m.Items[0].Title, qt.Equals, menu.DefaultLabels.Cut)
	a, ok := cache.Resolve(menu.DefaultLabels.Cut)
	c.Assert(ok, qt.IsTrue)
	c.Assert(a.Wire(), qt.Equals, "cutFile|")

	c.Assert(coord.BeginCut([]string{"/tmp/a"}), qt.IsNil)

	m = cache.BuildMenu(context.Background())
	c.Assert(m.Items[0].Title, qt.Equals, menu.DefaultLabels.Paste)
	a, ok = cache.Resolve(menu.DefaultLabels.Paste)
	c.Assert(ok, qt.IsTrue)
	c.Assert(a.Type, qt.Equals, model.CutFile)

	// A save from the editor reaches the cache through the signal.
	c.Assert(s.Save(model.MenuConfiguration{Version: "1.1", Items: []model.MenuItem{
		{ID: "folder", Name: "Folder", Action: act(model.CreateFolder, "")},
	}}), qt.IsNil)
	c.Assert(cache.State(), qt.Equals, menu.Stale)
	m = cache.BuildMenu(context.Background())
	c.Assert(m.Version, qt.Equals, "1.1")
	_, ok = cache.Resolve(menu.DefaultLabels.Paste)
	c.Assert(ok, qt.IsFalse)
}
