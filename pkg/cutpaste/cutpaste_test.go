package cutpaste_test

import (
	"errors"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/mchmarny/rightkit/pkg/clipboard"
	"github.com/mchmarny/rightkit/pkg/cutpaste"
	"github.com/mchmarny/rightkit/pkg/kv"
)

func openKV(t *testing.T) *kv.DB {
	t.Helper()
	d, err := kv.Open(filepath.Join(t.TempDir(), kv.DefaultFileName), "test")
	if err != nil {
		t.Fatalf("openKV: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func newCoordinator(t *testing.T) (*cutpaste.Coordinator, *clipboard.Memory, *kv.DB) {
	t.Helper()
	store := openKV(t)
	clip := clipboard.NewMemory()
	return cutpaste.New(store, clip), clip, store
}

func TestBeginCut_ThenPending(t *testing.T) {
	c := qt.New(t)
	co, clip, _ := newCoordinator(t)

	c.Assert(co.HasPendingCut(), qt.IsFalse)
	c.Assert(co.PendingCutURLs(), qt.HasLen, 0)

	c.Assert(co.BeginCut([]string{"/tmp/a", "/tmp/b"}), qt.IsNil)
	c.Assert(co.PendingCutURLs(), qt.DeepEquals, []string{"/tmp/a", "/tmp/b"})
	c.Assert(co.HasPendingCut(), qt.IsTrue)

	// Other clipboard consumers see the files.
	c.Assert(clip.Text(), qt.Equals, "/tmp/a\n/tmp/b")
}

func TestBeginCut_RequiresFiles(t *testing.T) {
	c := qt.New(t)
	co, _, _ := newCoordinator(t)
	c.Assert(errors.Is(co.BeginCut(nil), cutpaste.ErrNothingToCut), qt.IsTrue)
}

func TestClear_KeepsClipboard(t *testing.T) {
	c := qt.New(t)
	co, clip, _ := newCoordinator(t)

	c.Assert(co.BeginCut([]string{"/tmp/a"}), qt.IsNil)
	c.Assert(co.Clear(), qt.IsNil)
	c.Assert(co.HasPendingCut(), qt.IsFalse)

	_, ok, _ := clip.Marker()
	c.Assert(ok, qt.IsTrue)
	c.Assert(clip.Text(), qt.Equals, "/tmp/a")
}

func TestPending_ExternalClipboardWrite(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name    string
		disturb func(*clipboard.Memory)
	}{
		{name: "marker missing", disturb: func(m *clipboard.Memory) { _ = m.WriteText("copied elsewhere") }},
		{name: "different marker", disturb: func(m *clipboard.Memory) { m.ReplaceMarker("someone-else") }},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			co, clip, store := newCoordinator(t)
			c.Assert(co.BeginCut([]string{"/tmp/a"}), qt.IsNil)

			tc.disturb(clip)

			c.Assert(co.PendingCutURLs(), qt.HasLen, 0)

			// The stale entry was cleared as a side effect.
			_, ok, err := store.Get(cutpaste.KeyToken)
			c.Assert(err, qt.IsNil)
			c.Assert(ok, qt.IsFalse)
			_, ok, err = co.Stored()
			c.Assert(err, qt.IsNil)
			c.Assert(ok, qt.IsFalse)
		})
	}
}

func TestBeginCut_PersistsTokenAndRevision(t *testing.T) {
	c := qt.New(t)
	store := openKV(t)
	clip := clipboard.NewMemory()
	co := cutpaste.New(store, clip, cutpaste.WithTokenFunc(func() string { return "fixed-token" }))

	c.Assert(co.BeginCut([]string{"/x"}), qt.IsNil)

	p, ok, err := co.Stored()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(p.Token, qt.Equals, "fixed-token")
	rev, _ := clip.Revision()
	c.Assert(p.Revision, qt.Equals, rev)

	m, _, _ := clip.Marker()
	c.Assert(m, qt.Equals, "fixed-token")
}

func TestSecondProcessSeesSameState(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), kv.DefaultFileName)
	clip := clipboard.NewMemory()

	editorKV, err := kv.Open(path, "app")
	c.Assert(err, qt.IsNil)
	defer editorKV.Close()
	serverKV, err := kv.Open(path, "app")
	c.Assert(err, qt.IsNil)
	defer serverKV.Close()

	editor := cutpaste.New(editorKV, clip)
	server := cutpaste.New(serverKV, clip)

	c.Assert(editor.BeginCut([]string{"/shared"}), qt.IsNil)
	c.Assert(server.PendingCutURLs(), qt.DeepEquals, []string{"/shared"})

	c.Assert(server.Clear(), qt.IsNil)
	c.Assert(editor.HasPendingCut(), qt.IsFalse)
}

// flakyClipboard fails the next failures Marker reads.
type flakyClipboard struct {
	*clipboard.Memory
	failures int
}

func (f *flakyClipboard) Marker() (string, bool, error) {
	if f.failures > 0 {
		f.failures--
		return "", false, errors.New("clipboard read failed")
	}
	return f.Memory.Marker()
}

func TestPendingCutURLs_ReadFailureKeepsCut(t *testing.T) {
	c := qt.New(t)
	clip := &flakyClipboard{Memory: clipboard.NewMemory()}
	co := cutpaste.New(openKV(t), clip)

	c.Assert(co.BeginCut([]string{"/tmp/a"}), qt.IsNil)

	clip.failures = 1
	c.Assert(co.PendingCutURLs(), qt.HasLen, 0)

	_, stored, err := co.Stored()
	c.Assert(err, qt.IsNil)
	c.Assert(stored, qt.IsTrue)

	c.Assert(co.PendingCutURLs(), qt.DeepEquals, []string{"/tmp/a"})
}
