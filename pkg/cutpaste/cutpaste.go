// Package cutpaste tracks a pending cut across processes. The pending state
// lives in the shared key/value store and is only trusted while the system
// clipboard still carries the matching marker.
package cutpaste

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mchmarny/rightkit/pkg/clipboard"
	"github.com/mchmarny/rightkit/pkg/kv"
)

// Shared keys holding the pending cut.
const (
	KeyFiles    = "cut.files"
	KeyToken    = "cut.token"
	KeyRevision = "cut.revision"
)

// ErrNothingToCut is returned by BeginCut when no files are given.
var ErrNothingToCut = errors.New("no files to cut")

// Pending is a persisted cut.
type Pending struct {
	Files    []string `json:"files"`
	Token    string   `json:"token"`
	Revision string   `json:"revision,omitempty"`
}

// Coordinator owns the cut/paste toggle state.
type Coordinator struct {
	kv       kv.Store
	clip     clipboard.Clipboard
	newToken func() string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTokenFunc replaces the uuid token generator.
func WithTokenFunc(fn func() string) Option {
	return func(c *Coordinator) { c.newToken = fn }
}

// New creates a coordinator over the shared store and clipboard.
func New(store kv.Store, clip clipboard.Clipboard, opts ...Option) *Coordinator {
	c := &Coordinator{
		kv:       store,
		clip:     clip,
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type batchSetter interface {
	SetMany(map[string]string) error
}

// BeginCut records files as the pending cut under a fresh token and writes
// the files plus the token marker to the clipboard.
func (c *Coordinator) BeginCut(files []string) error {
	if len(files) == 0 {
		return ErrNothingToCut
	}

	token := c.newToken()
	if err := c.clip.WriteFiles(files, token); err != nil {
		return fmt.Errorf("cutpaste: write clipboard: %w", err)
	}

	rev, err := c.clip.Revision()
	if err != nil {
		slog.Error("failed to read clipboard revision", "error", err)
	}

	data, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("cutpaste: encode files: %w", err)
	}

	pairs := map[string]string{
		KeyFiles:    string(data),
		KeyToken:    token,
		KeyRevision: rev,
	}

	if b, ok := c.kv.(batchSetter); ok {
		err = b.SetMany(pairs)
	} else {
		for _, k := range []string{KeyFiles, KeyToken, KeyRevision} {
			if err = c.kv.Set(k, pairs[k]); err != nil {
				break
			}
		}
	}
	if err != nil {
		return fmt.Errorf("cutpaste: persist: %w", err)
	}

	slog.Info("cut started", "files", len(files), "token", token)
	return nil
}

// Clear drops the persisted cut. The clipboard is left as is so other
// consumers of it are unaffected.
func (c *Coordinator) Clear() error {
	if err := c.kv.Delete(KeyFiles, KeyToken, KeyRevision); err != nil {
		return fmt.Errorf("cutpaste: clear: %w", err)
	}
	return nil
}

// Stored returns the persisted cut without checking the clipboard.
func (c *Coordinator) Stored() (Pending, bool, error) {
	token, ok, err := c.kv.Get(KeyToken)
	if err != nil || !ok {
		return Pending{}, false, err
	}
	raw, ok, err := c.kv.Get(KeyFiles)
	if err != nil || !ok {
		return Pending{}, false, err
	}
	var files []string
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		return Pending{}, false, fmt.Errorf("cutpaste: decode files: %w", err)
	}
	rev, _, err := c.kv.Get(KeyRevision)
	if err != nil {
		return Pending{}, false, err
	}
	return Pending{Files: files, Token: token, Revision: rev}, true, nil
}

// PendingCutURLs returns the files of the pending cut, or nothing when there
// is none. A cut whose token no longer matches the clipboard marker was
// superseded elsewhere: it is cleared and nothing is returned. When the
// clipboard cannot be read nothing is returned and the cut is kept.
func (c *Coordinator) PendingCutURLs() []string {
	p, ok, err := c.Stored()
	if err != nil {
		slog.Error("failed to read pending cut", "error", err)
		return nil
	}
	if !ok || len(p.Files) == 0 {
		return nil
	}

	marker, present, err := c.clip.Marker()
	if err != nil {
		// Unreadable is not superseded: keep the cut for the next query.
		slog.Error("failed to read clipboard marker", "error", err)
		return nil
	}
	if !present || marker != p.Token {
		slog.Info("pending cut invalidated by clipboard change", "token", p.Token)
		if err := c.Clear(); err != nil {
			slog.Error("failed to clear stale cut", "error", err)
		}
		return nil
	}

	if rev, err := c.clip.Revision(); err == nil && rev != p.Revision {
		slog.Debug("clipboard revision drifted but marker still matches",
			"stored", p.Revision, "current", rev)
	}

	return p.Files
}

// HasPendingCut reports whether a valid cut is pending.
func (c *Coordinator) HasPendingCut() bool {
	return len(c.PendingCutURLs()) > 0
}
