// Package notify implements the payload-free "configuration changed" signal
// shared by the editor and server processes. Delivery is best effort: nothing
// is queued and a listener that is not running misses the signal.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSignalName is the file touched inside the shared container on every post.
const DefaultSignalName = ".menu-updated"

// Poster broadcasts the signal.
type Poster interface {
	Notify() error
}

// FilePoster posts by rewriting a signal file in the shared container.
type FilePoster struct {
	path string
}

// NewFilePoster returns a poster writing to dir/DefaultSignalName.
func NewFilePoster(dir string) *FilePoster {
	return &FilePoster{path: filepath.Join(dir, DefaultSignalName)}
}

// Notify writes a fresh nanosecond stamp into the signal file.
func (p *FilePoster) Notify() error {
	stamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := os.WriteFile(p.path, []byte(stamp), 0o644); err != nil {
		return fmt.Errorf("notify: write signal: %w", err)
	}
	return nil
}

// Listener watches the shared container for posts and calls a handler for each.
type Listener struct {
	dir     string
	name    string
	handler func()
}

// NewListener creates a listener for signals posted into dir.
func NewListener(dir string, handler func()) *Listener {
	return &Listener{dir: dir, name: DefaultSignalName, handler: handler}
}

// Run watches until ctx is done. The directory is watched instead of the file
// itself so the listener keeps working when the signal file is replaced.
func (l *Listener) Run(ctx context.Context) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("notify: create container: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("notify: new watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(l.dir); err != nil {
		return fmt.Errorf("notify: watch %s: %w", l.dir, err)
	}

	slog.Info("listening for menu updates", "dir", l.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != l.name {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			slog.Debug("menu update signal", "op", ev.Op.String())
			l.handler()
		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(werr, fsnotify.ErrEventOverflow) {
				// Lost events may have included a post.
				l.handler()
				continue
			}
			slog.Error("watcher error", "error", werr)
		}
	}
}

// Bus is an in-process poster with any number of subscribers.
type Bus struct {
	mu   sync.RWMutex
	subs []func()
}

// Subscribe registers fn to be called on every post.
func (b *Bus) Subscribe(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Notify calls every current subscriber synchronously.
func (b *Bus) Notify() error {
	b.mu.RLock()
	subs := append([]func(){}, b.subs...)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
	return nil
}
