// Package dispatch executes the side effect of a selected menu action.
package dispatch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/rightkit/pkg/metric"
	"github.com/mchmarny/rightkit/pkg/model"
)

const (
	// DefaultFileName is used for new empty files without a parameter.
	DefaultFileName = "Untitled"

	// DefaultFolderName is used for new folders without a parameter.
	DefaultFolderName = "untitled folder"
)

var (
	// ErrUnknownAction is returned for action types the dispatcher cannot run.
	ErrUnknownAction = errors.New("unknown action")

	// ErrNoSelection is returned when an action needs selected items and has none.
	ErrNoSelection = errors.New("no items selected")

	// ErrMissingParameter is returned when an action requires a parameter.
	ErrMissingParameter = errors.New("missing action parameter")

	// ErrUnavailable is returned when a required capability was not configured.
	ErrUnavailable = errors.New("capability not configured")
)

// Request is one menu selection.
type Request struct {
	// Action is the resolved menu action.
	Action model.Action

	// TargetDir is the directory the menu was opened in. Empty uses the fallback.
	TargetDir string

	// Selected are the items selected in the browser.
	Selected []string
}

// Dispatcher runs actions. Slow external launches and post-create browser
// requests run in the background so the caller returns promptly.
type Dispatcher struct {
	fallbackDir string
	desktopDir  string

	browser   Browser
	terminal  Terminal
	templates Templates
	opener    Opener
	finder    Finder
	scripts   ScriptRunner
	cut       CutCoordinator
	clip      Clipboard
	actions   metric.IncrementalCounter

	bg errgroup.Group
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithFallbackDir sets the directory used when a request has no target.
func WithFallbackDir(dir string) Option { return func(d *Dispatcher) { d.fallbackDir = dir } }

// WithDesktopDir sets the destination of sendToDesktop.
func WithDesktopDir(dir string) Option { return func(d *Dispatcher) { d.desktopDir = dir } }

// WithBrowser sets the file browser capability.
func WithBrowser(b Browser) Option { return func(d *Dispatcher) { d.browser = b } }

// WithTerminal sets the terminal capability.
func WithTerminal(t Terminal) Option { return func(d *Dispatcher) { d.terminal = t } }

// WithTemplates sets the template resolver.
func WithTemplates(t Templates) Option { return func(d *Dispatcher) { d.templates = t } }

// WithOpener sets the open-with capability.
func WithOpener(o Opener) Option { return func(d *Dispatcher) { d.opener = o } }

// WithFinder sets the browser preferences capability.
func WithFinder(f Finder) Option { return func(d *Dispatcher) { d.finder = f } }

// WithScriptRunner sets the script runner.
func WithScriptRunner(r ScriptRunner) Option { return func(d *Dispatcher) { d.scripts = r } }

// WithCutCoordinator sets the cut/paste state.
func WithCutCoordinator(c CutCoordinator) Option { return func(d *Dispatcher) { d.cut = c } }

// WithClipboard sets the clipboard used for paths and digests.
func WithClipboard(c Clipboard) Option { return func(d *Dispatcher) { d.clip = c } }

// WithActionCounter counts dispatches by type and result.
func WithActionCounter(c metric.IncrementalCounter) Option {
	return func(d *Dispatcher) { d.actions = c }
}

// New creates a dispatcher. Capabilities left unset make their actions fail
// with ErrUnavailable.
func New(opts ...Option) *Dispatcher {
	home, _ := os.UserHomeDir()
	d := &Dispatcher{
		fallbackDir: filepath.Join(home, "Desktop"),
		desktopDir:  filepath.Join(home, "Desktop"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait blocks until all background work started so far has finished.
func (d *Dispatcher) Wait() {
	_ = d.bg.Wait()
}

// Execute runs req. Failures are logged and returned; nothing is retried.
func (d *Dispatcher) Execute(ctx context.Context, req Request) error {
	dir := d.targetDir(req.TargetDir)
	typ := req.Action.Type

	slog.Info("dispatching action",
		"type", typ,
		"parameter", req.Action.Parameter,
		"target", dir,
		"selected", len(req.Selected))

	err := d.run(ctx, req, dir)

	result := "ok"
	if err != nil {
		result = "error"
		slog.Error("action failed", "type", typ, "target", dir, "error", err)
	}
	if d.actions != nil {
		d.actions.Increment(string(typ), result)
	}
	return err
}

func (d *Dispatcher) run(ctx context.Context, req Request, dir string) error {
	param := req.Action.Parameter

	switch req.Action.Type {
	case model.CreateEmptyFile:
		return d.createFile(dir, emptyFileName(param), nil)

	case model.CreateFileFromTemplate:
		if param == "" {
			return fmt.Errorf("%w: template name", ErrMissingParameter)
		}
		if d.templates == nil {
			return fmt.Errorf("%w: templates", ErrUnavailable)
		}
		data, err := d.templates.ResolveTemplate(param)
		if err != nil {
			return fmt.Errorf("resolve template %q: %w", param, err)
		}
		return d.createFile(dir, filepath.Base(param), data)

	case model.CreateFolder:
		name := param
		if name == "" {
			name = DefaultFolderName
		}
		dest, err := createDir(dir, name)
		if err != nil {
			return fmt.Errorf("create folder: %w", err)
		}
		d.afterCreate(dest)
		return nil

	case model.OpenTerminal:
		if d.terminal == nil {
			return fmt.Errorf("%w: terminal", ErrUnavailable)
		}
		d.background("open terminal", func() error { return d.terminal.OpenTerminal(dir) })
		return nil

	case model.CopyFilePath:
		if d.clip == nil {
			return fmt.Errorf("%w: clipboard", ErrUnavailable)
		}
		paths := req.Selected
		if len(paths) == 0 {
			paths = []string{dir}
		}
		return d.clip.WriteText(strings.Join(paths, "\n"))

	case model.CutFile:
		return d.toggleCut(req.Selected, dir)

	case model.RunShellScript:
		if param == "" {
			return fmt.Errorf("%w: script path", ErrMissingParameter)
		}
		if d.scripts == nil {
			return fmt.Errorf("%w: script runner", ErrUnavailable)
		}
		bgCtx := context.WithoutCancel(ctx)
		d.background("run script", func() error {
			return d.scripts.Run(bgCtx, param, dir, req.Selected)
		})
		return nil

	case model.OpenWithApp:
		if param == "" {
			return fmt.Errorf("%w: application", ErrMissingParameter)
		}
		if d.opener == nil {
			return fmt.Errorf("%w: opener", ErrUnavailable)
		}
		paths := req.Selected
		if len(paths) == 0 {
			paths = []string{dir}
		}
		d.background("open with "+param, func() error { return d.opener.OpenWith(param, paths) })
		return nil

	case model.SendToDesktop:
		if len(req.Selected) == 0 {
			return ErrNoSelection
		}
		return d.eachSelected(req.Selected, "send to desktop", func(p string) error {
			_, err := copyInto(p, d.desktopDir)
			return err
		})

	case model.HashFile:
		return d.hash(req.Selected)

	case model.DeleteFile:
		if len(req.Selected) == 0 {
			return ErrNoSelection
		}
		return d.eachSelected(req.Selected, "delete", removePath)

	case model.ShowHiddenFiles:
		if d.finder == nil {
			return fmt.Errorf("%w: finder", ErrUnavailable)
		}
		return d.finder.ToggleHiddenFiles()

	case model.Separator:
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, req.Action.Type)
	}
}

// targetDir resolves the request directory. A file target resolves to its parent.
func (d *Dispatcher) targetDir(dir string) string {
	if dir == "" {
		return d.fallbackDir
	}
	if fi, err := os.Stat(dir); err == nil && !fi.IsDir() {
		return filepath.Dir(dir)
	}
	return dir
}

// emptyFileName maps the parameter to a file name: a name with a dot is used
// as is, a bare extension gets the default stem.
func emptyFileName(param string) string {
	param = strings.TrimSpace(param)
	switch {
	case param == "":
		return DefaultFileName
	case strings.Contains(param, "."):
		return filepath.Base(param)
	default:
		return DefaultFileName + "." + param
	}
}

func (d *Dispatcher) createFile(dir, name string, data []byte) error {
	dest, err := createFile(dir, name, data)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	d.afterCreate(dest)
	return nil
}

// afterCreate asks the browser to select the new entry and offer a rename.
func (d *Dispatcher) afterCreate(path string) {
	slog.Info("created", "path", path)
	if d.browser == nil {
		return
	}
	d.background("reveal", func() error {
		if err := d.browser.Reveal(path); err != nil {
			return err
		}
		return d.browser.RequestRename(path)
	})
}

func (d *Dispatcher) toggleCut(selected []string, dir string) error {
	if d.cut == nil {
		return fmt.Errorf("%w: cut coordinator", ErrUnavailable)
	}

	pending := d.cut.PendingCutURLs()
	if len(pending) == 0 {
		if len(selected) == 0 {
			return ErrNoSelection
		}
		return d.cut.BeginCut(selected)
	}

	err := d.eachSelected(pending, "paste", func(p string) error {
		dest, err := movePath(p, dir)
		if err == nil {
			slog.Info("moved", "from", p, "to", dest)
		}
		return err
	})
	if cerr := d.cut.Clear(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

func (d *Dispatcher) hash(selected []string) error {
	if len(selected) == 0 {
		return ErrNoSelection
	}

	var lines []string
	err := d.eachSelected(selected, "hash", func(p string) error {
		sum, err := sha256File(p)
		if err != nil {
			return err
		}
		slog.Info("file digest", "path", p, "sha256", sum)
		lines = append(lines, sum+"  "+filepath.Base(p))
		return nil
	})

	if len(lines) > 0 && d.clip != nil {
		if cerr := d.clip.WriteText(strings.Join(lines, "\n")); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}
	return err
}

// eachSelected applies fn to every path, continuing past failures.
func (d *Dispatcher) eachSelected(paths []string, op string, fn func(string) error) error {
	var errs []error
	for _, p := range paths {
		if err := fn(p); err != nil {
			slog.Error("operation failed", "op", op, "path", p, "error", err)
			errs = append(errs, fmt.Errorf("%s %s: %w", op, p, err))
		}
	}
	return errors.Join(errs...)
}

// background runs fn off the request path and logs its failure.
func (d *Dispatcher) background(name string, fn func() error) {
	d.bg.Go(func() error {
		if err := fn(); err != nil {
			slog.Error("background action failed", "action", name, "error", err)
		}
		return nil
	})
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", err
	}
	if !fi.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", path)
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func removePath(p string) error {
	clean := filepath.Clean(p)
	if clean == "" || clean == "." || clean == string(filepath.Separator) {
		return fmt.Errorf("refusing to delete %q", p)
	}
	if _, err := os.Lstat(clean); err != nil {
		return err
	}
	return os.RemoveAll(clean)
}
