// Package template resolves file templates stored in a directory.
package template

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNotFound is returned when no template has the requested name.
var ErrNotFound = errors.New("template not found")

// Dir is a template collection backed by a directory.
type Dir struct {
	root string
}

// NewDir returns the templates stored under root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the template directory.
func (d *Dir) Root() string {
	return d.root
}

// ResolveTemplate returns the bytes of the template called name.
// Names are relative to the directory and may not escape it.
func (d *Dir) ResolveTemplate(name string) ([]byte, error) {
	rel, err := d.clean(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(os.DirFS(d.root), rel)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read template %q: %w", name, err)
	}
	return data, nil
}

// List returns the template names matching the doublestar pattern, sorted.
// An empty pattern lists everything.
func (d *Dir) List(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid template pattern %q", pattern)
	}
	if _, err := os.Stat(d.root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var out []string
	err := doublestar.GlobWalk(os.DirFS(d.root), pattern, func(path string, de fs.DirEntry) error {
		if !de.IsDir() && !strings.HasPrefix(filepath.Base(path), ".") {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// Add copies src into the directory under name, replacing any template of that name.
func (d *Dir) Add(name string, data []byte) error {
	rel, err := d.clean(name)
	if err != nil {
		return err
	}
	dest := filepath.Join(d.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func (d *Dir) clean(name string) (string, error) {
	rel := filepath.ToSlash(filepath.Clean(strings.TrimSpace(name)))
	if rel == "." || rel == "" || !fs.ValidPath(rel) {
		return "", fmt.Errorf("invalid template name %q", name)
	}
	return rel, nil
}
