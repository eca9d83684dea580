// Package clipboard exposes the system clipboard as a capability, including a
// private marker that proves which cut currently owns it.
package clipboard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/cespare/xxhash/v2"

	"github.com/mchmarny/rightkit/pkg/kv"
)

// MarkerKey is the shared key holding the marker sidecar of the system adapter.
const MarkerKey = "clipboard.marker"

// Clipboard is the subset of clipboard behavior the core relies on.
type Clipboard interface {
	// WriteFiles replaces the contents with files plus the private marker.
	WriteFiles(files []string, marker string) error

	// WriteText replaces the contents with plain text and no marker.
	WriteText(text string) error

	// Marker returns the private marker when the contents still carry it.
	Marker() (string, bool, error)

	// Revision identifies the current contents; it changes on every write.
	Revision() (string, error)
}

// System is the real clipboard. Plain-text clipboards have no private types,
// so the marker is kept in a shared sidecar bound to a hash of the exact text
// written. Any foreign write changes the text and orphans the marker.
type System struct {
	kv kv.Store
}

// NewSystem returns the system clipboard adapter using store for the sidecar.
func NewSystem(store kv.Store) *System {
	return &System{kv: store}
}

type sidecar struct {
	Hash   string `json:"hash"`
	Marker string `json:"marker"`
}

func hashText(s string) string {
	return strconv.FormatUint(xxhash.Sum64String(s), 16)
}

// Available reports whether a clipboard utility is usable on this host.
func Available() bool {
	return !clipboard.Unsupported
}

func (s *System) WriteFiles(files []string, marker string) error {
	text := strings.Join(files, "\n")
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: write: %w", err)
	}
	data, err := json.Marshal(sidecar{Hash: hashText(text), Marker: marker})
	if err != nil {
		return err
	}
	return s.kv.Set(MarkerKey, string(data))
}

func (s *System) WriteText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: write: %w", err)
	}
	return s.kv.Delete(MarkerKey)
}

func (s *System) Marker() (string, bool, error) {
	raw, ok, err := s.kv.Get(MarkerKey)
	if err != nil || !ok {
		return "", false, err
	}
	var sc sidecar
	if err := json.Unmarshal([]byte(raw), &sc); err != nil {
		return "", false, nil
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", false, fmt.Errorf("clipboard: read: %w", err)
	}
	if hashText(text) != sc.Hash {
		return "", false, nil
	}
	return sc.Marker, true, nil
}

func (s *System) Revision() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("clipboard: read: %w", err)
	}
	return hashText(text), nil
}

// Memory is an in-process clipboard for tests and headless hosts.
type Memory struct {
	mu       sync.Mutex
	text     string
	marker   string
	revision int64
}

// NewMemory returns an empty in-memory clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) WriteFiles(files []string, marker string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = strings.Join(files, "\n")
	m.marker = marker
	m.revision++
	return nil
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.marker = ""
	m.revision++
	return nil
}

func (m *Memory) Marker() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.marker, m.marker != "", nil
}

func (m *Memory) Revision() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strconv.FormatInt(m.revision, 10), nil
}

// Text returns the current plain-text contents.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// ReplaceMarker overwrites the marker as another process would.
func (m *Memory) ReplaceMarker(marker string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marker = marker
	m.revision++
}
