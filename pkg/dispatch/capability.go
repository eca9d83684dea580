package dispatch

import "context"

// Browser is the file browser that hosts the menu.
type Browser interface {
	// Reveal selects path in the browser.
	Reveal(path string) error

	// RequestRename starts an inline rename of path.
	RequestRename(path string) error
}

// Terminal opens a terminal window.
type Terminal interface {
	OpenTerminal(dir string) error
}

// Templates resolves template names to their content.
type Templates interface {
	ResolveTemplate(name string) ([]byte, error)
}

// Opener opens paths with a named application.
type Opener interface {
	OpenWith(app string, paths []string) error
}

// Finder toggles browser-level preferences.
type Finder interface {
	ToggleHiddenFiles() error
}

// ScriptRunner runs a user script against a directory.
type ScriptRunner interface {
	Run(ctx context.Context, script, dir string, args []string) error
}

// CutCoordinator is the cut/paste toggle state.
type CutCoordinator interface {
	BeginCut(files []string) error
	PendingCutURLs() []string
	Clear() error
}

// Clipboard receives plain text such as copied paths and digests.
type Clipboard interface {
	WriteText(text string) error
}
