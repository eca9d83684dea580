package model

import "errors"

// CurrentVersion is the version tag written by this build.
const CurrentVersion = "1.0"

var (
	// ErrNotFound is returned when no item carries the requested id.
	ErrNotFound = errors.New("menu item not found")

	// ErrDuplicateID is returned when two items share an id.
	ErrDuplicateID = errors.New("duplicate menu item id")

	// ErrEmptyID is returned when an item has no id.
	ErrEmptyID = errors.New("empty menu item id")

	// ErrUnknownAction is returned for action tags outside the known set.
	ErrUnknownAction = errors.New("unknown action type")
)

// MenuConfiguration is the unit of persistence: a version tag plus the root items.
type MenuConfiguration struct {
	// Version is the configuration format version.
	Version string `json:"version"`

	// Items are the root-level menu items in display order.
	Items []MenuItem `json:"items"`
}

// Clone returns a deep copy of the configuration.
func (c MenuConfiguration) Clone() MenuConfiguration {
	out := MenuConfiguration{Version: c.Version}
	if c.Items != nil {
		out.Items = make([]MenuItem, len(c.Items))
		for i := range c.Items {
			out.Items[i] = c.Items[i].Clone()
		}
	}
	return out
}

// DefaultConfiguration returns the baseline menu used when nothing valid is
// persisted. Every call returns a new, identical value.
func DefaultConfiguration() MenuConfiguration {
	return MenuConfiguration{
		Version: CurrentVersion,
		Items: []MenuItem{
			{
				ID:   "new-file",
				Name: "New File",
				Icon: "doc.badge.plus",
				Children: []MenuItem{
					{
						ID:     "new-file-txt",
						Name:   "Text File",
						Icon:   "doc.text",
						Action: &Action{Type: CreateEmptyFile, Parameter: "txt"},
					},
					{
						ID:     "new-file-md",
						Name:   "Markdown File",
						Icon:   "doc.richtext",
						Action: &Action{Type: CreateEmptyFile, Parameter: "md"},
					},
				},
			},
			{
				ID:     "new-folder",
				Name:   "New Folder",
				Icon:   "folder.badge.plus",
				Action: &Action{Type: CreateFolder},
			},
			{
				ID:     "separator-1",
				Name:   "",
				Action: &Action{Type: Separator},
			},
			{
				ID:     "open-terminal",
				Name:   "Open in Terminal",
				Icon:   "terminal",
				Action: &Action{Type: OpenTerminal},
			},
			{
				ID:     "copy-path",
				Name:   "Copy Path",
				Icon:   "doc.on.clipboard",
				Action: &Action{Type: CopyFilePath},
			},
			{
				ID:     "cut-paste",
				Name:   "Cut",
				Icon:   "scissors",
				Action: &Action{Type: CutFile},
			},
		},
	}
}
