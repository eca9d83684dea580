package menu

// Menu represents the root menu structure handed to the renderer.
type Menu struct {
	// Version of the configuration the menu was built from.
	Version string `json:"version,omitempty"`

	// Items is the list of menu items
	Items []Item `json:"items"`
}

// Labels are the two titles of the cut/paste item.
type Labels struct {
	Cut   string
	Paste string
}

// DefaultLabels are used unless overridden with WithLabels.
var DefaultLabels = Labels{Cut: "Cut", Paste: "Paste Here"}

func (m Menu) clone() Menu {
	return Menu{Version: m.Version, Items: cloneItems(m.Items)}
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it
		out[i].Items = cloneItems(it.Items)
	}
	return out
}
