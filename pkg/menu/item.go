package menu

// Item represents an individual rendered entry in the menu, which may contain sub-items.
type Item struct {
	// ID is the stable identifier of the configured item it was rendered from.
	ID string `json:"id"`

	// Title is the displayed label. Cut/paste items get a state dependent label.
	Title string `json:"title"`

	// Icon is an optional icon reference.
	Icon string `json:"icon,omitempty"`

	// Action is the wire form of the dispatched action, empty for plain submenus.
	Action string `json:"action,omitempty"`

	// Separator marks a divider line.
	Separator bool `json:"separator,omitempty"`

	// Items are the sub-items of this menu item.
	Items []Item `json:"items,omitempty"`
}
