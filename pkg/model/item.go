package model

// MenuItem is a node in the user-editable menu tree.
type MenuItem struct {
	// ID is the stable identifier of the item, unique within a configuration.
	ID string `json:"id"`

	// Name is the display name of the item.
	Name string `json:"name"`

	// Icon is an optional icon reference.
	Icon string `json:"icon,omitempty"`

	// Action is the optional side effect of selecting the item.
	// An item may carry both an Action and Children: the children render
	// as a submenu and the action is still registered for dispatch.
	Action *Action `json:"action,omitempty"`

	// Children are the sub-items of this menu item.
	Children []MenuItem `json:"children,omitempty"`
}

// HasChildren reports whether the item renders as a submenu.
func (m MenuItem) HasChildren() bool {
	return len(m.Children) > 0
}

// IsSeparator reports whether the item is a separator line.
func (m MenuItem) IsSeparator() bool {
	return m.Action != nil && m.Action.Type == Separator
}

// Clone returns a deep copy of the item.
func (m MenuItem) Clone() MenuItem {
	out := m
	if m.Action != nil {
		a := *m.Action
		out.Action = &a
	}
	if m.Children != nil {
		out.Children = make([]MenuItem, len(m.Children))
		for i := range m.Children {
			out.Children[i] = m.Children[i].Clone()
		}
	}
	return out
}
