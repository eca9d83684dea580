package model

import "fmt"

// Path locates a node by the child indices leading to it from the root list.
type Path []int

// Find returns a copy of the item with the given id together with its path.
func (c *MenuConfiguration) Find(id string) (MenuItem, Path, bool) {
	p, ok := findPath(c.Items, id, nil)
	if !ok {
		return MenuItem{}, nil, false
	}
	return c.at(p).Clone(), p, true
}

func findPath(items []MenuItem, id string, prefix Path) (Path, bool) {
	for i := range items {
		here := append(append(Path{}, prefix...), i)
		if items[i].ID == id {
			return here, true
		}
		if p, ok := findPath(items[i].Children, id, here); ok {
			return p, true
		}
	}
	return nil, false
}

// at resolves p to the node it addresses. p must be valid.
func (c *MenuConfiguration) at(p Path) *MenuItem {
	list := &c.Items
	var node *MenuItem
	for _, i := range p {
		node = &(*list)[i]
		list = &node.Children
	}
	return node
}

// siblings returns the slice holding the children of parentID, or the root list.
func (c *MenuConfiguration) siblings(parentID string) (*[]MenuItem, error) {
	if parentID == "" {
		return &c.Items, nil
	}
	p, ok := findPath(c.Items, parentID, nil)
	if !ok {
		return nil, fmt.Errorf("%w: parent %q", ErrNotFound, parentID)
	}
	return &c.at(p).Children, nil
}

// Insert places item under parentID (empty for the root list) at index.
// An index outside the list appends.
func (c *MenuConfiguration) Insert(parentID string, index int, item MenuItem) error {
	if err := checkIDs(item, c.ids()); err != nil {
		return err
	}
	list, err := c.siblings(parentID)
	if err != nil {
		return err
	}
	if index < 0 || index > len(*list) {
		index = len(*list)
	}
	*list = append(*list, MenuItem{})
	copy((*list)[index+1:], (*list)[index:])
	(*list)[index] = item.Clone()
	return nil
}

// Remove deletes the item with the given id and returns it.
func (c *MenuConfiguration) Remove(id string) (MenuItem, error) {
	p, ok := findPath(c.Items, id, nil)
	if !ok {
		return MenuItem{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	list := &c.Items
	if len(p) > 1 {
		list = &c.at(p[:len(p)-1]).Children
	}
	i := p[len(p)-1]
	removed := (*list)[i]
	*list = append((*list)[:i], (*list)[i+1:]...)
	return removed, nil
}

// Update applies fn to the item with the given id. The id itself cannot change.
func (c *MenuConfiguration) Update(id string, fn func(*MenuItem)) error {
	p, ok := findPath(c.Items, id, nil)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	node := c.at(p)
	fn(node)
	node.ID = id
	return c.Validate()
}

// Move detaches the item with the given id and reinserts it under parentID at index.
func (c *MenuConfiguration) Move(id, parentID string, index int) error {
	if parentID != "" {
		item, _, ok := c.Find(id)
		if !ok {
			return fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		if _, inside := findPath(item.Children, parentID, nil); inside || parentID == id {
			return fmt.Errorf("cannot move %q into its own subtree", id)
		}
	}
	removed, err := c.Remove(id)
	if err != nil {
		return err
	}
	return c.Insert(parentID, index, removed)
}

// Walk visits every item depth first with its depth.
func (c *MenuConfiguration) Walk(fn func(item MenuItem, depth int)) {
	walk(c.Items, 0, fn)
}

func walk(items []MenuItem, depth int, fn func(MenuItem, int)) {
	for _, it := range items {
		fn(it, depth)
		walk(it.Children, depth+1, fn)
	}
}

// Validate reports empty or duplicate ids and unknown action types.
func (c *MenuConfiguration) Validate() error {
	seen := map[string]bool{}
	var err error
	c.Walk(func(it MenuItem, _ int) {
		if err != nil {
			return
		}
		switch {
		case it.ID == "":
			err = fmt.Errorf("%w: item %q", ErrEmptyID, it.Name)
		case seen[it.ID]:
			err = fmt.Errorf("%w: %q", ErrDuplicateID, it.ID)
		case it.Action != nil && !it.Action.Type.Valid():
			err = fmt.Errorf("%w: %q on item %q", ErrUnknownAction, it.Action.Type, it.ID)
		}
		seen[it.ID] = true
	})
	return err
}

func (c *MenuConfiguration) ids() map[string]bool {
	out := map[string]bool{}
	c.Walk(func(it MenuItem, _ int) { out[it.ID] = true })
	return out
}

func checkIDs(item MenuItem, existing map[string]bool) error {
	tmp := MenuConfiguration{Items: []MenuItem{item}}
	if err := tmp.Validate(); err != nil {
		return err
	}
	var err error
	tmp.Walk(func(it MenuItem, _ int) {
		if err == nil && existing[it.ID] {
			err = fmt.Errorf("%w: %q", ErrDuplicateID, it.ID)
		}
	})
	return err
}
