package md2slides

// SectionKind identifies the layout direction of a section.
type SectionKind string

// Section kinds. A row lays children out left-to-right; section and column
// stack children top-to-bottom.
const (
	KindSection SectionKind = "section"
	KindRow     SectionKind = "row"
	KindColumn  SectionKind = "column"
)

// Node is a member of a section tree: either a *Section or an *Element.
// The variant set is closed; traversal sites switch exhaustively.
type Node interface {
	node()

	// NodeID returns the node's identifier.
	NodeID() string

	// Box returns the node's position and size, either of which may be nil
	// before layout has run.
	Box() (*Point, *Size)

	// ClearGeometry recursively resets position and size to nil so the
	// layout pass recomputes everything from scratch.
	ClearGeometry()

	// CloneNode returns a deep copy of the node.
	CloneNode() Node
}

// Section is a layout container holding an ordered list of child nodes.
// Geometry starts nil and is assigned once by the position calculator.
type Section struct {
	ID         string
	Kind       SectionKind
	Directives Directives
	Position   *Point
	Size       *Size
	Children   []Node
}

func (*Section) node() {}

// NodeID implements Node.
func (s *Section) NodeID() string { return s.ID }

// Box implements Node.
func (s *Section) Box() (*Point, *Size) { return s.Position, s.Size }

// IsRow reports whether children are laid out horizontally.
func (s *Section) IsRow() bool { return s.Kind == KindRow }

// Clone returns a deep copy of the section and its subtree.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	c := &Section{
		ID:         s.ID,
		Kind:       s.Kind,
		Directives: s.Directives.Clone(),
		Position:   clonePoint(s.Position),
		Size:       cloneSize(s.Size),
	}
	if s.Children != nil {
		c.Children = make([]Node, len(s.Children))
		for i, child := range s.Children {
			c.Children[i] = child.CloneNode()
		}
	}
	return c
}

// CloneNode implements Node.
func (s *Section) CloneNode() Node { return s.Clone() }

// ClearGeometry implements Node.
func (s *Section) ClearGeometry() {
	s.Position = nil
	s.Size = nil
	for _, child := range s.Children {
		child.ClearGeometry()
	}
}

// Elements returns the section's direct element children in order.
func (s *Section) Elements() []*Element {
	var out []*Element
	for _, child := range s.Children {
		if e, ok := child.(*Element); ok {
			out = append(out, e)
		}
	}
	return out
}

// Subsections returns the section's direct section children in order.
func (s *Section) Subsections() []*Section {
	var out []*Section
	for _, child := range s.Children {
		if sub, ok := child.(*Section); ok {
			out = append(out, sub)
		}
	}
	return out
}

// HasContent reports whether any element exists in the subtree.
func (s *Section) HasContent() bool {
	if s == nil {
		return false
	}
	for _, child := range s.Children {
		switch c := child.(type) {
		case *Element:
			return true
		case *Section:
			if c.HasContent() {
				return true
			}
		}
	}
	return false
}

// findSection returns the section with the given id within the subtree,
// or nil.
func findSection(root *Section, id string) *Section {
	if root == nil || id == "" {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, child := range root.Children {
		if sub, ok := child.(*Section); ok {
			if found := findSection(sub, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// pathToParent returns the chain of sections from root down to the parent
// of the node with the given id. Returns nil when the node is not present
// below root (the root itself has no parent).
func pathToParent(root *Section, id string) []*Section {
	if root == nil || id == "" {
		return nil
	}
	for _, child := range root.Children {
		if child.NodeID() == id {
			return []*Section{root}
		}
	}
	for _, child := range root.Children {
		if sub, ok := child.(*Section); ok {
			if path := pathToParent(sub, id); path != nil {
				return append([]*Section{root}, path...)
			}
		}
	}
	return nil
}

func clonePoint(p *Point) *Point {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneSize(s *Size) *Size {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
