package md2slides

import (
	"fmt"

	"go.uber.org/zap"
)

// OverflowHandler partitions an overflowing slide into a part that fits and
// a continuation slide carrying the rest. The continuation may itself
// overflow; the manager feeds it back through detection.
type OverflowHandler interface {
	Handle(slide *Slide, node Node, bodyBottom float64) (fitted, continuation *Slide, err error)
}

// StandardHandler implements the default partition rules:
//
//   - A splittable element at the boundary is divided at a content boundary
//     (line, item or row) within the remaining vertical budget; the part
//     that fits stays, the rest opens the continuation.
//   - An atomic or unsplittable element moves wholesale to the continuation
//     and is marked relocated so a second failed placement trips the
//     circuit breaker instead of looping.
//   - A row moves wholesale: its columns share one baseline, so a partial
//     row on either slide would break the visual alignment.
//   - A stacked section splits recursively at its first overflowing child.
//
// Everything placed on the continuation is a deep copy with cleared
// geometry; section height directives are dropped there so carried-over
// content reflows naturally.
type StandardHandler struct {
	metrics *Metrics
	builder *SlideBuilder
	log     *zap.Logger
}

var _ OverflowHandler = (*StandardHandler)(nil)

// NewStandardHandler returns the default overflow handler. A nil logger
// disables logging.
func NewStandardHandler(metrics *Metrics, builder *SlideBuilder, log *zap.Logger) *StandardHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &StandardHandler{metrics: metrics, builder: builder, log: log}
}

// Handle partitions the slide at the overflowing node. The returned fitted
// slide is a copy of the input with the tree truncated at the partition
// point; the continuation carries the remainder. A nil continuation means
// nothing had to move after all.
func (h *StandardHandler) Handle(slide *Slide, node Node, bodyBottom float64) (*Slide, *Slide, error) {
	if slide.Root == nil {
		return nil, nil, ErrNoRootSection
	}
	targetID := node.NodeID()
	if slide.Root.ID == targetID {
		return nil, nil, fmt.Errorf("%w: overflow node is the root section", ErrParentNotFound)
	}
	path := pathToParent(slide.Root, targetID)
	if path == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrParentNotFound, targetID)
	}

	// A node inside a row never splits alone: promote to the row so the
	// whole thing moves together.
	if parent := path[len(path)-1]; parent.IsRow() {
		if slide.Root.ID == parent.ID {
			return nil, nil, fmt.Errorf("%w: overflow row is the root section", ErrParentNotFound)
		}
		targetID = parent.ID
	}

	fittedRoot, overflowRoot := h.partition(slide.Root, targetID, bodyBottom)
	if overflowRoot == nil || !overflowRoot.HasContent() {
		return slide, nil, nil
	}
	stripHeightDirectives(overflowRoot)
	overflowRoot.ClearGeometry()

	fitted := slide.Clone()
	fitted.Root = fittedRoot
	cont := h.builder.Continuation(slide, overflowRoot)

	h.log.Debug("slide partitioned",
		zap.String("slide", slide.ID),
		zap.String("at", targetID),
		zap.String("continuation", cont.ID))
	return fitted, cont, nil
}

// partition splits the section at the target node. Children before the
// target stay, children after it move, and the target itself is divided by
// splitNode. Either returned tree may be nil when its side ends up empty.
// Both trees are deep copies of the input.
func (h *StandardHandler) partition(s *Section, targetID string, bodyBottom float64) (*Section, *Section) {
	fitted := sectionShell(s)
	overflow := sectionShell(s)
	crossed := false

	for _, child := range s.Children {
		if crossed {
			moved := child.CloneNode()
			moved.ClearGeometry()
			overflow.Children = append(overflow.Children, moved)
			continue
		}
		switch {
		case child.NodeID() == targetID:
			fittedPart, overflowPart := h.splitNode(child, bodyBottom)
			if fittedPart != nil {
				fitted.Children = append(fitted.Children, fittedPart)
			}
			if overflowPart != nil {
				overflow.Children = append(overflow.Children, overflowPart)
			}
			crossed = true
		default:
			if sub, ok := child.(*Section); ok && containsID(sub, targetID) {
				fs, os := h.partition(sub, targetID, bodyBottom)
				if fs != nil {
					fitted.Children = append(fitted.Children, fs)
				}
				if os != nil {
					overflow.Children = append(overflow.Children, os)
				}
				crossed = true
				continue
			}
			fitted.Children = append(fitted.Children, child.CloneNode())
		}
	}

	if len(fitted.Children) == 0 {
		fitted = nil
	}
	if len(overflow.Children) == 0 {
		overflow = nil
	}
	return fitted, overflow
}

// splitNode divides the boundary node itself. Either side may be nil.
func (h *StandardHandler) splitNode(n Node, bodyBottom float64) (Node, Node) {
	switch t := n.(type) {
	case *Element:
		return h.splitElementNode(t, bodyBottom)
	case *Section:
		if t.IsRow() {
			return nil, relocateSection(t)
		}
		inner := h.firstOverflowChild(t, bodyBottom)
		if inner == "" {
			return nil, relocateSection(t)
		}
		fs, os := h.partition(t, inner, bodyBottom)
		if fs == nil && os == nil {
			return nil, relocateSection(t)
		}
		return nilableNode(fs), nilableNode(os)
	}
	return nil, nil
}

// splitElementNode splits one element within the vertical budget left above
// the body bottom. Elements that cannot or should not split move wholesale.
func (h *StandardHandler) splitElementNode(e *Element, bodyBottom float64) (Node, Node) {
	if e.Relocated || e.Atomic() || e.Position == nil {
		return nil, relocateElement(e)
	}
	budget := bodyBottom - e.Position.Y - splitSafetyMargin
	if budget < minContentExtent {
		return nil, relocateElement(e)
	}
	fitted, overflow, err := h.metrics.SplitElement(e, budget)
	if err != nil || fitted == nil {
		return nil, relocateElement(e)
	}
	if overflow == nil {
		return fitted, nil
	}
	overflow.ClearGeometry()
	return fitted, overflow
}

// firstOverflowChild returns the id of the section's first child crossing
// the body bottom, or "" when geometry gives no answer.
func (h *StandardHandler) firstOverflowChild(s *Section, bodyBottom float64) string {
	limit := bodyBottom + overflowTolerance
	for _, child := range s.Children {
		pos, size := child.Box()
		if pos == nil || size == nil {
			continue
		}
		if pos.Y+size.H > limit {
			return child.NodeID()
		}
	}
	return ""
}

// sectionShell clones a section without its children.
func sectionShell(s *Section) *Section {
	return &Section{
		ID:         s.ID,
		Kind:       s.Kind,
		Directives: s.Directives.Clone(),
		Position:   clonePoint(s.Position),
		Size:       cloneSize(s.Size),
	}
}

// relocateElement clones an element for a wholesale move, clearing geometry
// and marking it so it is never moved a second time.
func relocateElement(e *Element) *Element {
	moved := e.Clone()
	moved.ClearGeometry()
	moved.Relocated = true
	return moved
}

// relocateSection clones a section for a wholesale move, marking every
// contained element relocated.
func relocateSection(s *Section) *Section {
	moved := s.Clone()
	moved.ClearGeometry()
	markRelocated(moved)
	return moved
}

func markRelocated(s *Section) {
	for _, child := range s.Children {
		switch t := child.(type) {
		case *Element:
			t.Relocated = true
		case *Section:
			markRelocated(t)
		}
	}
}

// containsID reports whether any node in the subtree (sections or elements,
// the root included) carries the id.
func containsID(s *Section, id string) bool {
	if s.ID == id {
		return true
	}
	for _, child := range s.Children {
		if child.NodeID() == id {
			return true
		}
		if sub, ok := child.(*Section); ok && containsID(sub, id) {
			return true
		}
	}
	return false
}

// stripHeightDirectives removes explicit section heights from a subtree so
// continuation content reflows to its natural size.
func stripHeightDirectives(s *Section) {
	delete(s.Directives, DirHeight)
	for _, child := range s.Children {
		if sub, ok := child.(*Section); ok {
			stripHeightDirectives(sub)
		}
	}
}

func nilableNode(s *Section) Node {
	if s == nil {
		return nil
	}
	return s
}
