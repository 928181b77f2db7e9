package md2slides

import (
	"strings"

	"go.uber.org/zap"
)

// FillContextHandler handles overflow on slides where a row pins a
// full-column image next to flowing content. Splitting such a row apart
// from its text would strand the image, so the row is treated as visual
// context that must survive pagination:
//
//   - Overflow inside the context row moves the whole row (and everything
//     after it) to the continuation; the fill image is never split.
//   - Overflow outside the context row splits normally, then the context
//     row is duplicated onto the continuation so the pinned image reappears
//     beside the continued content.
//   - Slides without a context row fall through to the standard handler.
type FillContextHandler struct {
	std *StandardHandler
	log *zap.Logger
}

var _ OverflowHandler = (*FillContextHandler)(nil)

// NewFillContextHandler wraps the standard handler with pinned-image
// awareness. A nil logger disables logging.
func NewFillContextHandler(std *StandardHandler, log *zap.Logger) *FillContextHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &FillContextHandler{std: std, log: log}
}

// Handle implements OverflowHandler.
func (h *FillContextHandler) Handle(slide *Slide, node Node, bodyBottom float64) (*Slide, *Slide, error) {
	if slide.Root == nil {
		return nil, nil, ErrNoRootSection
	}
	row := contextRowFor(slide.Root, node.NodeID())
	if row == nil {
		return h.std.Handle(slide, node, bodyBottom)
	}

	if row.ID == node.NodeID() || containsID(row, node.NodeID()) {
		// The pinned row itself overflows: move it wholesale, together
		// with everything after it.
		h.log.Debug("context row moved wholesale",
			zap.String("slide", slide.ID),
			zap.String("row", row.ID))
		fitted, cont, err := h.std.Handle(slide, row, bodyBottom)
		h.carryContext(slide, cont)
		return fitted, cont, err
	}

	fitted, cont, err := h.std.Handle(slide, node, bodyBottom)
	if err != nil || cont == nil {
		return fitted, cont, err
	}

	// Re-pin the image context beside the continued content.
	dup := row.Clone()
	dup.ClearGeometry()
	if cont.Root == nil {
		cont.Root = &Section{ID: dup.ID + "_ctx", Kind: KindSection}
	}
	cont.Root.Children = append([]Node{dup}, cont.Root.Children...)
	h.carryContext(slide, cont)

	h.log.Debug("context row duplicated onto continuation",
		zap.String("slide", slide.ID),
		zap.String("row", row.ID),
		zap.String("continuation", cont.ID))
	return fitted, cont, nil
}

// carryContext records the origin's heading on the continuation so later
// passes know which pinned context the slide belongs to.
func (h *FillContextHandler) carryContext(origin, cont *Slide) {
	if cont == nil || cont.ContextTitle != "" {
		return
	}
	if origin.ContextTitle != "" {
		cont.ContextTitle = origin.ContextTitle
		return
	}
	if origin.Title != nil {
		cont.ContextTitle = strings.TrimSpace(continuedTitleRe.ReplaceAllString(origin.Title.Text, ""))
	}
}

// contextRowFor finds the row pinning a fill image that governs the node:
// the deepest such row on the node's ancestor path, or failing that the
// first one anywhere in the tree. Returns nil when the slide has none.
func contextRowFor(root *Section, nodeID string) *Section {
	if path := pathToParent(root, nodeID); path != nil {
		for i := len(path) - 1; i >= 0; i-- {
			if path[i].IsRow() && hasFillImage(path[i]) {
				return path[i]
			}
		}
	}
	return firstFillRow(root)
}

func firstFillRow(s *Section) *Section {
	if s == nil {
		return nil
	}
	if s.IsRow() && hasFillImage(s) {
		return s
	}
	for _, child := range s.Children {
		if sub, ok := child.(*Section); ok {
			if row := firstFillRow(sub); row != nil {
				return row
			}
		}
	}
	return nil
}

// hasFillImage reports whether the subtree contains an image marked fill.
func hasFillImage(s *Section) bool {
	for _, child := range s.Children {
		switch t := child.(type) {
		case *Element:
			if t.Fill() {
				return true
			}
		case *Section:
			if hasFillImage(t) {
				return true
			}
		}
	}
	return false
}

// HasFillContext reports whether the slide carries a pinned-image row and
// should be routed through the fill-context handler.
func HasFillContext(slide *Slide) bool {
	return slide != nil && slide.Root != nil && firstFillRow(slide.Root) != nil
}
