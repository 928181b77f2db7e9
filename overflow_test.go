package md2slides

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestDetector(t *testing.T) (*Calculator, *Detector) {
	t.Helper()
	calc := newTestCalculator(t)
	return calc, NewDetector(calc, zaptest.NewLogger(t))
}

// tallText returns a text element measuring roughly n body lines.
func tallText(id string, lines int) *Element {
	return &Element{
		ID:   id,
		Kind: ElementText,
		Text: strings.TrimSuffix(strings.Repeat("line\n", lines), "\n"),
	}
}

func TestDetectorNoOverflow(t *testing.T) {
	t.Parallel()

	calc, det := newTestDetector(t)
	slide := &Slide{ID: "s", Root: &Section{
		ID: "root", Kind: KindSection, Children: []Node{
			&Element{ID: "e", Kind: ElementText, Text: "fits easily"},
		},
	}}
	calc.Layout(slide)

	if node := det.FirstOverflow(slide); node != nil {
		t.Errorf("FirstOverflow() = %v, want nil for a fitting slide", node.NodeID())
	}
	if det.HasOverflow(slide) {
		t.Error("HasOverflow() = true, want false")
	}
}

func TestDetectorNilCases(t *testing.T) {
	t.Parallel()

	_, det := newTestDetector(t)
	if det.FirstOverflow(nil) != nil {
		t.Error("FirstOverflow(nil) should be nil")
	}
	if det.FirstOverflow(&Slide{ID: "finalized"}) != nil {
		t.Error("FirstOverflow of a rootless slide should be nil")
	}
}

func TestDetectorFindsOverflowingElement(t *testing.T) {
	t.Parallel()

	calc, det := newTestDetector(t)
	small := &Element{ID: "small", Kind: ElementText, Text: "ok"}
	big := tallText("big", 40)
	slide := &Slide{ID: "s", Root: &Section{
		ID: "root", Kind: KindSection, Children: []Node{small, big},
	}}
	calc.Layout(slide)

	node := det.FirstOverflow(slide)
	if node == nil {
		t.Fatal("FirstOverflow() = nil, want the tall element")
	}
	if node.NodeID() != "big" {
		t.Errorf("FirstOverflow() = %s, want big", node.NodeID())
	}
}

func TestDetectorReportsAncestorFirst(t *testing.T) {
	t.Parallel()

	calc, det := newTestDetector(t)
	inner := tallText("inner", 40)
	sub := &Section{ID: "sub", Kind: KindSection, Children: []Node{inner}}
	slide := &Slide{ID: "s", Root: &Section{
		ID: "root", Kind: KindSection, Children: []Node{
			&Element{ID: "lead", Kind: ElementText, Text: "x"},
			sub,
		},
	}}
	calc.Layout(slide)

	node := det.FirstOverflow(slide)
	if node == nil {
		t.Fatal("FirstOverflow() = nil, want the overflowing subtree")
	}
	if node.NodeID() != "sub" {
		t.Errorf("FirstOverflow() = %s, want the enclosing section before its children", node.NodeID())
	}
}

func TestDetectorFixedHeightSectionClipsInterior(t *testing.T) {
	t.Parallel()

	calc, det := newTestDetector(t)
	// The section itself fits thanks to its height directive, but its
	// content would not. The interior is clipped, not overflowing.
	inner := tallText("inner", 40)
	slide := &Slide{ID: "s", Root: &Section{
		ID: "root", Kind: KindSection, Children: []Node{
			&Section{
				ID:         "clipped",
				Kind:       KindSection,
				Directives: Directives{DirHeight: 200.0},
				Children:   []Node{inner},
			},
		},
	}}
	calc.Layout(slide)

	if node := det.FirstOverflow(slide); node != nil {
		t.Errorf("FirstOverflow() = %s, want nil for a clipped fixed-height section", node.NodeID())
	}
}

func TestDetectorSkipsNodesWithoutGeometry(t *testing.T) {
	t.Parallel()

	_, det := newTestDetector(t)
	slide := &Slide{ID: "s", Root: &Section{
		ID: "root", Kind: KindSection, Children: []Node{
			&Element{ID: "unpositioned", Kind: ElementText, Text: "x"},
		},
	}}
	// Deliberately not laid out.
	if node := det.FirstOverflow(slide); node != nil {
		t.Errorf("FirstOverflow() = %v, want nil when geometry is absent", node.NodeID())
	}
}
