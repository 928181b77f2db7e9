package md2slides

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestFillHandler(t *testing.T) (*Calculator, *FillContextHandler) {
	t.Helper()
	calc, std := newTestHandler(t)
	return calc, NewFillContextHandler(std, zaptest.NewLogger(t))
}

// fillRow builds a row pinning a fill image beside a column of content.
func fillRow(id string, content ...Node) *Section {
	img := &Element{
		ID:         id + "_img",
		Kind:       ElementImage,
		URL:        "pin_400x600.png",
		Directives: Directives{DirFill: true},
	}
	return &Section{ID: id, Kind: KindRow, Children: []Node{
		&Section{ID: id + "_imgcol", Kind: KindColumn, Children: []Node{img}},
		&Section{ID: id + "_body", Kind: KindColumn, Children: content},
	}}
}

func TestHasFillContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		slide *Slide
		want  bool
	}{
		{name: "nil slide", slide: nil, want: false},
		{name: "no root", slide: &Slide{ID: "s"}, want: false},
		{
			name: "plain content",
			slide: &Slide{ID: "s", Root: &Section{ID: "root", Kind: KindSection, Children: []Node{
				&Element{ID: "e", Kind: ElementText, Text: "x"},
			}}},
			want: false,
		},
		{
			name: "row without fill image",
			slide: &Slide{ID: "s", Root: &Section{ID: "root", Kind: KindSection, Children: []Node{
				&Section{ID: "row", Kind: KindRow, Children: []Node{
					&Element{ID: "img", Kind: ElementImage, URL: "x.png"},
				}},
			}}},
			want: false,
		},
		{
			name: "pinned row",
			slide: &Slide{ID: "s", Root: &Section{ID: "root", Kind: KindSection, Children: []Node{
				fillRow("row", &Element{ID: "e", Kind: ElementText, Text: "x"}),
			}}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := HasFillContext(tt.slide); got != tt.want {
				t.Errorf("HasFillContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFillHandlerFallsThroughWithoutContextRow(t *testing.T) {
	t.Parallel()

	calc, h := newTestFillHandler(t)
	spacer := &Element{ID: "spacer", Kind: ElementText, Text: "x", Directives: Directives{DirHeight: 200.0}}
	tall := tallText("tall", 40)
	slide := &Slide{ID: "s", Root: &Section{
		ID: "root", Kind: KindSection, Children: []Node{spacer, tall},
	}}
	calc.Layout(slide)

	fitted, cont, err := h.Handle(slide, tall, bodyBottomFor(calc, slide))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if cont == nil {
		t.Fatal("Handle() continuation = nil, want a standard split")
	}
	// Standard behavior: the element splits rather than moving wholesale.
	var fittedTall *Element
	for _, e := range fitted.Root.Elements() {
		if e.ID == "tall" {
			fittedTall = e
		}
	}
	if fittedTall == nil {
		t.Error("split part missing from the fitted slide")
	}
}

func TestFillHandlerMovesOverflowingContextRowWholesale(t *testing.T) {
	t.Parallel()

	calc, h := newTestFillHandler(t)
	tall := tallText("tall", 40)
	row := fillRow("row", tall)
	slide := &Slide{
		ID:    "s",
		Title: &Element{ID: "t", Kind: ElementTitle, Text: "Gallery"},
		Root: &Section{ID: "root", Kind: KindSection, Children: []Node{
			&Element{ID: "lead", Kind: ElementText, Text: "intro"},
			row,
		}},
	}
	calc.Layout(slide)

	fitted, cont, err := h.Handle(slide, tall, bodyBottomFor(calc, slide))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if cont == nil {
		t.Fatal("Handle() continuation = nil, want the row moved")
	}

	if findSection(fitted.Root, "row") != nil {
		t.Error("pinned row partially left behind on the fitted slide")
	}
	moved := findSection(cont.Root, "row")
	if moved == nil {
		t.Fatal("pinned row missing from the continuation")
	}
	var hasImage bool
	for _, e := range allElements(moved) {
		if e.Kind == ElementImage {
			hasImage = true
		}
	}
	if !hasImage {
		t.Error("fill image separated from its row")
	}
	if cont.ContextTitle != "Gallery" {
		t.Errorf("ContextTitle = %q, want the origin heading", cont.ContextTitle)
	}
}

func TestFillHandlerDuplicatesContextRowOnContinuation(t *testing.T) {
	t.Parallel()

	calc, h := newTestFillHandler(t)
	// The pinned row fits at the top; a tall text below it overflows.
	short := &Element{ID: "short", Kind: ElementText, Text: "caption"}
	row := fillRow("row", short)
	row.Directives = Directives{DirHeight: 150.0}
	tall := tallText("tall", 40)
	slide := &Slide{ID: "s", Root: &Section{
		ID: "root", Kind: KindSection, Children: []Node{row, tall},
	}}
	calc.Layout(slide)

	fitted, cont, err := h.Handle(slide, tall, bodyBottomFor(calc, slide))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if cont == nil {
		t.Fatal("Handle() continuation = nil, want a split with duplicated context")
	}

	// Fitted side keeps the row and the split text part.
	if findSection(fitted.Root, "row") == nil {
		t.Error("pinned row missing from the fitted slide")
	}
	// The continuation leads with a copy of the pinned row.
	if len(cont.Root.Children) < 2 {
		t.Fatalf("continuation root has %d children, want the context row plus the remainder", len(cont.Root.Children))
	}
	first, ok := cont.Root.Children[0].(*Section)
	if !ok || !first.IsRow() || !hasFillImage(first) {
		t.Errorf("continuation does not lead with the pinned row, got %T", cont.Root.Children[0])
	}
	if first.Position != nil || first.Size != nil {
		t.Error("duplicated row should have cleared geometry")
	}
}

func TestCarryContextPrefersExistingContext(t *testing.T) {
	t.Parallel()

	_, h := newTestFillHandler(t)

	origin := &Slide{
		ID:           "s",
		ContextTitle: "Chapter One",
		Title:        &Element{ID: "t", Kind: ElementTitle, Text: "Chapter One (continued)"},
	}
	cont := &Slide{ID: "c"}
	h.carryContext(origin, cont)
	if cont.ContextTitle != "Chapter One" {
		t.Errorf("ContextTitle = %q, want the origin context carried verbatim", cont.ContextTitle)
	}

	// Without an explicit context the decorated title is stripped.
	cont2 := &Slide{ID: "c2"}
	h.carryContext(&Slide{
		ID:    "s2",
		Title: &Element{ID: "t", Kind: ElementTitle, Text: "Results (continued) (3)"},
	}, cont2)
	if cont2.ContextTitle != "Results" {
		t.Errorf("ContextTitle = %q, want %q", cont2.ContextTitle, "Results")
	}
}
