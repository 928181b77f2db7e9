package md2slides

import "fmt"

// Default slide geometry in points (16:9 deck).
const (
	DefaultSlideWidth  = 720.0
	DefaultSlideHeight = 405.0
	DefaultMargin      = 50.0
)

// Spacing constants in points.
const (
	verticalSpacing    = 10.0
	horizontalSpacing  = 10.0
	headerBodySpacing  = 10.0
	splitSafetyMargin  = 5.0
	overflowTolerance  = 0.5
	defaultSectionPad  = 0.0
	minSectionHeight   = 20.0
	minEmptySectionW   = 50.0
	minContentExtent   = 10.0
)

// Pagination safety limits.
const (
	// MaxContinuations caps continuation slides created for one source slide.
	MaxContinuations = 20

	// MaxIterations caps overflow processing rounds for one source slide.
	MaxIterations = 100
)

// maxObjectIDLen bounds generated slide identifiers; longer base ids are
// truncated, preferring a cut at the continuation marker.
const maxObjectIDLen = 50

// Point is an absolute position in slide coordinates (points, origin top-left).
type Point struct {
	X float64
	Y float64
}

// Size is a width/height extent in points.
type Size struct {
	W float64
	H float64
}

// Margins are the four slide margins in points.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Geometry is the slide coordinate system supplied at construction.
type Geometry struct {
	SlideWidth  float64
	SlideHeight float64
	Margins     Margins
}

// DefaultGeometry returns the standard 720x405pt deck with 50pt margins.
func DefaultGeometry() Geometry {
	return Geometry{
		SlideWidth:  DefaultSlideWidth,
		SlideHeight: DefaultSlideHeight,
		Margins:     Margins{Top: DefaultMargin, Right: DefaultMargin, Bottom: DefaultMargin, Left: DefaultMargin},
	}
}

// Validate checks that the geometry leaves usable content space.
func (g Geometry) Validate() error {
	if g.SlideWidth <= 0 || g.SlideHeight <= 0 {
		return fmt.Errorf("%w: %.1fx%.1f", ErrInvalidSlideSize, g.SlideWidth, g.SlideHeight)
	}
	if g.Margins.Top < 0 || g.Margins.Right < 0 || g.Margins.Bottom < 0 || g.Margins.Left < 0 {
		return fmt.Errorf("%w: negative margin", ErrInvalidMargins)
	}
	if g.Margins.Left+g.Margins.Right >= g.SlideWidth {
		return fmt.Errorf("%w: horizontal margins exceed slide width", ErrInvalidMargins)
	}
	if g.Margins.Top+g.Margins.Bottom >= g.SlideHeight {
		return fmt.Errorf("%w: vertical margins exceed slide height", ErrInvalidMargins)
	}
	return nil
}

// ContentWidth returns the horizontal space inside the margins.
func (g Geometry) ContentWidth() float64 {
	return g.SlideWidth - g.Margins.Left - g.Margins.Right
}

// ContentHeight returns the vertical space inside the margins.
func (g Geometry) ContentHeight() float64 {
	return g.SlideHeight - g.Margins.Top - g.Margins.Bottom
}

// LayoutKind identifies the slide layout shell.
type LayoutKind string

// Layout kinds.
const (
	LayoutBlank        LayoutKind = "blank"
	LayoutTitleAndBody LayoutKind = "title_and_body"
	LayoutTitleOnly    LayoutKind = "title_only"
)

// Slide is the top-level unit of the deck.
//
// A slide starts life with an un-finalized section tree in Root. Layout
// assigns geometry in place; overflow handling may rewrite the tree and
// produce sibling continuation slides. Finalization clears Root and fills
// Renderables with the ordered, positioned element list consumed by the
// request generator.
type Slide struct {
	ID     string
	Layout LayoutKind

	Title    *Element
	Subtitle *Element
	Footer   *Element

	Background Directives
	Notes      string

	Root        *Section
	Renderables []*Element

	IsContinuation bool

	// ContextTitle carries the pinned-image context heading across
	// continuation slides produced by the fill-context handler.
	ContextTitle string
}

// Finalized reports whether the slide's tree has been flattened.
func (s *Slide) Finalized() bool {
	return s.Root == nil && len(s.Renderables) > 0
}

// Clone returns a deep copy sharing no mutable state with the original.
func (s *Slide) Clone() *Slide {
	if s == nil {
		return nil
	}
	c := &Slide{
		ID:             s.ID,
		Layout:         s.Layout,
		Title:          s.Title.Clone(),
		Subtitle:       s.Subtitle.Clone(),
		Footer:         s.Footer.Clone(),
		Background:     s.Background.Clone(),
		Notes:          s.Notes,
		Root:           s.Root.Clone(),
		IsContinuation: s.IsContinuation,
		ContextTitle:   s.ContextTitle,
	}
	if s.Renderables != nil {
		c.Renderables = make([]*Element, len(s.Renderables))
		for i, e := range s.Renderables {
			c.Renderables[i] = e.Clone()
		}
	}
	return c
}

// BodyElements returns the slide's non-meta renderable elements.
func (s *Slide) BodyElements() []*Element {
	var out []*Element
	for _, e := range s.Renderables {
		switch e.Kind {
		case ElementTitle, ElementSubtitle, ElementFooter:
		default:
			out = append(out, e)
		}
	}
	return out
}

// Deck is the finalized output of a conversion.
type Deck struct {
	Slides []*Slide
}
