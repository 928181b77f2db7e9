package md2slides

// ElementKind identifies the content variant of an element.
type ElementKind string

// Element kinds.
const (
	ElementTitle       ElementKind = "title"
	ElementSubtitle    ElementKind = "subtitle"
	ElementText        ElementKind = "text"
	ElementQuote       ElementKind = "quote"
	ElementFooter      ElementKind = "footer"
	ElementBulletList  ElementKind = "bullet_list"
	ElementOrderedList ElementKind = "ordered_list"
	ElementTable       ElementKind = "table"
	ElementCode        ElementKind = "code"
	ElementImage       ElementKind = "image"
)

// Alignment values for text and element placement.
type Alignment string

// Horizontal alignments.
const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// FormatType identifies an inline formatting span type.
type FormatType string

// Inline formatting types.
const (
	FormatBold   FormatType = "bold"
	FormatItalic FormatType = "italic"
	FormatCode   FormatType = "code"
	FormatLink   FormatType = "link"
	FormatStrike FormatType = "strikethrough"
)

// TextFormat marks an inline formatting span over [Start, End) of the text.
type TextFormat struct {
	Start int
	End   int
	Type  FormatType
	Value string // link target for FormatLink, empty otherwise
}

// ListItem is one entry of a list element, possibly nested.
type ListItem struct {
	Text       string
	Level      int
	Formatting []TextFormat
	Directives Directives
	Children   []ListItem
}

// Clone returns a deep copy of the item and its children.
func (it ListItem) Clone() ListItem {
	c := ListItem{
		Text:       it.Text,
		Level:      it.Level,
		Directives: it.Directives.Clone(),
	}
	if it.Formatting != nil {
		c.Formatting = make([]TextFormat, len(it.Formatting))
		copy(c.Formatting, it.Formatting)
	}
	if it.Children != nil {
		c.Children = make([]ListItem, len(it.Children))
		for i, child := range it.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Element is a content leaf of the section tree. The Kind tag selects
// which variant fields are meaningful; the rest stay zero.
//
// Geometry starts nil and is set exactly once by the position calculator;
// a nil position or size always means "not yet computed", never a default.
type Element struct {
	ID         string
	Kind       ElementKind
	Directives Directives
	Position   *Point
	Size       *Size

	// Relocated is set when overflow handling moves the element wholesale.
	// A relocated element that still overflows trips the circuit breaker
	// instead of being moved again.
	Relocated bool

	// Text variants (title, subtitle, text, quote, footer).
	Text         string
	HeadingLevel int
	Align        Alignment
	Formatting   []TextFormat

	// List variants.
	Items []ListItem

	// Table variant. RowDirectives is indexed parallel to Rows;
	// HeaderDirectives styles the header row and is duplicated together
	// with Headers when a table splits.
	Headers          []string
	Rows             [][]string
	RowDirectives    []Directives
	HeaderDirectives Directives

	// Code variant.
	Code     string
	Language string

	// Image variant. AspectRatio is width/height; zero means "detect from
	// the URL or fall back to the default ratio".
	URL         string
	AspectRatio float64
}

func (*Element) node() {}

// NodeID implements Node.
func (e *Element) NodeID() string { return e.ID }

// Box implements Node.
func (e *Element) Box() (*Point, *Size) { return e.Position, e.Size }

// IsList reports whether the element is a bullet or ordered list.
func (e *Element) IsList() bool {
	return e.Kind == ElementBulletList || e.Kind == ElementOrderedList
}

// IsTextual reports whether the element carries flowing text.
func (e *Element) IsTextual() bool {
	switch e.Kind {
	case ElementTitle, ElementSubtitle, ElementText, ElementQuote, ElementFooter:
		return true
	}
	return false
}

// Atomic reports whether the element must move wholesale on overflow.
// Images are never split: they are pre-scaled to fit their container.
func (e *Element) Atomic() bool {
	switch e.Kind {
	case ElementText, ElementQuote, ElementBulletList, ElementOrderedList,
		ElementTable, ElementCode:
		return false
	}
	return true
}

// Fill reports whether an image element is marked to occupy its whole
// container column.
func (e *Element) Fill() bool {
	return e.Kind == ElementImage && e.Directives.Bool("fill")
}

// ColumnCount returns the number of table columns.
func (e *Element) ColumnCount() int {
	if len(e.Headers) > 0 {
		return len(e.Headers)
	}
	max := 0
	for _, row := range e.Rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := &Element{
		ID:               e.ID,
		Kind:             e.Kind,
		Directives:       e.Directives.Clone(),
		Position:         clonePoint(e.Position),
		Size:             cloneSize(e.Size),
		Relocated:        e.Relocated,
		Text:             e.Text,
		HeadingLevel:     e.HeadingLevel,
		Align:            e.Align,
		Code:             e.Code,
		Language:         e.Language,
		URL:              e.URL,
		AspectRatio:      e.AspectRatio,
		HeaderDirectives: e.HeaderDirectives.Clone(),
	}
	if e.Formatting != nil {
		c.Formatting = make([]TextFormat, len(e.Formatting))
		copy(c.Formatting, e.Formatting)
	}
	if e.Items != nil {
		c.Items = make([]ListItem, len(e.Items))
		for i, it := range e.Items {
			c.Items[i] = it.Clone()
		}
	}
	if e.Headers != nil {
		c.Headers = append([]string(nil), e.Headers...)
	}
	if e.Rows != nil {
		c.Rows = make([][]string, len(e.Rows))
		for i, row := range e.Rows {
			c.Rows[i] = append([]string(nil), row...)
		}
	}
	if e.RowDirectives != nil {
		c.RowDirectives = make([]Directives, len(e.RowDirectives))
		for i, d := range e.RowDirectives {
			c.RowDirectives[i] = d.Clone()
		}
	}
	return c
}

// CloneNode implements Node.
func (e *Element) CloneNode() Node { return e.Clone() }

// ClearGeometry implements Node.
func (e *Element) ClearGeometry() {
	e.Position = nil
	e.Size = nil
}
