package md2slides

// Typography holds the sizing constants for one text-bearing element kind.
type Typography struct {
	FontSize   float64
	LineHeight float64 // multiplier over FontSize
	Padding    float64 // vertical padding added to the wrapped text block
	MinHeight  float64
	FontFamily string
}

// lineHeightPt returns the absolute line height in points.
func (t Typography) lineHeightPt() float64 { return t.FontSize * t.LineHeight }

// MetricsConfig is the constants surface of the metrics library. All values
// are supplied at construction; nothing is discovered at runtime.
type MetricsConfig struct {
	Title    Typography
	Subtitle Typography
	Body     Typography
	Quote    Typography
	Footer   Typography
	Code     Typography

	// Heading font sizes by level (index 0 = h1). Levels beyond the slice
	// use the body size.
	HeadingSizes []float64

	// List constants.
	ListItemSpacing float64
	ListIndent      float64 // per nesting level
	ListBulletPad   float64 // space reserved for the bullet/number
	ListPadding     float64 // top and bottom of the whole list
	ListMinHeight   float64

	// Table constants.
	TableCellPadding   float64 // vertical padding inside a cell
	TableMinCellHeight float64
	TableEdgePadding   float64 // border/outer allowance
	TableMinHeight     float64

	// Code constants.
	CodeBlockPadding float64 // top and bottom of the block
	CodeInnerPadding float64 // left and right inside the block
	CodeLabelHeight  float64 // language label allowance
	CodeMinHeight    float64

	// Image constants.
	DefaultAspectRatio float64 // width/height when undetectable
	ImageHeightCap     float64 // fraction of available height images may use
	MinImageHeight     float64

	// FooterFixedHeight pins the footer box regardless of content.
	FooterFixedHeight float64

	// DefaultHeight is returned for unrecognized element kinds.
	DefaultHeight float64
}

// DefaultMetricsConfig returns the stock presentation typography.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Title:    Typography{FontSize: 24, LineHeight: 1.2, Padding: 5, MinHeight: 30},
		Subtitle: Typography{FontSize: 18, LineHeight: 1.2, Padding: 4, MinHeight: 25},
		Body:     Typography{FontSize: 14, LineHeight: 1.3, Padding: 3, MinHeight: 18},
		Quote:    Typography{FontSize: 14, LineHeight: 1.3, Padding: 8, MinHeight: 25},
		Footer:   Typography{FontSize: 10, LineHeight: 1.3, Padding: 3, MinHeight: 20},
		Code:     Typography{FontSize: 11, LineHeight: 1.45, Padding: 0, MinHeight: 40},

		HeadingSizes: []float64{24, 20, 18, 16, 14, 12},

		ListItemSpacing: 5,
		ListIndent:      20,
		ListBulletPad:   10,
		ListPadding:     10,
		ListMinHeight:   30,

		TableCellPadding:   5,
		TableMinCellHeight: 20,
		TableEdgePadding:   10,
		TableMinHeight:     40,

		CodeBlockPadding: 10,
		CodeInnerPadding: 8,
		CodeLabelHeight:  15,
		CodeMinHeight:    40,

		DefaultAspectRatio: 16.0 / 9.0,
		ImageHeightCap:     0.95,
		MinImageHeight:     20,

		FooterFixedHeight: 30,

		DefaultHeight: 80,
	}
}

// Metrics maps elements to intrinsic heights. Pure and deterministic:
// identical inputs always produce identical heights, and every kind has a
// configured minimum.
type Metrics struct {
	cfg      MetricsConfig
	measurer TextMeasurer
}

// NewMetrics builds a metrics library over the given constants and text
// measurer. A nil measurer selects the built-in character heuristic.
func NewMetrics(cfg MetricsConfig, measurer TextMeasurer) *Metrics {
	if measurer == nil {
		measurer = charMeasurer{}
	}
	return &Metrics{cfg: cfg, measurer: measurer}
}

// Config returns the constants the metrics were built with.
func (m *Metrics) Config() MetricsConfig { return m.cfg }

// ElementHeight returns the intrinsic height of an element at the given
// available width. availableHeight participates only in image scaling; pass
// zero when no vertical ceiling applies. Unknown kinds fall back to the
// configured default height.
func (m *Metrics) ElementHeight(e *Element, availableWidth, availableHeight float64) float64 {
	switch e.Kind {
	case ElementTitle, ElementSubtitle, ElementText, ElementQuote, ElementFooter:
		return m.textHeight(e, availableWidth)
	case ElementBulletList, ElementOrderedList:
		return m.listHeight(e, availableWidth)
	case ElementTable:
		return m.tableHeight(e, availableWidth)
	case ElementCode:
		return m.codeHeight(e, availableWidth)
	case ElementImage:
		_, h := m.ImageDisplaySize(e, availableWidth, availableHeight)
		return h
	}
	return m.cfg.DefaultHeight
}

// typography selects the constants for a text-bearing element, honoring a
// heading level and an explicit fontsize directive.
func (m *Metrics) typography(e *Element) Typography {
	var t Typography
	switch e.Kind {
	case ElementTitle:
		t = m.cfg.Title
	case ElementSubtitle:
		t = m.cfg.Subtitle
	case ElementQuote:
		t = m.cfg.Quote
	case ElementFooter:
		t = m.cfg.Footer
	default:
		t = m.cfg.Body
		if e.HeadingLevel > 0 && e.HeadingLevel <= len(m.cfg.HeadingSizes) {
			t.FontSize = m.cfg.HeadingSizes[e.HeadingLevel-1]
			t.LineHeight = m.cfg.Title.LineHeight
		}
	}
	if size, ok := e.Directives.Float(DirFontSize); ok && size > 0 {
		t.FontSize = size
		if min := size*1.5 + t.Padding; min > t.MinHeight {
			t.MinHeight = min
		}
	}
	if family := e.Directives.String(DirFontFamily); family != "" {
		t.FontFamily = family
	}
	if spacing, ok := e.Directives.Float(DirLineSpacing); ok && spacing > 0 {
		t.LineHeight = spacing
	}
	return t
}

// textHeight wraps the element text at the available width and converts the
// line count to points. Empty text still returns the kind's minimum.
func (m *Metrics) textHeight(e *Element, availableWidth float64) float64 {
	t := m.typography(e)

	if e.Kind == ElementFooter && m.cfg.FooterFixedHeight > 0 {
		return m.cfg.FooterFixedHeight
	}
	if e.Text == "" {
		return t.MinHeight
	}

	effectiveWidth := availableWidth - 4.0
	if effectiveWidth < minContentExtent {
		effectiveWidth = minContentExtent
	}
	lines := m.measurer.LineCount(e.Text, FontSpec{Size: t.FontSize, Family: t.FontFamily}, effectiveWidth)
	h := float64(lines)*t.lineHeightPt() + t.Padding
	if h < t.MinHeight {
		return t.MinHeight
	}
	return h
}

// listHeight sums per-item heights plus fixed spacing, recursing into
// nested items with an indentation-reduced width.
func (m *Metrics) listHeight(e *Element, availableWidth float64) float64 {
	if len(e.Items) == 0 {
		return m.cfg.Body.MinHeight
	}
	total := 0.0
	for _, item := range e.Items {
		total += m.listItemHeight(item, availableWidth, 0)
	}
	total -= m.cfg.ListItemSpacing // no spacing after the last item
	total += 2 * m.cfg.ListPadding
	if total < m.cfg.ListMinHeight {
		return m.cfg.ListMinHeight
	}
	return total
}

func (m *Metrics) listItemHeight(item ListItem, availableWidth float64, level int) float64 {
	indent := float64(level) * m.cfg.ListIndent
	textWidth := availableWidth - indent - m.cfg.ListBulletPad
	if textWidth < minContentExtent {
		textWidth = minContentExtent
	}
	t := m.cfg.Body
	lines := m.measurer.LineCount(item.Text, FontSpec{Size: t.FontSize, Family: t.FontFamily}, textWidth)
	h := float64(lines)*t.lineHeightPt() + m.cfg.ListItemSpacing
	for _, child := range item.Children {
		h += m.listItemHeight(child, availableWidth, level+1)
	}
	return h
}

// tableHeight is header height (when headers exist) plus per-row heights
// plus edge padding. Zero columns yields the minimum only.
func (m *Metrics) tableHeight(e *Element, availableWidth float64) float64 {
	cols := e.ColumnCount()
	if cols == 0 {
		return m.cfg.TableMinHeight
	}
	total := m.tableHeaderHeight(e, availableWidth)
	for _, row := range e.Rows {
		total += m.tableRowHeight(row, cols, availableWidth)
	}
	total += m.cfg.TableEdgePadding
	if total < m.cfg.TableMinHeight {
		return m.cfg.TableMinHeight
	}
	return total
}

// tableHeaderHeight returns the header row's height, zero when no headers.
func (m *Metrics) tableHeaderHeight(e *Element, availableWidth float64) float64 {
	if len(e.Headers) == 0 {
		return 0
	}
	return m.tableRowHeight(e.Headers, e.ColumnCount(), availableWidth)
}

func (m *Metrics) tableRowHeight(cells []string, cols int, availableWidth float64) float64 {
	cellWidth := (availableWidth - m.cfg.TableEdgePadding) / float64(cols)
	if cellWidth < minContentExtent {
		cellWidth = minContentExtent
	}
	t := m.cfg.Body
	maxCell := m.cfg.TableMinCellHeight
	for _, cell := range cells {
		lines := m.measurer.LineCount(cell, FontSpec{Size: t.FontSize, Family: t.FontFamily}, cellWidth)
		h := float64(lines)*t.lineHeightPt() + m.cfg.TableCellPadding
		if h > maxCell {
			maxCell = h
		}
	}
	return maxCell
}

// codeHeight counts wrapped monospace lines plus block padding and an
// optional language-label allowance.
func (m *Metrics) codeHeight(e *Element, availableWidth float64) float64 {
	if e.Code == "" {
		return m.cfg.CodeMinHeight
	}
	t := m.cfg.Code
	effectiveWidth := availableWidth - 2*m.cfg.CodeInnerPadding
	if effectiveWidth < minContentExtent {
		effectiveWidth = minContentExtent
	}
	lines := m.measurer.LineCount(e.Code, FontSpec{Size: t.FontSize, Mono: true}, effectiveWidth)
	h := float64(lines)*t.lineHeightPt() + 2*m.cfg.CodeBlockPadding
	if lang := e.Language; lang != "" && lang != "text" {
		h += m.cfg.CodeLabelHeight
	}
	if h < m.cfg.CodeMinHeight {
		return m.cfg.CodeMinHeight
	}
	return h
}
