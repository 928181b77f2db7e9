package md2slides

import (
	"go.uber.org/zap"
)

// rect is an (x, y, width, height) area in slide coordinates.
type rect struct {
	x, y, w, h float64
}

// Calculator assigns positions and sizes to every node of a slide using a
// two-pass algorithm: meta elements (title, subtitle, footer) first, then
// the body section tree inside the remaining area. Pass 1 computes
// intrinsic sizes bottom-up; pass 2 assigns positions top-down. The split
// avoids the circular dependency between parent sizing and child sizing.
type Calculator struct {
	geo     Geometry
	metrics *Metrics
	log     *zap.Logger
}

// NewCalculator builds a position calculator. A nil logger disables logging.
func NewCalculator(geo Geometry, metrics *Metrics, log *zap.Logger) *Calculator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Calculator{geo: geo, metrics: metrics, log: log}
}

// Layout positions every element and section of the slide in place and
// returns it. Safe to call repeatedly: geometry is recomputed from scratch
// each time.
func (c *Calculator) Layout(slide *Slide) *Slide {
	contentWidth := c.geo.ContentWidth()
	left := c.geo.Margins.Left

	// Pass over meta elements: title, then subtitle beneath it, both
	// spanning the content width; footer against the bottom margin.
	y := c.geo.Margins.Top
	headerHeight := 0.0
	if slide.Title != nil {
		h := c.metrics.ElementHeight(slide.Title, contentWidth, 0)
		slide.Title.Position = &Point{X: left, Y: y}
		slide.Title.Size = &Size{W: contentWidth, H: h}
		y += h
		headerHeight += h
	}
	if slide.Subtitle != nil {
		h := c.metrics.ElementHeight(slide.Subtitle, contentWidth, 0)
		slide.Subtitle.Position = &Point{X: left, Y: y}
		slide.Subtitle.Size = &Size{W: contentWidth, H: h}
		headerHeight += h
	}
	footerHeight := 0.0
	if slide.Footer != nil {
		h := c.metrics.ElementHeight(slide.Footer, contentWidth, 0)
		slide.Footer.Position = &Point{X: left, Y: c.geo.SlideHeight - c.geo.Margins.Bottom - h}
		slide.Footer.Size = &Size{W: contentWidth, H: h}
		footerHeight = h
	}

	bodyTop := c.geo.Margins.Top + headerHeight
	if headerHeight > 0 {
		bodyTop += headerBodySpacing
	}
	bodyHeight := c.geo.SlideHeight - c.geo.Margins.Bottom - footerHeight - bodyTop

	if slide.Root != nil {
		c.layoutTree(slide.Root, rect{x: left, y: bodyTop, w: contentWidth, h: bodyHeight})
	}

	c.log.Debug("slide laid out",
		zap.String("slide", slide.ID),
		zap.Float64("body_top", bodyTop),
		zap.Float64("body_height", bodyHeight))
	return slide
}

// BodyZone returns the vertical body boundaries for a laid-out slide: the
// top edge below the header block and the bottom edge above the footer.
func (c *Calculator) BodyZone(slide *Slide) (top, bottom float64) {
	top = c.geo.Margins.Top
	if slide.Title != nil && slide.Title.Position != nil && slide.Title.Size != nil {
		top = slide.Title.Position.Y + slide.Title.Size.H + headerBodySpacing
	}
	if slide.Subtitle != nil && slide.Subtitle.Position != nil && slide.Subtitle.Size != nil {
		if b := slide.Subtitle.Position.Y + slide.Subtitle.Size.H + headerBodySpacing; b > top {
			top = b
		}
	}
	bottom = c.geo.SlideHeight - c.geo.Margins.Bottom
	if slide.Footer != nil && slide.Footer.Position != nil {
		bottom = slide.Footer.Position.Y
	}
	return top, bottom
}

// layoutTree runs both passes over a section tree within the given area.
func (c *Calculator) layoutTree(root *Section, area rect) {
	w, h := c.intrinsicSize(root, area.w, area.h)
	root.Position = &Point{X: area.x, Y: area.y}
	root.Size = &Size{W: w, H: h}
	c.assignPositions(root)
}

// intrinsicSize is pass 1: the bottom-up natural size of a section given
// the available extent. Children sizes are assigned as a side effect.
func (c *Calculator) intrinsicSize(s *Section, availWidth, availHeight float64) (float64, float64) {
	if len(s.Children) == 0 {
		w := resolveDimension(s.Directives[DirWidth], availWidth, minEmptySectionW)
		h := resolveDimension(s.Directives[DirHeight], availHeight, minSectionHeight)
		return w, h
	}

	padding := c.sectionPadding(s)
	contentWidth := availWidth - 2*padding
	if contentWidth < minContentExtent {
		contentWidth = minContentExtent
	}
	contentHeight := availHeight - 2*padding
	if contentHeight < minContentExtent {
		contentHeight = minContentExtent
	}

	if s.IsRow() {
		return c.intrinsicRowSize(s, contentWidth, contentHeight, padding)
	}
	return c.intrinsicStackSize(s, contentWidth, contentHeight, padding)
}

// intrinsicStackSize sizes a vertically stacked section: the sum of child
// heights plus gaps, bounded by explicit size directives.
func (c *Calculator) intrinsicStackSize(s *Section, contentWidth, contentHeight, padding float64) (float64, float64) {
	gap := c.gap(s, verticalSpacing)
	totalHeight := 0.0
	maxChildWidth := 0.0

	for i, child := range s.Children {
		var w, h float64
		switch n := child.(type) {
		case *Section:
			w, h = c.intrinsicSize(n, contentWidth, contentHeight)
			n.Size = &Size{W: w, H: h}
		case *Element:
			w, h = c.sizeElement(n, contentWidth, contentHeight)
		}
		totalHeight += h
		if w > maxChildWidth {
			maxChildWidth = w
		}
		if i < len(s.Children)-1 {
			totalHeight += gap
		}
	}

	// Explicit size directives win over the computed bounding box.
	finalW := resolveDimension(s.Directives[DirWidth], contentWidth, maxChildWidth)
	finalH := resolveDimension(s.Directives[DirHeight], contentHeight, totalHeight)
	return finalW + 2*padding, finalH + 2*padding
}

// intrinsicRowSize sizes a row: width distributed across child sections per
// the explicit/implicit width directives, height the max child height.
func (c *Calculator) intrinsicRowSize(s *Section, contentWidth, contentHeight, padding float64) (float64, float64) {
	gap := c.gap(s, horizontalSpacing)
	subsections := s.Subsections()
	colWidths := distributeExtent(subsections, contentWidth, gap)

	totalWidth := 0.0
	maxChildHeight := 0.0
	colIdx := 0
	for i, child := range s.Children {
		var w, h float64
		switch n := child.(type) {
		case *Section:
			w = colWidths[colIdx]
			colIdx++
			_, h = c.intrinsicSize(n, w, contentHeight)
			n.Size = &Size{W: w, H: h}
		case *Element:
			w, h = c.sizeElement(n, contentWidth, contentHeight)
		}
		totalWidth += w
		if h > maxChildHeight {
			maxChildHeight = h
		}
		if i < len(s.Children)-1 {
			totalWidth += gap
		}
	}

	finalW := resolveDimension(s.Directives[DirWidth], contentWidth, totalWidth)
	finalH := resolveDimension(s.Directives[DirHeight], contentHeight, maxChildHeight)
	return finalW + 2*padding, finalH + 2*padding
}

// sizeElement computes and stores an element's size. Explicit zero-area
// directives suppress the element verbatim; a fill image stretches to the
// full container extent.
func (c *Calculator) sizeElement(e *Element, availWidth, availHeight float64) (float64, float64) {
	if explicitZeroArea(e) {
		e.Size = &Size{W: 0, H: 0}
		return 0, 0
	}
	if e.Fill() {
		e.Size = &Size{W: availWidth, H: availHeight}
		return availWidth, availHeight
	}

	w := resolveDimension(e.Directives[DirWidth], availWidth, availWidth)
	h := c.metrics.ElementHeight(e, w, availHeight)
	if v, ok := e.Directives[DirHeight]; ok && e.Kind != ElementImage {
		// Image directives are already folded into ImageDisplaySize.
		h = resolveDimension(v, availHeight, h)
	}
	e.Size = &Size{W: w, H: h}
	return w, h
}

// explicitZeroArea reports a deliberate zero-size element: both dimension
// directives present and zero, or a pre-set zero size.
func explicitZeroArea(e *Element) bool {
	if e.Size != nil && e.Size.W == 0 && e.Size.H == 0 {
		return true
	}
	w, wok := e.Directives.Float(DirWidth)
	h, hok := e.Directives.Float(DirHeight)
	return wok && hok && w == 0 && h == 0
}

// assignPositions is pass 2: place children inside the section's content
// area using the sizes from pass 1, then recurse.
func (c *Calculator) assignPositions(s *Section) {
	if len(s.Children) == 0 || s.Position == nil || s.Size == nil {
		return
	}
	padding := c.sectionPadding(s)
	area := rect{
		x: s.Position.X + padding,
		y: s.Position.Y + padding,
		w: s.Size.W - 2*padding,
		h: s.Size.H - 2*padding,
	}
	if area.w < minContentExtent {
		area.w = minContentExtent
	}
	if area.h < minContentExtent {
		area.h = minContentExtent
	}

	if s.IsRow() {
		c.placeRowChildren(s, area)
	} else {
		c.placeStackChildren(s, area)
	}

	for _, child := range s.Children {
		switch n := child.(type) {
		case *Section:
			c.assignPositions(n)
		case *Element:
			applyInherited(s, n)
		}
	}
}

// placeStackChildren stacks children top to bottom, honoring valign and
// per-child horizontal alignment.
func (c *Calculator) placeStackChildren(s *Section, area rect) {
	gap := c.gap(s, verticalSpacing)

	totalHeight := 0.0
	n := 0
	for _, child := range s.Children {
		if _, size := child.Box(); size != nil {
			totalHeight += size.H
			n++
		}
	}
	if n > 1 {
		totalHeight += gap * float64(n-1)
	}

	y := area.y
	switch s.Directives.String(DirVAlign) {
	case "middle":
		if totalHeight < area.h {
			y += (area.h - totalHeight) / 2
		}
	case "bottom":
		if totalHeight < area.h {
			y += area.h - totalHeight
		}
	}

	for _, child := range s.Children {
		_, size := child.Box()
		if size == nil {
			continue
		}
		x := alignChildX(child, area.x, area.w, size.W)
		setPosition(child, x, y)
		y += size.H + gap
	}
}

// placeRowChildren places children left to right with gap spacing, each
// receiving the full row content height.
func (c *Calculator) placeRowChildren(s *Section, area rect) {
	gap := c.gap(s, horizontalSpacing)
	x := area.x
	for _, child := range s.Children {
		_, size := child.Box()
		if size == nil {
			continue
		}
		setPosition(child, x, area.y)
		x += size.W + gap
	}
}

func setPosition(n Node, x, y float64) {
	switch node := n.(type) {
	case *Section:
		node.Position = &Point{X: x, Y: y}
	case *Element:
		node.Position = &Point{X: x, Y: y}
	}
}

// alignChildX resolves a child's x position from its align directive.
func alignChildX(n Node, left, width, childWidth float64) float64 {
	align := AlignLeft
	if e, ok := n.(*Element); ok {
		if a := e.Directives.String(DirAlign); a != "" {
			align = Alignment(a)
		} else if e.Align != "" {
			align = e.Align
		}
	} else if s, ok := n.(*Section); ok {
		if a := s.Directives.String(DirAlign); a != "" {
			align = Alignment(a)
		}
	}
	switch align {
	case AlignCenter:
		return left + (width-childWidth)/2
	case AlignRight:
		return left + width - childWidth
	}
	return left
}

func (c *Calculator) sectionPadding(s *Section) float64 {
	if v, ok := s.Directives.Float(DirPadding); ok && v >= 0 {
		return v
	}
	return defaultSectionPad
}

func (c *Calculator) gap(s *Section, fallback float64) float64 {
	if v, ok := s.Directives.Float(DirGap); ok && v >= 0 {
		return v
	}
	return fallback
}

// distributeExtent divides an extent across sections: explicit dimension
// directives are honored first (proportionally scaled down when
// over-subscribed), then the remainder is split evenly among sections
// without one. The returned widths plus gaps always sum to the extent
// unless over-subscription forced clamping.
func distributeExtent(sections []*Section, extent, gap float64) []float64 {
	n := len(sections)
	if n == 0 {
		return nil
	}
	usable := extent - gap*float64(n-1)
	if usable < 0 {
		usable = 0
	}

	widths := make([]float64, n)
	var specified, unspecified []int
	specifiedTotal := 0.0

	for i, s := range sections {
		if hasDimension(s.Directives, DirWidth) {
			widths[i] = resolveDimension(s.Directives[DirWidth], usable, 0)
			specifiedTotal += widths[i]
			specified = append(specified, i)
		} else {
			unspecified = append(unspecified, i)
		}
	}

	if specifiedTotal > usable && specifiedTotal > 0 {
		scale := usable / specifiedTotal
		for _, i := range specified {
			widths[i] *= scale
		}
		for _, i := range unspecified {
			widths[i] = 0
		}
		return widths
	}

	if len(unspecified) > 0 {
		remaining := usable - specifiedTotal
		if remaining < 0 {
			remaining = 0
		}
		per := remaining / float64(len(unspecified))
		for _, i := range unspecified {
			widths[i] = per
		}
	}
	return widths
}
