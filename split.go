package md2slides

import (
	"fmt"
	"strings"
)

// splitFallbackWidth is used when a split is requested before the element
// has measured geometry.
const splitFallbackWidth = 400.0

// SplitElement partitions an element at availableHeight into a part that
// fits and a part that overflows. Either part may be nil: a nil fitted part
// means nothing fits, a nil overflow part means everything fits. Both parts
// are deep copies; the input element is never aliased into the result.
//
// Text, quote and code split at line boundaries, lists at top-level item
// boundaries, tables at row boundaries with headers (and the header row
// directives) duplicated onto the overflow part. Atomic kinds return
// ErrUnsplittable and must be moved wholesale by the caller.
func (m *Metrics) SplitElement(e *Element, availableHeight float64) (*Element, *Element, error) {
	switch e.Kind {
	case ElementText, ElementQuote:
		fitted, overflow := m.splitText(e, availableHeight)
		return fitted, overflow, nil
	case ElementBulletList, ElementOrderedList:
		fitted, overflow := m.splitList(e, availableHeight)
		return fitted, overflow, nil
	case ElementCode:
		fitted, overflow := m.splitCode(e, availableHeight)
		return fitted, overflow, nil
	case ElementTable:
		fitted, overflow := m.splitTable(e, availableHeight)
		return fitted, overflow, nil
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnsplittable, e.Kind)
}

func (e *Element) splitWidth() float64 {
	if e.Size != nil && e.Size.W > 0 {
		return e.Size.W
	}
	return splitFallbackWidth
}

// splitText splits at explicit line boundaries, growing the fitted part
// line by line until the measured height exceeds the budget.
func (m *Metrics) splitText(e *Element, availableHeight float64) (*Element, *Element) {
	if strings.TrimSpace(e.Text) == "" {
		return nil, nil
	}
	width := e.splitWidth()
	lines := strings.Split(e.Text, "\n")

	fittedCount := 0
	fittedHeight := 0.0
	probe := e.Clone()
	for i := range lines {
		probe.Text = strings.Join(lines[:i+1], "\n")
		h := m.textHeight(probe, width)
		if h > availableHeight {
			break
		}
		fittedCount = i + 1
		fittedHeight = h
	}

	if fittedCount == 0 {
		return nil, e.Clone()
	}
	if fittedCount == len(lines) {
		return e.Clone(), nil
	}

	fittedText := strings.Join(lines[:fittedCount], "\n")
	fitted := e.Clone()
	fitted.Text = fittedText
	fitted.Size = &Size{W: width, H: fittedHeight}
	fitted.Formatting = sliceFormatting(e.Formatting, 0, len(fittedText))

	overflow := e.Clone()
	overflow.Text = strings.Join(lines[fittedCount:], "\n")
	overflow.ClearGeometry()
	// +1 skips the newline between the two parts.
	overflow.Formatting = sliceFormatting(e.Formatting, len(fittedText)+1, len(fittedText)+1+len(overflow.Text))
	return fitted, overflow
}

// sliceFormatting projects formatting spans onto the substring [from, to),
// clipping spans that straddle the boundary and dropping those outside it.
func sliceFormatting(spans []TextFormat, from, to int) []TextFormat {
	var out []TextFormat
	for _, f := range spans {
		if f.End <= from || f.Start >= to {
			continue
		}
		clipped := f
		if clipped.Start < from {
			clipped.Start = from
		}
		if clipped.End > to {
			clipped.End = to
		}
		clipped.Start -= from
		clipped.End -= from
		out = append(out, clipped)
	}
	return out
}

// splitList splits at top-level item boundaries; nested children always
// travel with their parent item.
func (m *Metrics) splitList(e *Element, availableHeight float64) (*Element, *Element) {
	if len(e.Items) == 0 {
		return nil, nil
	}
	width := e.splitWidth()

	fittedCount := 0
	fittedHeight := 0.0
	probe := e.Clone()
	for i := range e.Items {
		probe.Items = e.Items[:i+1]
		h := m.listHeight(probe, width)
		if h > availableHeight {
			break
		}
		fittedCount = i + 1
		fittedHeight = h
	}

	if fittedCount == 0 {
		return nil, e.Clone()
	}
	if fittedCount == len(e.Items) {
		return e.Clone(), nil
	}

	fitted := e.Clone()
	fitted.Items = fitted.Items[:fittedCount]
	fitted.Size = &Size{W: width, H: fittedHeight}

	overflow := e.Clone()
	overflow.Items = overflow.Items[fittedCount:]
	overflow.ClearGeometry()
	return fitted, overflow
}

// splitCode splits at source-line boundaries, keeping the language tag on
// both parts.
func (m *Metrics) splitCode(e *Element, availableHeight float64) (*Element, *Element) {
	if e.Code == "" {
		return nil, nil
	}
	width := e.splitWidth()
	lines := strings.Split(e.Code, "\n")

	fittedCount := 0
	fittedHeight := 0.0
	probe := e.Clone()
	for i := range lines {
		probe.Code = strings.Join(lines[:i+1], "\n")
		h := m.codeHeight(probe, width)
		if h > availableHeight {
			break
		}
		fittedCount = i + 1
		fittedHeight = h
	}

	if fittedCount == 0 {
		return nil, e.Clone()
	}
	if fittedCount == len(lines) {
		return e.Clone(), nil
	}

	fitted := e.Clone()
	fitted.Code = strings.Join(lines[:fittedCount], "\n")
	fitted.Size = &Size{W: width, H: fittedHeight}

	overflow := e.Clone()
	overflow.Code = strings.Join(lines[fittedCount:], "\n")
	overflow.ClearGeometry()
	return fitted, overflow
}

// splitTable splits by row count. The overflow part always re-carries the
// header row and its directives so continuation tables stay readable.
func (m *Metrics) splitTable(e *Element, availableHeight float64) (*Element, *Element) {
	if len(e.Rows) == 0 && len(e.Headers) == 0 {
		return nil, nil
	}
	width := e.splitWidth()

	headerHeight := m.tableHeaderHeight(e, width) + m.cfg.TableEdgePadding
	if headerHeight > availableHeight {
		return nil, e.Clone()
	}

	fittedCount := 0
	fittedHeight := 0.0
	probe := e.Clone()
	for i := range e.Rows {
		probe.Rows = e.Rows[:i+1]
		probe.RowDirectives = sliceRowDirectives(e.RowDirectives, 0, i+1)
		h := m.tableHeight(probe, width)
		if h > availableHeight {
			break
		}
		fittedCount = i + 1
		fittedHeight = h
	}

	if fittedCount == 0 && len(e.Headers) == 0 {
		return nil, e.Clone()
	}
	if fittedCount == len(e.Rows) {
		return e.Clone(), nil
	}

	fitted := e.Clone()
	fitted.Rows = fitted.Rows[:fittedCount]
	fitted.RowDirectives = sliceRowDirectives(fitted.RowDirectives, 0, fittedCount)
	fitted.Size = &Size{W: width, H: fittedHeight}

	overflow := e.Clone()
	overflow.Rows = overflow.Rows[fittedCount:]
	overflow.RowDirectives = sliceRowDirectives(overflow.RowDirectives, fittedCount, len(e.Rows))
	// Headers and their styling re-appear on the continuation table.
	overflow.Headers = append([]string(nil), e.Headers...)
	overflow.HeaderDirectives = e.HeaderDirectives.Clone()
	overflow.ClearGeometry()
	return fitted, overflow
}

func sliceRowDirectives(dirs []Directives, from, to int) []Directives {
	if dirs == nil {
		return nil
	}
	if from > len(dirs) {
		from = len(dirs)
	}
	if to > len(dirs) {
		to = len(dirs)
	}
	out := make([]Directives, to-from)
	for i, d := range dirs[from:to] {
		out[i] = d.Clone()
	}
	return out
}
