package md2slides

import (
	"strings"
	"testing"
)

func newTestMetrics() *Metrics {
	return NewMetrics(DefaultMetricsConfig(), nil)
}

func TestElementHeightMinimums(t *testing.T) {
	t.Parallel()

	m := newTestMetrics()
	cfg := m.Config()

	tests := []struct {
		name string
		e    *Element
		want float64
	}{
		{
			name: "empty text returns body minimum",
			e:    &Element{Kind: ElementText},
			want: cfg.Body.MinHeight,
		},
		{
			name: "empty title returns title minimum",
			e:    &Element{Kind: ElementTitle},
			want: cfg.Title.MinHeight,
		},
		{
			name: "empty list returns body minimum",
			e:    &Element{Kind: ElementBulletList},
			want: cfg.Body.MinHeight,
		},
		{
			name: "empty table returns table minimum",
			e:    &Element{Kind: ElementTable},
			want: cfg.TableMinHeight,
		},
		{
			name: "empty code returns code minimum",
			e:    &Element{Kind: ElementCode},
			want: cfg.CodeMinHeight,
		},
		{
			name: "unknown kind returns default height",
			e:    &Element{Kind: ElementKind("mystery")},
			want: cfg.DefaultHeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := m.ElementHeight(tt.e, 400, 0); got != tt.want {
				t.Errorf("ElementHeight() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestElementHeightFooterFixed(t *testing.T) {
	t.Parallel()

	m := newTestMetrics()
	short := &Element{Kind: ElementFooter, Text: "p. 1"}
	long := &Element{Kind: ElementFooter, Text: strings.Repeat("long footer ", 50)}

	want := m.Config().FooterFixedHeight
	if got := m.ElementHeight(short, 400, 0); got != want {
		t.Errorf("short footer height = %v, want fixed %v", got, want)
	}
	if got := m.ElementHeight(long, 400, 0); got != want {
		t.Errorf("long footer height = %v, want fixed %v", got, want)
	}
}

func TestElementHeightGrowsWithContent(t *testing.T) {
	t.Parallel()

	m := newTestMetrics()

	oneLine := &Element{Kind: ElementText, Text: "short"}
	manyLines := &Element{Kind: ElementText, Text: strings.Repeat("line\n", 19) + "line"}
	if h1, h2 := m.ElementHeight(oneLine, 400, 0), m.ElementHeight(manyLines, 400, 0); h2 <= h1 {
		t.Errorf("20-line text height %v not greater than 1-line height %v", h2, h1)
	}

	smallTable := &Element{Kind: ElementTable, Headers: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}
	bigTable := smallTable.Clone()
	for i := 0; i < 20; i++ {
		bigTable.Rows = append(bigTable.Rows, []string{"x", "y"})
	}
	if h1, h2 := m.ElementHeight(smallTable, 400, 0), m.ElementHeight(bigTable, 400, 0); h2 <= h1 {
		t.Errorf("21-row table height %v not greater than 1-row height %v", h2, h1)
	}

	shortList := &Element{Kind: ElementBulletList, Items: []ListItem{{Text: "one"}}}
	longList := &Element{Kind: ElementBulletList, Items: []ListItem{
		{Text: "one"}, {Text: "two"}, {Text: "three"}, {Text: "four"},
		{Text: "five"}, {Text: "six"}, {Text: "seven"}, {Text: "eight"},
	}}
	if h1, h2 := m.ElementHeight(shortList, 400, 0), m.ElementHeight(longList, 400, 0); h2 <= h1 {
		t.Errorf("8-item list height %v not greater than 1-item height %v", h2, h1)
	}
}

func TestElementHeightFontSizeDirective(t *testing.T) {
	t.Parallel()

	m := newTestMetrics()
	normal := &Element{Kind: ElementText, Text: strings.Repeat("word ", 60)}
	big := normal.Clone()
	big.Directives = Directives{DirFontSize: 28.0}

	if h1, h2 := m.ElementHeight(normal, 400, 0), m.ElementHeight(big, 400, 0); h2 <= h1 {
		t.Errorf("28pt text height %v not greater than 14pt height %v", h2, h1)
	}
}

func TestElementHeightHeadingLevels(t *testing.T) {
	t.Parallel()

	m := newTestMetrics()
	text := strings.Repeat("heading words ", 20)
	h1 := m.ElementHeight(&Element{Kind: ElementText, Text: text, HeadingLevel: 1}, 400, 0)
	h6 := m.ElementHeight(&Element{Kind: ElementText, Text: text, HeadingLevel: 6}, 400, 0)
	if h1 <= h6 {
		t.Errorf("h1 height %v not greater than h6 height %v for identical text", h1, h6)
	}
}

func TestCodeHeightLanguageLabel(t *testing.T) {
	t.Parallel()

	m := newTestMetrics()
	code := strings.Repeat("x := 1\n", 10) + "x := 1"
	plain := &Element{Kind: ElementCode, Code: code, Language: "text"}
	tagged := &Element{Kind: ElementCode, Code: code, Language: "go"}

	hPlain := m.ElementHeight(plain, 400, 0)
	hTagged := m.ElementHeight(tagged, 400, 0)
	if got, want := hTagged-hPlain, m.Config().CodeLabelHeight; got != want {
		t.Errorf("language label adds %v, want %v", got, want)
	}
}

func TestNestedListHeight(t *testing.T) {
	t.Parallel()

	m := newTestMetrics()
	flat := &Element{Kind: ElementBulletList, Items: []ListItem{
		{Text: "parent"}, {Text: "other"},
	}}
	nested := &Element{Kind: ElementBulletList, Items: []ListItem{
		{Text: "parent", Children: []ListItem{{Text: "child", Level: 1}}},
		{Text: "other"},
	}}
	if h1, h2 := m.ElementHeight(flat, 400, 0), m.ElementHeight(nested, 400, 0); h2 <= h1 {
		t.Errorf("nested list height %v not greater than flat height %v", h2, h1)
	}
}

func TestMetricsDeterministic(t *testing.T) {
	t.Parallel()

	m := newTestMetrics()
	e := &Element{Kind: ElementText, Text: strings.Repeat("deterministic ", 30)}
	first := m.ElementHeight(e, 333, 0)
	for i := 0; i < 5; i++ {
		if got := m.ElementHeight(e, 333, 0); got != first {
			t.Fatalf("height not deterministic: run %d = %v, first = %v", i, got, first)
		}
	}
}
