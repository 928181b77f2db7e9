package md2slides

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"github.com/alnah/go-md2slides/internal/assets"
)

// previewShell wraps the per-slide markup in a complete HTML5 document.
// The first slot takes theme CSS, the second the slide markup. The style
// block here is structural only; colors and fonts come from the theme.
const previewShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Slides</title>
<style>
body { margin: 0; }
.slide { position: relative; margin: 20px auto; overflow: hidden; }
.el { position: absolute; overflow: hidden; box-sizing: border-box; }
.el table { border-collapse: collapse; width: 100%%; font-size: 14px; }
.el th, .el td { border: 1px solid; padding: 4px 6px; text-align: left; }
.el pre { margin: 0; padding: 10px; font-size: 11px; overflow: hidden; }
.el img { width: 100%%; height: 100%%; object-fit: cover; }
.el ul, .el ol { margin: 0; padding-left: 24px; }
@media print { body { background: none; } .slide { margin: 0; box-shadow: none; page-break-after: always; } }
</style>
<style>
%s</style>
</head>
<body>
%s</body>
</html>`

// codeHighlighter renders fenced code through the syntax highlighter once,
// shared across all preview calls.
var codeHighlighter = goldmark.New(
	goldmark.WithExtensions(
		highlighting.NewHighlighting(
			highlighting.WithStyle("friendly"),
		),
	),
)

// RenderHTML renders a finalized deck as an absolute-positioned HTML
// preview using the default theme. See RenderHTMLWithTheme.
func RenderHTML(deck *Deck, geo Geometry) ([]byte, error) {
	themeCSS, err := assets.LoadTheme(assets.DefaultThemeName)
	if err != nil {
		return nil, err
	}
	return RenderHTMLWithTheme(deck, geo, themeCSS)
}

// RenderHTMLWithTheme renders a finalized deck as an absolute-positioned
// HTML preview: one fixed-size block per slide, one positioned block per
// renderable element, with themeCSS layered over the structural styles.
// Returns ErrNotFinalized when any slide still carries a section tree.
func RenderHTMLWithTheme(deck *Deck, geo Geometry, themeCSS string) ([]byte, error) {
	var sb strings.Builder
	for i, slide := range deck.Slides {
		if !slide.Finalized() {
			return nil, fmt.Errorf("%w: slide %d (%s)", ErrNotFinalized, i+1, slide.ID)
		}
		renderSlide(&sb, slide, geo)
	}
	return []byte(fmt.Sprintf(previewShell, themeCSS, sb.String())), nil
}

func renderSlide(sb *strings.Builder, slide *Slide, geo Geometry) {
	style := fmt.Sprintf("width:%.0fpx;height:%.0fpx;", geo.SlideWidth, geo.SlideHeight)
	if bg := slide.Background.String(DirBackground); bg != "" {
		style += "background:" + html.EscapeString(bg) + ";"
	}
	fmt.Fprintf(sb, `<div class="slide" id=%q style=%q>`+"\n", slide.ID, style)
	for _, e := range slide.Renderables {
		renderElement(sb, e)
	}
	sb.WriteString("</div>\n")
}

func renderElement(sb *strings.Builder, e *Element) {
	if e.Position == nil || e.Size == nil {
		return
	}
	if e.Size.W == 0 && e.Size.H == 0 {
		return
	}
	fmt.Fprintf(sb, `<div class="el" style=%q>`, elementStyle(e))
	sb.WriteString(elementHTML(e))
	sb.WriteString("</div>\n")
}

// elementStyle converts geometry and style directives to inline CSS.
func elementStyle(e *Element) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "left:%.1fpx;top:%.1fpx;width:%.1fpx;height:%.1fpx;",
		e.Position.X, e.Position.Y, e.Size.W, e.Size.H)

	switch e.Kind {
	case ElementTitle:
		sb.WriteString("font-size:24px;font-weight:bold;")
	case ElementSubtitle:
		sb.WriteString("font-size:18px;color:#666;")
	case ElementFooter:
		sb.WriteString("font-size:10px;color:#888;")
	case ElementQuote:
		sb.WriteString("font-size:14px;font-style:italic;border-left:3px solid #ccc;padding-left:8px;")
	default:
		sb.WriteString("font-size:14px;")
	}

	if v, ok := e.Directives.Float(DirFontSize); ok && v > 0 {
		fmt.Fprintf(&sb, "font-size:%.0fpx;", v)
	}
	if c := e.Directives.String(DirColor); c != "" {
		sb.WriteString("color:" + html.EscapeString(c) + ";")
	}
	if bg := e.Directives.String(DirBackground); bg != "" {
		sb.WriteString("background:" + html.EscapeString(bg) + ";")
	}
	if f := e.Directives.String(DirFontFamily); f != "" {
		sb.WriteString("font-family:" + html.EscapeString(f) + ";")
	}
	if e.Directives.Bool(DirBold) {
		sb.WriteString("font-weight:bold;")
	}
	if e.Directives.Bool(DirItalic) {
		sb.WriteString("font-style:italic;")
	}
	align := e.Directives.String(DirAlign)
	if align == "" && e.Align != "" {
		align = string(e.Align)
	}
	if align != "" {
		sb.WriteString("text-align:" + html.EscapeString(align) + ";")
	}
	return sb.String()
}

func elementHTML(e *Element) string {
	switch e.Kind {
	case ElementImage:
		return fmt.Sprintf(`<img src=%q alt="">`, e.URL)
	case ElementCode:
		return highlightCode(e.Code, e.Language)
	case ElementBulletList, ElementOrderedList:
		return listHTML(e)
	case ElementTable:
		return tableHTML(e)
	}
	return strings.ReplaceAll(formatText(e.Text, e.Formatting), "\n", "<br>")
}

// highlightCode renders the source as a highlighted fenced block. Falls
// back to an escaped <pre> when rendering fails.
func highlightCode(code, language string) string {
	fence := fmt.Sprintf("```%s\n%s\n```\n", language, code)
	var buf bytes.Buffer
	if err := codeHighlighter.Convert([]byte(fence), &buf); err != nil {
		return "<pre>" + html.EscapeString(code) + "</pre>"
	}
	return buf.String()
}

func listHTML(e *Element) string {
	tag := "ul"
	if e.Kind == ElementOrderedList {
		tag = "ol"
	}
	var sb strings.Builder
	renderListItems(&sb, e.Items, tag)
	return sb.String()
}

func renderListItems(sb *strings.Builder, items []ListItem, tag string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("<" + tag + ">")
	for _, item := range items {
		sb.WriteString("<li>" + formatText(item.Text, item.Formatting))
		renderListItems(sb, item.Children, tag)
		sb.WriteString("</li>")
	}
	sb.WriteString("</" + tag + ">")
}

func tableHTML(e *Element) string {
	var sb strings.Builder
	sb.WriteString("<table>")
	if len(e.Headers) > 0 {
		sb.WriteString("<thead><tr>")
		for _, h := range e.Headers {
			sb.WriteString("<th>" + html.EscapeString(h) + "</th>")
		}
		sb.WriteString("</tr></thead>")
	}
	sb.WriteString("<tbody>")
	for _, row := range e.Rows {
		sb.WriteString("<tr>")
		for _, cell := range row {
			sb.WriteString("<td>" + html.EscapeString(cell) + "</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}

// formatText escapes the text and wraps formatting spans in their HTML
// tags. Overlapping spans are resolved first-come: a span starting inside
// an already-emitted one is dropped.
func formatText(text string, spans []TextFormat) string {
	if len(spans) == 0 {
		return html.EscapeString(text)
	}
	sorted := make([]TextFormat, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var sb strings.Builder
	pos := 0
	for _, span := range sorted {
		if span.Start < pos || span.End > len(text) || span.Start >= span.End {
			continue
		}
		sb.WriteString(html.EscapeString(text[pos:span.Start]))
		open, closing := spanTags(span)
		sb.WriteString(open)
		sb.WriteString(html.EscapeString(text[span.Start:span.End]))
		sb.WriteString(closing)
		pos = span.End
	}
	sb.WriteString(html.EscapeString(text[pos:]))
	return sb.String()
}

func spanTags(span TextFormat) (string, string) {
	switch span.Type {
	case FormatBold:
		return "<strong>", "</strong>"
	case FormatItalic:
		return "<em>", "</em>"
	case FormatCode:
		return "<code>", "</code>"
	case FormatStrike:
		return "<del>", "</del>"
	case FormatLink:
		return fmt.Sprintf(`<a href=%q>`, span.Value), "</a>"
	}
	return "", ""
}
