package md2slides

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// parseBlocks converts a markdown chunk into the section's ordered element
// list. Unrecognized block types are skipped, not rejected.
func (p *Parser) parseBlocks(content string, ids *idSeq) ([]*Element, error) {
	src := []byte(content)
	doc := p.md.Parser().Parse(text.NewReader(src))

	var out []*Element
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			out = append(out, p.headingElement(node, src, ids))
		case *ast.Paragraph:
			if e := p.paragraphElement(node, src, ids); e != nil {
				out = append(out, e)
			}
		case *ast.Blockquote:
			if e := p.quoteElement(node, src, ids); e != nil {
				out = append(out, e)
			}
		case *ast.List:
			out = append(out, p.listElement(node, src, ids))
		case *ast.FencedCodeBlock:
			out = append(out, p.codeElement(node, src, ids))
		case *east.Table:
			out = append(out, p.tableElement(node, src, ids))
		}
	}
	return out, nil
}

// parseInline parses one line of markdown and returns its plain text,
// formatting spans, and any leading directive tokens.
func (p *Parser) parseInline(line string) (string, []TextFormat, Directives) {
	src := []byte(line)
	doc := p.md.Parser().Parse(text.NewReader(src))

	st := &inlineState{}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		collectInline(n, src, st)
	}
	return stripElementDirectives(st.buf.String(), st.spans)
}

func (p *Parser) headingElement(node *ast.Heading, src []byte, ids *idSeq) *Element {
	textVal, spans := inlineContent(node, src)
	textVal, spans, dirs := stripElementDirectives(textVal, spans)
	return &Element{
		ID:           ids.next("el"),
		Kind:         ElementText,
		Text:         textVal,
		HeadingLevel: node.Level,
		Formatting:   spans,
		Directives:   dirs,
	}
}

// paragraphElement produces either an image element (paragraph holding one
// image and nothing but directive tokens) or a text element. Empty
// paragraphs yield nil.
func (p *Parser) paragraphElement(node *ast.Paragraph, src []byte, ids *idSeq) *Element {
	if img := soleImage(node); img != nil {
		textVal, _ := inlineContent(node, src)
		if strings.TrimSpace(directiveTokenRe.ReplaceAllString(textVal, "")) == "" {
			return &Element{
				ID:         ids.next("el"),
				Kind:       ElementImage,
				URL:        string(img.Destination),
				Directives: parseDirectiveTokens(textVal),
			}
		}
	}

	textVal, spans := inlineContent(node, src)
	textVal, spans, dirs := stripElementDirectives(textVal, spans)
	if strings.TrimSpace(textVal) == "" {
		return nil
	}
	return &Element{
		ID:         ids.next("el"),
		Kind:       ElementText,
		Text:       textVal,
		Formatting: spans,
		Directives: dirs,
	}
}

// quoteElement flattens a blockquote's paragraphs into one quote element,
// paragraphs joined by newlines.
func (p *Parser) quoteElement(node *ast.Blockquote, src []byte, ids *idSeq) *Element {
	st := &inlineState{}
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if st.buf.Len() > 0 {
			st.buf.WriteByte('\n')
		}
		collectInline(child, src, st)
	}
	if strings.TrimSpace(st.buf.String()) == "" {
		return nil
	}
	textVal, spans, dirs := stripElementDirectives(st.buf.String(), st.spans)
	return &Element{
		ID:         ids.next("el"),
		Kind:       ElementQuote,
		Text:       textVal,
		Formatting: spans,
		Directives: dirs,
	}
}

func (p *Parser) listElement(node *ast.List, src []byte, ids *idSeq) *Element {
	kind := ElementBulletList
	if node.IsOrdered() {
		kind = ElementOrderedList
	}
	return &Element{
		ID:    ids.next("el"),
		Kind:  kind,
		Items: listItems(node, src, 0),
	}
}

func listItems(list *ast.List, src []byte, level int) []ListItem {
	var items []ListItem
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		item := ListItem{Level: level}
		for child := li.FirstChild(); child != nil; child = child.NextSibling() {
			switch t := child.(type) {
			case *ast.List:
				item.Children = append(item.Children, listItems(t, src, level+1)...)
			default:
				textVal, spans := inlineContent(child, src)
				textVal, spans, dirs := stripElementDirectives(textVal, spans)
				if item.Text == "" {
					item.Text = textVal
					item.Formatting = spans
					item.Directives = dirs
				} else {
					item.Text += "\n" + textVal
				}
			}
		}
		items = append(items, item)
	}
	return items
}

func (p *Parser) codeElement(node *ast.FencedCodeBlock, src []byte, ids *idSeq) *Element {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return &Element{
		ID:       ids.next("el"),
		Kind:     ElementCode,
		Code:     strings.TrimRight(sb.String(), "\n"),
		Language: normalizeLanguage(string(node.Language(src))),
	}
}

func (p *Parser) tableElement(node *east.Table, src []byte, ids *idSeq) *Element {
	e := &Element{ID: ids.next("el"), Kind: ElementTable}
	for row := node.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			textVal, _ := inlineContent(cell, src)
			cells = append(cells, textVal)
		}
		if _, ok := row.(*east.TableHeader); ok {
			e.Headers = cells
			continue
		}
		e.Rows = append(e.Rows, cells)
	}
	return e
}

// normalizeLanguage canonicalizes a fence info string through the
// highlighter's lexer registry; unknown tags pass through lowercased and an
// empty tag becomes "text".
func normalizeLanguage(info string) string {
	info = strings.TrimSpace(info)
	if info == "" {
		return "text"
	}
	if lexer := lexers.Get(info); lexer != nil {
		return strings.ToLower(lexer.Config().Name)
	}
	return strings.ToLower(info)
}

// inlineState accumulates plain text and formatting spans during an inline
// walk. Span offsets are byte positions into the accumulated text.
type inlineState struct {
	buf   strings.Builder
	spans []TextFormat
}

func (st *inlineState) mark(from int, typ FormatType, value string) {
	if st.buf.Len() > from {
		st.spans = append(st.spans, TextFormat{Start: from, End: st.buf.Len(), Type: typ, Value: value})
	}
}

// inlineContent extracts the flattened text and spans of a block node's
// inline children.
func inlineContent(block ast.Node, src []byte) (string, []TextFormat) {
	st := &inlineState{}
	for n := block.FirstChild(); n != nil; n = n.NextSibling() {
		collectInline(n, src, st)
	}
	return st.buf.String(), st.spans
}

func collectInline(n ast.Node, src []byte, st *inlineState) {
	switch t := n.(type) {
	case *ast.Text:
		st.buf.Write(t.Segment.Value(src))
		if t.SoftLineBreak() || t.HardLineBreak() {
			st.buf.WriteByte('\n')
		}
	case *ast.String:
		st.buf.Write(t.Value)
	case *ast.CodeSpan:
		from := st.buf.Len()
		collectChildren(n, src, st)
		st.mark(from, FormatCode, "")
	case *ast.Emphasis:
		from := st.buf.Len()
		collectChildren(n, src, st)
		if t.Level >= 2 {
			st.mark(from, FormatBold, "")
		} else {
			st.mark(from, FormatItalic, "")
		}
	case *ast.Link:
		from := st.buf.Len()
		collectChildren(n, src, st)
		st.mark(from, FormatLink, string(t.Destination))
	case *ast.AutoLink:
		from := st.buf.Len()
		st.buf.Write(t.URL(src))
		st.mark(from, FormatLink, string(t.URL(src)))
	case *east.Strikethrough:
		from := st.buf.Len()
		collectChildren(n, src, st)
		st.mark(from, FormatStrike, "")
	case *ast.Image:
		// Images never contribute to the text flow.
	default:
		collectChildren(n, src, st)
	}
}

func collectChildren(n ast.Node, src []byte, st *inlineState) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		collectInline(c, src, st)
	}
}

// soleImage returns the paragraph's image when the paragraph holds exactly
// one image and no other meaningful text.
func soleImage(para *ast.Paragraph) *ast.Image {
	var img *ast.Image
	count := 0
	_ = ast.Walk(para, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if i, ok := n.(*ast.Image); ok {
			img = i
			count++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if count != 1 {
		return nil
	}
	return img
}
