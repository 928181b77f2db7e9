package md2slides

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
)

// Structural separators, each taken only when alone on a line outside a
// code fence.
const (
	slideSeparator   = "==="
	sectionSeparator = "---"
	columnSeparator  = "***"
	footerSeparator  = "@@@"
)

var (
	// <!-- notes: ... --> carries speaker notes anywhere in a slide chunk.
	notesRe = regexp.MustCompile(`(?s)<!--\s*notes:\s*(.*?)\s*-->`)

	// A line consisting solely of [key=value] blocks.
	directiveLineRe = regexp.MustCompile(`^\s*(?:\[[A-Za-z-]+(?:=[^\[\]]*)?\]\s*)+$`)

	// One [key=value] or bare [flag] token.
	directiveTokenRe = regexp.MustCompile(`\[([A-Za-z-]+)(?:=([^\[\]]*))?\]`)

	// Directive tokens prefixing a content line.
	leadingDirectivesRe = regexp.MustCompile(`^(?:\s*\[[A-Za-z-]+(?:=[^\[\]]*)?\])+\s*`)
)

// Parser turns slide markdown into a deck of un-finalized slides.
//
// The dialect layers structural separators over CommonMark/GFM: "===" lines
// separate slides, "---" lines stack vertical sections, "***" lines divide
// a section into side-by-side columns, and a "@@@" line starts the slide
// footer. [key=value] blocks attach directives: alone on a line at the top
// of a section they style the section, prefixed to a content line they
// style that element.
type Parser struct {
	md  goldmark.Markdown
	log *zap.Logger
}

// NewParser returns a parser. A nil logger disables logging.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // tables, strikethrough, autolinks
		),
	)
	return &Parser{md: md, log: log}
}

// Parse converts markdown into a deck of slides with un-finalized section
// trees and no geometry. Identifiers are generated deterministically from
// document order.
func (p *Parser) Parse(markdown string) (*Deck, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, ErrEmptyMarkdown
	}

	deck := &Deck{}
	for i, chunk := range splitFenceAware(markdown, slideSeparator) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		slide, err := p.parseSlide(chunk, len(deck.Slides)+1)
		if err != nil {
			return nil, fmt.Errorf("%w: slide %d: %v", ErrParse, i+1, err)
		}
		deck.Slides = append(deck.Slides, slide)
	}
	if len(deck.Slides) == 0 {
		return nil, ErrEmptyMarkdown
	}

	p.log.Debug("markdown parsed", zap.Int("slides", len(deck.Slides)))
	return deck, nil
}

// parseSlide builds one slide from its chunk: notes and footer are peeled
// off first, then the title block, then the body is split into sections.
func (p *Parser) parseSlide(chunk string, seq int) (*Slide, error) {
	slide := &Slide{ID: fmt.Sprintf("slide_%d", seq), Layout: LayoutBlank}
	ids := &idSeq{prefix: slide.ID}

	chunk = p.extractNotes(chunk, slide)
	chunk = p.extractFooter(chunk, slide, ids)
	body, slideDirs := p.extractTitleBlock(chunk, slide, ids)

	root := &Section{ID: ids.next("sec"), Kind: KindSection}
	for key, value := range slideDirs {
		if key == DirBackground {
			if slide.Background == nil {
				slide.Background = Directives{}
			}
			slide.Background[key] = value
			continue
		}
		if root.Directives == nil {
			root.Directives = Directives{}
		}
		root.Directives[key] = value
	}

	for _, sectionChunk := range splitFenceAware(body, sectionSeparator) {
		section, err := p.parseSection(sectionChunk, ids)
		if err != nil {
			return nil, err
		}
		if section != nil {
			root.Children = append(root.Children, section)
		}
	}
	slide.Root = root

	switch {
	case slide.Title != nil && root.HasContent():
		slide.Layout = LayoutTitleAndBody
	case slide.Title != nil:
		slide.Layout = LayoutTitleOnly
	}
	return slide, nil
}

// parseSection builds one vertical section, or a row when the chunk holds
// column separators.
func (p *Parser) parseSection(chunk string, ids *idSeq) (*Section, error) {
	columns := splitFenceAware(chunk, columnSeparator)
	if len(columns) > 1 {
		row := &Section{ID: ids.next("row"), Kind: KindRow}
		for _, colChunk := range columns {
			col, err := p.parseStack(colChunk, KindColumn, ids)
			if err != nil {
				return nil, err
			}
			if col != nil {
				row.Children = append(row.Children, col)
			}
		}
		if len(row.Children) == 0 {
			return nil, nil
		}
		return row, nil
	}
	return p.parseStack(chunk, KindSection, ids)
}

// parseStack builds a vertically stacked section from a chunk: leading
// directive-only lines style the section, the rest parses into elements.
func (p *Parser) parseStack(chunk string, kind SectionKind, ids *idSeq) (*Section, error) {
	content, dirs := stripLeadingDirectiveLines(chunk)
	if strings.TrimSpace(content) == "" && len(dirs) == 0 {
		return nil, nil
	}

	section := &Section{ID: ids.next("sec"), Kind: kind, Directives: dirs}
	elements, err := p.parseBlocks(content, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range elements {
		section.Children = append(section.Children, e)
	}
	if len(section.Children) == 0 && len(dirs) == 0 {
		return nil, nil
	}
	return section, nil
}

// extractNotes removes speaker-note comments, keeping the last one.
func (p *Parser) extractNotes(chunk string, slide *Slide) string {
	matches := notesRe.FindAllStringSubmatch(chunk, -1)
	if len(matches) > 0 {
		slide.Notes = matches[len(matches)-1][1]
	}
	return notesRe.ReplaceAllString(chunk, "")
}

// extractFooter splits the chunk at the footer separator. Everything after
// it becomes the footer element.
func (p *Parser) extractFooter(chunk string, slide *Slide, ids *idSeq) string {
	parts := splitFenceAware(chunk, footerSeparator)
	if len(parts) < 2 {
		return chunk
	}
	footerText := strings.TrimSpace(strings.Join(parts[1:], "\n"))
	if footerText != "" {
		text, spans, dirs := p.parseInline(footerText)
		slide.Footer = &Element{
			ID:         ids.next("footer"),
			Kind:       ElementFooter,
			Text:       text,
			Formatting: spans,
			Directives: dirs,
		}
	}
	return parts[0]
}

// extractTitleBlock pulls the leading title (#) and subtitle (##) off the
// chunk, together with any slide-level directive lines above them. Returns
// the remaining body and the slide-level directives.
func (p *Parser) extractTitleBlock(chunk string, slide *Slide, ids *idSeq) (string, Directives) {
	lines := strings.Split(chunk, "\n")
	slideDirs := Directives{}
	i := 0

	// Directive-only and blank lines above the title are slide-level.
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		if directiveLineRe.MatchString(line) {
			for k, v := range parseDirectiveTokens(line) {
				slideDirs[k] = v
			}
			continue
		}
		break
	}

	if i < len(lines) && strings.HasPrefix(lines[i], "# ") {
		text, spans, dirs := p.parseInline(strings.TrimPrefix(lines[i], "# "))
		slide.Title = &Element{
			ID:         ids.next("title"),
			Kind:       ElementTitle,
			Text:       text,
			Formatting: spans,
			Directives: dirs,
		}
		i++
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
		}
		if i < len(lines) && strings.HasPrefix(lines[i], "## ") {
			text, spans, dirs := p.parseInline(strings.TrimPrefix(lines[i], "## "))
			slide.Subtitle = &Element{
				ID:         ids.next("subtitle"),
				Kind:       ElementSubtitle,
				Text:       text,
				Formatting: spans,
				Directives: dirs,
			}
			i++
		}
	}

	if len(slideDirs) == 0 {
		slideDirs = nil
	}
	return strings.Join(lines[i:], "\n"), slideDirs
}

// splitFenceAware splits on separator lines, ignoring separators inside
// fenced code blocks.
func splitFenceAware(src, separator string) []string {
	var parts []string
	var current []string
	inFence := false
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
		}
		if !inFence && trimmed == separator {
			parts = append(parts, strings.Join(current, "\n"))
			current = current[:0]
			continue
		}
		current = append(current, line)
	}
	return append(parts, strings.Join(current, "\n"))
}

// stripLeadingDirectiveLines consumes directive-only lines at the top of a
// chunk and returns the rest plus the merged directives.
func stripLeadingDirectiveLines(chunk string) (string, Directives) {
	lines := strings.Split(chunk, "\n")
	dirs := Directives{}
	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !directiveLineRe.MatchString(line) {
			break
		}
		for k, v := range parseDirectiveTokens(line) {
			dirs[k] = v
		}
	}
	if len(dirs) == 0 {
		dirs = nil
	}
	return strings.Join(lines[i:], "\n"), dirs
}

// parseDirectiveTokens reads every [key=value] token in the string.
func parseDirectiveTokens(s string) Directives {
	matches := directiveTokenRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	dirs := make(Directives, len(matches))
	for _, m := range matches {
		key := strings.ToLower(m[1])
		dirs[key] = parseDirectiveValue(key, m[2])
	}
	return dirs
}

// stripElementDirectives removes a directive prefix from element text and
// reprojects inline formatting spans onto the shortened string.
func stripElementDirectives(text string, spans []TextFormat) (string, []TextFormat, Directives) {
	loc := leadingDirectivesRe.FindStringIndex(text)
	if loc == nil {
		return text, spans, nil
	}
	dirs := parseDirectiveTokens(text[:loc[1]])
	stripped := text[loc[1]:]
	return stripped, sliceFormatting(spans, loc[1], len(text)), dirs
}

// idSeq generates deterministic node identifiers within one slide.
type idSeq struct {
	prefix string
	n      int
}

func (s *idSeq) next(kind string) string {
	s.n++
	return fmt.Sprintf("%s_%s%d", s.prefix, kind, s.n)
}
