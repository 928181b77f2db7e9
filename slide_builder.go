package md2slides

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	continuationMarker = "_cont_"
	continuedSuffix    = "(continued)"
	footerContSuffix   = "(cont.)"
)

// Strips any prior continuation decoration from a title so the suffix is
// never applied twice, e.g. "Results (continued) (3)" -> "Results".
var continuedTitleRe = regexp.MustCompile(`\s*\(continued\)(?:\s*\(\d+\))?\s*$`)

// SlideBuilder creates continuation slides for overflowed content. One
// builder instance serves one slide's pagination run; the per-origin counter
// drives the numbering of second and later continuations.
type SlideBuilder struct {
	counts map[string]int
	log    *zap.Logger
}

// NewSlideBuilder returns a builder. A nil logger disables logging.
func NewSlideBuilder(log *zap.Logger) *SlideBuilder {
	if log == nil {
		log = zap.NewNop()
	}
	return &SlideBuilder{counts: make(map[string]int), log: log}
}

// Continuation builds a new slide carrying the overflowed section tree.
//
// The continuation gets a fresh bounded id, the origin's title with a
// "(continued)" suffix applied exactly once (numbered from the second
// continuation on), the origin's footer with a "(cont.)" marker, the
// origin's background and notes, a blank layout shell, and fully cleared
// geometry so the next layout pass starts from scratch.
func (b *SlideBuilder) Continuation(origin *Slide, root *Section) *Slide {
	base := baseSlideID(origin.ID)
	n := b.counts[base] + 1
	b.counts[base] = n

	cont := &Slide{
		ID:             continuationID(base, n),
		Layout:         LayoutBlank,
		Background:     origin.Background.Clone(),
		Notes:          origin.Notes,
		Root:           root,
		IsContinuation: true,
		ContextTitle:   origin.ContextTitle,
	}
	if root != nil {
		root.ClearGeometry()
	}

	if origin.Title != nil {
		title := origin.Title.Clone()
		title.Text = continuationTitle(title.Text, n)
		title.ClearGeometry()
		cont.Title = title
	}
	if origin.Footer != nil {
		footer := origin.Footer.Clone()
		footer.Text = continuationFooter(footer.Text)
		footer.ClearGeometry()
		cont.Footer = footer
	}

	b.log.Debug("continuation slide created",
		zap.String("origin", origin.ID),
		zap.String("id", cont.ID),
		zap.Int("index", n))
	return cont
}

// Count returns the number of continuations created so far for the slide's
// origin.
func (b *SlideBuilder) Count(slideID string) int {
	return b.counts[baseSlideID(slideID)]
}

// baseSlideID strips the continuation decoration so continuations of
// continuations chain back to the same origin id.
func baseSlideID(id string) string {
	if idx := strings.Index(id, continuationMarker); idx >= 0 {
		return id[:idx]
	}
	return id
}

// continuationID derives a bounded identifier from the origin id. When the
// combined id would exceed the limit, the base is truncated so the
// continuation marker and its discriminator survive intact.
func continuationID(base string, n int) string {
	suffix := fmt.Sprintf("%s%d_%s", continuationMarker, n, uuid.NewString()[:6])
	if len(base)+len(suffix) > maxObjectIDLen {
		keep := maxObjectIDLen - len(suffix)
		if keep < 1 {
			keep = 1
		}
		base = base[:keep]
	}
	return base + suffix
}

// continuationTitle appends the continued suffix, replacing any suffix a
// previous round already applied. The numeric disambiguator appears only
// from the second continuation on.
func continuationTitle(text string, n int) string {
	base := strings.TrimSpace(continuedTitleRe.ReplaceAllString(text, ""))
	if base == "" {
		base = text
	}
	if n >= 2 {
		return fmt.Sprintf("%s %s (%d)", base, continuedSuffix, n)
	}
	return base + " " + continuedSuffix
}

// continuationFooter marks the footer once, no numbering.
func continuationFooter(text string) string {
	if strings.Contains(text, footerContSuffix) {
		return text
	}
	if text == "" {
		return footerContSuffix
	}
	return text + " " + footerContSuffix
}
