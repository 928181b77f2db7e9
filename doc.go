// Package md2slides converts Markdown documents into fully positioned,
// paginated slide decks ready for a presentation API.
//
// # Quick Start
//
// Create a converter and convert markdown:
//
//	conv := md2slides.New()
//	deck, err := conv.Convert(ctx, md2slides.Input{
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, slide := range deck.Slides {
//	    // slide.Renderables carries positioned elements
//	}
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Markdown parsing via Goldmark into a section/element tree
//     (slides separated by ===, rows by ---, columns by ***)
//  2. Two-pass layout: meta elements (title, subtitle, footer) first,
//     then recursive body layout with per-kind content metrics
//  3. Overflow handling: content exceeding the slide's body zone is
//     split onto continuation slides until every slide fits
//  4. Finalization: each slide's section tree is flattened into an
//     ordered list of renderable elements with absolute geometry
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv := md2slides.New(
//	    md2slides.WithSlideSize(960, 540),
//	    md2slides.WithMargins(md2slides.Margins{Top: 40, Right: 40, Bottom: 40, Left: 40}),
//	    md2slides.WithLogger(logger),
//	)
//
// Slides built by other front-ends can be processed directly:
//
//	slides, err := conv.ProcessSlides(ctx, prebuilt)
//
// # Overflow Semantics
//
// Text, lists, code and tables split at line/item/row boundaries; split
// tables duplicate their header row. Images are pre-scaled to fit their
// container and move wholesale when displaced. An element moved once and
// still overflowing trips a circuit breaker instead of paginating forever.
//
// # Preview
//
// RenderHTML produces an absolutely-positioned HTML preview of a finalized
// deck for layout debugging; PreviewPDF drives it through headless Chrome
// (go-rod). PDF preview requires Chrome/Chromium; set ROD_NO_SANDBOX=1 in
// containers.
package md2slides
