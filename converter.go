package md2slides

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/alnah/go-md2slides/internal/assets"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ OverflowHandler = (*StandardHandler)(nil)
	_ OverflowHandler = (*FillContextHandler)(nil)
	_ TextMeasurer    = charMeasurer{}
	_ pdfRenderer     = (*rodRenderer)(nil)
)

// defaultTimeout bounds PDF preview rendering when no timeout is specified.
const defaultTimeout = 30 * time.Second

// Input describes one conversion request.
type Input struct {
	// Markdown is the source document. Required.
	Markdown string

	// HTMLOnly skips PDF preview generation even when RenderPDF is set.
	HTMLOnly bool

	// RenderPDF additionally renders the HTML preview to PDF through a
	// headless browser.
	RenderPDF bool
}

// ConvertResult is the output of one conversion.
type ConvertResult struct {
	// Deck holds the finalized slides; every element carries a computed
	// position and size.
	Deck *Deck

	// HTML is the absolute-positioned preview of the deck.
	HTML []byte

	// PDF is the rendered preview, present only when requested.
	PDF []byte
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	geo        Geometry
	metricsCfg MetricsConfig
	measurer   TextMeasurer
	timeout    time.Duration
	theme      string
	themeDir   string
	themeCSS   string // resolved at construction
}

// WithSlideSize sets the slide dimensions in points.
func WithSlideSize(width, height float64) Option {
	return func(c *Converter) {
		c.cfg.geo.SlideWidth = width
		c.cfg.geo.SlideHeight = height
	}
}

// WithMargins sets the four slide margins in points.
func WithMargins(m Margins) Option {
	return func(c *Converter) {
		c.cfg.geo.Margins = m
	}
}

// WithMetricsConfig replaces the typography and sizing constants.
func WithMetricsConfig(cfg MetricsConfig) Option {
	return func(c *Converter) {
		c.cfg.metricsCfg = cfg
	}
}

// WithTextMeasurer installs a custom text measurer, e.g. one backed by real
// font metrics. The default is a character-count heuristic.
func WithTextMeasurer(m TextMeasurer) Option {
	return func(c *Converter) {
		c.cfg.measurer = m
	}
}

// WithTheme selects the preview theme by name. Built-in themes are
// "default", "dark" and "paper"; WithThemeDir can add custom ones.
func WithTheme(name string) Option {
	return func(c *Converter) {
		c.cfg.theme = name
	}
}

// WithThemeDir adds a directory of custom theme CSS files. Themes found
// there take precedence over the built-in ones.
func WithThemeDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.themeDir = dir
	}
}

// WithLogger installs a structured logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(c *Converter) {
		c.log = log
	}
}

// WithTimeout sets the PDF preview rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2slides: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// Converter orchestrates the markdown-to-slides pipeline: parse, lay out,
// paginate, preview. Create with NewConverter(), use Convert() for
// conversion, and Close() when done.
type Converter struct {
	cfg     converterConfig
	log     *zap.Logger
	parser  *Parser
	metrics *Metrics
	manager *OverflowManager
	pdf     pdfRenderer
}

// NewConverter creates a Converter with default configuration. Use options
// to customize behavior (e.g. WithSlideSize, WithMargins, WithTextMeasurer).
// Returns an error when the configured geometry leaves no usable space.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			geo:        DefaultGeometry(),
			metricsCfg: DefaultMetricsConfig(),
			timeout:    defaultTimeout,
			theme:      assets.DefaultThemeName,
		},
		log: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.cfg.geo.Validate(); err != nil {
		return nil, err
	}

	themes, err := assets.NewThemeResolver(c.cfg.themeDir)
	if err != nil {
		return nil, err
	}
	c.cfg.themeCSS, err = themes.LoadTheme(c.cfg.theme)
	if err != nil {
		return nil, err
	}

	c.parser = NewParser(c.log)
	c.metrics = NewMetrics(c.cfg.metricsCfg, c.cfg.measurer)
	c.manager = NewOverflowManager(c.cfg.geo, c.metrics, c.log)
	return c, nil
}

// Convert runs the full pipeline and returns the finalized deck plus its
// HTML preview. The context is used for cancellation between stages.
// Recovers from internal panics to prevent crashes from propagating to
// callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if input.Markdown == "" {
		return nil, ErrEmptyMarkdown
	}

	deck, err := c.parser.Parse(input.Markdown)
	if err != nil {
		return nil, fmt.Errorf("parsing markdown: %w", err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	deck = c.manager.ProcessDeck(deck)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	htmlContent, err := RenderHTMLWithTheme(deck, c.cfg.geo, c.cfg.themeCSS)
	if err != nil {
		return nil, fmt.Errorf("rendering preview: %w", err)
	}

	res := &ConvertResult{Deck: deck, HTML: htmlContent}
	if input.HTMLOnly || !input.RenderPDF {
		return res, nil
	}

	if c.pdf == nil {
		c.pdf = newRodRenderer(c.cfg.timeout)
	}
	pdfBytes, err := c.pdf.Render(ctx, htmlContent, c.cfg.geo)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF preview: %w", err)
	}
	res.PDF = pdfBytes
	return res, nil
}

// ProcessSlides paginates pre-built slides, bypassing the parser. Slides
// come in with un-finalized section trees (an external parser collaborator
// may build them directly) and come out finalized.
func (c *Converter) ProcessSlides(slides []*Slide) (*Deck, error) {
	var errs error
	for i, s := range slides {
		if s == nil {
			errs = multierr.Append(errs, fmt.Errorf("slide %d is nil", i))
			continue
		}
		if s.Finalized() {
			errs = multierr.Append(errs, fmt.Errorf("slide %d (%s) is already finalized", i, s.ID))
		}
	}
	if errs != nil {
		return nil, errs
	}
	return c.manager.ProcessDeck(&Deck{Slides: slides}), nil
}

// Close releases resources (the headless browser, when one was started).
func (c *Converter) Close() error {
	if c.pdf != nil {
		return c.pdf.Close()
	}
	return nil
}
