package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	md2slides "github.com/alnah/go-md2slides"
	"github.com/alnah/go-md2slides/internal/assets"
	"github.com/alnah/go-md2slides/internal/config"
	"github.com/alnah/go-md2slides/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// fileToConvert represents a single file to process.
type fileToConvert struct {
	inputPath  string
	outputPath string // HTML output; the PDF sibling swaps the extension
}

// conversionResult holds the outcome of a single conversion.
type conversionResult struct {
	inputPath string
	slides    int
	err       error
	duration  time.Duration
}

// run orchestrates the conversion process.
func run(flags *cliFlags, args []string) error {
	if flags.workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, flags.workers)
	}

	cfg := config.DefaultConfig()
	var err error
	if flags.config != "" {
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	mergeFlags(flags, cfg)

	log, err := buildLogger(flags)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	inputPath, err := resolveInputPath(args, cfg)
	if err != nil {
		return err
	}
	outputDir := flags.output
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}
	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files under %s", ErrNoInput, inputPath)
	}

	opts, err := converterOptions(cfg, log)
	if err != nil {
		return err
	}
	poolSize := md2slides.ResolvePoolSize(flags.workers)
	if len(files) < poolSize {
		poolSize = len(files)
	}
	pool := md2slides.NewConverterPool(poolSize, opts...)
	defer func() { _ = pool.Close() }()

	log.Info("starting conversion",
		zap.Int("files", len(files)),
		zap.Int("workers", poolSize))

	results := convertAll(context.Background(), pool, files, cfg.Preview.PDF)

	var errs error
	converted := 0
	for _, r := range results {
		if r.err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", r.inputPath, r.err))
			continue
		}
		converted++
		log.Info("converted",
			zap.String("file", r.inputPath),
			zap.Int("slides", r.slides),
			zap.Duration("took", r.duration))
	}
	if !flags.quiet {
		fmt.Fprintf(os.Stderr, "Converted %d/%d file(s)\n", converted, len(files))
	}
	return errs
}

// convertAll fans files out over the converter pool.
func convertAll(ctx context.Context, pool *md2slides.ConverterPool, files []fileToConvert, renderPDF bool) []conversionResult {
	results := make([]conversionResult, len(files))
	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file fileToConvert) {
			defer wg.Done()
			results[i] = convertFile(ctx, pool, file, renderPDF)
		}(i, file)
	}
	wg.Wait()
	return results
}

func convertFile(ctx context.Context, pool *md2slides.ConverterPool, file fileToConvert, renderPDF bool) conversionResult {
	start := time.Now()
	res := conversionResult{inputPath: file.inputPath}

	data, err := os.ReadFile(file.inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		res.err = fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		return res
	}

	conv, err := pool.Acquire()
	if err != nil {
		res.err = withHints(err)
		return res
	}
	defer pool.Release(conv)

	out, err := conv.Convert(ctx, md2slides.Input{
		Markdown:  string(data),
		RenderPDF: renderPDF,
	})
	if err != nil {
		res.err = withHints(err)
		return res
	}

	if err := writeOutput(file.outputPath, out.HTML); err != nil {
		res.err = err
		return res
	}
	if len(out.PDF) > 0 {
		pdfPath := strings.TrimSuffix(file.outputPath, ".html") + ".pdf"
		if err := writeOutput(pdfPath, out.PDF); err != nil {
			res.err = err
			return res
		}
	}

	res.slides = len(out.Deck.Slides)
	res.duration = time.Since(start)
	return res
}

// withHints appends an actionable hint to known browser failures.
func withHints(err error) error {
	switch {
	case errors.Is(err, md2slides.ErrBrowserConnect):
		if h := hints.ForBrowserConnect(); h != "" {
			return fmt.Errorf("%w%s", err, h)
		}
	case errors.Is(err, md2slides.ErrPageLoad):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	case errors.Is(err, assets.ErrThemeNotFound):
		return fmt.Errorf("%w%s", err, hints.ForThemeNotFound(assets.BuiltinThemes()))
	}
	return err
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
		}
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// mergeFlags overlays CLI flags onto the config; CLI wins.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.width > 0 {
		cfg.Slide.Width = flags.width
	}
	if flags.height > 0 {
		cfg.Slide.Height = flags.height
	}
	if flags.margin > 0 {
		cfg.Slide.Margin = flags.margin
	}
	if flags.pdf {
		cfg.Preview.PDF = true
	}
	if flags.timeout != "" {
		cfg.Preview.Timeout = flags.timeout
	}
	if flags.theme != "" {
		cfg.Preview.Theme = flags.theme
	}
	if flags.themeDir != "" {
		cfg.Preview.ThemeDir = flags.themeDir
	}
}

// converterOptions translates config into engine options.
func converterOptions(cfg *config.Config, log *zap.Logger) ([]md2slides.Option, error) {
	opts := []md2slides.Option{md2slides.WithLogger(log)}
	if cfg.Slide.Width > 0 || cfg.Slide.Height > 0 {
		geo := md2slides.DefaultGeometry()
		w, h := geo.SlideWidth, geo.SlideHeight
		if cfg.Slide.Width > 0 {
			w = cfg.Slide.Width
		}
		if cfg.Slide.Height > 0 {
			h = cfg.Slide.Height
		}
		opts = append(opts, md2slides.WithSlideSize(w, h))
	}
	if cfg.Slide.Margin > 0 {
		m := cfg.Slide.Margin
		opts = append(opts, md2slides.WithMargins(md2slides.Margins{Top: m, Right: m, Bottom: m, Left: m}))
	}
	if cfg.Preview.Timeout != "" {
		d, err := time.ParseDuration(cfg.Preview.Timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid timeout %q", cfg.Preview.Timeout)
		}
		opts = append(opts, md2slides.WithTimeout(d))
	}
	if cfg.Preview.Theme != "" {
		opts = append(opts, md2slides.WithTheme(cfg.Preview.Theme))
	}
	if cfg.Preview.ThemeDir != "" {
		opts = append(opts, md2slides.WithThemeDir(cfg.Preview.ThemeDir))
	}
	return opts, nil
}

// buildLogger creates a console logger honoring quiet/verbose.
func buildLogger(flags *cliFlags) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	switch {
	case flags.quiet:
		level = zapcore.ErrorLevel
	case flags.verbose:
		level = zapcore.DebugLevel
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}

// resolveInputPath picks the input from positional args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// discoverFiles expands the input path into files to convert. A single file
// must carry a markdown extension; a directory is walked recursively.
func discoverFiles(inputPath, outputDir string) ([]fileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !isMarkdownFile(inputPath) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidExtension, inputPath)
		}
		return []fileToConvert{{
			inputPath:  inputPath,
			outputPath: outputPathFor(inputPath, filepath.Dir(inputPath), outputDir),
		}}, nil
	}

	var files []fileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdownFile(path) {
			return nil
		}
		files = append(files, fileToConvert{
			inputPath:  path,
			outputPath: outputPathFor(path, inputPath, outputDir),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func isMarkdownFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// outputPathFor mirrors the input layout under outputDir (or keeps files
// beside their sources when no output directory is set).
func outputPathFor(inputPath, baseDir, outputDir string) string {
	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)) + ".html"
	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}
	rel, err := filepath.Rel(baseDir, filepath.Dir(inputPath))
	if err != nil || rel == "." {
		return filepath.Join(outputDir, name)
	}
	return filepath.Join(outputDir, rel, name)
}
