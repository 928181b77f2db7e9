package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all command-line flags.
type cliFlags struct {
	config  string
	output  string
	workers int
	timeout string

	width  float64
	height float64
	margin float64

	pdf      bool
	theme    string
	themeDir string

	quiet   bool
	verbose bool
	version bool
}

// parseFlags parses the command line and returns flags plus positional
// arguments (input files or directories).
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("md2slides", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF rendering timeout (e.g., 30s, 2m)")

	fs.Float64Var(&f.width, "width", 0, "slide width in points (0 = default 720)")
	fs.Float64Var(&f.height, "height", 0, "slide height in points (0 = default 405)")
	fs.Float64Var(&f.margin, "margin", 0, "slide margin in points (0 = default 50)")

	fs.BoolVar(&f.pdf, "pdf", false, "render a PDF preview alongside the HTML")
	fs.StringVar(&f.theme, "theme", "", "preview theme (default, dark, paper, or custom)")
	fs.StringVar(&f.themeDir, "theme-dir", "", "directory with custom theme CSS files")

	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() { printUsage(os.Stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func printUsage(w *os.File, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: md2slides [flags] <input.md | directory>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Converts slide markdown into positioned, paginated HTML slide decks.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
}
