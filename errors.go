package md2slides

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown = errors.New("markdown content cannot be empty")
	ErrParse         = errors.New("markdown parsing failed")

	// Geometry validation errors.
	ErrInvalidSlideSize = errors.New("invalid slide size")
	ErrInvalidMargins   = errors.New("invalid margins")

	// Layout and overflow errors.
	ErrNoRootSection   = errors.New("slide has no root section")
	ErrParentNotFound  = errors.New("parent of overflowing node not found")
	ErrUnsplittable    = errors.New("element cannot be split")
	ErrContinuationCap = errors.New("continuation slide limit reached")
	ErrIterationCap    = errors.New("overflow iteration limit reached")

	// Preview errors.
	ErrNotFinalized   = errors.New("slide not finalized")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load preview page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
