// Package assets provides CSS themes for the HTML slide preview.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	ThemeLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in themes)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── ThemeResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides built-in themes (default, dark, paper) embedded at
// compile time.
//
// FilesystemLoader allows users to provide custom themes from a directory,
// with path traversal protection and symlink resolution.
//
// ThemeResolver is the primary loader used by the converter. It tries the
// custom FilesystemLoader first, falling back to EmbeddedLoader if the theme
// is not found. This enables overriding specific themes while keeping defaults.
//
// # Directory Structure
//
// A custom theme directory holds one CSS file per theme:
//
//	{basePath}/
//	├── {name}.css           # e.g. corporate.css, loaded as "corporate"
//	└── ...
//
// A theme only restyles the preview (colors, fonts, chrome). The structural
// CSS that positions elements on slides is fixed and always applied first.
//
// # Security
//
// Theme names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
