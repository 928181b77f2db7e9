// Package assets provides CSS themes for the HTML slide preview.
// Themes can be loaded from embedded files or custom filesystem paths.
package assets

// DefaultThemeName is the name of the built-in theme used when none is
// requested.
const DefaultThemeName = "default"

// defaultLoader is the package-level embedded loader for callers that do not
// need filesystem overrides.
var defaultLoader = NewEmbeddedLoader()

// LoadTheme loads an embedded theme's CSS by name using the default loader.
// The name should not include the .css extension or path components.
// Returns ErrThemeNotFound if the theme does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadTheme(name string) (string, error) {
	return defaultLoader.LoadTheme(name)
}
