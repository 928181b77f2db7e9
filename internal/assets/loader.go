package assets

// ThemeLoader defines the contract for loading preview themes.
// Implementations may load from embedded assets, filesystem, S3, database, etc.
type ThemeLoader interface {
	// LoadTheme loads a theme's CSS by name (without .css extension).
	// Returns ErrThemeNotFound if the theme doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTheme(name string) (string, error)
}
