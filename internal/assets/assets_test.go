package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadThemeBuiltins(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"default", "dark", "paper"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			css, err := LoadTheme(name)
			if err != nil {
				t.Fatalf("LoadTheme(%q) error = %v", name, err)
			}
			if !strings.Contains(css, ".slide") {
				t.Errorf("theme %q does not style the slide container", name)
			}
		})
	}
}

func TestLoadThemeUnknown(t *testing.T) {
	t.Parallel()

	_, err := LoadTheme("no-such-theme")
	if !errors.Is(err, ErrThemeNotFound) {
		t.Errorf("LoadTheme() error = %v, want ErrThemeNotFound", err)
	}
}

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		asset string
		valid bool
	}{
		{name: "simple name", asset: "default", valid: true},
		{name: "hyphenated name", asset: "my-theme", valid: true},
		{name: "empty", asset: "", valid: false},
		{name: "forward slash", asset: "a/b", valid: false},
		{name: "backslash", asset: `a\b`, valid: false},
		{name: "traversal", asset: "..", valid: false},
		{name: "hidden traversal", asset: "ok..nope", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.asset)
			if tt.valid && err != nil {
				t.Errorf("ValidateAssetName(%q) = %v, want nil", tt.asset, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("ValidateAssetName(%q) = %v, want ErrInvalidAssetName", tt.asset, err)
			}
		})
	}
}

func TestBuiltinThemes(t *testing.T) {
	t.Parallel()

	names := BuiltinThemes()
	if len(names) < 3 {
		t.Fatalf("BuiltinThemes() = %v, want at least the three shipped themes", names)
	}
	for _, want := range []string{"dark", "default", "paper"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("BuiltinThemes() = %v, missing %q", names, want)
		}
	}
	for _, n := range names {
		if strings.HasSuffix(n, ".css") {
			t.Errorf("theme name %q still carries the extension", n)
		}
	}
}

func TestFilesystemLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	css := ".slide { background: #fafafa; }"
	if err := os.WriteFile(filepath.Join(dir, "corporate.css"), []byte(css), 0o600); err != nil {
		t.Fatal(err)
	}

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	t.Run("loads custom theme", func(t *testing.T) {
		t.Parallel()

		got, err := loader.LoadTheme("corporate")
		if err != nil {
			t.Fatalf("LoadTheme() error = %v", err)
		}
		if got != css {
			t.Errorf("LoadTheme() = %q, want %q", got, css)
		}
	})

	t.Run("missing theme", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadTheme("absent")
		if !errors.Is(err, ErrThemeNotFound) {
			t.Errorf("LoadTheme() error = %v, want ErrThemeNotFound", err)
		}
	})

	t.Run("traversal name rejected", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadTheme("../corporate")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadTheme() error = %v, want ErrInvalidAssetName", err)
		}
	})
}

func TestNewFilesystemLoaderInvalidPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "missing directory", path: filepath.Join(os.TempDir(), "md2slides-no-such-dir")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewFilesystemLoader(tt.path); !errors.Is(err, ErrInvalidBasePath) {
				t.Errorf("NewFilesystemLoader(%q) error = %v, want ErrInvalidBasePath", tt.path, err)
			}
		})
	}

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()

		f := filepath.Join(t.TempDir(), "plain.css")
		if err := os.WriteFile(f, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := NewFilesystemLoader(f); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestThemeResolver(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "default.css"), []byte("/* custom default */"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "corporate.css"), []byte("/* corporate */"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("embedded only", func(t *testing.T) {
		t.Parallel()

		r, err := NewThemeResolver("")
		if err != nil {
			t.Fatalf("NewThemeResolver() error = %v", err)
		}
		if r.HasCustomLoader() {
			t.Error("HasCustomLoader() = true without a custom path")
		}
		if _, err := r.LoadTheme("dark"); err != nil {
			t.Errorf("LoadTheme(dark) error = %v", err)
		}
	})

	t.Run("custom overrides embedded", func(t *testing.T) {
		t.Parallel()

		r, err := NewThemeResolver(dir)
		if err != nil {
			t.Fatalf("NewThemeResolver() error = %v", err)
		}
		if !r.HasCustomLoader() {
			t.Error("HasCustomLoader() = false with a custom path")
		}
		got, err := r.LoadTheme("default")
		if err != nil {
			t.Fatalf("LoadTheme() error = %v", err)
		}
		if got != "/* custom default */" {
			t.Errorf("LoadTheme(default) = %q, want the custom override", got)
		}
	})

	t.Run("falls back to embedded", func(t *testing.T) {
		t.Parallel()

		r, err := NewThemeResolver(dir)
		if err != nil {
			t.Fatalf("NewThemeResolver() error = %v", err)
		}
		css, err := r.LoadTheme("dark")
		if err != nil {
			t.Fatalf("LoadTheme(dark) error = %v", err)
		}
		if !strings.Contains(css, ".slide") {
			t.Error("fallback did not return the embedded theme")
		}
	})

	t.Run("unknown everywhere", func(t *testing.T) {
		t.Parallel()

		r, err := NewThemeResolver(dir)
		if err != nil {
			t.Fatalf("NewThemeResolver() error = %v", err)
		}
		if _, err := r.LoadTheme("absent"); !errors.Is(err, ErrThemeNotFound) {
			t.Errorf("LoadTheme(absent) error = %v, want ErrThemeNotFound", err)
		}
	})

	t.Run("invalid custom path surfaces", func(t *testing.T) {
		t.Parallel()

		if _, err := NewThemeResolver(filepath.Join(os.TempDir(), "md2slides-no-such-dir")); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewThemeResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}
