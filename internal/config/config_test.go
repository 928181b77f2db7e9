package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slides.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
input:
  defaultDir: ./decks
output:
  defaultDir: ./out
slide:
  width: 960
  height: 540
  margin: 40
preview:
  pdf: true
  timeout: 45s
  theme: dark
  themeDir: ./themes
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Input.DefaultDir != "./decks" || cfg.Output.DefaultDir != "./out" {
		t.Errorf("directories = %+v / %+v", cfg.Input, cfg.Output)
	}
	if cfg.Slide.Width != 960 || cfg.Slide.Height != 540 || cfg.Slide.Margin != 40 {
		t.Errorf("slide = %+v", cfg.Slide)
	}
	if !cfg.Preview.PDF || cfg.Preview.Timeout != "45s" {
		t.Errorf("preview = %+v", cfg.Preview)
	}
	if cfg.Preview.Theme != "dark" || cfg.Preview.ThemeDir != "./themes" {
		t.Errorf("theme settings = %+v", cfg.Preview)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("LoadConfig(\"\") error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "absent.yaml")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "slide:\n  widht: 960\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigParse for a misspelled key", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "slide: [unclosed")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("negative geometry rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "slide:\n  width: -10\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidSlide) {
			t.Errorf("LoadConfig() error = %v, want ErrInvalidSlide", err)
		}
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "zero values pass", cfg: Config{}, wantErr: false},
		{name: "explicit geometry passes", cfg: Config{Slide: SlideConfig{Width: 720, Height: 405, Margin: 50}}, wantErr: false},
		{name: "negative width", cfg: Config{Slide: SlideConfig{Width: -1}}, wantErr: true},
		{name: "negative margin", cfg: Config{Slide: SlideConfig{Margin: -5}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
