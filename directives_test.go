package md2slides

import (
	"testing"
)

func TestDirectivesBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dirs Directives
		key  string
		want bool
	}{
		{name: "bool true", dirs: Directives{"fill": true}, key: "fill", want: true},
		{name: "bool false", dirs: Directives{"fill": false}, key: "fill", want: false},
		{name: "string true", dirs: Directives{"bold": "true"}, key: "bold", want: true},
		{name: "string false", dirs: Directives{"bold": "false"}, key: "bold", want: false},
		{name: "absent", dirs: Directives{}, key: "bold", want: false},
		{name: "nil map", dirs: nil, key: "bold", want: false},
		{name: "non-bool value", dirs: Directives{"bold": 3.0}, key: "bold", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.dirs.Bool(tt.key); got != tt.want {
				t.Errorf("Bool(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestDirectivesFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		dirs   Directives
		key    string
		want   float64
		wantOK bool
	}{
		{name: "float value", dirs: Directives{"fontsize": 18.0}, key: "fontsize", want: 18, wantOK: true},
		{name: "int value", dirs: Directives{"fontsize": 18}, key: "fontsize", want: 18, wantOK: true},
		{name: "numeric string", dirs: Directives{"fontsize": "18.5"}, key: "fontsize", want: 18.5, wantOK: true},
		{name: "non-numeric string", dirs: Directives{"fontsize": "big"}, key: "fontsize", want: 0, wantOK: false},
		{name: "absent", dirs: Directives{}, key: "fontsize", want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := tt.dirs.Float(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Float(%q) = (%v, %v), want (%v, %v)", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDirectivesClone(t *testing.T) {
	t.Parallel()

	orig := Directives{"color": "#fff", "fontsize": 18.0}
	clone := orig.Clone()
	clone["color"] = "#000"

	if orig["color"] != "#fff" {
		t.Errorf("mutating clone changed original: %v", orig["color"])
	}
	if nilClone := Directives(nil).Clone(); nilClone != nil {
		t.Errorf("Clone of nil = %v, want nil", nilClone)
	}
}

func TestMergeDirectives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		base              Directives
		inherited         Directives
		specific          Directives
		override          Directives
		inheritBackground bool
		wantKey           string
		want              any
	}{
		{
			name:     "specific wins over base",
			base:     Directives{DirFontSize: 14.0},
			specific: Directives{DirFontSize: 20.0},
			wantKey:  DirFontSize,
			want:     20.0,
		},
		{
			name:      "inherited wins over base for allowed keys",
			base:      Directives{DirColor: "#000"},
			inherited: Directives{DirColor: "#abc"},
			wantKey:   DirColor,
			want:      "#abc",
		},
		{
			name:      "width does not cross the container boundary",
			base:      Directives{DirWidth: 100.0},
			inherited: Directives{DirWidth: 50.0},
			wantKey:   DirWidth,
			want:      100.0,
		},
		{
			name:      "background blocked by default",
			inherited: Directives{DirBackground: "#eee"},
			wantKey:   DirBackground,
			want:      nil,
		},
		{
			name:              "background inherited when enabled",
			inherited:         Directives{DirBackground: "#eee"},
			inheritBackground: true,
			wantKey:           DirBackground,
			want:              "#eee",
		},
		{
			name:     "override beats everything",
			base:     Directives{DirAlign: "left"},
			specific: Directives{DirAlign: "center"},
			override: Directives{DirAlign: "right"},
			wantKey:  DirAlign,
			want:     "right",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			merged := MergeDirectives(tt.base, tt.inherited, tt.specific, tt.override, tt.inheritBackground)
			if got := merged[tt.wantKey]; got != tt.want {
				t.Errorf("merged[%q] = %v, want %v", tt.wantKey, got, tt.want)
			}
		})
	}
}

func TestApplyInherited(t *testing.T) {
	t.Parallel()

	section := &Section{
		ID:   "s1",
		Kind: KindSection,
		Directives: Directives{
			DirColor: "#333",
			DirWidth: 200.0, // not inheritable
		},
	}
	e := &Element{ID: "e1", Kind: ElementText, Directives: Directives{DirColor: "#fff"}}
	applyInherited(section, e)

	if got := e.Directives.String(DirColor); got != "#fff" {
		t.Errorf("element's own color overwritten: got %q, want %q", got, "#fff")
	}
	if _, ok := e.Directives[DirWidth]; ok {
		t.Error("width should not inherit from section to element")
	}

	e2 := &Element{ID: "e2", Kind: ElementText}
	applyInherited(section, e2)
	if got := e2.Directives.String(DirColor); got != "#333" {
		t.Errorf("color not inherited: got %q, want %q", got, "#333")
	}
}

func TestResolveDimension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    any
		total    float64
		fallback float64
		want     float64
	}{
		{name: "nil yields fallback", value: nil, total: 100, fallback: 42, want: 42},
		{name: "percent string", value: "50%", total: 200, fallback: 0, want: 100},
		{name: "fraction", value: 0.25, total: 200, fallback: 0, want: 50},
		{name: "absolute points", value: 150.0, total: 200, fallback: 0, want: 150},
		{name: "absolute clamped to total", value: 500.0, total: 200, fallback: 0, want: 200},
		{name: "numeric string", value: "120", total: 200, fallback: 0, want: 120},
		{name: "garbage string yields fallback", value: "wide", total: 200, fallback: 33, want: 33},
		{name: "int value", value: 80, total: 200, fallback: 0, want: 80},
		{name: "negative yields fallback", value: -5.0, total: 200, fallback: 17, want: 17},
		{name: "negative percent yields fallback", value: "-10%", total: 200, fallback: 17, want: 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveDimension(tt.value, tt.total, tt.fallback); got != tt.want {
				t.Errorf("resolveDimension(%v, %v, %v) = %v, want %v",
					tt.value, tt.total, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestHasDimension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dirs Directives
		want bool
	}{
		{name: "absent", dirs: Directives{}, want: false},
		{name: "valid float", dirs: Directives{DirWidth: 100.0}, want: true},
		{name: "valid percent", dirs: Directives{DirWidth: "40%"}, want: true},
		{name: "unparseable", dirs: Directives{DirWidth: "wide"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := hasDimension(tt.dirs, DirWidth); got != tt.want {
				t.Errorf("hasDimension(%v) = %v, want %v", tt.dirs, got, tt.want)
			}
		})
	}
}

func TestParseDirectiveValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		raw  string
		want any
	}{
		{name: "bare flag is true", key: DirFill, raw: "", want: true},
		{name: "explicit true", key: DirBold, raw: "true", want: true},
		{name: "explicit false", key: DirBold, raw: "false", want: false},
		{name: "fontsize number", key: DirFontSize, raw: "18", want: 18.0},
		{name: "width percent stays string", key: DirWidth, raw: "50%", want: "50%"},
		{name: "width number", key: DirWidth, raw: "200", want: 200.0},
		{name: "color passes through", key: DirColor, raw: "#abcdef", want: "#abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := parseDirectiveValue(tt.key, tt.raw); got != tt.want {
				t.Errorf("parseDirectiveValue(%q, %q) = %v (%T), want %v (%T)",
					tt.key, tt.raw, got, got, tt.want, tt.want)
			}
		})
	}
}
