package md2slides

import (
	"fmt"
	"strconv"
	"strings"
)

// Directives is a style/layout hint map attached to sections and elements.
// Values are strings, float64 or bool depending on the key.
type Directives map[string]any

// Directive keys recognized by the layout engine. Other keys pass through
// untouched for the downstream renderer.
const (
	DirWidth       = "width"
	DirHeight      = "height"
	DirAlign       = "align"
	DirVAlign      = "valign"
	DirColor       = "color"
	DirFontSize    = "fontsize"
	DirFontFamily  = "font-family"
	DirBold        = "bold"
	DirItalic      = "italic"
	DirLineSpacing = "line-spacing"
	DirBackground  = "background"
	DirPadding     = "padding"
	DirGap         = "gap"
	DirFill        = "fill"
)

// inheritableKeys cascade from a container to its children during directive
// merging. Background additionally cascades section to element, nothing else
// does; width, height, padding and gap stay local to the node that carries
// them.
var inheritableKeys = map[string]bool{
	DirAlign:       true,
	DirColor:       true,
	DirFontSize:    true,
	DirFontFamily:  true,
	DirBold:        true,
	DirItalic:      true,
	DirLineSpacing: true,
	DirVAlign:      true,
}

// Clone returns a copy of the map. Values are immutable scalars, so a
// shallow copy of entries is a deep copy.
func (d Directives) Clone() Directives {
	if d == nil {
		return nil
	}
	c := make(Directives, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}

// Bool reads a boolean directive; string "true" and bool true both count.
func (d Directives) Bool(key string) bool {
	switch v := d[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// Float reads a numeric directive, returning (0, false) when absent or
// non-numeric.
func (d Directives) Float(key string) (float64, bool) {
	switch v := d[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// String reads a string directive.
func (d Directives) String(key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// MergeDirectives merges four precedence layers, lowest first: engine base
// values, directives inherited from the enclosing container, the node's own
// directives, and per-call overrides. Only the inheritable allow-list (plus
// background when inheritBackground is set, used for section-to-element
// propagation) crosses the container boundary.
func MergeDirectives(base, inherited, specific, override Directives, inheritBackground bool) Directives {
	merged := make(Directives, len(base)+len(inherited)+len(specific)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range inherited {
		if inheritableKeys[k] || (inheritBackground && k == DirBackground) {
			merged[k] = v
		}
	}
	for k, v := range specific {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

// applyInherited copies a container's inheritable directives onto an
// element, keeping the element's own values where both exist.
func applyInherited(section *Section, e *Element) {
	if section == nil || len(section.Directives) == 0 {
		return
	}
	for k, v := range section.Directives {
		if !inheritableKeys[k] && k != DirBackground {
			continue
		}
		if e.Directives == nil {
			e.Directives = Directives{}
		}
		if _, exists := e.Directives[k]; !exists {
			e.Directives[k] = v
		}
	}
}

// resolveDimension parses a width/height directive value against a total
// extent. Accepted forms: "N%" strings, fractions in (0, 1], and absolute
// point values > 1 clamped to the total. Anything else yields the fallback.
func resolveDimension(value any, total, fallback float64) float64 {
	switch v := value.(type) {
	case nil:
		return fallback
	case string:
		s := strings.TrimSpace(v)
		if strings.HasSuffix(s, "%") {
			pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			if err != nil || pct < 0 {
				return fallback
			}
			return total * pct / 100.0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fallback
		}
		return resolveDimension(f, total, fallback)
	case int:
		return resolveDimension(float64(v), total, fallback)
	case float64:
		if v > 0 && v <= 1 {
			return total * v
		}
		if v > 1 {
			if v > total {
				return total
			}
			return v
		}
		return fallback
	}
	return fallback
}

// hasDimension reports whether the node carries a parseable width/height
// directive for the key.
func hasDimension(d Directives, key string) bool {
	v, ok := d[key]
	if !ok {
		return false
	}
	// A sentinel below zero never collides with a real resolution.
	return resolveDimension(v, 100, -1) >= 0
}

// parseDirectiveValue converts a raw directive string into its typed value.
func parseDirectiveValue(key, raw string) any {
	switch key {
	case DirBold, DirItalic, DirFill:
		if raw == "" || raw == "true" {
			return true
		}
		return raw == "1"
	case DirFontSize, DirLineSpacing, DirPadding, DirGap:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return raw
	case DirWidth, DirHeight:
		if strings.HasSuffix(raw, "%") {
			return raw
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return raw
	}
	return raw
}

// formatDirective renders a directive back to its [key=value] source form,
// used by error messages and the preview.
func formatDirective(key string, value any) string {
	return fmt.Sprintf("[%s=%v]", key, value)
}
