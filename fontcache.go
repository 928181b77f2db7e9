package md2slides

import "sync"

// FontSpec keys a font for measurement purposes.
type FontSpec struct {
	Size   float64
	Family string
	Mono   bool
}

// TextMeasurer is the text-measurement contract used by the metrics
// library. Implementations must be pure: the same inputs always yield the
// same line count, and the count is at least 1 for non-empty text.
//
// The engine does no text shaping itself; callers with access to real font
// metrics can supply their own measurer via WithTextMeasurer.
type TextMeasurer interface {
	// LineCount returns how many wrapped lines the text occupies when
	// rendered at maxWidth points.
	LineCount(text string, font FontSpec, maxWidth float64) int
}

// Character width factors relative to font size, matching average glyph
// advance for common presentation fonts.
const (
	charWidthFactor     = 0.50
	monoCharWidthFactor = 0.60
	minFontSize         = 1.0
)

// fontCache is a process-wide, lazily populated, read-mostly cache of
// average character widths keyed by font spec. Reset exists for test
// isolation.
type fontCache struct {
	mu     sync.RWMutex
	widths map[FontSpec]float64
}

var globalFontCache = &fontCache{widths: make(map[FontSpec]float64)}

// ResetFontCache clears the process-wide font metrics cache.
func ResetFontCache() {
	globalFontCache.mu.Lock()
	defer globalFontCache.mu.Unlock()
	globalFontCache.widths = make(map[FontSpec]float64)
}

// charWidth returns the cached average character width for the spec,
// computing and caching it on first use.
func (c *fontCache) charWidth(font FontSpec) float64 {
	if font.Size < minFontSize {
		font.Size = minFontSize
	}

	c.mu.RLock()
	w, ok := c.widths[font]
	c.mu.RUnlock()
	if ok {
		return w
	}

	factor := charWidthFactor
	if font.Mono {
		factor = monoCharWidthFactor
	}
	w = font.Size * factor

	c.mu.Lock()
	c.widths[font] = w
	c.mu.Unlock()
	return w
}

// charMeasurer is the default TextMeasurer: a character-count heuristic
// over the cached average glyph width.
type charMeasurer struct{}

// LineCount implements TextMeasurer.
func (charMeasurer) LineCount(text string, font FontSpec, maxWidth float64) int {
	if text == "" {
		return 1
	}
	charWidth := globalFontCache.charWidth(font)
	charsPerLine := int(maxWidth / charWidth)
	if charsPerLine < 1 {
		charsPerLine = 1
	}

	total := 0
	for _, line := range splitLines(text) {
		n := len([]rune(line))
		if n == 0 {
			total++
			continue
		}
		total += (n + charsPerLine - 1) / charsPerLine
	}
	return total
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	return append(lines, text[start:])
}
