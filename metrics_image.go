package md2slides

import (
	"net/url"
	"regexp"
	"strconv"
)

// Aspect ratio hints embedded in image references, e.g. "photo_800x600.png"
// or "https://example.com/img/1920x1080/cover.jpg".
var dimensionsInPathRe = regexp.MustCompile(`(?i)(?:^|[/_.-])(\d{2,5})x(\d{2,5})(?:[/_.-]|$)`)

// ImageDisplaySize returns the display size for an image, proactively
// scaled so the image never has to be split during pagination.
//
// Width fills the available width unless a width directive narrows it.
// Height follows the aspect ratio detected from the reference (dimensions
// in the path or w/h query parameters), falling back to the configured
// default ratio. An explicit height directive wins over the computed
// height. When availableHeight is positive the height is additionally
// capped to the configured fraction of it, shrinking the width to keep the
// ratio.
func (m *Metrics) ImageDisplaySize(e *Element, availableWidth, availableHeight float64) (float64, float64) {
	// An explicit zero-area size suppresses the image entirely.
	if e.Size != nil && e.Size.W == 0 && e.Size.H == 0 {
		return 0, 0
	}

	ratio := e.AspectRatio
	if ratio <= 0 {
		ratio = detectAspectRatio(e.URL, m.cfg.DefaultAspectRatio)
	}

	width := resolveDimension(e.Directives[DirWidth], availableWidth, availableWidth)
	height := width / ratio

	if v, ok := e.Directives[DirHeight]; ok && availableHeight > 0 {
		height = resolveDimension(v, availableHeight, height)
	} else if v, ok := e.Directives[DirHeight]; ok {
		height = resolveDimension(v, height, height)
	}

	if availableHeight > 0 {
		cap := availableHeight * m.cfg.ImageHeightCap
		if height > cap {
			height = cap
			width = height * ratio
			if width > availableWidth {
				width = availableWidth
			}
		}
	}

	if height < m.cfg.MinImageHeight && width > 0 {
		height = m.cfg.MinImageHeight
		width = height * ratio
		if width > availableWidth {
			width = availableWidth
		}
	}
	return width, height
}

// detectAspectRatio extracts a width/height ratio from structured hints in
// the image reference: a WxH token in the path, or w=/h= (width=/height=)
// query parameters. Returns fallback when no hint parses.
func detectAspectRatio(ref string, fallback float64) float64 {
	if ref == "" {
		return fallback
	}

	if u, err := url.Parse(ref); err == nil {
		q := u.Query()
		w := firstQueryFloat(q, "w", "width")
		h := firstQueryFloat(q, "h", "height")
		if w > 0 && h > 0 {
			return w / h
		}
		if match := dimensionsInPathRe.FindStringSubmatch(u.Path); match != nil {
			return ratioFromStrings(match[1], match[2], fallback)
		}
	}

	// Not a URL; try the raw reference for a dimension token.
	if match := dimensionsInPathRe.FindStringSubmatch(ref); match != nil {
		return ratioFromStrings(match[1], match[2], fallback)
	}
	return fallback
}

func firstQueryFloat(q url.Values, keys ...string) float64 {
	for _, key := range keys {
		if v := q.Get(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				return f
			}
		}
	}
	return 0
}

func ratioFromStrings(w, h string, fallback float64) float64 {
	fw, errW := strconv.ParseFloat(w, 64)
	fh, errH := strconv.ParseFloat(h, 64)
	if errW != nil || errH != nil || fw <= 0 || fh <= 0 {
		return fallback
	}
	return fw / fh
}
