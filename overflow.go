package md2slides

import "go.uber.org/zap"

// Detector finds the first node of a laid-out slide that crosses the body
// zone's bottom edge.
//
// The scan is depth-first in document order and checks each ancestor before
// its descendants, so an overflowing section is reported before any of its
// children. A small tolerance absorbs floating-point jitter from the layout
// pass. A section with an explicit height directive that itself fits clips
// its interior: content past its bottom edge is the renderer's problem, not
// an overflow.
type Detector struct {
	calc *Calculator
	log  *zap.Logger
}

// NewDetector returns a detector over the calculator's body zone. A nil
// logger disables logging.
func NewDetector(calc *Calculator, log *zap.Logger) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{calc: calc, log: log}
}

// FirstOverflow returns the first overflowing node of the slide, or nil
// when everything fits. The slide must already be laid out; nodes without
// geometry are skipped.
func (d *Detector) FirstOverflow(slide *Slide) Node {
	if slide == nil || slide.Root == nil {
		return nil
	}
	_, bodyBottom := d.calc.BodyZone(slide)
	node := d.scan(slide.Root, bodyBottom+overflowTolerance)
	if node != nil {
		pos, size := node.Box()
		d.log.Debug("overflow detected",
			zap.String("slide", slide.ID),
			zap.String("node", node.NodeID()),
			zap.Float64("bottom", pos.Y+size.H),
			zap.Float64("limit", bodyBottom))
	}
	return node
}

// HasOverflow reports whether any node of the slide overflows the body zone.
func (d *Detector) HasOverflow(slide *Slide) bool {
	return d.FirstOverflow(slide) != nil
}

func (d *Detector) scan(s *Section, limit float64) Node {
	for _, child := range s.Children {
		pos, size := child.Box()
		if pos == nil || size == nil {
			continue
		}
		if pos.Y+size.H > limit {
			return child
		}
		sub, ok := child.(*Section)
		if !ok {
			continue
		}
		// Fixed-height sections that fit clip their own interior.
		if hasDimension(sub.Directives, DirHeight) {
			continue
		}
		if found := d.scan(sub, limit); found != nil {
			return found
		}
	}
	return nil
}
