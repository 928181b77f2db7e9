package md2slides

import (
	"go.uber.org/zap"
)

// OverflowManager orchestrates pagination: it lays a slide out, finds
// overflow, routes it to the right handler, and loops continuations back
// through the cycle until everything fits or a termination bound trips.
//
// The manager is the only component that finalizes slides. A finalized
// slide has its section tree flattened into the ordered renderable list
// and the tree discarded; downstream consumers never see geometry trees.
type OverflowManager struct {
	calc     *Calculator
	detector *Detector
	metrics  *Metrics
	log      *zap.Logger
}

// NewOverflowManager builds a manager over the given geometry and metrics.
// A nil logger disables logging.
func NewOverflowManager(geo Geometry, metrics *Metrics, log *zap.Logger) *OverflowManager {
	if log == nil {
		log = zap.NewNop()
	}
	calc := NewCalculator(geo, metrics, log)
	return &OverflowManager{
		calc:     calc,
		detector: NewDetector(calc, log),
		metrics:  metrics,
		log:      log,
	}
}

// Calculator exposes the manager's position calculator.
func (om *OverflowManager) Calculator() *Calculator { return om.calc }

// ProcessDeck paginates every slide in order. The output deck may hold
// more slides than the input; each output slide is finalized.
func (om *OverflowManager) ProcessDeck(deck *Deck) *Deck {
	out := &Deck{}
	for _, slide := range deck.Slides {
		out.Slides = append(out.Slides, om.ProcessSlide(slide)...)
	}
	return out
}

// ProcessSlide paginates one slide into as many finalized slides as its
// content needs. The slide is mutated in place. Every returned slide holds
// at least one renderable; a fitted slide left with nothing above the
// partition point is dropped in favor of its continuation.
//
// Processing runs a FIFO worklist: a slide with no overflow is finalized,
// an overflowing slide is partitioned and its continuation re-laid-out and
// pushed back. Termination is guaranteed three ways: the relocation circuit
// breaker (content that still overflows after a wholesale move is accepted
// as-is), the per-origin continuation cap, and the hard iteration cap.
func (om *OverflowManager) ProcessSlide(slide *Slide) []*Slide {
	if slide == nil {
		return nil
	}

	builder := NewSlideBuilder(om.log)
	std := NewStandardHandler(om.metrics, builder, om.log)
	handler := NewFillContextHandler(std, om.log)

	om.calc.Layout(slide)
	worklist := []*Slide{slide}
	var results []*Slide

	for iter := 0; len(worklist) > 0; iter++ {
		if iter >= MaxIterations {
			om.log.Warn("pagination stopped, emitting remaining slides as-is",
				zap.String("slide", slide.ID),
				zap.Error(ErrIterationCap))
			for _, s := range worklist {
				results = append(results, om.finalize(s))
			}
			break
		}

		s := worklist[0]
		worklist = worklist[1:]

		node := om.detector.FirstOverflow(s)
		if node == nil {
			results = append(results, om.finalize(s))
			continue
		}

		if alreadyRelocated(node) {
			// Content that still overflows after a wholesale move cannot
			// be reduced further; accept the overflow rather than loop.
			om.log.Warn("circuit breaker: relocated content still overflows",
				zap.String("slide", s.ID),
				zap.String("node", node.NodeID()))
			results = append(results, om.finalize(s))
			continue
		}

		if builder.Count(s.ID) >= MaxContinuations {
			om.log.Warn("pagination stopped, emitting remaining slides as-is",
				zap.String("slide", s.ID),
				zap.Error(ErrContinuationCap))
			results = append(results, om.finalize(s))
			for _, rest := range worklist {
				results = append(results, om.finalize(rest))
			}
			break
		}

		_, bodyBottom := om.calc.BodyZone(s)
		fitted, cont, err := handler.Handle(s, node, bodyBottom)
		if err != nil {
			// Structural inconsistency: emit the slide unchanged instead
			// of failing the whole conversion.
			om.log.Error("pagination aborted for slide",
				zap.String("slide", s.ID),
				zap.Error(err))
			results = append(results, om.finalize(s))
			continue
		}

		if hasRenderableContent(fitted) {
			results = append(results, om.finalize(fitted))
		} else {
			// Nothing fit above the partition point and the slide carries
			// no meta elements; an empty slide helps nobody.
			om.log.Debug("dropping empty fitted slide",
				zap.String("slide", fitted.ID))
		}
		if cont != nil {
			om.calc.Layout(cont)
			worklist = append(worklist, cont)
		}
	}
	return results
}

// finalize flattens the slide's positioned tree into the ordered renderable
// list and discards the tree.
func (om *OverflowManager) finalize(s *Slide) *Slide {
	var out []*Element
	if s.Title != nil {
		out = append(out, s.Title)
	}
	if s.Subtitle != nil {
		out = append(out, s.Subtitle)
	}
	if s.Root != nil {
		collectElements(s.Root, &out)
	}
	if s.Footer != nil {
		out = append(out, s.Footer)
	}
	s.Renderables = out
	s.Root = nil
	return s
}

// collectElements appends the subtree's elements in document order.
func collectElements(s *Section, out *[]*Element) {
	for _, child := range s.Children {
		switch t := child.(type) {
		case *Element:
			*out = append(*out, t)
		case *Section:
			collectElements(t, out)
		}
	}
}

// hasRenderableContent reports whether finalizing the slide would yield at
// least one renderable. Partitioning a slide without title or footer can
// leave the fitted side empty when its very first body node cannot fit even
// partially.
func hasRenderableContent(s *Slide) bool {
	if s.Title != nil || s.Subtitle != nil || s.Footer != nil {
		return true
	}
	return s.Root != nil && s.Root.HasContent()
}

// alreadyRelocated reports whether the node was moved wholesale by a prior
// overflow round: a relocated element, or a section whose every element is
// relocated.
func alreadyRelocated(n Node) bool {
	switch t := n.(type) {
	case *Element:
		return t.Relocated
	case *Section:
		return sectionFullyRelocated(t)
	}
	return false
}

func sectionFullyRelocated(s *Section) bool {
	found := false
	all := true
	walkElements(s, func(e *Element) {
		found = true
		if !e.Relocated {
			all = false
		}
	})
	return found && all
}

func walkElements(s *Section, fn func(*Element)) {
	for _, child := range s.Children {
		switch t := child.(type) {
		case *Element:
			fn(t)
		case *Section:
			walkElements(t, fn)
		}
	}
}
