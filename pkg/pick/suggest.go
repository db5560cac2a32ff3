package pick

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

// DefaultSuggestTolerance is the largest off-axis to on-axis ratio that
// still suggests a horizontal or vertical constraint.
const DefaultSuggestTolerance = 0.02

// Suggester proposes horizontal/vertical constraints for nearly axis-aligned
// line segments in the active workplane.
type Suggester struct {
	sk        *sketch.Sketch
	Tolerance float64
}

// NewSuggester creates a suggester with the given tolerance ratio.
func NewSuggester(sk *sketch.Sketch, tolerance float64) *Suggester {
	if tolerance <= 0 {
		tolerance = DefaultSuggestTolerance
	}
	return &Suggester{sk: sk, Tolerance: tolerance}
}

// SuggestLineConstraint looks at the line segment request req. Nothing is
// suggested when sketching in 3D.
func (s *Suggester) SuggestLineConstraint(req handle.Handle) (sketch.ConstraintType, bool) {
	if !s.sk.LockedInWorkplane() {
		return 0, false
	}
	r, ok := s.sk.Request(req)
	if !ok || r.Type != sketch.RequestLineSegment || len(r.Points) < 2 {
		return 0, false
	}
	_, u, v, ok := s.sk.WorkplaneBasis(s.sk.ActiveWorkplane())
	if !ok {
		return 0, false
	}
	d := s.sk.PointPos(r.Points[0]).Minus(s.sk.PointPos(r.Points[1]))
	du, dv := d.Dot(u), d.Dot(v)

	switch {
	case math.Abs(dv) > geom.LengthEps && math.Abs(du/dv) < s.Tolerance:
		return sketch.ConstraintVertical, true
	case math.Abs(du) > geom.LengthEps && math.Abs(dv/du) < s.Tolerance:
		return sketch.ConstraintHorizontal, true
	}
	return 0, false
}
