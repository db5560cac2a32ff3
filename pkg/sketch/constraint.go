package sketch

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
)

// Constrain adds a constraint of type t in the active group and workplane.
// Any of ptA, ptB and entity may be Nil.
func (s *Sketch) Constrain(t ConstraintType, ptA, ptB, entity handle.Handle) handle.Handle {
	return s.AddConstraint(Constraint{Type: t, PtA: ptA, PtB: ptB, EntityA: entity})
}

// ConstrainCoincident makes two points coincident. Constraining a point to
// itself is a no-op and returns Nil.
func (s *Sketch) ConstrainCoincident(a, b handle.Handle) handle.Handle {
	if a == b {
		return handle.Nil
	}
	return s.Constrain(ConstraintPointsCoincident, a, b, handle.Nil)
}

// AddConstraint stores c, filling in the active group and workplane when
// unset.
func (s *Sketch) AddConstraint(c Constraint) handle.Handle {
	if c.Group.IsNil() {
		c.Group = s.activeGroup
	}
	if c.Workplane.IsNil() {
		c.Workplane = s.ActiveWorkplane()
	}
	h := s.constraints.Add(c)
	s.MarkGroupDirty(c.Group)
	return h
}

// RemoveConstraint deletes a constraint.
func (s *Sketch) RemoveConstraint(h handle.Handle) error {
	c, ok := s.constraints.Get(h)
	if !ok {
		return fmt.Errorf("%w: constraint %s", ErrStaleHandle, h)
	}
	g := c.Group
	s.constraints.Remove(h)
	s.MarkGroupDirty(g)
	return nil
}

// SetConstraintValue updates a dimension.
func (s *Sketch) SetConstraintValue(h handle.Handle, v float64) error {
	c, ok := s.constraints.Get(h)
	if !ok {
		return fmt.Errorf("%w: constraint %s", ErrStaleHandle, h)
	}
	c.Value = v
	s.MarkGroupDirty(c.Group)
	return nil
}

// SetConstraintComment updates the text of a comment.
func (s *Sketch) SetConstraintComment(h handle.Handle, text string) error {
	c, ok := s.constraints.Get(h)
	if !ok {
		return fmt.Errorf("%w: constraint %s", ErrStaleHandle, h)
	}
	c.Comment = text
	return nil
}

// ConstraintsOn lists constraints of type t that mention h.
func (s *Sketch) ConstraintsOn(t ConstraintType, h handle.Handle) []handle.Handle {
	var out []handle.Handle
	s.constraints.Each(func(ch handle.Handle, c *Constraint) bool {
		if c.Type == t && c.References(h) {
			out = append(out, ch)
		}
		return true
	})
	return out
}

// ReplacePointInConstraints rewrites every constraint that mentions from to
// mention to instead.
func (s *Sketch) ReplacePointInConstraints(from, to handle.Handle) {
	s.constraints.Each(func(_ handle.Handle, c *Constraint) bool {
		if c.PtA == from {
			c.PtA = to
		}
		if c.PtB == from {
			c.PtB = to
		}
		return true
	})
}

// LabelPos returns the model position of a constraint's label: the midpoint
// of what it references plus its offset. Comments have no anchor and are
// placed at the offset itself.
func (s *Sketch) LabelPos(h handle.Handle) geom.Vector {
	c, ok := s.constraints.Get(h)
	if !ok {
		return geom.Vector{}
	}
	var anchor geom.Vector
	switch {
	case !c.PtA.IsNil() && !c.PtB.IsNil():
		anchor = s.PointPos(c.PtA).Midpoint(s.PointPos(c.PtB))
	case !c.PtA.IsNil():
		anchor = s.PointPos(c.PtA)
	case !c.EntityA.IsNil():
		if e, ok := s.entities.Get(c.EntityA); ok && len(e.Points) > 0 {
			anchor = s.PointPos(e.Points[0])
		}
	}
	return anchor.Plus(c.LabelOffset)
}
