package interact

import (
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

// hoveredEntity is the hovered entity, if any.
func (m *Machine) hoveredEntity() (handle.Handle, *sketch.Entity, bool) {
	hov := m.env.Picker.Hover()
	if hov.Entity.IsNil() {
		return handle.Nil, nil, false
	}
	e, ok := m.env.Store.Entity(hov.Entity)
	return hov.Entity, e, ok
}

// constrainPointByHovered snaps pt onto whatever is hovered. A hovered point
// pulls pt onto it and makes the two coincident; a hovered circle, arc or
// line gets a point-on constraint and pt stays put. It reports whether a
// constraint was added.
func (m *Machine) constrainPointByHovered(pt handle.Handle) bool {
	hh, e, ok := m.hoveredEntity()
	if !ok || hh == pt {
		return false
	}
	switch {
	case e.IsPoint():
		m.env.Store.SetPoint(pt, m.env.Store.PointPos(hh))
		m.env.Constraints.ConstrainCoincident(hh, pt)
		return true
	case e.IsCircle():
		m.env.Constraints.Constrain(sketch.ConstraintPtOnCircle, pt, handle.Nil, hh)
		return true
	case e.Type == sketch.EntityLineSegment:
		m.env.Constraints.Constrain(sketch.ConstraintPtOnLine, pt, handle.Nil, hh)
		return true
	}
	return false
}

// updateDraggedNum moves pos by the mouse delta since the last move, in the
// view plane.
func (m *Machine) updateDraggedNum(pos geom.Vector, mp geom.Point2d) geom.Vector {
	view := m.env.View
	s := view.Scale()
	pos = pos.Plus(view.ProjRight().ScaledBy((mp.X - m.orig.mouse.X) / s))
	pos = pos.Plus(view.ProjUp().ScaledBy((mp.Y - m.orig.mouse.Y) / s))
	return pos
}

// updateDraggedPoint moves point h by the mouse delta since the last move.
func (m *Machine) updateDraggedPoint(h handle.Handle, mp geom.Point2d) {
	m.env.Store.SetPoint(h, m.updateDraggedNum(m.env.Store.PointPos(h), mp))
}
