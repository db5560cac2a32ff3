package interact

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/pick"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

func (m *Machine) radiansPerPixel() float64 {
	return m.cfg.RotationRate * math.Pi / 180
}

// startEditDrag classifies a press in NONE that has moved dm pixels.
func (m *Machine) startEditDrag(dm float64) {
	pk := m.env.Picker
	hov := pk.Hover()

	dragEntity := pk.ChooseFromHoverToDrag()
	var e *sketch.Entity
	if !dragEntity.IsNil() {
		e, _ = m.env.Store.Entity(dragEntity)
	}

	switch {
	case e != nil && e.Type != sketch.EntityWorkplane:
		switch {
		case e.Type == sketch.EntityCircle && pk.SelectionCount() <= 1:
			pk.ClearSelection()
			m.pending.Circle = dragEntity
			m.setMode(ModeDraggingRadius)
		case e.IsNormal():
			pk.ClearSelection()
			m.pending.Normal = dragEntity
			m.setMode(ModeDraggingNormal)
		default:
			// Pressing an unselected item drags just that item, not
			// whatever was selected before.
			if !m.hoverWasSelectedOnMousedown {
				pk.ClearSelection()
				pk.Select(pick.EntityItem(dragEntity))
			}
			m.pending.Points = m.dragListFromSelection()
			if !m.hoverWasSelectedOnMousedown {
				pk.ClearSelection()
			}
			pk.ClearHover()
			m.setMode(ModeDraggingPoints)
		}
	case !hov.Constraint.IsNil():
		if c, ok := m.env.Store.Constraint(hov.Constraint); ok && c.HasLabel() {
			pk.ClearSelection()
			m.pending.Constraint = hov.Constraint
			m.setMode(ModeDraggingConstraint)
		}
	}

	if m.pending.Mode != ModeNone {
		m.env.Undo.Remember()
		m.log.Debug("drag started", "mode", m.pending.Mode, "points", len(m.pending.Points), "gesture", m.gesture)
		return
	}
	// A marquee only changes the selection, so it takes no undo snapshot.
	if hov.Constraint.IsNil() && dm > m.cfg.MarqueeThreshold {
		if !hov.Entity.IsNil() {
			pk.Unselect(hov)
			pk.ClearHover()
		}
		m.setMode(ModeDraggingMarquee)
		m.orig.marqueePoint = m.env.View.UnProject(m.orig.mouseOnButtonDown)
	}
}

// dragListFromSelection builds the drag list from the selected entities and
// the entity under the cursor, which a press may just have unselected.
func (m *Machine) dragListFromSelection() []handle.Handle {
	var selected []handle.Handle
	for _, it := range m.env.Picker.Selection() {
		if !it.Entity.IsNil() {
			selected = append(selected, it.Entity)
		}
	}
	var hovered handle.Handle
	if !m.env.Picker.Hover().Entity.IsNil() {
		hovered = m.env.Picker.ChooseFromHoverToDrag()
	}
	return DragList(m.env.Store, selected, hovered)
}

// dragMoved applies one frame of an edit drag.
func (m *Machine) dragMoved(mp geom.Point2d, mods Mods) {
	st := m.env.Store
	switch m.pending.Mode {
	case ModeDraggingConstraint:
		if c, ok := st.Constraint(m.pending.Constraint); ok {
			st.SetLabelOffset(m.pending.Constraint, m.updateDraggedNum(c.LabelOffset, mp))
		}
		m.orig.mouse = mp

	case ModeDraggingPoints:
		if mods.Shift || mods.Ctrl {
			m.rotatePoints(mp, mods.Ctrl)
			return
		}
		for _, p := range m.pending.Points {
			m.updateDraggedPoint(p, mp)
			st.MarkDirtyByEntity(p)
		}
		m.orig.mouse = mp

	case ModeDraggingRadius:
		if !m.pendingLive() {
			m.clearPending()
			return
		}
		m.dragRadius(m.pending.Circle, mp)

	case ModeDraggingNormal:
		if !m.pendingLive() {
			m.clearPending()
			return
		}
		m.dragNormal(mp, mods.Ctrl)

	case ModeDraggingMarquee:
		m.orig.mouse = mp

	default:
		panic(fmt.Sprintf("interact: drag with unexpected pending operation %s", m.pending.Mode))
	}
}

// rotatePoints turns the dragged points. With ctrl they swing about the
// press point in the screen plane; with shift only the orientation of
// rotating transform points changes.
func (m *Machine) rotatePoints(mp geom.Point2d, ctrl bool) {
	st := m.env.Store
	view := m.env.View
	down := m.orig.mouseOnButtonDown

	var qt geom.Quaternion
	if ctrl {
		if mp.DistanceTo(down) < m.cfg.RotateDeadZone {
			// Wait for a usable reference direction.
			m.orig.mouse = mp
			return
		}
		theta := math.Atan2(m.orig.mouse.Y-down.Y, m.orig.mouse.X-down.X) -
			math.Atan2(mp.Y-down.Y, mp.X-down.X)
		qt = geom.AxisAngle(view.ProjRight().Cross(view.ProjUp()), -theta)
		m.extraLine = ExtraLine{A: view.UnProject(down), B: view.UnProject(mp), Draw: true}
	} else {
		dx := -(mp.X - m.orig.mouse.X)
		dy := -(mp.Y - m.orig.mouse.Y)
		s := m.radiansPerPixel()
		qt = geom.AxisAngle(view.ProjUp(), -s*dx).Times(geom.AxisAngle(view.ProjRight(), s*dy))
	}
	m.orig.mouse = mp

	for _, h := range m.pending.Points {
		e, ok := st.Entity(h)
		if !ok {
			continue
		}
		if e.Type != sketch.EntityPointNRotTrans {
			if ctrl {
				pivot := m.extraLine.A
				st.SetPoint(h, qt.Rotate(st.PointPos(h).Minus(pivot)).Plus(pivot))
				st.MarkDirtyByEntity(h)
			}
			continue
		}
		// Rotate in place: the point keeps its position.
		p := st.PointPos(h)
		st.SetPointOrientation(h, qt.Times(st.PointOrientation(h)))
		st.SetPoint(h, p)
		st.MarkDirtyByEntity(h)
	}
}

// dragRadius sets the circle's radius to the cursor's distance from its
// projected center.
func (m *Machine) dragRadius(circle handle.Handle, mp geom.Point2d) {
	st := m.env.Store
	e, ok := st.Entity(circle)
	if !ok || len(e.Points) == 0 {
		panic(fmt.Sprintf("interact: stale circle %s in %s", circle, m.pending.Mode))
	}
	dist := e.Distance
	center := m.env.View.Project(st.PointPos(e.Points[0]))
	st.SetDistance(dist, center.DistanceTo(mp)/m.env.View.Scale())
	st.MarkDirtyByEntity(circle)
}

func (m *Machine) dragNormal(mp geom.Point2d, ctrl bool) {
	st := m.env.Store
	view := m.env.View
	e, ok := st.Entity(m.pending.Normal)
	if !ok || len(e.Points) == 0 {
		panic(fmt.Sprintf("interact: stale normal %s", m.pending.Normal))
	}
	p2 := view.Project(st.PointPos(e.Points[0]))

	q := st.NormalOrientation(m.pending.Normal)
	u, v := q.RotationU(), q.RotationV()
	if ctrl {
		theta := math.Atan2(m.orig.mouse.Y-p2.Y, m.orig.mouse.X-p2.X) -
			math.Atan2(mp.Y-p2.Y, mp.X-p2.X)
		n := view.ProjRight().Cross(view.ProjUp())
		u = u.RotatedAbout(n, -theta)
		v = v.RotatedAbout(n, -theta)
	} else {
		dx := -(mp.X - m.orig.mouse.X)
		dy := -(mp.Y - m.orig.mouse.Y)
		s := m.radiansPerPixel()
		u = u.RotatedAbout(view.ProjUp(), -s*dx).RotatedAbout(view.ProjRight(), s*dy)
		v = v.RotatedAbout(view.ProjUp(), -s*dx).RotatedAbout(view.ProjRight(), s*dy)
	}
	m.orig.mouse = mp
	st.SetNormal(m.pending.Normal, geom.QuaternionFromBasis(u, v))
	st.MarkDirtyByEntity(m.pending.Normal)
}

// moveCamera pans or rotates the view from the snapshot taken at the
// previous move.
func (m *Machine) moveCamera(mp geom.Point2d, shift, ctrl bool) {
	view := m.env.View
	m.env.Picker.ClearHover()

	s := view.Scale()
	dx := (mp.X - m.orig.mouse.X) / s
	dy := (mp.Y - m.orig.mouse.Y) / s
	right, up := m.orig.projRight, m.orig.projUp

	switch {
	case !shift && !ctrl:
		a := m.radiansPerPixel() * s
		view.SetOrientation(right.RotatedAbout(up, -a*dx), up.RotatedAbout(right, a*dy))
	case ctrl:
		theta := math.Atan2(m.orig.mouse.Y, m.orig.mouse.X) - math.Atan2(mp.Y, mp.X)
		m.extraLine = ExtraLine{
			A:    view.UnProject(geom.Point2d{}),
			B:    view.UnProject(mp),
			Draw: true,
		}
		n := right.Cross(up)
		view.SetOrientation(right.RotatedAbout(n, theta), up.RotatedAbout(n, theta))
	default:
		r, u := view.ProjRight(), view.ProjUp()
		view.SetOffset(m.orig.offset.Plus(r.ScaledBy(dx)).Plus(u.ScaledBy(dy)))
	}

	m.orig.projRight = view.ProjRight()
	m.orig.projUp = view.ProjUp()
	m.orig.offset = view.Offset()
	m.orig.mouse = mp
	m.havePainted = false
}
