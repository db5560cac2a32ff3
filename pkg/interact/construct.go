package interact

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

const (
	defaultText = "Abc"
	defaultFont = "arial.ttf"

	newComment = "NEW COMMENT -- DOUBLE-CLICK TO EDIT"
)

// addRequest creates a request, snapshotting undo first when remember is
// set. Multi-request constructions snapshot once themselves.
func (m *Machine) addRequest(t sketch.RequestType, remember bool) handle.Handle {
	if remember {
		m.env.Undo.Remember()
	}
	return m.env.Store.AddRequest(t)
}

// request returns the request rh. Handles the machine created itself must
// stay valid for the life of the sequence.
func (m *Machine) request(rh handle.Handle) *sketch.Request {
	r, ok := m.env.Store.Request(rh)
	if !ok {
		panic(fmt.Sprintf("interact: stale request %s in %s", rh, m.pending.Mode))
	}
	return r
}

func (m *Machine) point(rh handle.Handle, i int) handle.Handle {
	return m.request(rh).Point(i)
}

func (m *Machine) entity(rh handle.Handle) handle.Handle {
	return m.request(rh).Entity
}

func (m *Machine) pos(h handle.Handle) geom.Vector {
	return m.env.Store.PointPos(h)
}

func (m *Machine) set(h handle.Handle, v geom.Vector) {
	m.env.Store.SetPoint(h, v)
}

// requestLeftDown handles a primary press for a geometry command: the first
// click in COMMAND mode, or a continuation click while shaping.
func (m *Machine) requestLeftDown(v geom.Vector) {
	if m.pending.Mode != ModeCommand && !m.pendingLive() {
		m.clearPending()
		return
	}
	switch m.pending.Mode {
	case ModeCommand:
		if hr := m.startRequest(v); !hr.IsNil() {
			if r, ok := m.env.Store.Request(hr); ok {
				m.env.Store.SetGroupVisible(r.Group, true)
			}
		}
	case ModeDraggingNewRadius:
		m.clearPending()
	case ModeDraggingNewPoint, ModeDraggingNewArcPoint:
		m.constrainPointByHovered(m.pending.Point)
		m.clearPending()
	case ModeDraggingNewCubicPoint:
		m.continueCubic(v)
	case ModeDraggingNewLinePoint:
		m.continueLine(v)
	}
}

// startRequest runs the first click of the armed command and returns the
// request that owns the new geometry, or Nil.
func (m *Machine) startRequest(v geom.Vector) handle.Handle {
	view := m.env.View
	c := m.pending.Command

	switch c {
	case CmdDatumPoint:
		hr := m.addRequest(sketch.RequestDatumPoint, true)
		p := m.point(hr, 0)
		m.set(p, v)
		m.constrainPointByHovered(p)
		m.clearSuper()
		return hr

	case CmdLineSegment, CmdConstrSegment:
		hr := m.addRequest(sketch.RequestLineSegment, true)
		m.env.Store.SetConstruction(hr, c == CmdConstrSegment)
		p0 := m.point(hr, 0)
		m.set(p0, v)
		m.constrainPointByHovered(p0)
		m.addToPending(hr)

		m.setMode(ModeDraggingNewLinePoint)
		m.pending.Request = hr
		m.pending.Point = m.point(hr, 1)
		m.pending.Description = "click next point of line, or press Esc"
		m.set(m.pending.Point, v)
		return hr

	case CmdRectangle:
		if !m.env.Store.LockedInWorkplane() {
			m.report(noWorkplaneError(c))
			m.clearSuper()
			return handle.Nil
		}
		var lns [4]handle.Handle
		m.env.Undo.Remember()
		for i := range lns {
			lns[i] = m.addRequest(sketch.RequestLineSegment, false)
			m.addToPending(lns[i])
		}
		for i := range lns {
			m.env.Constraints.ConstrainCoincident(m.point(lns[i], 0), m.point(lns[(i+1)%4], 1))
			m.set(m.point(lns[i], 0), v)
			m.set(m.point(lns[i], 1), v)
		}
		for i := range lns {
			t := sketch.ConstraintVertical
			if i%2 == 1 {
				t = sketch.ConstraintHorizontal
			}
			m.env.Constraints.Constrain(t, handle.Nil, handle.Nil, m.entity(lns[i]))
		}
		if m.constrainPointByHovered(m.point(lns[2], 0)) {
			at := m.pos(m.point(lns[2], 0))
			for i := range lns {
				m.set(m.point(lns[i], 0), at)
				m.set(m.point(lns[i], 1), at)
			}
		}
		m.setMode(ModeDraggingNewPoint)
		m.pending.Point = m.point(lns[1], 1)
		m.pending.Description = "click to place other corner of rectangle"
		return lns[0]

	case CmdCircle:
		hr := m.addRequest(sketch.RequestCircle, true)
		r := m.request(hr)
		center, normal, dist, circle := r.Point(0), r.Normal, r.Distance, r.Entity
		m.set(center, v)
		m.env.Store.SetNormal(normal, geom.QuaternionFromBasis(view.ProjRight(), view.ProjUp()))
		m.env.Store.SetDistance(dist, 0)
		m.constrainPointByHovered(center)

		m.setMode(ModeDraggingNewRadius)
		m.pending.Circle = circle
		m.pending.Description = "click to set radius"
		return hr

	case CmdArc:
		if !m.env.Store.LockedInWorkplane() {
			m.report(noWorkplaneError(c))
			m.clearPending()
			return handle.Nil
		}
		hr := m.addRequest(sketch.RequestArcOfCircle, true)
		// Start the center off the click so the arc's equal radius is
		// satisfiable on the first frame.
		adj := view.ProjRight().WithMagnitude(m.cfg.ArcFudge / view.Scale())
		m.set(m.point(hr, 0), v.Minus(adj))
		m.set(m.point(hr, 1), v)
		m.set(m.point(hr, 2), v)
		m.constrainPointByHovered(m.point(hr, 1))
		m.addToPending(hr)

		m.setMode(ModeDraggingNewArcPoint)
		m.pending.Point = m.point(hr, 2)
		m.pending.Description = "click to place point"
		return hr

	case CmdCubic:
		hr := m.addRequest(sketch.RequestCubic, true)
		for i := 0; i < 4; i++ {
			m.set(m.point(hr, i), v)
		}
		m.constrainPointByHovered(m.point(hr, 0))
		m.addToPending(hr)

		m.setMode(ModeDraggingNewCubicPoint)
		m.pending.Point = m.point(hr, 3)
		m.pending.Description = "click next point of cubic, or press Esc"
		return hr

	case CmdWorkplane:
		if m.env.Store.LockedInWorkplane() {
			m.report(ErrInWorkplane)
			m.clearSuper()
			return handle.Nil
		}
		hr := m.addRequest(sketch.RequestWorkplane, true)
		r := m.request(hr)
		origin, normal := r.Point(0), r.Normal
		m.set(origin, v)
		m.env.Store.SetNormal(normal, geom.QuaternionFromBasis(view.ProjRight(), view.ProjUp()))
		m.constrainPointByHovered(origin)
		m.clearSuper()
		return hr

	case CmdTTFText:
		if !m.env.Store.LockedInWorkplane() {
			m.report(noWorkplaneError(c))
			m.clearSuper()
			return handle.Nil
		}
		hr := m.addRequest(sketch.RequestTTFText, true)
		m.addToPending(hr)
		m.env.Store.SetText(hr, defaultText, defaultFont)
		m.set(m.point(hr, 0), v)
		m.set(m.point(hr, 1), v)

		m.setMode(ModeDraggingNewPoint)
		m.pending.Point = m.point(hr, 1)
		m.pending.Description = "click to place bottom left of text"
		return hr
	}
	panic(fmt.Sprintf("interact: no construction for command %s", c))
}

// continueLine places the free end of the current segment and chains a new
// one from it, unless the click finishes the chain.
func (m *Machine) continueLine(v geom.Vector) {
	cur := m.pending.Request

	// Snapping onto the segment's own start would make it zero length.
	if hov := m.env.Picker.Hover(); !hov.Entity.IsNil() {
		if e, ok := m.env.Store.Entity(hov.Entity); ok && e.IsPoint() {
			if m.pos(hov.Entity).Equals(m.pos(m.point(cur, 0))) {
				m.log.Debug("zero length segment dropped", "request", cur, "gesture", m.gesture)
				if err := m.env.Store.RemoveRequest(cur); err != nil {
					panic(fmt.Sprintf("interact: %v", err))
				}
				m.clearPending()
				return
			}
		}
	}

	if m.pending.HasSuggestion {
		m.env.Constraints.Constrain(m.pending.Suggestion, handle.Nil, handle.Nil, m.entity(cur))
	}

	if m.constrainPointByHovered(m.pending.Point) {
		m.clearPending()
		return
	}

	hr := m.addRequest(sketch.RequestLineSegment, true)
	m.ReplacePending(cur, hr)
	m.env.Store.SetConstruction(hr, m.request(cur).Construction)
	m.set(m.point(hr, 0), v)
	// Keep the new free end off the shared point so the segment never
	// starts at zero length.
	m.set(m.point(hr, 1), v.Plus(m.env.View.ProjRight().ScaledBy(m.cfg.ChainDisplacement/m.env.View.Scale())))
	m.env.Constraints.ConstrainCoincident(m.pending.Point, m.point(hr, 0))

	m.setMode(ModeDraggingNewLinePoint)
	m.pending.Request = hr
	m.pending.Point = m.point(hr, 1)
	m.pending.Description = "click next point of line, or press Esc"
	m.pending.HasSuggestion = false
	m.pending.chained = true
}

// continueCubic closes, finishes or extends the spline being drawn.
func (m *Machine) continueCubic(v geom.Vector) {
	st := m.env.Store
	hr := st.RequestOf(m.pending.Point)
	r := m.request(hr)
	ep := r.ExtraPoints

	if hov := m.env.Picker.Hover(); hov.Entity == r.Point(0) && ep >= 2 {
		// Closing onto the start makes the spline periodic. The off-curve
		// tangent points are no longer needed, so shift everything after
		// the start down over them.
		for i := 1; i <= ep; i++ {
			m.set(r.Point(i), m.pos(r.Point(i+1)))
		}
		m.set(r.Point(ep+1), m.pos(r.Point(ep+3)))
		if err := st.SetRequestType(hr, sketch.RequestCubicPeriodic, ep-2); err != nil {
			panic(fmt.Sprintf("interact: %v", err))
		}
		st.MarkGroupDirty(m.request(hr).Group)
		m.clearPending()
		return
	}

	if m.constrainPointByHovered(m.pending.Point) {
		m.clearPending()
		return
	}

	if ep >= m.cfg.MaxPointsInEntity-4 {
		m.report(fmt.Errorf("cubic has %d interior points: %w", ep, ErrSplinePointBudget))
		m.clearPending()
		return
	}

	if err := st.SetExtraPoints(hr, ep+1); err != nil {
		panic(fmt.Sprintf("interact: %v", err))
	}
	st.Regenerate()

	r = m.request(hr)
	ep = r.ExtraPoints
	last := m.pos(r.Point(2 + ep))
	m.set(r.Point(1+ep), last)
	m.set(r.Point(2+ep), v)
	m.set(r.Point(3+ep), v)
	m.pending.Point = r.Point(3 + ep)
}

// requestMoved shapes the geometry being created so it follows the cursor.
func (m *Machine) requestMoved(mp geom.Point2d, mods Mods) {
	st := m.env.Store
	if !m.pendingLive() {
		m.clearPending()
		return
	}
	switch m.pending.Mode {
	case ModeDraggingNewLinePoint, ModeDraggingNewPoint:
		m.updateDraggedPoint(m.pending.Point, mp)
		if m.pending.Mode == ModeDraggingNewLinePoint {
			if !mods.Ctrl && m.env.Suggester != nil {
				m.pending.Suggestion, m.pending.HasSuggestion = m.env.Suggester.SuggestLineConstraint(m.pending.Request)
			} else {
				m.pending.HasSuggestion = false
			}
		}
		m.hitTest(mp)
		st.MarkDirtyByEntity(m.pending.Point)
		m.orig.mouse = mp

	case ModeDraggingNewCubicPoint:
		m.updateDraggedPoint(m.pending.Point, mp)
		m.hitTest(mp)

		r := m.request(st.RequestOf(m.pending.Point))
		if m.pending.Point == r.Point(3) {
			// First segment: the end drags both tangent points.
			p0, p3 := m.pos(r.Point(0)), m.pos(r.Point(3))
			m.set(r.Point(1), p0.ScaledBy(2.0/3).Plus(p3.ScaledBy(1.0/3)))
			m.set(r.Point(2), p0.ScaledBy(1.0/3).Plus(p3.ScaledBy(2.0/3)))
		} else {
			// Later segments: only the preceding tangent point follows.
			i := r.ExtraPoints
			m.set(r.Point(2+i), m.pos(r.Point(3+i)).Midpoint(m.pos(r.Point(1+i))))
		}
		m.orig.mouse = mp
		st.MarkDirtyByEntity(m.pending.Point)

	case ModeDraggingNewArcPoint:
		m.updateDraggedPoint(m.pending.Point, mp)
		m.hitTest(mp)

		r := m.request(st.RequestOf(m.pending.Point))
		m.set(r.Point(0), m.pos(r.Point(1)).Midpoint(m.pos(r.Point(2))))
		m.orig.mouse = mp
		st.MarkDirtyByEntity(m.pending.Point)

	case ModeDraggingNewRadius:
		m.dragRadius(m.pending.Circle, mp)
	}
}

// pendingLive reports whether the geometry being shaped still exists. A
// context-menu delete can remove it mid-sequence.
func (m *Machine) pendingLive() bool {
	for _, h := range []handle.Handle{m.pending.Point, m.pending.Circle, m.pending.Normal} {
		if h.IsNil() {
			continue
		}
		if _, ok := m.env.Store.Entity(h); !ok {
			return false
		}
	}
	if !m.pending.Request.IsNil() {
		if _, ok := m.env.Store.Request(m.pending.Request); !ok {
			return false
		}
	}
	return true
}

// requestRightUp ends a line or cubic chain.
func (m *Machine) requestRightUp(geom.Point2d) {
	if m.pending.Mode == ModeDraggingNewLinePoint && m.pendingLive() {
		cur := m.pending.Request
		if m.segmentPixels(cur) < m.cfg.DragThreshold {
			// The segment was never dragged out; drop it rather than
			// leave a dangling stub.
			m.log.Debug("zero length segment dropped", "request", cur, "gesture", m.gesture)
			if err := m.env.Store.RemoveRequest(cur); err != nil {
				panic(fmt.Sprintf("interact: %v", err))
			}
		} else if m.pending.HasSuggestion {
			m.env.Constraints.Constrain(m.pending.Suggestion, handle.Nil, handle.Nil, m.entity(cur))
		}
	}
	m.clearPending()
}

func (m *Machine) segmentPixels(rh handle.Handle) float64 {
	r := m.request(rh)
	a := m.env.View.Project(m.pos(r.Point(0)))
	b := m.env.View.Project(m.pos(r.Point(1)))
	return a.DistanceTo(b)
}

// commentLeftDown places a comment constraint at v.
func (m *Machine) commentLeftDown(v geom.Vector) {
	m.env.Undo.Remember()
	hc := m.env.Constraints.AddConstraint(sketch.Constraint{
		Type:        sketch.ConstraintComment,
		LabelOffset: v,
		Comment:     newComment,
	})
	if c, ok := m.env.Store.Constraint(hc); ok {
		m.env.Store.SetGroupVisible(c.Group, true)
	}
	m.clearSuper()
}
