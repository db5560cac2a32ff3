package interact

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/pick"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

func TestDragPointsWaitsForPaint(t *testing.T) {
	f := newFixture(t)
	line := f.addLine(15, 15, 35, 15)
	r := f.request(line)

	f.move(25, 15)
	require.Equal(t, pick.EntityItem(r.Entity), f.Picker.Hover())
	f.m.MouseLeftDown(geom.Pt(25, 15))
	f.drag(25, 20)
	require.Equal(t, ModeDraggingPoints, f.m.Mode())
	assert.ElementsMatch(t, []handle.Handle{r.Point(0), r.Point(1)}, f.m.Pending().Points)
	assert.Equal(t, 1, f.undoDepth())

	f.drag(25, 25)
	assertNear(t, geom.V(3, 5, 0), f.pos(r.Point(0)))
	assertNear(t, geom.V(7, 5, 0), f.pos(r.Point(1)))
	assert.False(t, f.m.havePainted)

	f.drag(25, 28)
	assertNear(t, geom.V(3, 5, 0), f.pos(r.Point(0)))

	f.m.Painted()
	f.drag(25, 30)
	assertNear(t, geom.V(3, 6, 0), f.pos(r.Point(0)))
	assertNear(t, geom.V(7, 6, 0), f.pos(r.Point(1)))

	f.m.MouseLeftUp(geom.Pt(25, 30))
	assert.Equal(t, ModeNone, f.m.Mode())
	assert.Equal(t, 1, f.undoDepth())
	assert.Zero(t, f.Picker.SelectionCount())
}

func TestDragSelectedPointsTogether(t *testing.T) {
	f := newFixture(t)
	a := f.addLine(15, 15, 35, 15)
	b := f.addLine(15, -25, 35, -25)

	f.Picker.Select(pick.EntityItem(f.request(b).Entity))
	f.move(25, 15)
	f.m.MouseLeftDown(geom.Pt(25, 15))
	f.m.MouseLeftUp(geom.Pt(25, 15))

	// Both lines selected; pressing a selected one drags the selection.
	require.Equal(t, 2, f.Picker.SelectionCount())
	f.move(25, 15)
	f.m.MouseLeftDown(geom.Pt(25, 15))
	f.drag(30, 15)
	require.Equal(t, ModeDraggingPoints, f.m.Mode())
	assert.Len(t, f.m.Pending().Points, 4)
	assert.Equal(t, 2, f.Picker.SelectionCount())

	f.drag(35, 15)
	assertNear(t, geom.V(5, 3, 0), f.pos(f.request(a).Point(0)))
	assertNear(t, geom.V(5, -5, 0), f.pos(f.request(b).Point(0)))
}

func TestDragWithoutButtonEndsPointDrag(t *testing.T) {
	f := newFixture(t)
	f.addLine(15, 15, 35, 15)
	f.move(25, 15)
	f.m.MouseLeftDown(geom.Pt(25, 15))
	f.drag(25, 20)
	require.Equal(t, ModeDraggingPoints, f.m.Mode())

	// The release happened outside the window.
	f.move(25, 22)
	assert.Equal(t, ModeNone, f.m.Mode())
}

func TestMarqueeSelects(t *testing.T) {
	f := newFixture(t)
	dh := f.Sketch.AddRequest(sketch.RequestDatumPoint)
	datum := f.request(dh).Point(0)
	f.Sketch.SetPoint(datum, f.world(25, 25))

	f.m.MouseLeftDown(geom.Pt(15, 15))
	f.drag(30, 15)
	require.Equal(t, ModeDraggingMarquee, f.m.Mode())

	f.m.Painted()
	f.drag(35, 35)
	a, b, ok := f.m.Marquee()
	require.True(t, ok)
	assert.InDelta(t, 15, a.X, 1e-9)
	assert.InDelta(t, 15, a.Y, 1e-9)
	assert.Equal(t, geom.Pt(35, 35), b)

	f.m.MouseLeftUp(geom.Pt(35, 35))
	assert.Equal(t, ModeNone, f.m.Mode())
	assert.Contains(t, f.Picker.Selection(), pick.EntityItem(datum))
	assert.Zero(t, f.undoDepth())
}

func TestShortPressIsNotMarquee(t *testing.T) {
	f := newFixture(t)
	f.m.MouseLeftDown(geom.Pt(15, 15))
	f.drag(20, 15)
	assert.Equal(t, ModeNone, f.m.Mode())
	f.m.MouseLeftUp(geom.Pt(20, 15))
	assert.Zero(t, f.Picker.SelectionCount())
}

func TestDragConstraintLabel(t *testing.T) {
	f := newFixture(t)
	line := f.addLine(15, 15, 35, 15)
	r := f.request(line)
	ch := f.Sketch.AddConstraint(sketch.Constraint{
		Type:        sketch.ConstraintPtPtDistance,
		PtA:         r.Point(0),
		PtB:         r.Point(1),
		Value:       4,
		LabelOffset: geom.V(0, 4, 0),
	})

	f.move(25, 35)
	require.Equal(t, pick.ConstraintItem(ch), f.Picker.Hover())
	f.m.MouseLeftDown(geom.Pt(25, 35))
	f.drag(25, 40)
	require.Equal(t, ModeDraggingConstraint, f.m.Mode())

	f.drag(25, 45)
	c, _ := f.Sketch.Constraint(ch)
	assertNear(t, geom.V(0, 6, 0), c.LabelOffset)
	f.m.MouseLeftUp(geom.Pt(25, 45))
	assert.Equal(t, ModeNone, f.m.Mode())
}

func TestRotateAboutPress(t *testing.T) {
	f := newFixture(t)
	line := f.addLine(15, 15, 35, 15)
	r := f.request(line)

	f.move(25, 15)
	f.m.MouseLeftDown(geom.Pt(25, 15))
	f.drag(25, 20)
	require.Equal(t, ModeDraggingPoints, f.m.Mode())

	// Inside the dead zone nothing turns.
	f.m.MouseMoved(geom.Pt(35, 15), Buttons{Left: true}, Mods{Ctrl: true})
	assertNear(t, geom.V(3, 3, 0), f.pos(r.Point(0)))

	f.m.Painted()
	f.m.MouseMoved(geom.Pt(55, 15), Buttons{Left: true}, Mods{Ctrl: true})
	f.m.Painted()
	f.m.MouseMoved(geom.Pt(25, 45), Buttons{Left: true}, Mods{Ctrl: true})
	assert.True(t, f.m.ExtraLine().Draw)

	// A quarter turn counter-clockwise about the press point (5, 3).
	assertNear(t, geom.V(5, 1, 0), f.pos(r.Point(0)))
	assertNear(t, geom.V(5, 5, 0), f.pos(r.Point(1)))
}

func deg(d float64) float64 { return d * math.Pi / 180 }

// addTippedWorkplane adds a free workplane at screen (20, -20) whose normal
// points along +x, so its arrow runs to screen (40, -20).
func (f *fixture) addTippedWorkplane() handle.Handle {
	f.t.Helper()
	require.NoError(f.t, f.SetWorkplane(false))
	r := f.request(f.Sketch.AddRequest(sketch.RequestWorkplane))
	f.Sketch.SetPoint(r.Point(0), f.world(20, -20))
	f.Sketch.SetNormal(r.Normal, geom.AxisAngle(geom.V(0, 1, 0), math.Pi/2))
	return r.Normal
}

func TestDragNormal(t *testing.T) {
	// At 0.3 degrees per pixel, measured from the press at (32, -20).
	a, b := deg(4.2), deg(-4.5)
	tests := []struct {
		name  string
		start geom.Point2d
		to    geom.Point2d
		mods  Mods
		wantN geom.Vector
		wantU geom.Vector
	}{
		{
			name:  "sideways turns about the screen up axis",
			start: geom.Pt(40, -20),
			to:    geom.Pt(46, -20),
			wantN: geom.V(math.Cos(a), 0, -math.Sin(a)),
			wantU: geom.V(-math.Sin(a), 0, -math.Cos(a)),
		},
		{
			name:  "upward turns about the screen right axis",
			start: geom.Pt(32, -16),
			to:    geom.Pt(32, -5),
			wantN: geom.V(1, 0, 0),
			wantU: geom.V(0, math.Sin(b), -math.Cos(b)),
		},
		{
			name:  "ctrl spins about the view direction",
			start: geom.Pt(32, -24),
			to:    geom.Pt(20, -8),
			mods:  Mods{Ctrl: true},
			wantN: geom.V(0, 1, 0),
			wantU: geom.V(0, 0, -1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			normal := f.addTippedWorkplane()

			f.move(32, -20)
			require.Equal(t, pick.EntityItem(normal), f.Picker.Hover())
			f.m.MouseLeftDown(geom.Pt(32, -20))
			f.drag(tt.start.X, tt.start.Y)
			require.Equal(t, ModeDraggingNormal, f.m.Mode())
			assert.Equal(t, normal, f.m.Pending().Normal)
			assert.Zero(t, f.Picker.SelectionCount())

			f.m.MouseMoved(tt.to, Buttons{Left: true}, tt.mods)
			q := f.Sketch.NormalOrientation(normal)
			assertNear(t, tt.wantN, q.RotationN())
			assertNear(t, tt.wantU, q.RotationU())

			// Nothing more turns until the frame is shown.
			f.m.MouseMoved(geom.Pt(tt.to.X+30, tt.to.Y+30), Buttons{Left: true}, tt.mods)
			q = f.Sketch.NormalOrientation(normal)
			assertNear(t, tt.wantN, q.RotationN())

			f.m.MouseLeftUp(tt.to)
			assert.Equal(t, ModeNone, f.m.Mode())
			assert.Equal(t, 1, f.undoDepth())
		})
	}
}

func TestShiftDragTurnsTransformPointInPlace(t *testing.T) {
	f := newFixture(t)
	tp, err := f.Sketch.AddTransformPoint(f.Sketch.ActiveGroup(), sketch.EntityPointNRotTrans, f.world(20, 20), geom.IdentityQuaternion)
	require.NoError(t, err)
	dh := f.Sketch.AddRequest(sketch.RequestDatumPoint)
	datum := f.request(dh).Point(0)
	f.Sketch.SetPoint(datum, f.world(-20, 20))

	f.Picker.Select(pick.EntityItem(datum))
	f.Picker.Select(pick.EntityItem(tp))
	f.move(20, 20)
	require.Equal(t, pick.EntityItem(tp), f.Picker.Hover())
	f.m.MouseLeftDown(geom.Pt(20, 20))
	f.drag(20, 24)
	require.Equal(t, ModeDraggingPoints, f.m.Mode())
	assert.ElementsMatch(t, []handle.Handle{tp, datum}, f.m.Pending().Points)

	// 15 px to the right is 4.5 degrees about the screen up axis.
	f.m.MouseMoved(geom.Pt(35, 20), Buttons{Left: true}, Mods{Shift: true})
	a := deg(4.5)
	assertNear(t, geom.V(math.Sin(a), 0, math.Cos(a)), f.Sketch.PointOrientation(tp).RotationN())
	assertNear(t, geom.V(4, 4, 0), f.pos(tp))
	assertNear(t, geom.V(-4, 4, 0), f.pos(datum))
	assert.False(t, f.m.ExtraLine().Draw)

	f.m.MouseLeftUp(geom.Pt(35, 20))
	assert.Equal(t, ModeNone, f.m.Mode())
	assert.Equal(t, 1, f.undoDepth())
}

func TestPanWithRightButton(t *testing.T) {
	f := newFixture(t)
	f.m.MouseMiddleOrRightDown(geom.Pt(0, 0))
	f.m.MouseMoved(geom.Pt(2, 0), Buttons{Right: true}, Mods{})
	assert.Equal(t, geom.Vector{}, f.Camera.Offset())

	f.m.MouseMoved(geom.Pt(10, 0), Buttons{Right: true}, Mods{})
	assertNear(t, geom.V(2, 0, 0), f.Camera.Offset())

	f.m.MouseRightUp(geom.Pt(10, 0))
	assert.Zero(t, f.menu.calls)
}

func TestRightClickWithoutMoveOpensMenu(t *testing.T) {
	f := newFixture(t)
	f.m.MouseMiddleOrRightDown(geom.Pt(15, 15))
	f.m.MouseMoved(geom.Pt(16, 15), Buttons{Right: true}, Mods{})
	f.m.MouseRightUp(geom.Pt(16, 15))
	assert.Equal(t, 1, f.menu.calls)
}

type fakeLookup map[handle.Handle]*sketch.Entity

func (l fakeLookup) Entity(h handle.Handle) (*sketch.Entity, bool) {
	e, ok := l[h]
	return e, ok
}

func ent(i uint32) handle.Handle {
	return handle.Handle{Kind: handle.KindEntity, Index: i, Gen: 1}
}

func grp(i uint32) handle.Handle {
	return handle.Handle{Kind: handle.KindGroup, Index: i, Gen: 1}
}

func TestDragList(t *testing.T) {
	p1, p2, p3 := ent(1), ent(2), ent(3)
	line, circle, center := ent(4), ent(5), ent(6)
	t1, t2, t3, t4 := ent(7), ent(8), ent(9), ent(10)
	lookup := fakeLookup{
		p1:     {Type: sketch.EntityPointIn2d, Group: grp(1)},
		p2:     {Type: sketch.EntityPointIn2d, Group: grp(1)},
		p3:     {Type: sketch.EntityPointIn2d, Group: grp(1)},
		line:   {Type: sketch.EntityLineSegment, Group: grp(1), Points: []handle.Handle{p1, p2}},
		center: {Type: sketch.EntityPointIn2d, Group: grp(1)},
		circle: {Type: sketch.EntityCircle, Group: grp(1), Points: []handle.Handle{center}},
		t1:     {Type: sketch.EntityPointNRotTrans, Group: grp(2)},
		t2:     {Type: sketch.EntityPointNRotTrans, Group: grp(2)},
		t3:     {Type: sketch.EntityPointNTrans, Group: grp(2)},
		t4:     {Type: sketch.EntityPointNRotTrans, Group: grp(3)},
	}

	tests := []struct {
		name     string
		selected []handle.Handle
		hovered  handle.Handle
		want     []handle.Handle
	}{
		{"nothing", nil, handle.Nil, nil},
		{"hovered only", nil, p3, []handle.Handle{p3}},
		{"line expands", []handle.Handle{line}, handle.Nil, []handle.Handle{p1, p2}},
		{"shared point once", []handle.Handle{p2, line}, p2, []handle.Handle{p2, p1}},
		{"circle drags center", []handle.Handle{circle}, handle.Nil, []handle.Handle{center}},
		{"transform points share a group", []handle.Handle{t1, t2, t3, t4}, handle.Nil, []handle.Handle{t1, t3, t4}},
		{"stale skipped", []handle.Handle{ent(99)}, p1, []handle.Handle{p1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DragList(lookup, tt.selected, tt.hovered))
		})
	}
}
