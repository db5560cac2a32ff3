package interact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/pick"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

func (f *fixture) rightClick(x, y float64, choice ContextCommand) {
	f.menu.choice = choice
	f.m.MouseMiddleOrRightDown(geom.Pt(x, y))
	f.m.MouseRightUp(geom.Pt(x, y))
}

func TestContextDeleteHovered(t *testing.T) {
	f := newFixture(t)
	f.addLine(15, 15, 35, 15)

	f.move(25, 15)
	f.rightClick(25, 15, ContextDeleteSel)

	assert.Equal(t, []ContextCommand{ContextConstruction, ContextDeleteSel, ContextUnselectAll}, f.menu.offered)
	assert.Empty(t, f.requestsOf(sketch.RequestLineSegment))
	assert.Zero(t, f.Picker.SelectionCount())
	assert.True(t, f.Picker.Hover().IsEmpty())
	assert.Equal(t, 1, f.undoDepth())
}

func TestContextDeleteKeepsSharedRequestOnce(t *testing.T) {
	f := newFixture(t)
	line := f.addLine(15, 15, 35, 15)
	r := f.request(line)
	f.Picker.Select(pick.EntityItem(r.Point(0)))
	f.Picker.Select(pick.EntityItem(r.Point(1)))

	f.move(25, 15)
	f.rightClick(25, 15, ContextDeleteSel)

	assert.Empty(t, f.requestsOf(sketch.RequestLineSegment))
	assert.Empty(t, f.errs.errs)
}

func TestContextNothingSelected(t *testing.T) {
	f := newFixture(t)
	f.addLine(15, 15, 35, 15)
	f.move(25, -40)
	f.rightClick(25, -40, ContextSelectAll)

	assert.Equal(t, []ContextCommand{ContextSelectAll}, f.menu.offered)
	assert.Contains(t, f.Picker.Selection(), pick.EntityItem(f.request(f.requestsOf(sketch.RequestLineSegment)[0]).Entity))
}

func TestContextCancelledKeepsSelection(t *testing.T) {
	f := newFixture(t)
	line := f.addLine(15, 15, 35, 15)
	f.move(25, 15)
	f.rightClick(25, 15, ContextCancelled)

	assert.Equal(t, []pick.Item{pick.EntityItem(f.request(line).Entity)}, f.Picker.Selection())
	assert.Zero(t, f.undoDepth())
}

func TestContextUnselectHovered(t *testing.T) {
	f := newFixture(t)
	a := f.addLine(15, 15, 35, 15)
	b := f.addLine(15, -25, 35, -25)
	f.Picker.Select(pick.EntityItem(f.request(b).Entity))

	f.move(25, 15)
	f.rightClick(25, 15, ContextUnselectHovered)

	assert.Contains(t, f.menu.offered, ContextUnselectHovered)
	assert.Equal(t, []pick.Item{pick.EntityItem(f.request(b).Entity)}, f.Picker.Selection())
	assert.NotContains(t, f.Picker.Selection(), pick.EntityItem(f.request(a).Entity))
}

func TestContextToggleConstruction(t *testing.T) {
	f := newFixture(t)
	line := f.addLine(15, 15, 35, 15)
	f.move(25, 15)
	f.rightClick(25, 15, ContextConstruction)
	assert.True(t, f.request(line).Construction)

	f.move(25, 15)
	f.rightClick(25, 15, ContextConstruction)
	assert.False(t, f.request(line).Construction)
	assert.Equal(t, 2, f.undoDepth())
}

func TestContextReferenceDimension(t *testing.T) {
	f := newFixture(t)
	r := f.request(f.addLine(15, 15, 35, 15))
	ch := f.Sketch.AddConstraint(sketch.Constraint{
		Type:        sketch.ConstraintPtPtDistance,
		PtA:         r.Point(0),
		PtB:         r.Point(1),
		Value:       4,
		LabelOffset: geom.V(0, 4, 0),
	})

	f.move(25, 35)
	f.rightClick(25, 35, ContextReferenceDim)

	assert.Equal(t, []ContextCommand{ContextReferenceDim, ContextDeleteSel, ContextUnselectAll}, f.menu.offered)
	c, _ := f.Sketch.Constraint(ch)
	assert.True(t, c.Reference)
}

func TestContextCommentIsNotReference(t *testing.T) {
	f := newFixture(t)
	f.begin(CmdComment)
	f.click(15, -15)

	f.move(15, -15)
	require.False(t, f.Picker.Hover().Constraint.IsNil())
	f.rightClick(15, -15, ContextCancelled)
	assert.NotContains(t, f.menu.offered, ContextReferenceDim)
}

func TestContextDeleteCoincident(t *testing.T) {
	f := newFixture(t)
	line := f.addLine(15, 15, 35, 15)
	f.begin(CmdDatumPoint)
	f.click(35, 15)
	require.Len(t, f.constraintsOf(sketch.ConstraintPointsCoincident), 1)

	f.move(35, 15)
	require.Equal(t, pick.EntityItem(f.request(line).Point(1)), f.Picker.Hover())
	f.rightClick(35, 15, ContextDelCoincident)

	assert.Contains(t, f.menu.offered, ContextDelCoincident)
	assert.Empty(t, f.constraintsOf(sketch.ConstraintPointsCoincident))
	assert.Len(t, f.requestsOf(sketch.RequestDatumPoint), 1)
}

func TestContextAddSplinePoint(t *testing.T) {
	f := newFixture(t)
	f.begin(CmdCubic)
	f.click(-40, 15)
	f.move(40, 15)
	f.m.MouseRightUp(geom.Pt(40, 15))

	r := f.request(f.requestsOf(sketch.RequestCubic)[0])
	require.Equal(t, 0, r.ExtraPoints)
	end := f.pos(r.Point(3))

	f.move(0, 15)
	require.Equal(t, pick.EntityItem(r.Entity), f.Picker.Hover())
	f.rightClick(0, 15, ContextAddSplinePt)

	assert.Equal(t, []ContextCommand{ContextAddSplinePt, ContextConstruction, ContextDeleteSel, ContextUnselectAll}, f.menu.offered)
	r = f.request(f.requestsOf(sketch.RequestCubic)[0])
	assert.Equal(t, 1, r.ExtraPoints)
	require.Len(t, r.Points, 5)
	assertNear(t, geom.V(0, 3, 0), f.pos(r.Point(2)))
	assertNear(t, end, f.pos(r.Point(4)))
}

func TestSplineInsertSlot(t *testing.T) {
	open := &sketch.Request{Type: sketch.RequestCubic, ExtraPoints: 2, Points: make([]handle.Handle, 6)}
	periodic := &sketch.Request{Type: sketch.RequestCubicPeriodic, ExtraPoints: 1, Points: make([]handle.Handle, 4)}

	assert.Equal(t, 2, splineInsertSlot(open, 0))
	assert.Equal(t, 4, splineInsertSlot(open, 3))
	assert.Equal(t, 4, splineInsertSlot(open, 5))
	assert.Equal(t, 1, splineInsertSlot(periodic, 0))
	assert.Equal(t, 4, splineInsertSlot(periodic, 3))
}

func TestContextRemoveSplinePoint(t *testing.T) {
	f := newFixture(t)
	f.begin(CmdCubic)
	f.click(-40, 15)
	f.move(0, 15)
	f.click(0, 15)
	f.move(40, 15)
	f.m.MouseRightUp(geom.Pt(40, 15))

	r := f.request(f.requestsOf(sketch.RequestCubic)[0])
	require.Equal(t, 1, r.ExtraPoints)
	mid := r.Point(2)
	assertNear(t, geom.V(0, 3, 0), f.pos(mid))

	f.move(0, 15)
	require.Equal(t, pick.EntityItem(mid), f.Picker.Hover())
	f.rightClick(0, 15, ContextRemoveSplinePt)

	assert.Contains(t, f.menu.offered, ContextRemoveSplinePt)
	r = f.request(f.requestsOf(sketch.RequestCubic)[0])
	assert.Equal(t, 0, r.ExtraPoints)
	require.Len(t, r.Points, 4)
	assertNear(t, geom.V(8, 3, 0), f.pos(r.Point(3)))
}

func TestContextEndPointOfCubicIsNotRemovable(t *testing.T) {
	f := newFixture(t)
	f.begin(CmdCubic)
	f.click(-40, 15)
	f.move(0, 15)
	f.click(0, 15)
	f.move(40, 15)
	f.m.MouseRightUp(geom.Pt(40, 15))

	f.move(-40, 15)
	f.rightClick(-40, 15, ContextCancelled)
	assert.NotContains(t, f.menu.offered, ContextRemoveSplinePt)
}

func TestContextDeleteDuringCreation(t *testing.T) {
	f := newFixture(t)
	f.begin(CmdCircle)
	f.click(-30, 30)
	f.move(-20, 30)
	circle := f.request(f.requestsOf(sketch.RequestCircle)[0]).Entity

	f.Picker.Select(pick.EntityItem(circle))
	f.rightClick(-20, 30, ContextDeleteSel)
	require.Empty(t, f.requestsOf(sketch.RequestCircle))

	assert.NotPanics(t, func() { f.move(-10, 30) })
	assert.Equal(t, ModeNone, f.m.Mode())
	assert.True(t, f.m.Pending().Empty())
}
