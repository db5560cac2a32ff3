package pick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/view"
)

// fixture draws a line from (10,0) to (30,0) and a circle of radius 5 at
// (0,20). The camera scale is 5, so one model unit is five pixels.
func fixture(t *testing.T) (*sketch.Sketch, *view.Camera, *sketch.Request, *sketch.Request) {
	t.Helper()
	sk := sketch.New()
	cam := view.NewCamera(800, 600)

	line, _ := sk.Request(sk.AddRequest(sketch.RequestLineSegment))
	sk.SetPoint(line.Points[0], geom.V(10, 0, 0))
	sk.SetPoint(line.Points[1], geom.V(30, 0, 0))

	circle, _ := sk.Request(sk.AddRequest(sketch.RequestCircle))
	sk.SetPoint(circle.Points[0], geom.V(0, 20, 0))
	sk.SetDistance(circle.Distance, 5)
	return sk, cam, line, circle
}

func TestHitTestPrefersPoints(t *testing.T) {
	sk, cam, line, _ := fixture(t)
	p := New(sk, cam)

	p.HitTest(geom.Pt(51, 1), nil)
	assert.Equal(t, EntityItem(line.Points[0]), p.Hover())

	p.HitTest(geom.Pt(100, 3), nil)
	assert.Equal(t, EntityItem(line.Entity), p.Hover())

	p.HitTest(geom.Pt(-300, -300), nil)
	assert.True(t, p.Hover().IsEmpty())
}

func TestHitTestSkip(t *testing.T) {
	sk, cam, line, _ := fixture(t)
	p := New(sk, cam)
	p.HitTest(geom.Pt(50, 0), func(h handle.Handle) bool { return sk.RequestOf(h) == sk.RequestOf(line.Entity) })
	assert.NotEqual(t, EntityItem(line.Points[0]), p.Hover())
}

func TestHitTestCircleRim(t *testing.T) {
	sk, cam, _, circle := fixture(t)
	p := New(sk, cam)
	p.HitTest(geom.Pt(25, 100), nil)
	assert.Equal(t, EntityItem(circle.Entity), p.Hover())
}

func TestChooseFromHoverToDrag(t *testing.T) {
	sk, cam, line, _ := fixture(t)
	p := New(sk, cam)
	p.HitTest(geom.Pt(150, 0), nil)
	assert.Equal(t, line.Points[1], p.ChooseFromHoverToDrag())

	p.ClearHover()
	assert.True(t, p.ChooseFromHoverToDrag().IsNil())
}

func TestSelection(t *testing.T) {
	sk, cam, line, circle := fixture(t)
	p := New(sk, cam)

	p.Select(EntityItem(line.Entity))
	p.Select(EntityItem(line.Entity))
	p.Select(EntityItem(line.Points[0]))
	p.Select(EntityItem(circle.Entity))
	require.Equal(t, 3, p.SelectionCount())
	assert.True(t, p.IsSelected(EntityItem(line.Entity)))

	s := p.Summarize()
	assert.Equal(t, 3, s.N())
	assert.Len(t, s.Points, 1)
	assert.Equal(t, 1, s.Circles)
	assert.Equal(t, 1, s.WithEndpoints)

	p.Unselect(EntityItem(line.Entity))
	assert.False(t, p.IsSelected(EntityItem(line.Entity)))
	p.ClearSelection()
	assert.Zero(t, p.SelectionCount())
}

func TestSelectByMarquee(t *testing.T) {
	sk, cam, line, circle := fixture(t)
	p := New(sk, cam)
	p.SelectByMarquee(geom.Pt(40, -10), geom.Pt(160, 10))

	assert.True(t, p.IsSelected(EntityItem(line.Entity)))
	assert.True(t, p.IsSelected(EntityItem(line.Points[0])))
	assert.False(t, p.IsSelected(EntityItem(circle.Entity)))
}

func TestPruneDropsStale(t *testing.T) {
	sk, cam, line, _ := fixture(t)
	p := New(sk, cam)
	p.Select(EntityItem(line.Entity))
	p.SetHover(EntityItem(line.Points[0]))
	require.NoError(t, sk.RemoveRequest(sk.RequestOf(line.Entity)))
	p.Prune()
	assert.Zero(t, p.SelectionCount())
	assert.True(t, p.Hover().IsEmpty())
}

func TestSuggestLineConstraint(t *testing.T) {
	tests := []struct {
		name   string
		b      geom.Vector
		want   sketch.ConstraintType
		wantOK bool
	}{
		{"horizontal", geom.V(10, 0.1, 0), sketch.ConstraintHorizontal, true},
		{"vertical", geom.V(-0.1, 10, 0), sketch.ConstraintVertical, true},
		{"diagonal", geom.V(10, 10, 0), 0, false},
		{"degenerate", geom.V(0, 0, 0), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sk := sketch.New()
			rh := sk.AddRequest(sketch.RequestLineSegment)
			r, _ := sk.Request(rh)
			sk.SetPoint(r.Points[1], tt.b)

			got, ok := NewSuggester(sk, 0).SuggestLineConstraint(rh)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSuggestNothingIn3D(t *testing.T) {
	sk := sketch.New()
	require.NoError(t, sk.SetActiveWorkplane(handle.Nil))
	rh := sk.AddRequest(sketch.RequestLineSegment)
	r, _ := sk.Request(rh)
	sk.SetPoint(r.Points[1], geom.V(10, 0, 0))
	_, ok := NewSuggester(sk, 0).SuggestLineConstraint(rh)
	assert.False(t, ok)
}
