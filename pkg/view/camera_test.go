package view

import (
	"math"
	"testing"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestProjectUnProjectRoundTrip(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetScale(7)
	c.SetOffset(geom.V(-3, 2, 0))
	c.SetOrientation(geom.V(1, 1, 0), geom.V(-1, 1, 1))

	tests := []geom.Point2d{{X: 0, Y: 0}, {X: 10, Y: -4}, {X: -250, Y: 120}}
	for _, p := range tests {
		got := c.Project(c.UnProject(p))
		if !near(got.X, p.X) || !near(got.Y, p.Y) {
			t.Fatalf("round trip of %v = %v", p, got)
		}
	}
}

func TestUnProjectCenterIsNegatedOffset(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetOffset(geom.V(1, 2, 3))
	if got := c.UnProject(geom.Pt(0, 0)); !got.Equals(geom.V(-1, -2, -3)) {
		t.Fatalf("center = %v", got)
	}
}

func TestPixelConversion(t *testing.T) {
	c := NewCamera(800, 600)
	x, y := c.ToPixel(geom.Pt(0, 0))
	if x != 400 || y != 300 {
		t.Fatalf("center pixel = %v,%v", x, y)
	}
	p := c.FromPixel(410, 290)
	if p.X != 10 || p.Y != 10 {
		t.Fatalf("FromPixel = %v", p)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetOffset(geom.V(4, -1, 0))
	p := geom.Pt(120, -80)
	before := c.UnProject(p)
	c.ZoomAt(p, 1.2)
	if !near(c.Scale(), 6) {
		t.Fatalf("scale = %v", c.Scale())
	}
	if after := c.UnProject(p); !after.Equals(before) {
		t.Fatalf("point under cursor moved from %v to %v", before, after)
	}
}

func TestSetOrientationOrthonormalizes(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetOrientation(geom.V(2, 0, 0), geom.V(1, 3, 0))
	if !c.ProjRight().Equals(geom.V(1, 0, 0)) || !c.ProjUp().Equals(geom.V(0, 1, 0)) {
		t.Fatalf("basis = %v %v", c.ProjRight(), c.ProjUp())
	}
	c.SetOrientation(geom.V(1, 0, 0), geom.V(1, 0, 0))
	if !c.ProjUp().Equals(geom.V(0, 1, 0)) {
		t.Fatalf("parallel fallback up = %v", c.ProjUp())
	}
}

func TestFit(t *testing.T) {
	c := NewCamera(100, 100)
	c.Fit([]geom.Vector{geom.V(0, 0, 0), geom.V(10, 20, 0)})
	if !near(c.Scale(), 4.5) {
		t.Fatalf("scale = %v", c.Scale())
	}
	if !c.UnProject(geom.Pt(0, 0)).Equals(geom.V(5, 10, 0)) {
		t.Fatalf("center = %v", c.UnProject(geom.Pt(0, 0)))
	}
}
