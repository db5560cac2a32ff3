// Package view holds the orthographic camera that maps sketch space to the
// screen.
//
// Screen coordinates used by the camera are centered on the viewport with y
// increasing upward. Pixel coordinates (origin top left, y down) are converted
// with ToPixel and FromPixel.
package view

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
)

const (
	minScale = 1e-4
	maxScale = 1e6
)

// Camera represents a viewport onto the sketch.
type Camera struct {
	// Pixels per model unit. Higher values zoom in.
	scale float64

	// offset is the negated model point at the center of the screen.
	offset geom.Vector

	// Screen basis in model space.
	projRight geom.Vector
	projUp    geom.Vector

	// Viewport size in pixels.
	Width  int
	Height int
}

// NewCamera creates a camera looking down the Z axis at the origin.
func NewCamera(width, height int) *Camera {
	return &Camera{
		scale:     5,
		projRight: geom.V(1, 0, 0),
		projUp:    geom.V(0, 1, 0),
		Width:     width,
		Height:    height,
	}
}

func (c *Camera) Scale() float64         { return c.scale }
func (c *Camera) Offset() geom.Vector    { return c.offset }
func (c *Camera) ProjRight() geom.Vector { return c.projRight }
func (c *Camera) ProjUp() geom.Vector    { return c.projUp }

// Normal is the out-of-screen axis.
func (c *Camera) Normal() geom.Vector {
	return c.projRight.Cross(c.projUp)
}

// SetScale sets the zoom, clamped to a sane range.
func (c *Camera) SetScale(s float64) {
	c.scale = math.Min(math.Max(s, minScale), maxScale)
}

// SetOffset moves the camera.
func (c *Camera) SetOffset(o geom.Vector) {
	c.offset = o
}

// SetOrientation sets the screen basis and re-orthonormalizes it.
func (c *Camera) SetOrientation(right, up geom.Vector) {
	if right.Magnitude() < geom.LengthEps {
		right = geom.V(1, 0, 0)
	}
	norm := right.Cross(up)
	// Parallel vectors: fall back to looking down Z.
	if norm.Magnitude() < geom.LengthEps {
		norm = geom.V(0, 0, 1)
	}
	c.projUp = norm.Cross(right).WithMagnitude(1)
	c.projRight = right.WithMagnitude(1)
}

// Project converts a model point to centered screen coordinates.
func (c *Camera) Project(v geom.Vector) geom.Point2d {
	r := v.Plus(c.offset)
	return geom.Pt(r.Dot(c.projRight)*c.scale, r.Dot(c.projUp)*c.scale)
}

// UnProject converts centered screen coordinates to the model point on the
// plane through the view center.
func (c *Camera) UnProject(p geom.Point2d) geom.Vector {
	return c.offset.Negated().
		Plus(c.projRight.ScaledBy(p.X / c.scale)).
		Plus(c.projUp.ScaledBy(p.Y / c.scale))
}

// ToPixel converts centered screen coordinates to window pixels.
func (c *Camera) ToPixel(p geom.Point2d) (x, y float64) {
	return p.X + float64(c.Width)/2, float64(c.Height)/2 - p.Y
}

// FromPixel converts window pixels to centered screen coordinates.
func (c *Camera) FromPixel(x, y float64) geom.Point2d {
	return geom.Pt(x-float64(c.Width)/2, float64(c.Height)/2-y)
}

// ZoomAt zooms by factor keeping the model point under p fixed.
// factor > 1 zooms in.
func (c *Camera) ZoomAt(p geom.Point2d, factor float64) {
	offsetRight := c.offset.Dot(c.projRight)
	offsetUp := c.offset.Dot(c.projUp)

	righti := p.X/c.scale - offsetRight
	upi := p.Y/c.scale - offsetUp

	c.SetScale(c.scale * factor)

	rightf := p.X/c.scale - offsetRight
	upf := p.Y/c.scale - offsetUp

	c.offset = c.offset.
		Plus(c.projRight.ScaledBy(rightf - righti)).
		Plus(c.projUp.ScaledBy(upf - upi))
}

// Pan moves the view by a screen delta in pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.offset = c.offset.
		Plus(c.projRight.ScaledBy(dx / c.scale)).
		Plus(c.projUp.ScaledBy(dy / c.scale))
}

// Fit centers the given points and zooms so they fill 90% of the viewport.
func (c *Camera) Fit(pts []geom.Vector) {
	if len(pts) == 0 || c.Width <= 0 || c.Height <= 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		x, y := p.Dot(c.projRight), p.Dot(c.projUp)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	center := c.projRight.ScaledBy((minX + maxX) / 2).Plus(c.projUp.ScaledBy((minY + maxY) / 2))
	// Keep the out-of-screen component so the view plane does not jump.
	n := c.Normal()
	center = center.Plus(n.ScaledBy(c.offset.Negated().Dot(n)))
	c.offset = center.Negated()

	width, height := maxX-minX, maxY-minY
	if width <= geom.LengthEps && height <= geom.LengthEps {
		return
	}
	zoomX := math.Inf(1)
	if width > geom.LengthEps {
		zoomX = float64(c.Width) * 0.9 / width
	}
	zoomY := math.Inf(1)
	if height > geom.LengthEps {
		zoomY = float64(c.Height) * 0.9 / height
	}
	c.SetScale(math.Min(zoomX, zoomY))
}

// Resize updates the viewport when the window changes size.
func (c *Camera) Resize(width, height int) {
	c.Width = width
	c.Height = height
}
