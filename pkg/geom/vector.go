// Package geom provides the small amount of 3D math the sketch editor needs:
// vectors, screen points, and unit quaternions for orientations.
package geom

import (
	"fmt"
	"math"
)

// LengthEps is the distance below which two points are treated as the same.
const LengthEps = 1e-6

// Vector is a point or direction in model space (mm).
type Vector struct {
	X, Y, Z float64
}

// V is shorthand for building a Vector.
func V(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}

func (v Vector) Plus(w Vector) Vector {
	return Vector{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

func (v Vector) Minus(w Vector) Vector {
	return Vector{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

func (v Vector) ScaledBy(s float64) Vector {
	return Vector{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector) Negated() Vector {
	return Vector{-v.X, -v.Y, -v.Z}
}

func (v Vector) Dot(w Vector) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

func (v Vector) Cross(w Vector) Vector {
	return Vector{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.Dot(v))
}

// WithMagnitude returns v rescaled to length s. A zero vector stays zero.
func (v Vector) WithMagnitude(s float64) Vector {
	m := v.Magnitude()
	if m == 0 {
		return Vector{}
	}
	return v.ScaledBy(s / m)
}

// Equals reports whether v and w are within LengthEps of each other.
func (v Vector) Equals(w Vector) bool {
	return v.Minus(w).Magnitude() < LengthEps
}

// RotatedAbout rotates v by theta radians about the axis through the origin.
func (v Vector) RotatedAbout(axis Vector, theta float64) Vector {
	return AxisAngle(axis, theta).Rotate(v)
}

// Midpoint returns the point halfway between v and w.
func (v Vector) Midpoint(w Vector) Vector {
	return v.Plus(w).ScaledBy(0.5)
}

func (v Vector) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

// Point2d is a position in screen space, in pixels relative to the center of
// the viewport with y increasing upward.
type Point2d struct {
	X, Y float64
}

// Pt is shorthand for building a Point2d.
func Pt(x, y float64) Point2d {
	return Point2d{X: x, Y: y}
}

func (p Point2d) Minus(q Point2d) Point2d {
	return Point2d{p.X - q.X, p.Y - q.Y}
}

func (p Point2d) DistanceTo(q Point2d) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Point2d) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}
