package sketch

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
)

const (
	curveSegments = 48
	bezierSteps   = 16
	textAspect    = 0.6
)

// Outline returns the entity as a polyline in model space, for drawing and
// hit testing. Points, normals and distances have no outline.
func (s *Sketch) Outline(eh handle.Handle) []geom.Vector {
	e, ok := s.entities.Get(eh)
	if !ok {
		return nil
	}
	pos := func(i int) geom.Vector {
		if i >= len(e.Points) {
			return geom.Vector{}
		}
		return s.PointPos(e.Points[i])
	}

	switch e.Type {
	case EntityLineSegment:
		return []geom.Vector{pos(0), pos(1)}

	case EntityCircle:
		q := s.NormalOrientation(e.Normal)
		return arcPoints(pos(0), q.RotationU(), q.RotationV(), s.DistanceValue(e.Distance), 0, 2*math.Pi)

	case EntityArcOfCircle:
		center, start, finish := pos(0), pos(1), pos(2)
		q := s.NormalOrientation(e.Normal)
		u, v := q.RotationU(), q.RotationV()
		a0 := angleIn(start.Minus(center), u, v)
		a1 := angleIn(finish.Minus(center), u, v)
		sweep := a1 - a0
		for sweep <= geom.LengthEps {
			sweep += 2 * math.Pi
		}
		return arcPoints(center, u, v, start.Minus(center).Magnitude(), a0, sweep)

	case EntityCubic, EntityCubicPeriodic:
		pts := make([]geom.Vector, len(e.Points))
		for i := range pts {
			pts[i] = pos(i)
		}
		return splinePolyline(pts, e.Type == EntityCubicPeriodic)

	case EntityTTFText:
		q := s.NormalOrientation(e.Normal)
		top, bottom := pos(0), pos(1)
		up := top.Minus(bottom)
		r, _ := s.requests.Get(e.Request)
		n := 3
		if r != nil && len(r.Str) > 0 {
			n = len(r.Str)
		}
		right := up.Cross(q.RotationN()).WithMagnitude(up.Magnitude() * textAspect * float64(n))
		return []geom.Vector{top, bottom, bottom.Plus(right), top.Plus(right), top}

	case EntityWorkplane:
		q := s.NormalOrientation(e.Normal)
		o := pos(0)
		u, v := q.RotationU().ScaledBy(10), q.RotationV().ScaledBy(10)
		return []geom.Vector{
			o.Plus(u).Plus(v), o.Minus(u).Plus(v), o.Minus(u).Minus(v), o.Plus(u).Minus(v), o.Plus(u).Plus(v),
		}
	}
	return nil
}

func angleIn(d, u, v geom.Vector) float64 {
	return math.Atan2(d.Dot(v), d.Dot(u))
}

func arcPoints(center, u, v geom.Vector, r, a0, sweep float64) []geom.Vector {
	n := int(math.Ceil(curveSegments * sweep / (2 * math.Pi)))
	if n < 2 {
		n = 2
	}
	out := make([]geom.Vector, 0, n+1)
	for i := 0; i <= n; i++ {
		a := a0 + sweep*float64(i)/float64(n)
		out = append(out, center.Plus(u.ScaledBy(r*math.Cos(a))).Plus(v.ScaledBy(r*math.Sin(a))))
	}
	return out
}

// splinePolyline samples an interpolating cubic spline. For an open spline
// pts[1] and pts[len-2] are tangent controls and the rest are passed
// through; a periodic spline passes through every point.
func splinePolyline(pts []geom.Vector, periodic bool) []geom.Vector {
	var knots []geom.Vector
	var d0, dn geom.Vector
	if periodic {
		if len(pts) < 3 {
			return nil
		}
		knots = pts
	} else {
		if len(pts) < 4 {
			return nil
		}
		last := len(pts) - 1
		knots = append([]geom.Vector{pts[0]}, pts[2:last-1]...)
		knots = append(knots, pts[last])
		d0 = pts[1].Minus(pts[0]).ScaledBy(3)
		dn = pts[last].Minus(pts[last-1]).ScaledBy(3)
	}
	d := splineTangents(knots, d0, dn, periodic)

	segs := len(knots) - 1
	if periodic {
		segs = len(knots)
	}
	out := []geom.Vector{knots[0]}
	for i := 0; i < segs; i++ {
		j := (i + 1) % len(knots)
		b0, b3 := knots[i], knots[j]
		b1 := b0.Plus(d[i].ScaledBy(1.0 / 3))
		b2 := b3.Minus(d[j].ScaledBy(1.0 / 3))
		for k := 1; k <= bezierSteps; k++ {
			out = append(out, bezier(b0, b1, b2, b3, float64(k)/bezierSteps))
		}
	}
	return out
}

// splineTangents solves for C2-continuous tangents at the knots. Open
// splines use the given end tangents.
func splineTangents(x []geom.Vector, d0, dn geom.Vector, periodic bool) []geom.Vector {
	n := len(x)
	d := make([]geom.Vector, n)
	if !periodic {
		d[0], d[n-1] = d0, dn
	}
	// Diagonally dominant, so Gauss-Seidel converges quickly.
	for iter := 0; iter < 64; iter++ {
		for i := 0; i < n; i++ {
			if !periodic && (i == 0 || i == n-1) {
				continue
			}
			prev, next := (i+n-1)%n, (i+1)%n
			rhs := x[next].Minus(x[prev]).ScaledBy(3)
			d[i] = rhs.Minus(d[prev]).Minus(d[next]).ScaledBy(0.25)
		}
	}
	return d
}

func bezier(b0, b1, b2, b3 geom.Vector, t float64) geom.Vector {
	mt := 1 - t
	return b0.ScaledBy(mt * mt * mt).
		Plus(b1.ScaledBy(3 * mt * mt * t)).
		Plus(b2.ScaledBy(3 * mt * t * t)).
		Plus(b3.ScaledBy(t * t * t))
}

// NearestSplinePoint returns the slot of the on-curve spline point that
// projects closest to p. Tangent controls of open splines are skipped.
func (s *Sketch) NearestSplinePoint(eh handle.Handle, project func(geom.Vector) geom.Point2d, p geom.Point2d) int {
	e, ok := s.entities.Get(eh)
	if !ok || (e.Type != EntityCubic && e.Type != EntityCubicPeriodic) {
		return -1
	}
	best, bestD := -1, math.Inf(1)
	for i, ph := range e.Points {
		if e.Type == EntityCubic && (i == 1 || i == len(e.Points)-2) {
			continue
		}
		if d := project(s.PointPos(ph)).DistanceTo(p); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}
