package geom

import "math"

// Quaternion is a unit quaternion used to store orientations (normals and
// the rotation part of transformed points).
type Quaternion struct {
	W, VX, VY, VZ float64
}

// IdentityQuaternion leaves vectors unchanged.
var IdentityQuaternion = Quaternion{W: 1}

// AxisAngle builds the rotation of theta radians about axis.
func AxisAngle(axis Vector, theta float64) Quaternion {
	a := axis.WithMagnitude(1)
	s := math.Sin(theta / 2)
	return Quaternion{
		W:  math.Cos(theta / 2),
		VX: a.X * s,
		VY: a.Y * s,
		VZ: a.Z * s,
	}
}

// QuaternionFromBasis builds the orientation whose first two basis vectors
// are u and v. Both are expected to be unit length and perpendicular.
func QuaternionFromBasis(u, v Vector) Quaternion {
	n := u.Cross(v)
	var q Quaternion
	tr := 1 + u.X + v.Y + n.Z
	switch {
	case tr > 1e-4:
		s := 2 * math.Sqrt(tr)
		q.W = s / 4
		q.VX = (v.Z - n.Y) / s
		q.VY = (n.X - u.Z) / s
		q.VZ = (u.Y - v.X) / s
	case u.X > v.Y && u.X > n.Z:
		s := 2 * math.Sqrt(1+u.X-v.Y-n.Z)
		q.W = (v.Z - n.Y) / s
		q.VX = s / 4
		q.VY = (v.X + u.Y) / s
		q.VZ = (n.X + u.Z) / s
	case v.Y > n.Z:
		s := 2 * math.Sqrt(1-u.X+v.Y-n.Z)
		q.W = (n.X - u.Z) / s
		q.VX = (v.X + u.Y) / s
		q.VY = s / 4
		q.VZ = (n.Y + v.Z) / s
	default:
		s := 2 * math.Sqrt(1-u.X-v.Y+n.Z)
		q.W = (u.Y - v.X) / s
		q.VX = (n.X + u.Z) / s
		q.VY = (n.Y + v.Z) / s
		q.VZ = s / 4
	}
	return q.Normalized()
}

func (q Quaternion) Magnitude() float64 {
	return math.Sqrt(q.W*q.W + q.VX*q.VX + q.VY*q.VY + q.VZ*q.VZ)
}

func (q Quaternion) Normalized() Quaternion {
	m := q.Magnitude()
	if m == 0 {
		return IdentityQuaternion
	}
	return Quaternion{q.W / m, q.VX / m, q.VY / m, q.VZ / m}
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{q.W, -q.VX, -q.VY, -q.VZ}
}

// Times returns the composition q*b: b is applied first, then q.
func (q Quaternion) Times(b Quaternion) Quaternion {
	return Quaternion{
		W:  q.W*b.W - q.VX*b.VX - q.VY*b.VY - q.VZ*b.VZ,
		VX: q.W*b.VX + q.VX*b.W + q.VY*b.VZ - q.VZ*b.VY,
		VY: q.W*b.VY - q.VX*b.VZ + q.VY*b.W + q.VZ*b.VX,
		VZ: q.W*b.VZ + q.VX*b.VY - q.VY*b.VX + q.VZ*b.W,
	}
}

// Rotate applies the rotation to p.
func (q Quaternion) Rotate(p Vector) Vector {
	pq := Quaternion{0, p.X, p.Y, p.Z}
	r := q.Times(pq).Times(q.Conjugate())
	return Vector{r.VX, r.VY, r.VZ}
}

// RotationU is the image of the x axis.
func (q Quaternion) RotationU() Vector {
	return q.Rotate(Vector{1, 0, 0})
}

// RotationV is the image of the y axis.
func (q Quaternion) RotationV() Vector {
	return q.Rotate(Vector{0, 1, 0})
}

// RotationN is the image of the z axis, the normal of the plane spanned by
// RotationU and RotationV.
func (q Quaternion) RotationN() Vector {
	return q.Rotate(Vector{0, 0, 1})
}
