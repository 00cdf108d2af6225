package geom

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Quat is a rotation quaternion.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle builds a rotation of angle radians about axis. The axis
// need not be unit length.
func QuatFromAxisAngle(axis vec3.T, angle float64) Quat {
	n := axis
	n.Normalize()
	sin := math.Sin(angle / 2)
	return Quat{
		X: n[0] * sin,
		Y: n[1] * sin,
		Z: n[2] * sin,
		W: math.Cos(angle / 2),
	}
}

// Mul returns the Hamilton product q * r; the combined rotation applies r
// first, then q.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Conjugate returns the inverse rotation for a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Normalized returns the unit quaternion; the zero quaternion normalizes to
// identity.
func (q Quat) Normalized() Quat {
	len := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if len == 0 {
		return QuatIdentity()
	}
	return Quat{X: q.X / len, Y: q.Y / len, Z: q.Z / len, W: q.W / len}
}

// Rotate applies the rotation to a vector.
func (q Quat) Rotate(v vec3.T) vec3.T {
	// v' = v + 2w(u×v) + 2(u×(u×v)) with u the vector part.
	u := vec3.T{q.X, q.Y, q.Z}
	uv := vec3.Cross(&u, &v)
	uuv := vec3.Cross(&u, &uv)
	uv = uv.Scaled(2 * q.W)
	uuv = uuv.Scaled(2)
	out := vec3.Add(&v, &uv)
	return vec3.Add(&out, &uuv)
}

// Mat4 returns the rotation as a matrix.
func (q Quat) Mat4() Mat4 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	return Mat4{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w), 0,
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w), 0,
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y), 0,
		0, 0, 0, 1,
	}
}
