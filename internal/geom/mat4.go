package geom

import "github.com/ungerik/go3d/float64/vec3"

// Mat4 is a 4x4 transformation matrix in row-major order:
//
//	| m0  m1  m2  m3  |
//	| m4  m5  m6  m7  |
//	| m8  m9  m10 m11 |
//	| m12 m13 m14 m15 |
//
// Points transform as column vectors: p' = M * p.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a translation matrix.
func Translation(t vec3.T) Mat4 {
	return Mat4{
		1, 0, 0, t[0],
		0, 1, 0, t[1],
		0, 0, 1, t[2],
		0, 0, 0, 1,
	}
}

// Scaling returns a (possibly non-uniform) scale matrix.
func Scaling(s vec3.T) Mat4 {
	return Mat4{
		s[0], 0, 0, 0,
		0, s[1], 0, 0,
		0, 0, s[2], 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies this matrix by another: result = m * other.
// Applying the result to a point applies 'other' first, then 'm'.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * other[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

// MulPoint applies the matrix to a point (w = 1).
func (m Mat4) MulPoint(p vec3.T) vec3.T {
	return vec3.T{
		m[0]*p[0] + m[1]*p[1] + m[2]*p[2] + m[3],
		m[4]*p[0] + m[5]*p[1] + m[6]*p[2] + m[7],
		m[8]*p[0] + m[9]*p[1] + m[10]*p[2] + m[11],
	}
}

// MulDir applies the matrix to a direction (w = 0, translation ignored).
func (m Mat4) MulDir(d vec3.T) vec3.T {
	return vec3.T{
		m[0]*d[0] + m[1]*d[1] + m[2]*d[2],
		m[4]*d[0] + m[5]*d[1] + m[6]*d[2],
		m[8]*d[0] + m[9]*d[1] + m[10]*d[2],
	}
}

// Transposed returns the transpose.
func (m Mat4) Transposed() Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[col*4+row] = m[row*4+col]
		}
	}
	return out
}

// FromTRS composes Translation(t) * Rotation(q) * Scaling(s), the model
// matrix convention used by Object.
func FromTRS(t vec3.T, q Quat, s vec3.T) Mat4 {
	return Translation(t).Mul(q.Mat4()).Mul(Scaling(s))
}

// TRSInverse returns the analytic inverse of FromTRS(t, q, s):
// Scaling(1/s) * Rotation(q⁻¹) * Translation(−t). Zero scale components
// are passed through untouched; callers keep scale non-zero.
func TRSInverse(t vec3.T, q Quat, s vec3.T) Mat4 {
	inv := vec3.T{1, 1, 1}
	for i := 0; i < 3; i++ {
		if s[i] != 0 {
			inv[i] = 1 / s[i]
		}
	}
	neg := t.Scaled(-1)
	return Scaling(inv).Mul(q.Conjugate().Mat4()).Mul(Translation(neg))
}
