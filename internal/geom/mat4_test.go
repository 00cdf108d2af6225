package geom

import (
	"math"
	"testing"

	"github.com/ungerik/go3d/float64/vec3"
)

func matNear(a, b Mat4, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestMat4MulPoint(t *testing.T) {
	m := Translation(vec3.T{1, 2, 3}).Mul(Scaling(vec3.T{2, 2, 2}))
	got := m.MulPoint(vec3.T{1, 1, 1})
	if !vecNear(got, vec3.T{3, 4, 5}, eps) {
		t.Errorf("MulPoint() = %v, want (3,4,5)", got)
	}

	// Directions ignore translation.
	dir := m.MulDir(vec3.T{1, 0, 0})
	if !vecNear(dir, vec3.T{2, 0, 0}, eps) {
		t.Errorf("MulDir() = %v, want (2,0,0)", dir)
	}
}

func TestTRSInverse(t *testing.T) {
	tr := vec3.T{3, -2, 0.5}
	rot := QuatFromAxisAngle(vec3.T{0.3, 1, -0.2}, 1.1)
	sc := vec3.T{2, 0.5, 3}

	m := FromTRS(tr, rot, sc)
	inv := TRSInverse(tr, rot, sc)

	if got := m.Mul(inv); !matNear(got, Identity(), 1e-9) {
		t.Errorf("M * M⁻¹ = %v, want identity", got)
	}
	if got := inv.Mul(m); !matNear(got, Identity(), 1e-9) {
		t.Errorf("M⁻¹ * M = %v, want identity", got)
	}

	// Round-tripping a point through both matrices is the identity.
	p := vec3.T{1.25, -4, 2}
	back := inv.MulPoint(m.MulPoint(p))
	if !vecNear(back, p, 1e-9) {
		t.Errorf("inverse round trip = %v, want %v", back, p)
	}
}

func TestQuatRotate(t *testing.T) {
	q := QuatFromAxisAngle(vec3.T{0, 0, 1}, math.Pi/2)

	got := q.Rotate(vec3.T{1, 0, 0})
	if !vecNear(got, vec3.T{0, 1, 0}, 1e-9) {
		t.Errorf("Rotate() = %v, want (0,1,0)", got)
	}

	// Matrix form agrees with direct rotation.
	viaMat := q.Mat4().MulPoint(vec3.T{1, 0, 0})
	if !vecNear(viaMat, got, 1e-9) {
		t.Errorf("Mat4 rotation = %v, want %v", viaMat, got)
	}

	// Composition applies the right operand first.
	q2 := QuatFromAxisAngle(vec3.T{0, 0, 1}, math.Pi/4)
	composed := q2.Mul(q2)
	if got := composed.Rotate(vec3.T{1, 0, 0}); !vecNear(got, vec3.T{0, 1, 0}, 1e-9) {
		t.Errorf("composed Rotate() = %v, want (0,1,0)", got)
	}
}
