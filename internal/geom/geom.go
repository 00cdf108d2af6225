// Package geom is the stateless geometry kernel of the mesh editor:
// ray/plane/triangle intersection, centroids and closest-point queries.
// All functions are pure and safe to call from any goroutine.
package geom

import (
	"errors"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// ErrDegenerateGeometry is returned when an intersection has no solution,
// e.g. a ray parallel to the target plane.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// parallelEps rejects near-parallel ray/plane configurations.
const parallelEps = 1e-4

// Ray is an origin plus a direction. Direction is unit length unless a
// function documents otherwise.
type Ray struct {
	Origin vec3.T
	Dir    vec3.T
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) vec3.T {
	d := r.Dir.Scaled(t)
	return vec3.Add(&r.Origin, &d)
}

// Plane is a point on the plane plus a unit normal.
type Plane struct {
	Point  vec3.T
	Normal vec3.T
}

// IntersectPlane intersects a ray with the plane through point with the
// given normal. Returns ErrDegenerateGeometry when the ray is (near)
// parallel to the plane.
func IntersectPlane(ray Ray, normal, point vec3.T) (vec3.T, error) {
	denom := vec3.Dot(&ray.Dir, &normal)
	if math.Abs(denom) < parallelEps {
		return vec3.Zero, ErrDegenerateGeometry
	}
	d := -vec3.Dot(&point, &normal)
	t := -(vec3.Dot(&ray.Origin, &normal) + d) / denom
	return ray.At(t), nil
}

// IntersectTriangle intersects a ray with triangle p0,p1,p2 using the
// Möller–Trumbore test. It fails when the ray is parallel to the triangle
// plane, the hit lies behind the origin, or the barycentric coordinates
// fall outside the triangle.
func IntersectTriangle(ray Ray, p0, p1, p2 vec3.T) (vec3.T, bool) {
	e1 := vec3.Sub(&p1, &p0)
	e2 := vec3.Sub(&p2, &p0)

	n := vec3.Cross(&e1, &e2)
	n.Normalize()
	if math.Abs(vec3.Dot(&n, &ray.Dir)) < parallelEps {
		return vec3.Zero, false
	}

	pvec := vec3.Cross(&ray.Dir, &e2)
	det := vec3.Dot(&e1, &pvec)
	if math.Abs(det) < parallelEps {
		return vec3.Zero, false
	}
	invDet := 1.0 / det

	tvec := vec3.Sub(&ray.Origin, &p0)
	s := vec3.Dot(&tvec, &pvec) * invDet
	if s < 0 || s > 1 {
		return vec3.Zero, false
	}

	qvec := vec3.Cross(&tvec, &e1)
	t := vec3.Dot(&ray.Dir, &qvec) * invDet
	if t < 0 || s+t > 1 {
		return vec3.Zero, false
	}

	dist := vec3.Dot(&e2, &qvec) * invDet
	if dist < 0 {
		return vec3.Zero, false
	}

	return ray.At(dist), true
}

// Centroid returns the arithmetic mean of three points.
func Centroid(p0, p1, p2 vec3.T) vec3.T {
	c := vec3.Add(&p0, &p1)
	c = vec3.Add(&c, &p2)
	return c.Scaled(1.0 / 3.0)
}

// ClosestRayRay finds the closest points between two rays. It returns the
// parameters s on a and t on b together with the closest points. Directions
// need not be unit length; for a finite segment, pass its extent as the
// direction and t lands in [0,1] when the closest point is on the segment.
// Parallel rays clamp s to zero.
func ClosestRayRay(a, b Ray) (s, t float64, pa, pb vec3.T) {
	w0 := vec3.Sub(&a.Origin, &b.Origin)
	da := vec3.Dot(&a.Dir, &a.Dir)
	db := vec3.Dot(&a.Dir, &b.Dir)
	dc := vec3.Dot(&b.Dir, &b.Dir)
	dd := vec3.Dot(&a.Dir, &w0)
	de := vec3.Dot(&b.Dir, &w0)

	denom := da*dc - db*db
	if math.Abs(denom) < parallelEps {
		s = 0
		if dc != 0 {
			t = de / dc
		}
	} else {
		s = (db*de - dc*dd) / denom
		t = (da*de - db*dd) / denom
	}

	return s, t, a.At(s), b.At(t)
}

// DistPointSegment returns the distance from p to the finite segment ab.
func DistPointSegment(p, a, b vec3.T) float64 {
	ab := vec3.Sub(&b, &a)
	ap := vec3.Sub(&p, &a)

	lenSq := vec3.Dot(&ab, &ab)
	if lenSq == 0 {
		return vec3.Distance(&p, &a)
	}

	t := vec3.Dot(&ap, &ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	scaled := ab.Scaled(t)
	closest := vec3.Add(&a, &scaled)
	return vec3.Distance(&p, &closest)
}

// DistPointRay returns the perpendicular distance from p to the infinite
// ray. Dir must be unit length.
func DistPointRay(p vec3.T, ray Ray) float64 {
	w := vec3.Sub(&p, &ray.Origin)
	cr := vec3.Cross(&ray.Dir, &w)
	return cr.Length()
}
