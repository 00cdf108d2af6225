package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/ungerik/go3d/float64/vec3"
)

const eps = 1e-9

func vecNear(a, b vec3.T, tol float64) bool {
	return math.Abs(a[0]-b[0]) < tol && math.Abs(a[1]-b[1]) < tol && math.Abs(a[2]-b[2]) < tol
}

func TestIntersectPlane(t *testing.T) {
	ray := Ray{Origin: vec3.T{0, 0, 5}, Dir: vec3.T{0, 0, -1}}

	t.Run("hit", func(t *testing.T) {
		p, err := IntersectPlane(ray, vec3.T{0, 0, 1}, vec3.T{0, 0, 0})
		if err != nil {
			t.Fatalf("IntersectPlane() error = %v", err)
		}
		if !vecNear(p, vec3.T{0, 0, 0}, eps) {
			t.Errorf("IntersectPlane() = %v, want origin", p)
		}
	})

	t.Run("offset plane", func(t *testing.T) {
		p, err := IntersectPlane(ray, vec3.T{0, 0, 1}, vec3.T{7, -3, 2})
		if err != nil {
			t.Fatalf("IntersectPlane() error = %v", err)
		}
		if !vecNear(p, vec3.T{0, 0, 2}, eps) {
			t.Errorf("IntersectPlane() = %v, want (0,0,2)", p)
		}
	})

	t.Run("parallel", func(t *testing.T) {
		parallel := Ray{Origin: vec3.T{0, 0, 5}, Dir: vec3.T{1, 0, 0}}
		_, err := IntersectPlane(parallel, vec3.T{0, 0, 1}, vec3.T{0, 0, 0})
		if !errors.Is(err, ErrDegenerateGeometry) {
			t.Errorf("IntersectPlane() error = %v, want ErrDegenerateGeometry", err)
		}
	})
}

func TestIntersectTriangle(t *testing.T) {
	p0 := vec3.T{-1, -1, 0}
	p1 := vec3.T{1, -1, 0}
	p2 := vec3.T{0, 1, 0}

	tests := []struct {
		name    string
		ray     Ray
		want    vec3.T
		wantHit bool
	}{
		{
			name:    "hit through interior",
			ray:     Ray{Origin: vec3.T{0, 0, 5}, Dir: vec3.T{0, 0, -1}},
			want:    vec3.T{0, 0, 0},
			wantHit: true,
		},
		{
			name:    "behind origin",
			ray:     Ray{Origin: vec3.T{0, 0, 5}, Dir: vec3.T{0, 0, 1}},
			wantHit: false,
		},
		{
			name:    "outside triangle",
			ray:     Ray{Origin: vec3.T{5, 5, 5}, Dir: vec3.T{0, 0, -1}},
			wantHit: false,
		},
		{
			name:    "parallel to plane",
			ray:     Ray{Origin: vec3.T{0, 0, 1}, Dir: vec3.T{1, 0, 0}},
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, hit := IntersectTriangle(tt.ray, p0, p1, p2)
			if hit != tt.wantHit {
				t.Fatalf("IntersectTriangle() hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && !vecNear(p, tt.want, eps) {
				t.Errorf("IntersectTriangle() = %v, want %v", p, tt.want)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	c := Centroid(vec3.T{0, 0, 0}, vec3.T{3, 0, 0}, vec3.T{0, 3, 3})
	if !vecNear(c, vec3.T{1, 1, 1}, eps) {
		t.Errorf("Centroid() = %v, want (1,1,1)", c)
	}
}

func TestClosestRayRay(t *testing.T) {
	t.Run("skew", func(t *testing.T) {
		a := Ray{Origin: vec3.T{0, 0, 0}, Dir: vec3.T{1, 0, 0}}
		b := Ray{Origin: vec3.T{2, -1, 3}, Dir: vec3.T{0, 1, 0}}
		s, u, pa, pb := ClosestRayRay(a, b)
		if math.Abs(s-2) > eps || math.Abs(u-1) > eps {
			t.Errorf("params = (%v, %v), want (2, 1)", s, u)
		}
		if !vecNear(pa, vec3.T{2, 0, 0}, eps) || !vecNear(pb, vec3.T{2, 0, 3}, eps) {
			t.Errorf("closest points = %v, %v", pa, pb)
		}
	})

	t.Run("segment parameter", func(t *testing.T) {
		a := Ray{Origin: vec3.T{0.5, 0, 5}, Dir: vec3.T{0, 0, -1}}
		// Segment from (0,0,0) to (2,0,0) as a ray with non-unit direction.
		seg := Ray{Origin: vec3.T{0, 0, 0}, Dir: vec3.T{2, 0, 0}}
		_, u, _, pb := ClosestRayRay(a, seg)
		if math.Abs(u-0.25) > eps {
			t.Errorf("segment parameter = %v, want 0.25", u)
		}
		if !vecNear(pb, vec3.T{0.5, 0, 0}, eps) {
			t.Errorf("closest point on segment = %v, want (0.5,0,0)", pb)
		}
	})
}

func TestDistPointSegment(t *testing.T) {
	a := vec3.T{0, 0, 0}
	b := vec3.T{2, 0, 0}

	tests := []struct {
		name string
		p    vec3.T
		want float64
	}{
		{"above middle", vec3.T{1, 1, 0}, 1},
		{"beyond end clamps", vec3.T{3, 0, 0}, 1},
		{"before start clamps", vec3.T{-2, 0, 0}, 2},
		{"on segment", vec3.T{0.5, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DistPointSegment(tt.p, a, b); math.Abs(got-tt.want) > eps {
				t.Errorf("DistPointSegment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistPointRay(t *testing.T) {
	ray := Ray{Origin: vec3.T{0, 0, 0}, Dir: vec3.T{0, 0, 1}}
	if got := DistPointRay(vec3.T{3, 4, 10}, ray); math.Abs(got-5) > eps {
		t.Errorf("DistPointRay() = %v, want 5", got)
	}
}
