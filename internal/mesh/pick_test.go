package mesh

import (
	"testing"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/shapy/shapy/backend-go/internal/geom"
)

// downRay shoots straight down the -z axis through (x, y).
func downRay(x, y float64) geom.Ray {
	return geom.Ray{Origin: vec3.T{x, y, 5}, Dir: vec3.T{0, 0, -1}}
}

func TestPickRayFaces(t *testing.T) {
	s := NewScene("scene_test")
	o := s.NewCube()

	// (0.1, 0.2) avoids every vertex, side edge and face diagonal, so the
	// ray pierces exactly the top and bottom faces.
	r := o.PickRay(downRay(0.1, 0.2), PickDefault)

	if len(r.Verts) != 0 || len(r.Edges) != 0 {
		t.Errorf("got %d vert hits, %d edge hits; want 0, 0", len(r.Verts), len(r.Edges))
	}
	if len(r.Faces) != 2 {
		t.Fatalf("face hits = %d, want 2", len(r.Faces))
	}

	var top, bottom bool
	for _, h := range r.Faces {
		if vecNear(h.Point, vec3.T{0.1, 0.2, 0.5}, 1e-9) {
			top = true
		}
		if vecNear(h.Point, vec3.T{0.1, 0.2, -0.5}, 1e-9) {
			bottom = true
		}
	}
	if !top || !bottom {
		t.Errorf("hit points %v miss the z = ±0.5 sides", r.Faces)
	}
}

func TestPickRayEdgeSnap(t *testing.T) {
	s := NewScene("scene_test")
	o := s.NewCube()

	// (0.2, 0.205) lies within the pick threshold of the top face diagonal
	// but hits the bottom face well away from its edges.
	ray := downRay(0.2, 0.205)

	r := o.PickRay(ray, PickDefault)
	if len(r.Edges) != 1 {
		t.Fatalf("edge hits = %d, want 1 (diagonal snap)", len(r.Edges))
	}
	if len(r.Faces) != 1 {
		t.Fatalf("face hits = %d, want 1 (bottom only)", len(r.Faces))
	}
	if r.Faces[0].Point[2] != -0.5 {
		t.Errorf("face hit z = %v, want -0.5", r.Faces[0].Point[2])
	}

	// Painting suppresses the snap: the top face comes back, the edge hit
	// from ray proximity remains.
	r = o.PickRay(ray, PickPaint)
	if len(r.Faces) != 2 {
		t.Errorf("paint face hits = %d, want 2", len(r.Faces))
	}
	if len(r.Edges) != 1 {
		t.Errorf("paint edge hits = %d, want 1", len(r.Edges))
	}
}

func TestPickRayVertex(t *testing.T) {
	s := NewScene("scene_test")
	o := s.NewCube()

	// Straight through the (0.5, 0.5, ±0.5) corners.
	r := o.PickRay(downRay(0.5, 0.5), PickDefault)

	if len(r.Verts) != 2 {
		t.Fatalf("vertex hits = %d, want 2", len(r.Verts))
	}
	for _, h := range r.Verts {
		if h.Vertex.Pos[0] != 0.5 || h.Vertex.Pos[1] != 0.5 {
			t.Errorf("unexpected vertex hit at %v", h.Vertex.Pos)
		}
	}
}

func TestPickRayTranslated(t *testing.T) {
	s := NewScene("scene_test")
	o := s.NewCube()
	o.Translate(10, 0, 0)

	r := o.PickRay(downRay(10.1, 0.2), PickDefault)
	if len(r.Faces) != 2 {
		t.Fatalf("face hits = %d, want 2", len(r.Faces))
	}
	found := false
	for _, h := range r.Faces {
		if vecNear(h.Point, vec3.T{10.1, 0.2, 0.5}, 1e-9) {
			found = true
		}
	}
	if !found {
		t.Errorf("no hit at world (10.1, 0.2, 0.5); got %v", r.Faces)
	}

	// The old position no longer picks anything.
	if r := o.PickRay(downRay(0.1, 0.2), PickDefault); !r.Empty() {
		t.Errorf("pick at origin after translate = %+v, want empty", r)
	}
}

func TestPickFrustumFull(t *testing.T) {
	s := NewScene("scene_test")
	o := s.NewCube()

	planes := []geom.Plane{
		{Point: vec3.T{-10, 0, 0}, Normal: vec3.T{1, 0, 0}},
		{Point: vec3.T{10, 0, 0}, Normal: vec3.T{-1, 0, 0}},
		{Point: vec3.T{0, -10, 0}, Normal: vec3.T{0, 1, 0}},
		{Point: vec3.T{0, 10, 0}, Normal: vec3.T{0, -1, 0}},
	}
	r := o.PickFrustum(planes)

	if r.Object != o {
		t.Error("object not reported for a containing frustum")
	}
	if len(r.Verts) != 8 || len(r.Edges) != 18 || len(r.Faces) != 12 {
		t.Errorf("contained = %d/%d/%d, want 8/18/12", len(r.Verts), len(r.Edges), len(r.Faces))
	}
}

func TestPickFrustumHalf(t *testing.T) {
	s := NewScene("scene_test")
	o := s.NewCube()

	// A single half-space keeping x >= 0: the +x side only.
	r := o.PickFrustum([]geom.Plane{{Point: vec3.T{0, 0, 0}, Normal: vec3.T{1, 0, 0}}})

	if len(r.Verts) != 4 {
		t.Errorf("verts = %d, want 4", len(r.Verts))
	}
	if len(r.Edges) != 5 {
		t.Errorf("edges = %d, want 5 (4 sides + diagonal)", len(r.Edges))
	}
	if len(r.Faces) != 2 {
		t.Errorf("faces = %d, want 2", len(r.Faces))
	}
}

func TestPickFrustumTranslated(t *testing.T) {
	s := NewScene("scene_test")
	o := s.NewCube()
	o.Translate(10, 0, 0)

	r := o.PickFrustum([]geom.Plane{{Point: vec3.T{9.9, 0, 0}, Normal: vec3.T{1, 0, 0}}})
	if len(r.Verts) != 4 {
		t.Errorf("verts = %d, want 4", len(r.Verts))
	}

	// Nothing survives a plane past the object.
	r = o.PickFrustum([]geom.Plane{{Point: vec3.T{11, 0, 0}, Normal: vec3.T{1, 0, 0}}})
	if !r.Empty() {
		t.Errorf("result = %+v, want empty", r)
	}
}

func TestScenePick(t *testing.T) {
	s := NewScene("scene_test")
	a := s.NewCube()
	b := s.NewCube()
	b.Translate(10, 0, 0)

	hits := s.PickRay(downRay(0.1, 0.2), PickDefault)
	if len(hits) != 1 || hits[0].Object != a {
		t.Fatalf("scene pick hit %d objects, want only the origin cube", len(hits))
	}

	b.Delete()
	if got := s.PickRay(downRay(10.1, 0.2), PickDefault); len(got) != 0 {
		t.Errorf("deleted object still pickable: %d results", len(got))
	}
}
