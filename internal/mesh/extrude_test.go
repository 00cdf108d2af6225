package mesh

import (
	"testing"

	"github.com/ungerik/go3d/float64/vec3"
)

func TestExtrudeTriangle(t *testing.T) {
	o := testObject(t)
	a := o.newVertex(vec3.T{0, 0, 0})
	b := o.newVertex(vec3.T{1, 0, 0})
	c := o.newVertex(vec3.T{0, 1, 0})
	o.Connect([]*Vertex{a, b, c})
	f := o.Faces[1]

	res := o.Extrude([]*Face{f})

	if !vecNear(res.Normal, vec3.T{0, 0, 1}, 1e-9) {
		t.Errorf("normal = %v, want (0,0,1)", res.Normal)
	}
	if len(res.Faces) != 1 {
		t.Fatalf("roof faces = %d, want 1", len(res.Faces))
	}
	if _, ok := o.Faces[f.ID]; ok {
		t.Error("original face still present")
	}

	// All 3 edges are boundary: 3 original + 3 clones + 3 verticals + 3
	// diagonals; 6 wall faces plus the roof.
	if len(o.Verts) != 6 {
		t.Errorf("verts = %d, want 6", len(o.Verts))
	}
	if len(o.Edges) != 12 {
		t.Errorf("edges = %d, want 12", len(o.Edges))
	}
	if len(o.Faces) != 7 {
		t.Errorf("faces = %d, want 7", len(o.Faces))
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	// Lifting the roof along the normal keeps the mesh consistent.
	for _, rf := range res.Faces {
		for _, v := range rf.Vertices() {
			v.Translate(res.Normal[0], res.Normal[1], res.Normal[2])
		}
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate() after lift = %v", err)
	}
	if !o.DirtyMesh {
		t.Error("DirtyMesh not set")
	}
}

func TestExtrudeCubeSide(t *testing.T) {
	s := NewScene("scene_test")
	o := s.NewCube()

	// The +z side: the two triangles whose corners all sit at z = 0.5.
	var side []*Face
	for _, fid := range o.sortedFaceIDs() {
		f := o.Faces[fid]
		onTop := true
		for _, v := range f.Vertices() {
			if v.Pos[2] != 0.5 {
				onTop = false
				break
			}
		}
		if onTop {
			side = append(side, f)
		}
	}
	if len(side) != 2 {
		t.Fatalf("found %d top faces, want 2", len(side))
	}

	// The diagonal both triangles share is internal to the region.
	var shared EdgeID
	count := make(map[EdgeID]int)
	for _, f := range side {
		for _, r := range f.Edges {
			count[r.ID()]++
			if count[r.ID()] == 2 {
				shared = r.ID()
			}
		}
	}
	if shared == 0 {
		t.Fatal("top triangles share no edge")
	}

	res := o.Extrude(side)

	if !vecNear(res.Normal, vec3.T{0, 0, 1}, 1e-9) {
		t.Errorf("normal = %v, want (0,0,1)", res.Normal)
	}
	if len(res.Faces) != 2 {
		t.Fatalf("roof faces = %d, want 2", len(res.Faces))
	}
	if _, ok := o.Edges[shared]; ok {
		t.Error("internal diagonal still present")
	}

	// Region: 4 boundary edges, 1 internal, 4 vertices. Clones add 4
	// vertices and 5 edges, walls add 4 verticals, 4 diagonals and 8 faces,
	// the roof replaces the 2 input faces; the internal diagonal is removed.
	if len(o.Verts) != 12 {
		t.Errorf("verts = %d, want 12", len(o.Verts))
	}
	if len(o.Edges) != 30 {
		t.Errorf("edges = %d, want 30", len(o.Edges))
	}
	if len(o.Faces) != 20 {
		t.Errorf("faces = %d, want 20", len(o.Faces))
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestExtrudeEmpty(t *testing.T) {
	o := testObject(t)
	res := o.Extrude(nil)
	if len(res.Faces) != 0 {
		t.Errorf("roof faces = %d, want 0", len(res.Faces))
	}
}
