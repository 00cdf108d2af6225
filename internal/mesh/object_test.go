package mesh

import (
	"testing"

	"github.com/ungerik/go3d/float64/vec3"
)

func testObject(t *testing.T) *Object {
	t.Helper()
	return NewScene("scene_test").NewObject()
}

func vecNear(a, b vec3.T, eps float64) bool {
	return vec3.Distance(&a, &b) < eps
}

func TestIDMonotonicity(t *testing.T) {
	o := testObject(t)

	a := o.newVertex(vec3.T{0, 0, 0})
	b := o.newVertex(vec3.T{1, 0, 0})
	c := o.newVertex(vec3.T{0, 1, 0})
	o.Connect([]*Vertex{a, b, c})

	seen := make(map[VertexID]bool)
	for id := range o.Verts {
		seen[id] = true
	}

	b.Delete()

	d := o.newVertex(vec3.T{2, 0, 0})
	if seen[d.ID] {
		t.Errorf("vertex id %d was reused after deletion", d.ID)
	}
	if d.ID <= c.ID {
		t.Errorf("vertex id %d not monotonic (last was %d)", d.ID, c.ID)
	}

	// Edge ids keep growing too.
	before := o.nextEdge
	o.Connect([]*Vertex{a, d})
	e := o.findEdge(a.ID, d.ID)
	if e.ID() < before {
		t.Errorf("edge id %d not monotonic (counter was %d)", e.ID(), before)
	}
}

func TestConnectTwoVertices(t *testing.T) {
	o := testObject(t)
	a := o.newVertex(vec3.T{0, 0, 0})
	b := o.newVertex(vec3.T{1, 0, 0})

	o.Connect([]*Vertex{a, b})
	if len(o.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(o.Edges))
	}

	// Reconnecting in either direction reuses the edge and leaves the mesh
	// clean.
	o.DirtyMesh = false
	o.Connect([]*Vertex{a, b})
	o.Connect([]*Vertex{b, a})
	if len(o.Edges) != 1 {
		t.Errorf("edges = %d after reconnect, want 1", len(o.Edges))
	}
	if o.DirtyMesh {
		t.Error("DirtyMesh set although no topology was created")
	}
}

func TestConnectTriangle(t *testing.T) {
	o := testObject(t)
	a := o.newVertex(vec3.T{0, 0, 0})
	b := o.newVertex(vec3.T{1, 0, 0})
	c := o.newVertex(vec3.T{0, 1, 0})

	o.Connect([]*Vertex{a, b, c})
	if len(o.Edges) != 3 || len(o.Faces) != 1 {
		t.Fatalf("got %d edges, %d faces; want 3, 1", len(o.Edges), len(o.Faces))
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	// The same triangle through a different winding is recognized by its
	// unordered edge set.
	o.DirtyMesh = false
	o.Connect([]*Vertex{c, b, a})
	if len(o.Faces) != 1 {
		t.Errorf("faces = %d after duplicate connect, want 1", len(o.Faces))
	}
	if len(o.Edges) != 3 {
		t.Errorf("edges = %d after duplicate connect, want 3", len(o.Edges))
	}
	if o.DirtyMesh {
		t.Error("DirtyMesh set although no topology was created")
	}
}

func TestMergeVerticesEdge(t *testing.T) {
	o := testObject(t)
	a := o.newVertex(vec3.T{0, 0, 0})
	b := o.newVertex(vec3.T{2, 0, 0})
	o.Connect([]*Vertex{a, b})

	nv := o.MergeVertices([]*Vertex{a, b})
	if nv == nil {
		t.Fatal("MergeVertices() returned nil")
	}
	if !vecNear(nv.Pos, vec3.T{1, 0, 0}, 1e-9) {
		t.Errorf("merged position = %v, want (1,0,0)", nv.Pos)
	}
	if len(o.Verts) != 1 {
		t.Errorf("verts = %d, want 1", len(o.Verts))
	}
	if len(o.Edges) != 0 {
		t.Errorf("edges = %d, want 0 (degenerate edge dropped)", len(o.Edges))
	}
}

func TestMergeVerticesTriangle(t *testing.T) {
	o := testObject(t)
	a := o.newVertex(vec3.T{0, 0, 0})
	b := o.newVertex(vec3.T{1, 0, 0})
	c := o.newVertex(vec3.T{0, 1, 0})
	o.Connect([]*Vertex{a, b, c})

	o.MergeVertices([]*Vertex{a, b})

	// The collapsed edge kills the face; the two remaining edges become
	// duplicates over the same pair, so only one survives.
	if len(o.Faces) != 0 {
		t.Errorf("faces = %d, want 0", len(o.Faces))
	}
	if len(o.Edges) != 1 {
		t.Errorf("edges = %d, want 1", len(o.Edges))
	}
	if len(o.Verts) != 2 {
		t.Errorf("verts = %d, want 2", len(o.Verts))
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestMergeVerticesSharedQuad(t *testing.T) {
	// Two triangles sharing an edge; merging the shared edge's endpoints
	// collapses both faces but keeps the outer vertices connected.
	o := testObject(t)
	a := o.newVertex(vec3.T{0, 0, 0})
	b := o.newVertex(vec3.T{1, 0, 0})
	c := o.newVertex(vec3.T{1, 1, 0})
	d := o.newVertex(vec3.T{0, 1, 0})
	o.Connect([]*Vertex{a, b, c})
	o.Connect([]*Vertex{a, c, d})

	o.MergeVertices([]*Vertex{a, c})

	if len(o.Faces) != 0 {
		t.Errorf("faces = %d, want 0", len(o.Faces))
	}
	// Surviving connections: merged–b and merged–d.
	if len(o.Edges) != 2 {
		t.Errorf("edges = %d, want 2", len(o.Edges))
	}
	if len(o.Verts) != 3 {
		t.Errorf("verts = %d, want 3", len(o.Verts))
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestCutUnsupported(t *testing.T) {
	o := testObject(t)
	if err := o.Cut(vec3.T{0, 0, 1}, vec3.T{0, 0, 0}); err != ErrUnsupportedOperation {
		t.Errorf("Cut() = %v, want ErrUnsupportedOperation", err)
	}
}

func TestProjectUV(t *testing.T) {
	s := NewScene("scene_test")
	o := s.NewCube()

	o.DirtyMesh = false
	o.ProjectUV()

	if !o.DirtyMesh {
		t.Error("DirtyMesh not set by ProjectUV")
	}
	// One UV point per face corner, never shared across faces.
	if len(o.UVs) != len(o.Faces)*3 {
		t.Errorf("uv points = %d, want %d", len(o.UVs), len(o.Faces)*3)
	}
	for _, f := range o.Faces {
		for i, uv := range f.UVs {
			if uv == 0 {
				t.Fatalf("face %d corner %d left unset", f.ID, i)
			}
		}
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	// Re-projecting is a no-op.
	o.DirtyMesh = false
	before := len(o.UVs)
	o.ProjectUV()
	if len(o.UVs) != before || o.DirtyMesh {
		t.Error("ProjectUV not idempotent")
	}
}

func TestCubeTopology(t *testing.T) {
	s := NewScene("scene_test")
	o := s.NewCube()

	if len(o.Verts) != 8 || len(o.Edges) != 18 || len(o.Faces) != 12 {
		t.Errorf("cube = %d verts, %d edges, %d faces; want 8, 18, 12",
			len(o.Verts), len(o.Edges), len(o.Faces))
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestModelMatrixRecompute(t *testing.T) {
	o := testObject(t)
	o.Translate(1, 2, 3)

	// Consumers always see a consistent matrix/inverse pair.
	p := o.Model().MulPoint(vec3.T{0, 0, 0})
	if !vecNear(p, vec3.T{1, 2, 3}, 1e-9) {
		t.Errorf("model point = %v, want (1,2,3)", p)
	}
	back := o.InvModel().MulPoint(p)
	if !vecNear(back, vec3.T{0, 0, 0}, 1e-9) {
		t.Errorf("inverse point = %v, want origin", back)
	}

	o.Scale(2, 2, 2)
	p = o.Model().MulPoint(vec3.T{1, 0, 0})
	if !vecNear(p, vec3.T{3, 2, 3}, 1e-9) {
		t.Errorf("model point after scale = %v, want (3,2,3)", p)
	}
}
