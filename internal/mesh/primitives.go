package mesh

import (
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/shapy/shapy/backend-go/internal/geom"
)

// Vertex is a point of the mesh. It owns only its position; edges and faces
// reference it by id.
type Vertex struct {
	ID  VertexID
	Pos vec3.T

	obj        *Object
	hovered    bool
	selectedBy string
}

// Edge is a directed connection between two vertices. Faces reference it
// through signed EdgeRefs, so a single edge serves both adjacent faces.
type Edge struct {
	ID    EdgeID
	Start VertexID
	End   VertexID

	obj        *Object
	hovered    bool
	selectedBy string
}

// StartVertex returns the tail vertex of the edge.
func (e *Edge) StartVertex() *Vertex { return e.obj.Verts[e.Start] }

// EndVertex returns the head vertex of the edge.
func (e *Edge) EndVertex() *Vertex { return e.obj.Verts[e.End] }

// Face is a triangle: three signed edge references whose resolved head
// vertices chain into a closed loop, plus three per-corner UV point ids
// (0 = unset). The UV corners are independent of the 3D edges; a seam edge
// maps to different UV points on each side.
type Face struct {
	ID    FaceID
	Edges [3]EdgeRef
	UVs   [3]UVID

	obj        *Object
	hovered    bool
	selectedBy string
}

// tail returns the vertex the i-th edge ref starts from; this is corner i
// of the face.
func (f *Face) tail(i int) VertexID {
	e := f.obj.Edges[f.Edges[i].ID()]
	if f.Edges[i].Forward() {
		return e.Start
	}
	return e.End
}

// head returns the vertex the i-th edge ref ends at.
func (f *Face) head(i int) VertexID {
	e := f.obj.Edges[f.Edges[i].ID()]
	if f.Edges[i].Forward() {
		return e.End
	}
	return e.Start
}

// Corners returns the three corner vertices in winding order.
func (f *Face) Corners() [3]*Vertex {
	return [3]*Vertex{
		f.obj.Verts[f.tail(0)],
		f.obj.Verts[f.tail(1)],
		f.obj.Verts[f.tail(2)],
	}
}

// Normal returns the unit face normal for the winding order of the edges.
func (f *Face) Normal() vec3.T {
	c := f.Corners()
	e1 := vec3.Sub(&c[1].Pos, &c[0].Pos)
	e2 := vec3.Sub(&c[2].Pos, &c[0].Pos)
	n := vec3.Cross(&e1, &e2)
	n.Normalize()
	return n
}

// Centroid returns the arithmetic mean of the corner positions.
func (f *Face) Centroid() vec3.T {
	c := f.Corners()
	return geom.Centroid(c[0].Pos, c[1].Pos, c[2].Pos)
}

// UVPoint is a 2D texture coordinate owned by one face corner. Coordinates
// are nominally in [0,1]x[0,1] but are not clamped.
type UVPoint struct {
	ID UVID
	U  float64
	V  float64

	obj  *Object
	face FaceID
}
