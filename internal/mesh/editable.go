package mesh

// Capability methods shared by all selectable parts. The editable package
// defines the interface; vertices, edges, faces and objects satisfy it
// here. Part transforms operate in the owning object's local space.

import (
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/shapy/shapy/backend-go/internal/geom"
)

// --- Vertex ---

// SetPos moves the vertex and flags the mesh dirty.
func (v *Vertex) SetPos(p vec3.T) {
	v.Pos = p
	v.obj.DirtyMesh = true
}

func (v *Vertex) Translate(dx, dy, dz float64) {
	v.Pos[0] += dx
	v.Pos[1] += dy
	v.Pos[2] += dz
	v.obj.DirtyMesh = true
}

// Scale is an identity for a lone vertex: the pivot is the part's own
// centroid.
func (v *Vertex) Scale(sx, sy, sz float64) {}

// Rotate is an identity for a lone vertex.
func (v *Vertex) Rotate(q geom.Quat) {}

func (v *Vertex) Vertices() []*Vertex { return []*Vertex{v} }

func (v *Vertex) Position() vec3.T { return v.Pos }

func (v *Vertex) SetHover(hovered bool) {
	v.hovered = hovered
	v.obj.DirtyMesh = true
}

func (v *Vertex) SetSelected(userID string) {
	v.selectedBy = userID
	v.obj.DirtyMesh = true
}

// SelectedBy returns the user id holding the selection, empty when
// unselected.
func (v *Vertex) SelectedBy() string { return v.selectedBy }

func (v *Vertex) Object() *Object { return v.obj }

func (v *Vertex) Delete() { v.obj.removeVertex(v.ID) }

// --- Edge ---

func (e *Edge) Translate(dx, dy, dz float64) {
	for _, v := range e.Vertices() {
		v.Translate(dx, dy, dz)
	}
}

func (e *Edge) Scale(sx, sy, sz float64) {
	scaleAbout(e.Vertices(), e.Position(), sx, sy, sz)
}

func (e *Edge) Rotate(q geom.Quat) {
	rotateAbout(e.Vertices(), e.Position(), q)
}

func (e *Edge) Vertices() []*Vertex {
	return []*Vertex{e.obj.Verts[e.Start], e.obj.Verts[e.End]}
}

// Position returns the edge midpoint.
func (e *Edge) Position() vec3.T {
	a := e.obj.Verts[e.Start].Pos
	b := e.obj.Verts[e.End].Pos
	mid := vec3.Add(&a, &b)
	return mid.Scaled(0.5)
}

func (e *Edge) SetHover(hovered bool) {
	e.hovered = hovered
	e.obj.DirtyMesh = true
}

func (e *Edge) SetSelected(userID string) {
	e.selectedBy = userID
	e.obj.DirtyMesh = true
}

func (e *Edge) SelectedBy() string { return e.selectedBy }

func (e *Edge) Object() *Object { return e.obj }

func (e *Edge) Delete() { e.obj.removeEdge(e.ID) }

// --- Face ---

func (f *Face) Translate(dx, dy, dz float64) {
	for _, v := range f.Vertices() {
		v.Translate(dx, dy, dz)
	}
}

func (f *Face) Scale(sx, sy, sz float64) {
	scaleAbout(f.Vertices(), f.Centroid(), sx, sy, sz)
}

func (f *Face) Rotate(q geom.Quat) {
	rotateAbout(f.Vertices(), f.Centroid(), q)
}

func (f *Face) Vertices() []*Vertex {
	c := f.Corners()
	return []*Vertex{c[0], c[1], c[2]}
}

func (f *Face) Position() vec3.T { return f.Centroid() }

func (f *Face) SetHover(hovered bool) {
	f.hovered = hovered
	f.obj.DirtyMesh = true
}

func (f *Face) SetSelected(userID string) {
	f.selectedBy = userID
	f.obj.DirtyMesh = true
}

func (f *Face) SelectedBy() string { return f.selectedBy }

func (f *Face) Object() *Object { return f.obj }

func (f *Face) Delete() { f.obj.removeFace(f.ID) }

// --- Object ---

// Vertices returns all live vertices in id order.
func (o *Object) Vertices() []*Vertex {
	verts := make([]*Vertex, 0, len(o.Verts))
	for _, id := range o.sortedVertexIDs() {
		verts = append(verts, o.Verts[id])
	}
	return verts
}

// Position returns the object's world translation.
func (o *Object) Position() vec3.T { return o.translation }

func (o *Object) SetHover(hovered bool) {
	o.hovered = hovered
	o.DirtyMesh = true
}

// SetSelected marks the object and all of its parts as selected by the
// given user (empty clears) and flags the mesh dirty for re-highlighting.
func (o *Object) SetSelected(userID string) {
	o.selectedBy = userID
	for _, v := range o.Verts {
		v.selectedBy = userID
	}
	for _, e := range o.Edges {
		e.selectedBy = userID
	}
	for _, f := range o.Faces {
		f.selectedBy = userID
	}
	o.DirtyMesh = true
}

func (o *Object) SelectedBy() string { return o.selectedBy }

// Object returns the receiver; the method exists for the shared editable
// capability set.
func (o *Object) Object() *Object { return o }

// Delete detaches the object from its scene and marks it deleted. Callers
// must not operate on a deleted object.
func (o *Object) Delete() {
	if o.scene != nil {
		o.scene.Remove(o)
		return
	}
	o.Deleted = true
}

// --- shared pivot math ---

func scaleAbout(verts []*Vertex, pivot vec3.T, sx, sy, sz float64) {
	for _, v := range verts {
		d := vec3.Sub(&v.Pos, &pivot)
		d[0] *= sx
		d[1] *= sy
		d[2] *= sz
		v.SetPos(vec3.Add(&pivot, &d))
	}
}

func rotateAbout(verts []*Vertex, pivot vec3.T, q geom.Quat) {
	for _, v := range verts {
		d := vec3.Sub(&v.Pos, &pivot)
		d = q.Rotate(d)
		v.SetPos(vec3.Add(&pivot, &d))
	}
}
