package editable

import (
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/shapy/shapy/backend-go/internal/geom"
	"github.com/shapy/shapy/backend-go/internal/mesh"
)

// members is insertion-ordered storage with set semantics: adding an
// existing member is a no-op, adding a group absorbs its members instead of
// nesting.
type members struct {
	list []Editable
	seen map[Editable]bool
}

func (m *members) add(e Editable) {
	if m.seen == nil {
		m.seen = make(map[Editable]bool)
	}
	switch g := e.(type) {
	case *PartsGroup:
		for _, child := range g.members.list {
			m.add(child)
		}
	case *ObjectGroup:
		for _, child := range g.members.list {
			m.add(child)
		}
	default:
		if !m.seen[e] {
			m.seen[e] = true
			m.list = append(m.list, e)
		}
	}
}

// centroid averages member positions; the zero vector for an empty group.
func (m *members) centroid() vec3.T {
	if len(m.list) == 0 {
		return vec3.Zero
	}
	var sum vec3.T
	for _, e := range m.list {
		p := e.Position()
		sum = vec3.Add(&sum, &p)
	}
	return sum.Scaled(1 / float64(len(m.list)))
}

// uniqueVertices collects the union of member vertices, each once, in
// insertion order. Members sharing vertices (an edge and its face) must not
// transform a vertex twice.
func (m *members) uniqueVertices() []*mesh.Vertex {
	var out []*mesh.Vertex
	seen := make(map[*mesh.Vertex]bool)
	for _, e := range m.list {
		for _, v := range e.Vertices() {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// PartsGroup is a selection of mesh parts (vertices, edges, faces). Groups
// whose parts belong to several objects are allowed but report no single
// owning object.
type PartsGroup struct {
	members members
}

// NewPartsGroup builds a group from the given parts, flattening nested
// groups.
func NewPartsGroup(parts ...Editable) *PartsGroup {
	g := &PartsGroup{}
	for _, p := range parts {
		g.members.add(p)
	}
	return g
}

// Add inserts a part or absorbs another group.
func (g *PartsGroup) Add(e Editable) { g.members.add(e) }

// Members returns the parts in insertion order.
func (g *PartsGroup) Members() []Editable { return g.members.list }

// Translate moves every spanned vertex once, even when parts share
// vertices.
func (g *PartsGroup) Translate(dx, dy, dz float64) {
	for _, v := range g.members.uniqueVertices() {
		v.Translate(dx, dy, dz)
	}
}

// Scale scales the group about its own centroid: each vertex's delta from
// the shared centroid is scaled and added back.
func (g *PartsGroup) Scale(sx, sy, sz float64) {
	pivot := g.Position()
	for _, v := range g.members.uniqueVertices() {
		d := vec3.Sub(&v.Pos, &pivot)
		d[0] *= sx
		d[1] *= sy
		d[2] *= sz
		v.SetPos(vec3.Add(&pivot, &d))
	}
}

// Rotate rotates the group about its own centroid.
func (g *PartsGroup) Rotate(q geom.Quat) {
	pivot := g.Position()
	for _, v := range g.members.uniqueVertices() {
		d := vec3.Sub(&v.Pos, &pivot)
		d = q.Rotate(d)
		v.SetPos(vec3.Add(&pivot, &d))
	}
}

func (g *PartsGroup) Vertices() []*mesh.Vertex { return g.members.uniqueVertices() }

// Position returns the average of the member positions.
func (g *PartsGroup) Position() vec3.T { return g.members.centroid() }

func (g *PartsGroup) SetHover(hovered bool) {
	for _, e := range g.members.list {
		e.SetHover(hovered)
	}
}

func (g *PartsGroup) SetSelected(userID string) {
	for _, e := range g.members.list {
		e.SetSelected(userID)
	}
}

// Object returns the single object all parts belong to, or nil when the
// group spans objects or is empty.
func (g *PartsGroup) Object() *mesh.Object {
	var obj *mesh.Object
	for _, e := range g.members.list {
		o := e.Object()
		if o == nil {
			return nil
		}
		if obj == nil {
			obj = o
		} else if obj != o {
			return nil
		}
	}
	return obj
}

func (g *PartsGroup) Delete() {
	for _, e := range g.members.list {
		e.Delete()
	}
}

// ObjectGroup is a selection of whole objects.
type ObjectGroup struct {
	members members
}

// NewObjectGroup builds a group from the given objects, flattening nested
// groups.
func NewObjectGroup(objects ...Editable) *ObjectGroup {
	g := &ObjectGroup{}
	for _, o := range objects {
		g.members.add(o)
	}
	return g
}

// Add inserts an object or absorbs another group.
func (g *ObjectGroup) Add(e Editable) { g.members.add(e) }

// Members returns the objects in insertion order.
func (g *ObjectGroup) Members() []Editable { return g.members.list }

func (g *ObjectGroup) Translate(dx, dy, dz float64) {
	for _, e := range g.members.list {
		e.Translate(dx, dy, dz)
	}
}

// Scale scales about the group centroid: each member's positional delta is
// scaled and added back, and the member's own scale is multiplied.
func (g *ObjectGroup) Scale(sx, sy, sz float64) {
	pivot := g.Position()
	for _, e := range g.members.list {
		p := e.Position()
		d := vec3.Sub(&p, &pivot)
		e.Translate(d[0]*sx-d[0], d[1]*sy-d[1], d[2]*sz-d[2])
		e.Scale(sx, sy, sz)
	}
}

// Rotate rotates about the group centroid, composing each member's own
// rotation as well.
func (g *ObjectGroup) Rotate(q geom.Quat) {
	pivot := g.Position()
	for _, e := range g.members.list {
		p := e.Position()
		d := vec3.Sub(&p, &pivot)
		r := q.Rotate(d)
		e.Translate(r[0]-d[0], r[1]-d[1], r[2]-d[2])
		e.Rotate(q)
	}
}

func (g *ObjectGroup) Vertices() []*mesh.Vertex { return g.members.uniqueVertices() }

// Position returns the average of the member positions.
func (g *ObjectGroup) Position() vec3.T { return g.members.centroid() }

func (g *ObjectGroup) SetHover(hovered bool) {
	for _, e := range g.members.list {
		e.SetHover(hovered)
	}
}

func (g *ObjectGroup) SetSelected(userID string) {
	for _, e := range g.members.list {
		e.SetSelected(userID)
	}
}

// Object returns nil: an object group never has a single owning object.
func (g *ObjectGroup) Object() *mesh.Object { return nil }

func (g *ObjectGroup) Delete() {
	for _, e := range g.members.list {
		e.Delete()
	}
}
