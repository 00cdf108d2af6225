package mesh

import (
	"fmt"
	"sort"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/shapy/shapy/backend-go/internal/geom"
)

// Object is one editable mesh: sparse id-keyed collections of primitives, a
// model transform, and the dirty flag handed to the renderer. All edits are
// synchronous; the object is owned by a single editing session and callers
// must check Deleted before operating on it.
type Object struct {
	ID    string
	Verts map[VertexID]*Vertex
	Edges map[EdgeID]*Edge
	Faces map[FaceID]*Face
	UVs   map[UVID]*UVPoint

	// DirtyMesh is level-triggered: set by every topology or geometry
	// mutation, checked and cleared by the renderer before each rebuild.
	DirtyMesh bool
	Deleted   bool

	scene *Scene

	nextVert VertexID
	nextEdge EdgeID
	nextFace FaceID
	nextUV   UVID

	translation vec3.T
	scale       vec3.T
	rotation    geom.Quat

	model      geom.Mat4
	invModel   geom.Mat4
	staleModel bool

	lockedBy   string
	hovered    bool
	selectedBy string
}

func newObject(scene *Scene, id string) *Object {
	return &Object{
		ID:         id,
		Verts:      make(map[VertexID]*Vertex),
		Edges:      make(map[EdgeID]*Edge),
		Faces:      make(map[FaceID]*Face),
		UVs:        make(map[UVID]*UVPoint),
		scene:      scene,
		nextVert:   1,
		nextEdge:   1,
		nextFace:   1,
		nextUV:     1,
		scale:      vec3.T{1, 1, 1},
		rotation:   geom.QuatIdentity(),
		staleModel: true,
		DirtyMesh:  true,
	}
}

// Scene returns the owning scene, nil for detached objects.
func (o *Object) Scene() *Scene { return o.scene }

// --- id allocation ---

func (o *Object) newVertex(pos vec3.T) *Vertex {
	v := &Vertex{ID: o.nextVert, Pos: pos, obj: o}
	o.nextVert++
	o.Verts[v.ID] = v
	return v
}

func (o *Object) newEdge(start, end VertexID) *Edge {
	e := &Edge{ID: o.nextEdge, Start: start, End: end, obj: o}
	o.nextEdge++
	o.Edges[e.ID] = e
	return e
}

func (o *Object) newFace(refs [3]EdgeRef) *Face {
	f := &Face{ID: o.nextFace, Edges: refs, obj: o}
	o.nextFace++
	o.Faces[f.ID] = f
	return f
}

func (o *Object) newUVPoint(face FaceID, u, v float64) *UVPoint {
	p := &UVPoint{ID: o.nextUV, U: u, V: v, obj: o, face: face}
	o.nextUV++
	o.UVs[p.ID] = p
	return p
}

// AddVertex allocates a vertex at the given local position and flags the
// mesh dirty.
func (o *Object) AddVertex(pos vec3.T) *Vertex {
	v := o.newVertex(pos)
	o.DirtyMesh = true
	return v
}

// --- transform ---

// Translate moves the whole object in world space.
func (o *Object) Translate(dx, dy, dz float64) {
	o.translation[0] += dx
	o.translation[1] += dy
	o.translation[2] += dz
	o.staleModel = true
}

// Scale multiplies the object's scale componentwise.
func (o *Object) Scale(sx, sy, sz float64) {
	o.scale[0] *= sx
	o.scale[1] *= sy
	o.scale[2] *= sz
	o.staleModel = true
}

// Rotate composes a rotation onto the object's orientation.
func (o *Object) Rotate(q geom.Quat) {
	o.rotation = q.Mul(o.rotation).Normalized()
	o.staleModel = true
}

func (o *Object) setTranslation(t vec3.T) {
	o.translation = t
	o.staleModel = true
}

// Transform returns the current translation, rotation and scale.
func (o *Object) Transform() (t vec3.T, q geom.Quat, s vec3.T) {
	return o.translation, o.rotation, o.scale
}

// computeModel recomputes the cached model matrix and its inverse. Any
// consumer of the cache goes through Model/InvModel, which recompute when a
// transform mutation left the pair stale.
func (o *Object) computeModel() {
	o.model = geom.FromTRS(o.translation, o.rotation, o.scale)
	o.invModel = geom.TRSInverse(o.translation, o.rotation, o.scale)
	o.staleModel = false
}

// Model returns the model matrix, recomputing it if stale.
func (o *Object) Model() geom.Mat4 {
	if o.staleModel {
		o.computeModel()
	}
	return o.model
}

// InvModel returns the inverse model matrix, recomputing it if stale.
func (o *Object) InvModel() geom.Mat4 {
	if o.staleModel {
		o.computeModel()
	}
	return o.invModel
}

// --- lookup helpers ---

// Iteration over map-keyed entities happens in ascending id order wherever
// the result order is observable (picking, remapping, serialization), so
// edits are deterministic for a given mesh.

func (o *Object) sortedVertexIDs() []VertexID {
	ids := make([]VertexID, 0, len(o.Verts))
	for id := range o.Verts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (o *Object) sortedEdgeIDs() []EdgeID {
	ids := make([]EdgeID, 0, len(o.Edges))
	for id := range o.Edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (o *Object) sortedFaceIDs() []FaceID {
	ids := make([]FaceID, 0, len(o.Faces))
	for id := range o.Faces {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (o *Object) sortedUVIDs() []UVID {
	ids := make([]UVID, 0, len(o.UVs))
	for id := range o.UVs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// findEdge returns a signed ref traversing a→b, or 0 when no edge connects
// the pair in either direction.
func (o *Object) findEdge(a, b VertexID) EdgeRef {
	for _, id := range o.sortedEdgeIDs() {
		e := o.Edges[id]
		if e.Start == a && e.End == b {
			return EdgeRef(id)
		}
		if e.Start == b && e.End == a {
			return -EdgeRef(id)
		}
	}
	return 0
}

// faceExists reports whether a face over the same unordered edge-id set
// already exists.
func (o *Object) faceExists(refs [3]EdgeRef) bool {
	want := sortedTriple(refs)
	for _, f := range o.Faces {
		if sortedTriple(f.Edges) == want {
			return true
		}
	}
	return false
}

func sortedTriple(refs [3]EdgeRef) [3]EdgeID {
	t := [3]EdgeID{refs[0].ID(), refs[1].ID(), refs[2].ID()}
	if t[0] > t[1] {
		t[0], t[1] = t[1], t[0]
	}
	if t[1] > t[2] {
		t[1], t[2] = t[2], t[1]
	}
	if t[0] > t[1] {
		t[0], t[1] = t[1], t[0]
	}
	return t
}

// --- removal ---

// removeFace drops a face and the UV points owned by its corners.
func (o *Object) removeFace(id FaceID) {
	f, ok := o.Faces[id]
	if !ok {
		return
	}
	for _, uv := range f.UVs {
		if uv != 0 {
			delete(o.UVs, uv)
		}
	}
	delete(o.Faces, id)
	o.DirtyMesh = true
}

// removeEdge drops an edge and every face referencing it.
func (o *Object) removeEdge(id EdgeID) {
	if _, ok := o.Edges[id]; !ok {
		return
	}
	for _, fid := range o.sortedFaceIDs() {
		f := o.Faces[fid]
		if f.Edges[0].ID() == id || f.Edges[1].ID() == id || f.Edges[2].ID() == id {
			o.removeFace(fid)
		}
	}
	delete(o.Edges, id)
	o.DirtyMesh = true
}

// removeVertex drops a vertex and cascades through incident edges and
// faces.
func (o *Object) removeVertex(id VertexID) {
	if _, ok := o.Verts[id]; !ok {
		return
	}
	for _, eid := range o.sortedEdgeIDs() {
		e := o.Edges[eid]
		if e.Start == id || e.End == id {
			o.removeEdge(eid)
		}
	}
	delete(o.Verts, id)
	o.DirtyMesh = true
}

// --- lock tracking ---

// SetLocked records the user holding the advisory edit lock; empty clears
// it. The kernel only tracks the holder, it does not enforce exclusion.
func (o *Object) SetLocked(userID string) {
	o.lockedBy = userID
}

// LockedBy returns the advisory lock holder, empty when unlocked.
func (o *Object) LockedBy() string { return o.lockedBy }

// --- consistency ---

// Validate checks the referential invariants: edge endpoints exist, face
// edges exist and chain into a closed triangle over three distinct edges,
// and face UV corners resolve.
func (o *Object) Validate() error {
	for id, e := range o.Edges {
		if _, ok := o.Verts[e.Start]; !ok {
			return fmt.Errorf("edge %d: missing start vertex %d", id, e.Start)
		}
		if _, ok := o.Verts[e.End]; !ok {
			return fmt.Errorf("edge %d: missing end vertex %d", id, e.End)
		}
	}
	for id, f := range o.Faces {
		t := sortedTriple(f.Edges)
		if t[0] == t[1] || t[1] == t[2] {
			return fmt.Errorf("face %d: edges not distinct", id)
		}
		for i, r := range f.Edges {
			if _, ok := o.Edges[r.ID()]; !ok {
				return fmt.Errorf("face %d: missing edge %d", id, r.ID())
			}
			if f.head(i) != f.tail((i+1)%3) {
				return fmt.Errorf("face %d: edge loop not closed at corner %d", id, i)
			}
		}
		for i, uv := range f.UVs {
			if uv == 0 {
				continue
			}
			if _, ok := o.UVs[uv]; !ok {
				return fmt.Errorf("face %d: missing uv point %d at corner %d", id, uv, i)
			}
		}
	}
	return nil
}
