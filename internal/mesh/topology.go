package mesh

import (
	"github.com/ungerik/go3d/float64/vec3"
)

// MergeVertices collapses the given vertices into a single new vertex at
// their mean position. Edges are re-targeted onto the new vertex; edges that
// become degenerate (both endpoints collapsed) are dropped, and among the
// survivors duplicates over the same unordered vertex pair are collapsed to
// the first-seen edge (ascending id order, so the result is deterministic).
// Faces referencing a dropped edge are deleted; faces referencing a
// collapsed duplicate are remapped onto the survivor, preserving traversal
// direction.
func (o *Object) MergeVertices(verts []*Vertex) *Vertex {
	merged := make(map[VertexID]bool, len(verts))
	var pos vec3.T
	for _, v := range verts {
		if v == nil || merged[v.ID] {
			continue
		}
		merged[v.ID] = true
		pos = vec3.Add(&pos, &v.Pos)
	}
	if len(merged) == 0 {
		return nil
	}
	pos = pos.Scaled(1 / float64(len(merged)))

	nv := o.newVertex(pos)

	// Rewrite edges. remap records the surviving signed ref for every edge
	// id that still has a meaning; absent ids were degenerate.
	type pair struct{ a, b VertexID }
	remap := make(map[EdgeID]EdgeRef, len(o.Edges))
	survivor := make(map[pair]EdgeID)

	for _, id := range o.sortedEdgeIDs() {
		e := o.Edges[id]
		if merged[e.Start] {
			e.Start = nv.ID
		}
		if merged[e.End] {
			e.End = nv.ID
		}
		if e.Start == e.End {
			delete(o.Edges, id)
			continue
		}

		key := pair{e.Start, e.End}
		if key.a > key.b {
			key.a, key.b = key.b, key.a
		}
		if sid, ok := survivor[key]; ok {
			// Duplicate of an earlier edge; map onto it, minding direction.
			se := o.Edges[sid]
			remap[id] = refTo(sid, se.Start == e.Start)
			delete(o.Edges, id)
			continue
		}
		survivor[key] = id
		remap[id] = EdgeRef(id)
	}

	// Rewrite faces through the remap table; faces touching a degenerate
	// edge go away.
	for _, fid := range o.sortedFaceIDs() {
		f := o.Faces[fid]
		var refs [3]EdgeRef
		alive := true
		for i, r := range f.Edges {
			nr, ok := remap[r.ID()]
			if !ok {
				alive = false
				break
			}
			if r.Forward() {
				refs[i] = nr
			} else {
				refs[i] = nr.Reversed()
			}
		}
		if !alive {
			o.removeFace(fid)
			continue
		}
		f.Edges = refs
	}

	for id := range merged {
		delete(o.Verts, id)
	}
	o.DirtyMesh = true
	return nv
}

// Connect links 2 or 3 vertices. Two vertices get one edge (reused when one
// already connects them in either direction). Three vertices get the three
// triangle edges plus a face, unless a face over the same unordered edge set
// already exists. The dirty flag is only set when new topology appears.
func (o *Object) Connect(verts []*Vertex) {
	switch len(verts) {
	case 2:
		if o.findEdge(verts[0].ID, verts[1].ID) == 0 {
			o.newEdge(verts[0].ID, verts[1].ID)
			o.DirtyMesh = true
		}
	case 3:
		ids := [3]VertexID{verts[0].ID, verts[1].ID, verts[2].ID}
		var refs [3]EdgeRef
		created := false
		for i := 0; i < 3; i++ {
			a, b := ids[i], ids[(i+1)%3]
			r := o.findEdge(a, b)
			if r == 0 {
				r = EdgeRef(o.newEdge(a, b).ID)
				created = true
			}
			refs[i] = r
		}
		if !o.faceExists(refs) {
			o.newFace(refs)
			created = true
		}
		if created {
			o.DirtyMesh = true
		}
	}
}

// Cut would split every edge crossing the given plane and retriangulate the
// affected faces. The split protocol was never finished in the original
// editor, so rather than leave the topology half-updated the operation is
// explicitly unsupported.
func (o *Object) Cut(normal, point vec3.T) error {
	return ErrUnsupportedOperation
}
