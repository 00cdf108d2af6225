package mesh

import (
	"sort"

	"github.com/ungerik/go3d/float64/vec3"
)

// ExtrudeResult carries the mean extrusion normal and the roof faces that
// replaced the input set. Callers typically translate the roof along the
// normal afterwards.
type ExtrudeResult struct {
	Normal vec3.T
	Faces  []*Face
}

// Extrude lifts a set of faces off the mesh. The touched region is cloned
// into a "roof" (new vertices, edges and faces at the same positions), wall
// quads are built along the boundary — two triangles per boundary edge, with
// winding chosen from how the edge is oriented in the input set so the walls
// face outward — and the original faces plus the region's internal edges are
// removed. A face set with an empty boundary degenerates to a roof clone
// with no walls.
func (o *Object) Extrude(faces []*Face) ExtrudeResult {
	if len(faces) == 0 {
		return ExtrudeResult{}
	}

	input := make(map[FaceID]*Face, len(faces))
	var normal vec3.T
	for _, f := range faces {
		if f == nil || input[f.ID] != nil {
			continue
		}
		input[f.ID] = f
		n := f.Normal()
		normal = vec3.Add(&normal, &n)
	}
	normal.Normalize()

	// Count how often each edge occurs in the input set: once is boundary,
	// twice is internal. Track whether any input face traverses the edge
	// backwards — that flips the wall winding below.
	occur := make(map[EdgeID]int)
	flipped := make(map[EdgeID]bool)
	for _, fid := range sortedInputFaces(input) {
		for _, r := range input[fid].Edges {
			occur[r.ID()]++
			if !r.Forward() {
				flipped[r.ID()] = true
			}
		}
	}

	touched := make([]EdgeID, 0, len(occur))
	var boundary, internal []EdgeID
	for id, n := range occur {
		touched = append(touched, id)
		if n == 1 {
			boundary = append(boundary, id)
		} else {
			internal = append(internal, id)
		}
	}
	sort.Slice(touched, func(i, j int) bool { return touched[i] < touched[j] })
	sort.Slice(boundary, func(i, j int) bool { return boundary[i] < boundary[j] })
	sort.Slice(internal, func(i, j int) bool { return internal[i] < internal[j] })

	// Vertex sets of the touched region and of its boundary.
	vset := make(map[VertexID]bool)
	bset := make(map[VertexID]bool)
	for _, eid := range touched {
		e := o.Edges[eid]
		vset[e.Start] = true
		vset[e.End] = true
	}
	for _, eid := range boundary {
		e := o.Edges[eid]
		bset[e.Start] = true
		bset[e.End] = true
	}

	// Clone the region: roof vertices and edges at the same positions.
	cloneV := make(map[VertexID]VertexID, len(vset))
	for _, vid := range sortedVertexSet(vset) {
		cloneV[vid] = o.newVertex(o.Verts[vid].Pos).ID
	}
	cloneE := make(map[EdgeID]EdgeID, len(touched))
	for _, eid := range touched {
		e := o.Edges[eid]
		cloneE[eid] = o.newEdge(cloneV[e.Start], cloneV[e.End]).ID
	}

	// Vertical wall edges between each boundary vertex and its clone.
	vertical := make(map[VertexID]EdgeID, len(bset))
	for _, vid := range sortedVertexSet(bset) {
		vertical[vid] = o.newEdge(vid, cloneV[vid]).ID
	}

	// Wall quads. For boundary edge a→b with clone A→B the diagonal runs
	// B→a; the two triangles close the quad a,b,B,A either way around
	// depending on the edge's orientation in the input set.
	for _, eid := range boundary {
		e := o.Edges[eid]
		a, b := e.Start, e.End

		ab := EdgeRef(eid)
		roof := EdgeRef(cloneE[eid])
		aA := EdgeRef(vertical[a])
		bB := EdgeRef(vertical[b])
		diag := EdgeRef(o.newEdge(cloneV[b], a).ID)

		if !flipped[eid] {
			o.newFace([3]EdgeRef{roof.Reversed(), aA.Reversed(), diag.Reversed()})
			o.newFace([3]EdgeRef{ab, bB, diag})
		} else {
			o.newFace([3]EdgeRef{aA, roof, diag})
			o.newFace([3]EdgeRef{bB.Reversed(), ab.Reversed(), diag.Reversed()})
		}
	}

	// Roof faces replace the input faces, edges remapped through the clone
	// table with signs preserved.
	result := make([]*Face, 0, len(input))
	for _, fid := range sortedInputFaces(input) {
		f := input[fid]
		var refs [3]EdgeRef
		for i, r := range f.Edges {
			refs[i] = refTo(cloneE[r.ID()], r.Forward())
		}
		nf := o.newFace(refs)
		nf.UVs = f.UVs
		result = append(result, nf)
	}

	for _, fid := range sortedInputFaces(input) {
		// The roof owns the UV corners now; drop the face without them.
		delete(o.Faces, fid)
	}
	for _, eid := range internal {
		delete(o.Edges, eid)
	}

	o.DirtyMesh = true
	return ExtrudeResult{Normal: normal, Faces: result}
}

func sortedInputFaces(input map[FaceID]*Face) []FaceID {
	ids := make([]FaceID, 0, len(input))
	for id := range input {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedVertexSet(set map[VertexID]bool) []VertexID {
	ids := make([]VertexID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
