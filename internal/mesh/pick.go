package mesh

import (
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/shapy/shapy/backend-go/internal/geom"
)

// PickMode selects how face hits behave.
type PickMode int

const (
	// PickDefault snaps a face hit to one of its edges when the hit point
	// lies within the edge threshold.
	PickDefault PickMode = iota
	// PickPaint suppresses edge snapping; the face itself is always
	// returned. Used while painting so strokes do not jump to wireframe.
	PickPaint
)

// pickThreshold is the hit distance for vertices and edges, in object-local
// units.
const pickThreshold = 0.01

// VertexHit, EdgeHit and FaceHit pair the picked item with the hit position
// in world space.
type VertexHit struct {
	Vertex *Vertex
	Point  vec3.T
}

type EdgeHit struct {
	Edge  *Edge
	Point vec3.T
}

type FaceHit struct {
	Face  *Face
	Point vec3.T
}

// PickResult groups ray hits by kind. Empty slices mean nothing was hit.
type PickResult struct {
	Object *Object
	Verts  []VertexHit
	Edges  []EdgeHit
	Faces  []FaceHit
}

// Empty reports whether the pick found nothing.
func (r PickResult) Empty() bool {
	return len(r.Verts) == 0 && len(r.Edges) == 0 && len(r.Faces) == 0
}

// PickRay intersects a world-space ray with the object's parts. The ray is
// moved into local space through the cached inverse model matrix, so the
// thresholds above apply in local units; hit points are reported back in
// world space.
func (o *Object) PickRay(ray geom.Ray, mode PickMode) PickResult {
	inv := o.InvModel()
	model := o.Model()

	local := geom.Ray{
		Origin: inv.MulPoint(ray.Origin),
		Dir:    inv.MulDir(ray.Dir),
	}
	local.Dir.Normalize()

	result := PickResult{Object: o}

	// Vertices: perpendicular distance to the ray.
	for _, vid := range o.sortedVertexIDs() {
		v := o.Verts[vid]
		if geom.DistPointRay(v.Pos, local) < pickThreshold {
			result.Verts = append(result.Verts, VertexHit{Vertex: v, Point: model.MulPoint(v.Pos)})
		}
	}

	// Edges: closest approach between the ray and the finite segment, with
	// the segment parameter strictly inside (0,1) — endpoints belong to
	// vertex picking.
	hitEdges := make(map[EdgeID]bool)
	for _, eid := range o.sortedEdgeIDs() {
		e := o.Edges[eid]
		a := o.Verts[e.Start].Pos
		b := o.Verts[e.End].Pos
		seg := geom.Ray{Origin: a, Dir: vec3.Sub(&b, &a)}
		_, t, pa, pb := geom.ClosestRayRay(local, seg)
		if t <= 0 || t >= 1 {
			continue
		}
		if vec3.Distance(&pa, &pb) < pickThreshold {
			hitEdges[eid] = true
			result.Edges = append(result.Edges, EdgeHit{Edge: e, Point: model.MulPoint(pb)})
		}
	}

	// Faces: triangle intersection, snapping to a nearby edge unless the
	// caller is painting.
	for _, fid := range o.sortedFaceIDs() {
		f := o.Faces[fid]
		c := f.Corners()
		p, ok := geom.IntersectTriangle(local, c[0].Pos, c[1].Pos, c[2].Pos)
		if !ok {
			continue
		}
		if mode != PickPaint {
			if eid, onEdge := o.nearestFaceEdge(f, p); onEdge {
				if !hitEdges[eid] {
					hitEdges[eid] = true
					result.Edges = append(result.Edges, EdgeHit{Edge: o.Edges[eid], Point: model.MulPoint(p)})
				}
				continue
			}
		}
		result.Faces = append(result.Faces, FaceHit{Face: f, Point: model.MulPoint(p)})
	}

	return result
}

// nearestFaceEdge returns the first of the face's edges within the pick
// threshold of p, if any.
func (o *Object) nearestFaceEdge(f *Face, p vec3.T) (EdgeID, bool) {
	for _, r := range f.Edges {
		e := o.Edges[r.ID()]
		a := o.Verts[e.Start].Pos
		b := o.Verts[e.End].Pos
		if geom.DistPointSegment(p, a, b) < pickThreshold {
			return e.ID, true
		}
	}
	return 0, false
}

// FrustumResult lists the parts of one object fully contained in a frustum.
// Object is set when any part was contained, signalling that the object has
// a frustum-selected subset.
type FrustumResult struct {
	Object *Object
	Verts  []*Vertex
	Edges  []*Edge
	Faces  []*Face
}

// Empty reports whether nothing was contained.
func (r FrustumResult) Empty() bool {
	return len(r.Verts) == 0 && len(r.Edges) == 0 && len(r.Faces) == 0
}

// PickFrustum returns the parts whose vertices all lie on the inner side of
// every clipping plane. Planes arrive in world space; origins move into
// local space through the inverse model matrix and normals through the
// transpose of the model matrix, renormalized.
func (o *Object) PickFrustum(planes []geom.Plane) FrustumResult {
	inv := o.InvModel()
	modelT := o.Model().Transposed()

	type localPlane struct {
		n vec3.T
		d float64
	}
	local := make([]localPlane, len(planes))
	for i, p := range planes {
		origin := inv.MulPoint(p.Point)
		n := modelT.MulDir(p.Normal)
		n.Normalize()
		local[i] = localPlane{n: n, d: -vec3.Dot(&origin, &n)}
	}

	inside := func(pos vec3.T) bool {
		for _, p := range local {
			if vec3.Dot(&pos, &p.n)+p.d < 0 {
				return false
			}
		}
		return true
	}

	result := FrustumResult{}
	for _, vid := range o.sortedVertexIDs() {
		v := o.Verts[vid]
		if inside(v.Pos) {
			result.Verts = append(result.Verts, v)
		}
	}
	for _, eid := range o.sortedEdgeIDs() {
		e := o.Edges[eid]
		if inside(o.Verts[e.Start].Pos) && inside(o.Verts[e.End].Pos) {
			result.Edges = append(result.Edges, e)
		}
	}
	for _, fid := range o.sortedFaceIDs() {
		f := o.Faces[fid]
		c := f.Corners()
		if inside(c[0].Pos) && inside(c[1].Pos) && inside(c[2].Pos) {
			result.Faces = append(result.Faces, f)
		}
	}
	if !result.Empty() {
		result.Object = o
	}
	return result
}
