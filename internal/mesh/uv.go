package mesh

import "math"

// ProjectUV assigns spherical texture coordinates to every face corner that
// does not have one yet: the corner vertex position is normalized to a
// direction and mapped with u = 0.5 + atan2(z, x)/2π, v = 0.5 − asin(y)/π.
// Each corner gets its own UV point even when faces share the 3D vertex, so
// the projection never stitches seams. The dirty flag is set only when at
// least one point was created.
func (o *Object) ProjectUV() {
	created := false
	for _, fid := range o.sortedFaceIDs() {
		f := o.Faces[fid]
		corners := f.Corners()
		for i := 0; i < 3; i++ {
			if f.UVs[i] != 0 {
				continue
			}
			n := corners[i].Pos
			n.Normalize()
			u := 0.5 + math.Atan2(n[2], n[0])/(2*math.Pi)
			v := 0.5 - math.Asin(n[1])/math.Pi
			f.UVs[i] = o.newUVPoint(f.ID, u, v).ID
			created = true
		}
	}
	if created {
		o.DirtyMesh = true
	}
}
