// Package export converts scenes into interchange formats. Meshes leave the
// editor as Wavefront OBJ, with positions baked into world space.
package export

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/shapy/shapy/backend-go/internal/mesh"
)

// WriteOBJ writes every live object of the scene as a Wavefront OBJ group.
// Vertex positions go out in world space so the export matches what the
// viewport shows; faces keep the kernel's winding order. UV coordinates are
// emitted for faces whose corners are all mapped.
func WriteOBJ(w io.Writer, scene *mesh.Scene) error {
	bw := bufio.NewWriter(w)

	ids := make([]string, 0, len(scene.Objects))
	for id := range scene.Objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// OBJ indexes are global and 1-based.
	vertBase := 1
	uvBase := 1

	for _, id := range ids {
		o := scene.Objects[id]
		if o.Deleted {
			continue
		}
		model := o.Model()

		fmt.Fprintf(bw, "o %s\n", o.ID)

		vertIndex := make(map[mesh.VertexID]int, len(o.Verts))
		for _, v := range o.Vertices() {
			vertIndex[v.ID] = vertBase
			vertBase++
			p := model.MulPoint(v.Pos)
			fmt.Fprintf(bw, "v %g %g %g\n", p[0], p[1], p[2])
		}

		uvIndex := make(map[mesh.UVID]int, len(o.UVs))
		uvIDs := make([]mesh.UVID, 0, len(o.UVs))
		for uvid := range o.UVs {
			uvIDs = append(uvIDs, uvid)
		}
		sort.Slice(uvIDs, func(i, j int) bool { return uvIDs[i] < uvIDs[j] })
		for _, uvid := range uvIDs {
			uv := o.UVs[uvid]
			uvIndex[uvid] = uvBase
			uvBase++
			fmt.Fprintf(bw, "vt %g %g\n", uv.U, uv.V)
		}

		faceIDs := make([]mesh.FaceID, 0, len(o.Faces))
		for fid := range o.Faces {
			faceIDs = append(faceIDs, fid)
		}
		sort.Slice(faceIDs, func(i, j int) bool { return faceIDs[i] < faceIDs[j] })
		for _, fid := range faceIDs {
			f := o.Faces[fid]
			c := f.Corners()

			mapped := f.UVs[0] != 0 && f.UVs[1] != 0 && f.UVs[2] != 0
			if mapped {
				fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n",
					vertIndex[c[0].ID], uvIndex[f.UVs[0]],
					vertIndex[c[1].ID], uvIndex[f.UVs[1]],
					vertIndex[c[2].ID], uvIndex[f.UVs[2]])
			} else {
				fmt.Fprintf(bw, "f %d %d %d\n",
					vertIndex[c[0].ID], vertIndex[c[1].ID], vertIndex[c[2].ID])
			}
		}
	}

	return bw.Flush()
}
