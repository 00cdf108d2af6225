package mesh

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/shapy/shapy/backend-go/internal/geom"
)

// Record is the wire and persistence form of an object. Positions and UV
// coordinates are truncated to 3 decimal places; topology (signed edge refs
// and UV corner ids) round-trips exactly.
type Record struct {
	ID        string                `json:"id"`
	Translate XYZ                   `json:"translate"`
	Scale     XYZ                   `json:"scale"`
	Rotation  XYZW                  `json:"rotation"`
	Verts     map[string][3]float64 `json:"verts"`
	UVs       map[string][2]float64 `json:"uvs"`
	Edges     map[string][2]int     `json:"edges"`
	Faces     map[string][6]int     `json:"faces"`
}

type XYZ struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type XYZW struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// trunc3 truncates toward zero to 3 decimal places.
func trunc3(v float64) float64 {
	return math.Trunc(v*1000) / 1000
}

// ToRecord converts the object into its plain-data form.
func (o *Object) ToRecord() Record {
	rec := Record{
		ID:        o.ID,
		Translate: XYZ{X: o.translation[0], Y: o.translation[1], Z: o.translation[2]},
		Scale:     XYZ{X: o.scale[0], Y: o.scale[1], Z: o.scale[2]},
		Rotation:  XYZW{X: o.rotation.X, Y: o.rotation.Y, Z: o.rotation.Z, W: o.rotation.W},
		Verts:     make(map[string][3]float64, len(o.Verts)),
		UVs:       make(map[string][2]float64, len(o.UVs)),
		Edges:     make(map[string][2]int, len(o.Edges)),
		Faces:     make(map[string][6]int, len(o.Faces)),
	}
	for id, v := range o.Verts {
		rec.Verts[strconv.Itoa(int(id))] = [3]float64{trunc3(v.Pos[0]), trunc3(v.Pos[1]), trunc3(v.Pos[2])}
	}
	for id, uv := range o.UVs {
		rec.UVs[strconv.Itoa(int(id))] = [2]float64{trunc3(uv.U), trunc3(uv.V)}
	}
	for id, e := range o.Edges {
		rec.Edges[strconv.Itoa(int(id))] = [2]int{int(e.Start), int(e.End)}
	}
	for id, f := range o.Faces {
		rec.Faces[strconv.Itoa(int(id))] = [6]int{
			int(f.Edges[0]), int(f.Edges[1]), int(f.Edges[2]),
			int(f.UVs[0]), int(f.UVs[1]), int(f.UVs[2]),
		}
	}
	return rec
}

// FromRecord reconstructs an object from its plain-data form. The id
// counters resume past the highest id present, so ids allocated after a
// round trip never collide with serialized references.
func FromRecord(rec Record) (*Object, error) {
	o := newObject(nil, rec.ID)
	o.translation = vec3.T{rec.Translate.X, rec.Translate.Y, rec.Translate.Z}
	o.scale = vec3.T{rec.Scale.X, rec.Scale.Y, rec.Scale.Z}
	o.rotation = geom.Quat{X: rec.Rotation.X, Y: rec.Rotation.Y, Z: rec.Rotation.Z, W: rec.Rotation.W}

	for key, pos := range rec.Verts {
		id, err := parseID(key)
		if err != nil {
			return nil, fmt.Errorf("vertex id %q: %w", key, err)
		}
		o.Verts[VertexID(id)] = &Vertex{ID: VertexID(id), Pos: vec3.T{pos[0], pos[1], pos[2]}, obj: o}
		if VertexID(id) >= o.nextVert {
			o.nextVert = VertexID(id) + 1
		}
	}
	for key, uv := range rec.UVs {
		id, err := parseID(key)
		if err != nil {
			return nil, fmt.Errorf("uv id %q: %w", key, err)
		}
		o.UVs[UVID(id)] = &UVPoint{ID: UVID(id), U: uv[0], V: uv[1], obj: o}
		if UVID(id) >= o.nextUV {
			o.nextUV = UVID(id) + 1
		}
	}
	for key, ends := range rec.Edges {
		id, err := parseID(key)
		if err != nil {
			return nil, fmt.Errorf("edge id %q: %w", key, err)
		}
		o.Edges[EdgeID(id)] = &Edge{ID: EdgeID(id), Start: VertexID(ends[0]), End: VertexID(ends[1]), obj: o}
		if EdgeID(id) >= o.nextEdge {
			o.nextEdge = EdgeID(id) + 1
		}
	}
	for key, refs := range rec.Faces {
		id, err := parseID(key)
		if err != nil {
			return nil, fmt.Errorf("face id %q: %w", key, err)
		}
		f := &Face{
			ID:    FaceID(id),
			Edges: [3]EdgeRef{EdgeRef(refs[0]), EdgeRef(refs[1]), EdgeRef(refs[2])},
			UVs:   [3]UVID{UVID(refs[3]), UVID(refs[4]), UVID(refs[5])},
			obj:   o,
		}
		o.Faces[FaceID(id)] = f
		if FaceID(id) >= o.nextFace {
			o.nextFace = FaceID(id) + 1
		}
	}

	// UV ownership back-references are not part of the wire form; restore
	// them from the faces.
	for _, f := range o.Faces {
		for _, uv := range f.UVs {
			if uv != 0 {
				if p, ok := o.UVs[uv]; ok {
					p.face = f.ID
				}
			}
		}
	}

	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	return o, nil
}

func parseID(key string) (int, error) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return 0, err
	}
	if id < 1 {
		return 0, fmt.Errorf("id %d out of range", id)
	}
	return id, nil
}
