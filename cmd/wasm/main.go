//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/shapy/shapy/backend-go/internal/geom"
	"github.com/shapy/shapy/backend-go/internal/mesh"
)

// The browser runs the same mesh kernel the server runs, so edits apply
// locally without a round trip and the collaboration layer only reconciles.
var scene *mesh.Scene

func main() {
	scene = mesh.NewSampleScene("scene_local")

	kernel := js.Global().Get("Object").New()

	// --- Commands (frontend → kernel) ---
	kernel.Set("loadScene", js.FuncOf(loadScene))
	kernel.Set("createCube", js.FuncOf(createCube))
	kernel.Set("translateObject", js.FuncOf(translateObject))
	kernel.Set("scaleObject", js.FuncOf(scaleObject))
	kernel.Set("rotateObject", js.FuncOf(rotateObject))
	kernel.Set("deleteObject", js.FuncOf(deleteObject))
	kernel.Set("connect", js.FuncOf(connect))
	kernel.Set("mergeVertices", js.FuncOf(mergeVertices))
	kernel.Set("extrude", js.FuncOf(extrude))
	kernel.Set("projectUV", js.FuncOf(projectUV))
	kernel.Set("clearDirty", js.FuncOf(clearDirty))

	// --- Queries (frontend ← kernel) ---
	kernel.Set("getScene", js.FuncOf(getScene))
	kernel.Set("pickRay", js.FuncOf(pickRay))
	kernel.Set("isDirty", js.FuncOf(isDirty))

	js.Global().Set("shapyKernel", kernel)
	js.Global().Set("shapyWasmReady", js.ValueOf(true))

	// Keep the Go runtime alive
	select {}
}

func errResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func object(id string) *mesh.Object {
	o, ok := scene.Objects[id]
	if !ok || o.Deleted {
		return nil
	}
	return o
}

// --- Command handlers ---

func loadScene(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing scene JSON")
	}

	var records []mesh.Record
	if err := json.Unmarshal([]byte(args[0].String()), &records); err != nil {
		return errResult(err.Error())
	}

	loaded := mesh.NewScene(scene.ID)
	for _, rec := range records {
		if _, err := loaded.Restore(rec); err != nil {
			return errResult(err.Error())
		}
	}
	scene = loaded
	return okResult()
}

func createCube(this js.Value, args []js.Value) interface{} {
	o := scene.NewCube()
	return js.ValueOf(map[string]interface{}{"id": o.ID})
}

func translateObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return errResult("expected id, dx, dy, dz")
	}
	o := object(args[0].String())
	if o == nil {
		return errResult("object not found")
	}
	o.Translate(args[1].Float(), args[2].Float(), args[3].Float())
	return okResult()
}

func scaleObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return errResult("expected id, sx, sy, sz")
	}
	o := object(args[0].String())
	if o == nil {
		return errResult("object not found")
	}
	o.Scale(args[1].Float(), args[2].Float(), args[3].Float())
	return okResult()
}

func rotateObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 5 {
		return errResult("expected id, x, y, z, w")
	}
	o := object(args[0].String())
	if o == nil {
		return errResult("object not found")
	}
	q := geom.Quat{X: args[1].Float(), Y: args[2].Float(), Z: args[3].Float(), W: args[4].Float()}
	o.Rotate(q.Normalized())
	return okResult()
}

func deleteObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing object id")
	}
	o := object(args[0].String())
	if o == nil {
		return errResult("object not found")
	}
	o.Delete()
	return okResult()
}

func connect(this js.Value, args []js.Value) interface{} {
	o, verts, err := objectVerts(args)
	if err != "" {
		return errResult(err)
	}
	o.Connect(verts)
	return okResult()
}

func mergeVertices(this js.Value, args []js.Value) interface{} {
	o, verts, err := objectVerts(args)
	if err != "" {
		return errResult(err)
	}
	nv := o.MergeVertices(verts)
	if nv == nil {
		return errResult("nothing to merge")
	}
	return js.ValueOf(map[string]interface{}{"vertex": int(nv.ID)})
}

func extrude(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errResult("expected id, faceIds")
	}
	o := object(args[0].String())
	if o == nil {
		return errResult("object not found")
	}

	faceIDs := args[1]
	faces := make([]*mesh.Face, 0, faceIDs.Length())
	for i := 0; i < faceIDs.Length(); i++ {
		f, ok := o.Faces[mesh.FaceID(faceIDs.Index(i).Int())]
		if !ok {
			return errResult("face not found")
		}
		faces = append(faces, f)
	}

	res := o.Extrude(faces)
	roof := make([]interface{}, len(res.Faces))
	for i, f := range res.Faces {
		roof[i] = int(f.ID)
	}
	return js.ValueOf(map[string]interface{}{
		"normal": map[string]interface{}{"x": res.Normal[0], "y": res.Normal[1], "z": res.Normal[2]},
		"faces":  roof,
	})
}

func projectUV(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing object id")
	}
	o := object(args[0].String())
	if o == nil {
		return errResult("object not found")
	}
	o.ProjectUV()
	return okResult()
}

func clearDirty(this js.Value, args []js.Value) interface{} {
	for _, o := range scene.Objects {
		o.DirtyMesh = false
	}
	return nil
}

// --- Query handlers ---

func getScene(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(scene.Records())
	if err != nil {
		return errResult(err.Error())
	}
	return js.ValueOf(string(data))
}

func pickRay(this js.Value, args []js.Value) interface{} {
	if len(args) < 6 {
		return errResult("expected ox, oy, oz, dx, dy, dz")
	}

	ray := geom.Ray{
		Origin: vec3.T{args[0].Float(), args[1].Float(), args[2].Float()},
		Dir:    vec3.T{args[3].Float(), args[4].Float(), args[5].Float()},
	}
	ray.Dir.Normalize()

	mode := mesh.PickDefault
	if len(args) > 6 && args[6].Truthy() {
		mode = mesh.PickPaint
	}

	results := scene.PickRay(ray, mode)
	out := make([]interface{}, 0, len(results))
	for _, r := range results {
		verts := make([]interface{}, len(r.Verts))
		for i, h := range r.Verts {
			verts[i] = hitValue(int(h.Vertex.ID), h.Point)
		}
		edges := make([]interface{}, len(r.Edges))
		for i, h := range r.Edges {
			edges[i] = hitValue(int(h.Edge.ID), h.Point)
		}
		faces := make([]interface{}, len(r.Faces))
		for i, h := range r.Faces {
			faces[i] = hitValue(int(h.Face.ID), h.Point)
		}
		out = append(out, map[string]interface{}{
			"object": r.Object.ID,
			"verts":  verts,
			"edges":  edges,
			"faces":  faces,
		})
	}
	return js.ValueOf(out)
}

func isDirty(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(scene.Dirty())
}

// --- helpers ---

func objectVerts(args []js.Value) (*mesh.Object, []*mesh.Vertex, string) {
	if len(args) < 2 {
		return nil, nil, "expected id, vertexIds"
	}
	o := object(args[0].String())
	if o == nil {
		return nil, nil, "object not found"
	}

	ids := args[1]
	verts := make([]*mesh.Vertex, 0, ids.Length())
	for i := 0; i < ids.Length(); i++ {
		v, ok := o.Verts[mesh.VertexID(ids.Index(i).Int())]
		if !ok {
			return nil, nil, "vertex not found"
		}
		verts = append(verts, v)
	}
	return o, verts, ""
}

func hitValue(id int, p vec3.T) map[string]interface{} {
	return map[string]interface{}{
		"id": id,
		"point": map[string]interface{}{
			"x": p[0], "y": p[1], "z": p[2],
		},
	}
}
