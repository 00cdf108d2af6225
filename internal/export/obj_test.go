package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/shapy/shapy/backend-go/internal/mesh"
)

func TestWriteOBJ(t *testing.T) {
	scene := mesh.NewScene("scene_export")
	o := scene.NewObject()
	a := o.AddVertex(vec3.T{0, 0, 0})
	b := o.AddVertex(vec3.T{1, 0, 0})
	c := o.AddVertex(vec3.T{0, 1, 0})
	o.Connect([]*mesh.Vertex{a, b, c})
	o.Translate(10, 0, 0)

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, scene); err != nil {
		t.Fatalf("WriteOBJ() = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "o "+o.ID+"\n") {
		t.Error("missing object group line")
	}
	// World-space positions.
	if !strings.Contains(out, "v 10 0 0\n") || !strings.Contains(out, "v 11 0 0\n") {
		t.Errorf("vertices not in world space:\n%s", out)
	}
	if !strings.Contains(out, "f 1 2 3\n") {
		t.Errorf("missing face line:\n%s", out)
	}
}

func TestWriteOBJWithUVs(t *testing.T) {
	scene := mesh.NewScene("scene_export")
	o := scene.NewCube()
	o.ProjectUV()

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, scene); err != nil {
		t.Fatalf("WriteOBJ() = %v", err)
	}
	out := buf.String()

	// One vt line per UV point.
	vt := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "vt ") {
			vt++
		}
	}
	if vt != len(o.UVs) {
		t.Errorf("vt lines = %d, want %d", vt, len(o.UVs))
	}
	if !strings.Contains(out, "/") {
		t.Error("faces missing texture coordinate references")
	}
}

func TestWriteOBJSkipsDeleted(t *testing.T) {
	scene := mesh.NewScene("scene_export")
	o := scene.NewCube()
	o.Delete()

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, scene); err != nil {
		t.Fatalf("WriteOBJ() = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("deleted object exported:\n%s", buf.String())
	}
}
