package mesh

import "github.com/ungerik/go3d/float64/vec3"

// cubeQuads lists the six cube sides with outward CCW winding over the
// corner indices below.
var cubeQuads = [6][4]int{
	{4, 5, 6, 7}, // +z
	{1, 0, 3, 2}, // -z
	{5, 1, 2, 6}, // +x
	{0, 4, 7, 3}, // -x
	{7, 6, 2, 3}, // +y
	{0, 1, 5, 4}, // -y
}

var cubeCorners = [8]vec3.T{
	{-0.5, -0.5, -0.5},
	{0.5, -0.5, -0.5},
	{0.5, 0.5, -0.5},
	{-0.5, 0.5, -0.5},
	{-0.5, -0.5, 0.5},
	{0.5, -0.5, 0.5},
	{0.5, 0.5, 0.5},
	{-0.5, 0.5, 0.5},
}

// NewCube builds a unit cube centred on the origin: 8 vertices, 18 edges
// (12 sides plus 6 face diagonals, shared between adjacent triangles via
// signed refs) and 12 triangular faces wound outward.
func (s *Scene) NewCube() *Object {
	o := s.NewObject()
	var v [8]*Vertex
	for i, pos := range cubeCorners {
		v[i] = o.newVertex(pos)
	}
	for _, q := range cubeQuads {
		o.Connect([]*Vertex{v[q[0]], v[q[1]], v[q[2]]})
		o.Connect([]*Vertex{v[q[0]], v[q[2]], v[q[3]]})
	}
	return o
}

// NewSampleScene seeds the scene newly created accounts and playground
// rooms start from: a single cube.
func NewSampleScene(id string) *Scene {
	s := NewScene(id)
	s.NewCube()
	return s
}
