// Package editable is the selection abstraction of the editor: a selection
// is a single mesh part, a whole object, or a group of either, and every
// variant exposes the same capability set so UI commands and collaboration
// messages can act on heterogeneous selections uniformly.
package editable

import (
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/shapy/shapy/backend-go/internal/geom"
	"github.com/shapy/shapy/backend-go/internal/mesh"
)

// Editable is the common capability set of everything selectable. The
// closed set of implementations is mesh.Vertex, mesh.Edge, mesh.Face,
// mesh.Object, PartsGroup and ObjectGroup.
type Editable interface {
	Translate(dx, dy, dz float64)
	Scale(sx, sy, sz float64)
	Rotate(q geom.Quat)

	// Vertices returns the vertices the selection spans.
	Vertices() []*mesh.Vertex
	// Position returns the selection's pivot: a part's own centroid, an
	// object's translation, a group's member average.
	Position() vec3.T

	SetHover(hovered bool)
	// SetSelected marks the selection as held by a user (empty clears) and
	// propagates to every child.
	SetSelected(userID string)

	// Object returns the single owning object, or nil when the selection
	// spans several objects.
	Object() *mesh.Object

	Delete()
}

var (
	_ Editable = (*mesh.Vertex)(nil)
	_ Editable = (*mesh.Edge)(nil)
	_ Editable = (*mesh.Face)(nil)
	_ Editable = (*mesh.Object)(nil)
	_ Editable = (*PartsGroup)(nil)
	_ Editable = (*ObjectGroup)(nil)
)
