package mesh

import (
	"sort"

	"github.com/shapy/shapy/backend-go/internal/geom"
	"github.com/shapy/shapy/backend-go/internal/typeid"
)

// Scene owns a set of objects. Like objects, it is confined to one editing
// session; the collaboration layer serializes access from outside.
type Scene struct {
	ID      string
	Objects map[string]*Object
}

// NewScene creates an empty scene.
func NewScene(id string) *Scene {
	return &Scene{ID: id, Objects: make(map[string]*Object)}
}

// NewObject allocates an empty object in the scene.
func (s *Scene) NewObject() *Object {
	o := newObject(s, typeid.NewObjectID())
	s.Objects[o.ID] = o
	return o
}

// Restore rebuilds an object from its wire form and attaches it.
func (s *Scene) Restore(rec Record) (*Object, error) {
	o, err := FromRecord(rec)
	if err != nil {
		return nil, err
	}
	o.scene = s
	s.Objects[o.ID] = o
	return o, nil
}

// Remove detaches an object, marking it deleted so stale handles can be
// recognized.
func (s *Scene) Remove(o *Object) {
	o.Deleted = true
	delete(s.Objects, o.ID)
}

// Records serializes every live object, sorted by id for stable output.
func (s *Scene) Records() []Record {
	recs := make([]Record, 0, len(s.Objects))
	for _, id := range s.sortedObjectIDs() {
		recs = append(recs, s.Objects[id].ToRecord())
	}
	return recs
}

// PickRay runs a ray pick against every live object. Objects with no hits
// are omitted.
func (s *Scene) PickRay(ray geom.Ray, mode PickMode) []PickResult {
	var results []PickResult
	for _, id := range s.sortedObjectIDs() {
		o := s.Objects[id]
		if o.Deleted {
			continue
		}
		if r := o.PickRay(ray, mode); !r.Empty() {
			results = append(results, r)
		}
	}
	return results
}

// PickFrustum runs a frustum pick against every live object.
func (s *Scene) PickFrustum(planes []geom.Plane) []FrustumResult {
	var results []FrustumResult
	for _, id := range s.sortedObjectIDs() {
		o := s.Objects[id]
		if o.Deleted {
			continue
		}
		if r := o.PickFrustum(planes); !r.Empty() {
			results = append(results, r)
		}
	}
	return results
}

// Dirty reports whether any object needs a renderer rebuild.
func (s *Scene) Dirty() bool {
	for _, o := range s.Objects {
		if o.DirtyMesh {
			return true
		}
	}
	return false
}

func (s *Scene) sortedObjectIDs() []string {
	ids := make([]string, 0, len(s.Objects))
	for id := range s.Objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
