package collab

import (
	"fmt"
	"sync"

	"github.com/shapy/shapy/backend-go/internal/editable"
	"github.com/shapy/shapy/backend-go/internal/geom"
	"github.com/shapy/shapy/backend-go/internal/mesh"
)

// SceneState holds the authoritative scene for a room. The kernel itself is
// not safe for concurrent use; every access goes through the state's lock.
type SceneState struct {
	mu    sync.RWMutex
	scene *mesh.Scene
	dirty bool
}

func NewSceneState(scene *mesh.Scene) *SceneState {
	return &SceneState{scene: scene}
}

func (ss *SceneState) object(id string) (*mesh.Object, error) {
	obj, ok := ss.scene.Objects[id]
	if !ok || obj.Deleted {
		return nil, fmt.Errorf("object not found: %s", id)
	}
	return obj, nil
}

// ApplyTranslate offsets an object's position.
func (ss *SceneState) ApplyTranslate(objectID string, dx, dy, dz float64) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	obj, err := ss.object(objectID)
	if err != nil {
		return err
	}
	var target editable.Editable = obj
	target.Translate(dx, dy, dz)
	ss.dirty = true
	return nil
}

// ApplyScale multiplies an object's scale componentwise.
func (ss *SceneState) ApplyScale(objectID string, sx, sy, sz float64) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	obj, err := ss.object(objectID)
	if err != nil {
		return err
	}
	obj.Scale(sx, sy, sz)
	ss.dirty = true
	return nil
}

// ApplyRotate composes a rotation onto an object's orientation.
func (ss *SceneState) ApplyRotate(objectID string, q geom.Quat) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	obj, err := ss.object(objectID)
	if err != nil {
		return err
	}
	obj.Rotate(q.Normalized())
	ss.dirty = true
	return nil
}

// ApplyDelete removes an object from the scene.
func (ss *SceneState) ApplyDelete(objectID string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	obj, err := ss.object(objectID)
	if err != nil {
		return err
	}
	obj.Delete()
	ss.dirty = true
	return nil
}

// Lock records the user as the advisory lock holder of the given objects.
// Locks are last-write-wins: a competing lock simply replaces the holder,
// clients resolve the visual conflict from the broadcast.
func (ss *SceneState) Lock(userID string, objectIDs []string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	for _, id := range objectIDs {
		obj, err := ss.object(id)
		if err != nil {
			return err
		}
		obj.SetLocked(userID)
	}
	return nil
}

// Unlock clears the advisory lock on objects the user actually holds;
// objects locked by someone else are left alone.
func (ss *SceneState) Unlock(userID string, objectIDs []string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	for _, id := range objectIDs {
		obj, err := ss.object(id)
		if err != nil {
			return err
		}
		if obj.LockedBy() == userID {
			obj.SetLocked("")
		}
	}
	return nil
}

// ReleaseUser drops every lock the user holds and returns the affected
// object ids. Called when a client disconnects.
func (ss *SceneState) ReleaseUser(userID string) []string {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	var released []string
	for id, obj := range ss.scene.Objects {
		if obj.LockedBy() == userID {
			obj.SetLocked("")
			released = append(released, id)
		}
	}
	return released
}

// Snapshot serializes every live object.
func (ss *SceneState) Snapshot() []mesh.Record {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.scene.Records()
}

// Flush returns a snapshot when unsaved edits exist and marks the state
// clean; nil means nothing changed since the last flush.
func (ss *SceneState) Flush() []mesh.Record {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if !ss.dirty {
		return nil
	}
	ss.dirty = false
	return ss.scene.Records()
}
