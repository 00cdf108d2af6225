package collab

import (
	"testing"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/shapy/shapy/backend-go/internal/mesh"
)

func testState(t *testing.T) (*SceneState, *mesh.Object) {
	t.Helper()
	scene := mesh.NewSampleScene("scene_test")
	var obj *mesh.Object
	for _, o := range scene.Objects {
		obj = o
	}
	return NewSceneState(scene), obj
}

func TestApplyTranslate(t *testing.T) {
	ss, obj := testState(t)

	if err := ss.ApplyTranslate(obj.ID, 1, 2, 3); err != nil {
		t.Fatalf("ApplyTranslate() = %v", err)
	}
	if obj.Position() != (vec3.T{1, 2, 3}) {
		t.Errorf("position = %v, want (1,2,3)", obj.Position())
	}

	if err := ss.ApplyTranslate("obj_missing", 1, 0, 0); err == nil {
		t.Error("ApplyTranslate accepted an unknown object")
	}
}

func TestApplyDelete(t *testing.T) {
	ss, obj := testState(t)

	if err := ss.ApplyDelete(obj.ID); err != nil {
		t.Fatalf("ApplyDelete() = %v", err)
	}
	if !obj.Deleted {
		t.Error("object not marked deleted")
	}
	if err := ss.ApplyTranslate(obj.ID, 1, 0, 0); err == nil {
		t.Error("deleted object still editable")
	}
}

func TestLockSemantics(t *testing.T) {
	ss, obj := testState(t)
	ids := []string{obj.ID}

	if err := ss.Lock("usr_a", ids); err != nil {
		t.Fatalf("Lock() = %v", err)
	}
	if obj.LockedBy() != "usr_a" {
		t.Errorf("holder = %q, want usr_a", obj.LockedBy())
	}

	// Competing lock replaces the holder (last write wins).
	if err := ss.Lock("usr_b", ids); err != nil {
		t.Fatalf("Lock() = %v", err)
	}
	if obj.LockedBy() != "usr_b" {
		t.Errorf("holder = %q, want usr_b", obj.LockedBy())
	}

	// A non-holder unlock is a no-op.
	if err := ss.Unlock("usr_a", ids); err != nil {
		t.Fatalf("Unlock() = %v", err)
	}
	if obj.LockedBy() != "usr_b" {
		t.Errorf("holder = %q after foreign unlock, want usr_b", obj.LockedBy())
	}

	if err := ss.Unlock("usr_b", ids); err != nil {
		t.Fatalf("Unlock() = %v", err)
	}
	if obj.LockedBy() != "" {
		t.Errorf("holder = %q after unlock, want empty", obj.LockedBy())
	}
}

func TestReleaseUser(t *testing.T) {
	ss, obj := testState(t)

	if err := ss.Lock("usr_a", []string{obj.ID}); err != nil {
		t.Fatalf("Lock() = %v", err)
	}
	released := ss.ReleaseUser("usr_a")
	if len(released) != 1 || released[0] != obj.ID {
		t.Errorf("released = %v, want [%s]", released, obj.ID)
	}
	if obj.LockedBy() != "" {
		t.Error("lock survived ReleaseUser")
	}

	if got := ss.ReleaseUser("usr_a"); len(got) != 0 {
		t.Errorf("second release = %v, want none", got)
	}
}

func TestFlush(t *testing.T) {
	ss, obj := testState(t)

	// A fresh state has nothing to persist.
	if recs := ss.Flush(); recs != nil {
		t.Errorf("Flush() on clean state = %d records, want nil", len(recs))
	}

	if err := ss.ApplyTranslate(obj.ID, 1, 0, 0); err != nil {
		t.Fatalf("ApplyTranslate() = %v", err)
	}
	recs := ss.Flush()
	if len(recs) != 1 {
		t.Fatalf("Flush() = %d records, want 1", len(recs))
	}
	if recs[0].Translate.X != 1 {
		t.Errorf("flushed translate.x = %v, want 1", recs[0].Translate.X)
	}

	if recs := ss.Flush(); recs != nil {
		t.Error("second Flush() not nil; dirty flag not cleared")
	}
}
