// Package scenes manages scene lifecycle and sharing: creation with a
// seeded starter mesh, membership, and snapshot access.
package scenes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shapy/shapy/backend-go/internal/mesh"
	"github.com/shapy/shapy/backend-go/internal/store"
	"github.com/shapy/shapy/backend-go/internal/typeid"
)

var (
	ErrNotFound  = errors.New("scene not found")
	ErrForbidden = errors.New("forbidden")
	ErrNotMember = errors.New("not a scene member")
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

type Scene struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"ownerId"`
}

// Create registers a scene owned by the user and seeds its first snapshot
// with the starter cube, so a fresh scene renders something editable.
func (s *Service) Create(ctx context.Context, name, ownerID string) (*Scene, error) {
	sceneID := typeid.NewSceneID()

	sc, err := s.store.CreateScene(ctx, store.Scene{
		ID:      sceneID,
		Name:    name,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create scene: %w", err)
	}

	seed := mesh.NewSampleScene(sceneID)
	data, err := json.Marshal(seed.Records())
	if err != nil {
		return nil, fmt.Errorf("marshal seed scene: %w", err)
	}
	err = s.store.CreateSnapshot(ctx, store.Snapshot{
		ID:      typeid.NewSnapshotID(),
		SceneID: sceneID,
		Data:    data,
	})
	if err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return &Scene{ID: sc.ID, Name: sc.Name, OwnerID: sc.OwnerID}, nil
}

func (s *Service) Get(ctx context.Context, sceneID, userID string) (*Scene, error) {
	if err := s.checkMembership(ctx, sceneID, userID); err != nil {
		return nil, err
	}

	sc, err := s.store.GetScene(ctx, sceneID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get scene: %w", err)
	}
	return &Scene{ID: sc.ID, Name: sc.Name, OwnerID: sc.OwnerID}, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Scene, error) {
	stored, err := s.store.ListScenesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}

	scenes := make([]Scene, len(stored))
	for i, sc := range stored {
		scenes[i] = Scene{ID: sc.ID, Name: sc.Name, OwnerID: sc.OwnerID}
	}
	return scenes, nil
}

func (s *Service) Delete(ctx context.Context, sceneID, userID string) error {
	sc, err := s.store.GetScene(ctx, sceneID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get scene: %w", err)
	}
	if sc.OwnerID != userID {
		return ErrForbidden
	}

	return s.store.DeleteScene(ctx, sceneID, userID)
}

// InviteByEmail adds another user to the scene; only the owner may invite.
func (s *Service) InviteByEmail(ctx context.Context, sceneID, ownerID, inviteeEmail string) error {
	sc, err := s.store.GetScene(ctx, sceneID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get scene: %w", err)
	}
	if sc.OwnerID != ownerID {
		return ErrForbidden
	}

	invitee, err := s.store.GetUserByEmail(ctx, inviteeEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("find user: %w", err)
	}

	return s.store.AddSceneMember(ctx, sceneID, invitee.ID)
}

// GetLatestSnapshot returns the raw record list of the scene's newest
// snapshot.
func (s *Service) GetLatestSnapshot(ctx context.Context, sceneID, userID string) (json.RawMessage, error) {
	if err := s.checkMembership(ctx, sceneID, userID); err != nil {
		return nil, err
	}

	snap, err := s.store.GetLatestSnapshot(ctx, sceneID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap.Data, nil
}

// LoadScene rebuilds the live kernel scene from the newest snapshot. Used
// by the collaboration hub when a room opens.
func (s *Service) LoadScene(ctx context.Context, sceneID string) (*mesh.Scene, error) {
	snap, err := s.store.GetLatestSnapshot(ctx, sceneID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var records []mesh.Record
	if err := json.Unmarshal(snap.Data, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	scene := mesh.NewScene(sceneID)
	for _, rec := range records {
		if _, err := scene.Restore(rec); err != nil {
			return nil, fmt.Errorf("restore object %s: %w", rec.ID, err)
		}
	}
	return scene, nil
}

// SaveScene persists a new snapshot of the record list. Used by the hub's
// periodic flush.
func (s *Service) SaveScene(ctx context.Context, sceneID string, records []mesh.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	return s.store.CreateSnapshot(ctx, store.Snapshot{
		ID:      typeid.NewSnapshotID(),
		SceneID: sceneID,
		Data:    data,
	})
}

// CheckMembership reports whether the user may join the scene's room.
func (s *Service) CheckMembership(ctx context.Context, sceneID, userID string) error {
	return s.checkMembership(ctx, sceneID, userID)
}

func (s *Service) checkMembership(ctx context.Context, sceneID, userID string) error {
	ok, err := s.store.IsSceneMember(ctx, sceneID, userID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if !ok {
		return ErrNotMember
	}
	return nil
}
