// Package store is the Postgres persistence layer: users, scenes, scene
// membership and mesh snapshots. Queries are written directly against pgx;
// the scene payload itself is stored as a JSONB snapshot per save.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned on unique constraint violations.
var ErrDuplicate = errors.New("already exists")

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

type Scene struct {
	ID      string
	Name    string
	OwnerID string
}

// Snapshot is one persisted revision of a scene's objects, stored as the
// JSON-encoded record list.
type Snapshot struct {
	ID      string
	SceneID string
	Data    []byte
}

// --- users ---

func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password, display_name) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.Password, u.DisplayName)
	if err != nil {
		if isDuplicateKeyError(err) {
			return User{}, ErrDuplicate
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password, display_name FROM users WHERE email = $1`,
		email).Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password, display_name FROM users WHERE id = $1`,
		id).Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// --- scenes ---

func (s *Store) CreateScene(ctx context.Context, sc Scene) (Scene, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Scene{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO scenes (id, name, owner_id) VALUES ($1, $2, $3)`,
		sc.ID, sc.Name, sc.OwnerID)
	if err != nil {
		return Scene{}, fmt.Errorf("create scene: %w", err)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO scene_members (scene_id, user_id) VALUES ($1, $2)`,
		sc.ID, sc.OwnerID)
	if err != nil {
		return Scene{}, fmt.Errorf("add owner membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Scene{}, fmt.Errorf("commit: %w", err)
	}
	return sc, nil
}

func (s *Store) GetScene(ctx context.Context, id string) (Scene, error) {
	var sc Scene
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, owner_id FROM scenes WHERE id = $1`,
		id).Scan(&sc.ID, &sc.Name, &sc.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Scene{}, ErrNotFound
		}
		return Scene{}, fmt.Errorf("get scene: %w", err)
	}
	return sc, nil
}

// ListScenesForUser returns the scenes the user owns or is a member of,
// newest first.
func (s *Store) ListScenesForUser(ctx context.Context, userID string) ([]Scene, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT s.id, s.name, s.owner_id
		 FROM scenes s
		 JOIN scene_members m ON m.scene_id = s.id
		 WHERE m.user_id = $1
		 ORDER BY s.created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer rows.Close()

	var scenes []Scene
	for rows.Next() {
		var sc Scene
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.OwnerID); err != nil {
			return nil, fmt.Errorf("scan scene: %w", err)
		}
		scenes = append(scenes, sc)
	}
	return scenes, rows.Err()
}

func (s *Store) DeleteScene(ctx context.Context, id, ownerID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM scenes WHERE id = $1 AND owner_id = $2`,
		id, ownerID)
	if err != nil {
		return fmt.Errorf("delete scene: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AddSceneMember(ctx context.Context, sceneID, userID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scene_members (scene_id, user_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		sceneID, userID)
	if err != nil {
		return fmt.Errorf("add scene member: %w", err)
	}
	return nil
}

func (s *Store) IsSceneMember(ctx context.Context, sceneID, userID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM scene_members WHERE scene_id = $1 AND user_id = $2)`,
		sceneID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check scene member: %w", err)
	}
	return exists, nil
}

// --- snapshots ---

func (s *Store) CreateSnapshot(ctx context.Context, snap Snapshot) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO snapshots (id, scene_id, data) VALUES ($1, $2, $3)`,
		snap.ID, snap.SceneID, snap.Data)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	return nil
}

// GetLatestSnapshot returns the newest snapshot of a scene.
func (s *Store) GetLatestSnapshot(ctx context.Context, sceneID string) (Snapshot, error) {
	var snap Snapshot
	err := s.pool.QueryRow(ctx,
		`SELECT id, scene_id, data FROM snapshots
		 WHERE scene_id = $1 ORDER BY created_at DESC LIMIT 1`,
		sceneID).Scan(&snap.ID, &snap.SceneID, &snap.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("get latest snapshot: %w", err)
	}
	return snap, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
