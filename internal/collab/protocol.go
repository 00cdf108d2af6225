package collab

import (
	"encoding/json"

	"github.com/shapy/shapy/backend-go/internal/mesh"
)

type Message struct {
	Type     string          `json:"type"`
	SceneID  string          `json:"sceneId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"

	// Scene sync: the full object set, sent on join and after edits that
	// invalidate incremental updates.
	TypeSceneSync = "scene.sync"

	// Object edits
	TypeTranslate = "object.translate"
	TypeScale     = "object.scale"
	TypeRotate    = "object.rotate"
	TypeDelete    = "object.delete"

	// Advisory locks
	TypeLock   = "object.lock"
	TypeUnlock = "object.unlock"

	// Presence
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"

	TypeError = "error"
)

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

type SceneSyncPayload struct {
	Objects []mesh.Record `json:"objects"`
}

// TransformPayload carries a componentwise delta, used by both
// object.translate (offsets) and object.scale (factors).
type TransformPayload struct {
	ObjectID string  `json:"objectId"`
	DX       float64 `json:"dx"`
	DY       float64 `json:"dy"`
	DZ       float64 `json:"dz"`
}

type RotatePayload struct {
	ObjectID string  `json:"objectId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	W        float64 `json:"w"`
}

type DeletePayload struct {
	ObjectID string `json:"objectId"`
}

type LockPayload struct {
	ObjectIDs []string `json:"objectIds"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []string   `json:"selection,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

// CursorPos is the user's pointer projected into world space.
type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}
