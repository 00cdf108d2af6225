package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/shapy/shapy/backend-go/internal/geom"
	"github.com/shapy/shapy/backend-go/internal/mesh"
)

// flushPeriod is how often edited rooms are persisted.
const flushPeriod = 15 * time.Second

// SceneLoader fetches the persisted form of a scene when its room opens.
// SceneSaver writes a snapshot back; it is called periodically and on
// shutdown.
type (
	SceneLoader func(ctx context.Context, sceneID string) (*mesh.Scene, error)
	SceneSaver  func(ctx context.Context, sceneID string, records []mesh.Record) error
)

type Room struct {
	sceneID  string
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager
	state    *SceneState
}

func NewRoom(sceneID string, state *SceneState) *Room {
	return &Room{
		sceneID:  sceneID,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		state:    state,
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // sceneID -> room
	register   chan *Client
	unregister chan *Client
	stop       chan chan struct{}

	loader SceneLoader
	saver  SceneSaver
}

func NewHub(loader SceneLoader, saver SceneSaver) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan chan struct{}),
		loader:     loader,
		saver:      saver,
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(flushPeriod)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.flushAll()
		case done := <-h.stop:
			h.flushAll()
			close(done)
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Stop flushes every edited room and ends the run loop.
func (h *Hub) Stop() {
	done := make(chan struct{})
	h.stop <- done
	<-done
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.SceneID]
	if !ok {
		scene, err := h.loader(context.Background(), client.SceneID)
		if err != nil {
			h.mu.Unlock()
			slog.Error("load scene", "error", err, "scene", client.SceneID)
			client.Send(errorMessage("scene unavailable"))
			return
		}
		room = NewRoom(client.SceneID, NewSceneState(scene))
		h.rooms[client.SceneID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	welcome, _ := json.Marshal(WelcomePayload{ClientID: client.ClientID, UserID: client.UserID})
	client.Send(&Message{Type: TypeWelcome, SceneID: client.SceneID, Payload: welcome})

	syncPayload, _ := json.Marshal(SceneSyncPayload{Objects: room.state.Snapshot()})
	client.Send(&Message{Type: TypeSceneSync, SceneID: client.SceneID, Payload: syncPayload})

	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	h.broadcastToRoom(client.SceneID, &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "scene", client.SceneID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.SceneID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.UserID)

	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.SceneID)
	}
	h.mu.Unlock()

	// Locks do not outlive their holder's connection.
	released := room.state.ReleaseUser(client.UserID)
	if len(released) > 0 && !empty {
		unlockPayload, _ := json.Marshal(LockPayload{ObjectIDs: released})
		h.broadcastToRoom(client.SceneID, &Message{
			Type:    TypeUnlock,
			UserID:  client.UserID,
			Payload: unlockPayload,
		}, "")
	}

	if empty {
		h.flushRoom(room)
	}

	leavePayload, _ := json.Marshal(PresenceLeavePayload{UserID: client.UserID})
	h.broadcastToRoom(client.SceneID, &Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}, "")

	slog.Info("client left", "user", client.UserID, "scene", client.SceneID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	room := h.room(sender.SceneID)
	if room == nil {
		return
	}

	switch msg.Type {
	case TypeTranslate, TypeScale, TypeRotate, TypeDelete:
		h.handleEdit(room, sender, msg)
	case TypeLock, TypeUnlock:
		h.handleLock(room, sender, msg)
	case TypePresenceUpdate:
		h.handlePresenceUpdate(room, sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) handleEdit(room *Room, sender *Client, msg *Message) {
	var err error
	switch msg.Type {
	case TypeTranslate:
		var p TransformPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = room.state.ApplyTranslate(p.ObjectID, p.DX, p.DY, p.DZ)
		}
	case TypeScale:
		var p TransformPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = room.state.ApplyScale(p.ObjectID, p.DX, p.DY, p.DZ)
		}
	case TypeRotate:
		var p RotatePayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = room.state.ApplyRotate(p.ObjectID, geom.Quat{X: p.X, Y: p.Y, Z: p.Z, W: p.W})
		}
	case TypeDelete:
		var p DeletePayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = room.state.ApplyDelete(p.ObjectID)
		}
	}
	if err != nil {
		slog.Warn("edit rejected", "type", msg.Type, "error", err, "user", sender.UserID)
		sender.Send(errorMessage(err.Error()))
		return
	}

	h.broadcastToRoom(sender.SceneID, msg, sender.ClientID)
}

func (h *Hub) handleLock(room *Room, sender *Client, msg *Message) {
	var p LockPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		slog.Warn("invalid lock payload", "error", err)
		return
	}

	var err error
	if msg.Type == TypeLock {
		err = room.state.Lock(sender.UserID, p.ObjectIDs)
	} else {
		err = room.state.Unlock(sender.UserID, p.ObjectIDs)
	}
	if err != nil {
		sender.Send(errorMessage(err.Error()))
		return
	}

	h.broadcastToRoom(sender.SceneID, msg, sender.ClientID)
}

func (h *Hub) handlePresenceUpdate(room *Room, sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName
	room.presence.Update(sender.UserID, &presence)

	outPayload, _ := json.Marshal(presence)
	h.broadcastToRoom(sender.SceneID, &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}, sender.ClientID)
}

func (h *Hub) room(sceneID string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[sceneID]
}

func (h *Hub) broadcastToRoom(sceneID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[sceneID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func (h *Hub) flushAll() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.RUnlock()

	for _, room := range rooms {
		h.flushRoom(room)
	}
}

func (h *Hub) flushRoom(room *Room) {
	records := room.state.Flush()
	if records == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.saver(ctx, room.sceneID, records); err != nil {
		slog.Error("save scene", "error", err, "scene", room.sceneID)
	}
}

func errorMessage(text string) *Message {
	payload, _ := json.Marshal(ErrorPayload{Message: text})
	return &Message{Type: TypeError, Payload: payload}
}
