package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Hub is the in-process implementation of Bus. Connections register once,
// then join and leave rooms freely. Within one room, events are delivered to
// every joined connection in publish call order; no ordering is promised
// across rooms.
type Hub struct {
	logger *zap.Logger

	mu    sync.RWMutex
	sinks map[string]Sink            // connID -> sink
	rooms map[string]map[string]bool // room -> set of connIDs
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		sinks:  make(map[string]Sink),
		rooms:  make(map[string]map[string]bool),
	}
}

// Register attaches a connection's sink to the hub.
func (h *Hub) Register(connID string, sink Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks[connID] = sink
}

// Unregister detaches a connection and removes it from every room.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sinks, connID)
	for room, members := range h.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Join subscribes a registered connection to a room. Joining without a prior
// Register is ignored.
func (h *Hub) Join(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sinks[connID]; !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]bool)
		h.rooms[room] = members
	}
	members[connID] = true
}

// Leave unsubscribes a connection from a room. Leaving a room it never
// joined is a no-op.
func (h *Hub) Leave(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Publish delivers an event to every connection currently joined to the
// room. If the room is empty the event is dropped.
func (h *Hub) Publish(room, name string, payload any) {
	evt := Event{Room: room, Name: name, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()

	members := h.rooms[room]
	if len(members) == 0 {
		h.logger.Debug("event dropped, empty room",
			zap.String("room", room), zap.String("event", name))
		return
	}
	for connID := range members {
		if sink, ok := h.sinks[connID]; ok {
			sink.Deliver(evt)
		}
	}
}
