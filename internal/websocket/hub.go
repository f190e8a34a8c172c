package websocket

import (
	"fmt"
	"sync"

	"github.com/rejdeboer/collab-server/internal/metrics"
	"github.com/rs/zerolog"
)

// Hub owns the room registry. Registry lookups take the hub lock; everything
// that reads or writes a room's document or members takes that room's lock,
// so traffic in unrelated rooms never serializes.
type Hub struct {
	log zerolog.Logger

	mu     sync.RWMutex
	rooms  map[string]*Room
	closed bool

	// live holds every member of every room. It is read without room locks
	// so Close can interrupt deliveries that hold one.
	live sync.Map
}

type Stats struct {
	Rooms       int `json:"rooms"`
	Connections int `json:"connections"`
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:   log.With().Str("component", "hub").Logger(),
		rooms: make(map[string]*Room),
	}
}

// Join registers conn in roomID, creating the room with an empty document if
// it has not been seen before, and sends the current document to conn. If
// that first send fails conn is removed again and an error wrapping
// ErrConnect is returned.
func (h *Hub) Join(roomID string, conn Connection) (string, error) {
	if roomID == "" {
		return "", ErrEmptyRoomID
	}

	room, err := h.getOrCreate(roomID)
	if err != nil {
		return "", err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return "", ErrHubClosed
	}

	room.add(conn)
	document := room.document

	if err := conn.Send(document); err != nil {
		room.remove(conn)
		metrics.ConnectFailures.Inc()
		h.log.Warn().
			Err(err).
			Str("room_id", roomID).
			Str("conn_id", conn.ID()).
			Msg("could not deliver initial state")
		return "", fmt.Errorf("%w: room %s: %v", ErrConnect, roomID, err)
	}

	h.log.Info().
		Str("room_id", roomID).
		Str("conn_id", conn.ID()).
		Int("members", len(room.members)).
		Msg("client joined room")

	return document, nil
}

// Leave removes conn from roomID. Unknown rooms and absent members are
// ignored. The room's document is kept even when the room becomes empty.
func (h *Hub) Leave(roomID string, conn Connection) {
	room, ok := h.get(roomID)
	if !ok {
		return
	}

	room.mu.Lock()
	removed := room.remove(conn)
	remaining := len(room.members)
	room.mu.Unlock()

	if !removed {
		return
	}

	h.log.Info().
		Str("room_id", roomID).
		Str("conn_id", conn.ID()).
		Int("members", remaining).
		Msg("client left room")

	if remaining == 0 {
		h.log.Debug().Str("room_id", roomID).Msg("room is now empty")
	}
}

// Broadcast replaces the document of roomID with payload and delivers payload
// to every member except sender. Members that cannot be reached are removed
// and closed. It returns the number of successful deliveries; it never fails
// toward the caller.
func (h *Hub) Broadcast(roomID string, sender Connection, payload string) int {
	room, ok := h.get(roomID)
	if !ok {
		return 0
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	room.document = payload
	metrics.Broadcasts.Inc()

	delivered := 0
	for _, conn := range room.recipients(sender) {
		if err := conn.Send(payload); err != nil {
			room.remove(conn)
			_ = conn.Close()
			metrics.Deliveries.WithLabelValues("failed").Inc()

			h.log.Warn().
				Err(&DeliveryError{RoomID: roomID, ConnectionID: conn.ID(), Err: err}).
				Str("room_id", roomID).
				Msg("dropped unreachable member")
			continue
		}
		delivered++
		metrics.Deliveries.WithLabelValues("ok").Inc()
	}

	return delivered
}

// Document returns the current document of roomID.
func (h *Hub) Document(roomID string) (string, bool) {
	room, ok := h.get(roomID)
	if !ok {
		return "", false
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	return room.document, true
}

// Members returns the number of live members of roomID.
func (h *Hub) Members(roomID string) int {
	room, ok := h.get(roomID)
	if !ok {
		return 0
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	return len(room.members)
}

func (h *Hub) Stats() Stats {
	var stats Stats
	for _, room := range h.snapshot() {
		room.mu.Lock()
		stats.Connections += len(room.members)
		room.mu.Unlock()
		stats.Rooms++
	}
	return stats
}

// Close closes every member connection and rejects later joins.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()

	closed := make(map[Connection]struct{})
	h.live.Range(func(key, _ any) bool {
		conn := key.(Connection)
		closed[conn] = struct{}{}
		_ = conn.Close()
		return true
	})

	for _, room := range h.snapshot() {
		room.mu.Lock()
		room.closed = true
		for conn := range room.members {
			room.remove(conn)
			if _, ok := closed[conn]; !ok {
				_ = conn.Close()
			}
		}
		room.mu.Unlock()
	}

	h.log.Info().Msg("hub closed")
}

func (h *Hub) get(roomID string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[roomID]
	return room, ok
}

func (h *Hub) getOrCreate(roomID string) (*Room, error) {
	if room, ok := h.get(roomID); ok {
		return room, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}
	if room, ok := h.rooms[roomID]; ok {
		return room, nil
	}

	room := newRoom(roomID, &h.live)
	h.rooms[roomID] = room
	metrics.Rooms.Inc()
	h.log.Info().Str("room_id", roomID).Msg("initialized new room state")

	return room, nil
}

func (h *Hub) snapshot() []*Room {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}
