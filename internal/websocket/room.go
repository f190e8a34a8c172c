package websocket

import (
	"sync"

	"github.com/rejdeboer/collab-server/internal/metrics"
)

// Room is the shared state of one collaboration session. All fields are
// guarded by mu and are only touched through Hub methods.
type Room struct {
	ID string

	mu       sync.Mutex
	document string
	members  map[Connection]struct{}
	closed   bool

	// live is shared by every room of a hub and mirrors members.
	live *sync.Map
}

func newRoom(id string, live *sync.Map) *Room {
	return &Room{
		ID:      id,
		members: make(map[Connection]struct{}),
		live:    live,
	}
}

func (r *Room) add(conn Connection) {
	if _, ok := r.members[conn]; ok {
		return
	}
	r.members[conn] = struct{}{}
	r.live.Store(conn, struct{}{})
	metrics.Connections.Inc()
}

// remove reports whether conn was a member. Safe to call repeatedly.
func (r *Room) remove(conn Connection) bool {
	if _, ok := r.members[conn]; !ok {
		return false
	}
	delete(r.members, conn)
	r.live.Delete(conn)
	metrics.Connections.Dec()
	return true
}

// recipients returns a snapshot of every member except sender.
func (r *Room) recipients(sender Connection) []Connection {
	out := make([]Connection, 0, len(r.members))
	for conn := range r.members {
		if conn == sender {
			continue
		}
		out = append(out, conn)
	}
	return out
}
