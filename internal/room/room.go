package room

import (
	"context"
	"errors"
	"time"
)

var (
	ErrRoomExists    = errors.New("room id already exists")
	ErrRoomNotFound  = errors.New("room not found")
	ErrInvalidRoomID = errors.New("invalid room id")
)

const maxRoomIDLength = 64

// Room is the persisted record of a room. The live document is never stored.
type Room struct {
	ID        int64     `json:"-"`
	RoomID    string    `json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	// Create inserts a room record, returning ErrRoomExists when roomID is taken.
	Create(ctx context.Context, roomID string) (Room, error)
	Get(ctx context.Context, roomID string) (Room, error)
}

type Publisher interface {
	RoomCreated(ctx context.Context, room Room) error
}
