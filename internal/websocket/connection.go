package websocket

import (
	"errors"
	"fmt"
)

var (
	// ErrConnect is returned by Hub.Join when the room's current document
	// could not be delivered to the joining connection.
	ErrConnect     = errors.New("initial state delivery failed")
	ErrEmptyRoomID = errors.New("room id must not be empty")
	ErrHubClosed   = errors.New("hub is closed")

	errConnectionClosed   = errors.New("connection closed")
	errUnsupportedMessage = errors.New("unsupported message type")
	errInvalidUTF8        = errors.New("payload is not valid utf-8")
)

// Connection is one participant's duplex text channel as seen by the Hub.
// Send must fail once the underlying transport is closed or broken.
type Connection interface {
	ID() string
	Send(payload string) error
	Close() error
}

// DeliveryError describes a failed delivery to a single room member during
// a broadcast. It is logged by the Hub and never returned to the sender.
type DeliveryError struct {
	RoomID       string
	ConnectionID string
	Err          error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s in room %s failed: %v", e.ConnectionID, e.RoomID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
