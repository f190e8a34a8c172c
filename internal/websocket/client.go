package websocket

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	gwebsocket "github.com/gorilla/websocket"
	"github.com/rejdeboer/collab-server/internal/configuration"
	"github.com/rs/zerolog"
)

// Client is a Connection backed by a gorilla websocket. It is bound to a
// single room for its whole lifetime.
type Client struct {
	Hub    *Hub
	RoomID string
	Conn   *gwebsocket.Conn
	Log    zerolog.Logger

	id       string
	settings configuration.WebsocketSettings

	// gorilla allows one concurrent writer. Close must not take writeMu so
	// that it can interrupt a write stalled on a peer that stopped reading.
	writeMu sync.Mutex
	closed  atomic.Bool
}

func NewClient(hub *Hub, conn *gwebsocket.Conn, roomID string, settings configuration.WebsocketSettings, log zerolog.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		Hub:      hub,
		RoomID:   roomID,
		Conn:     conn,
		Log:      log.With().Str("room_id", roomID).Str("conn_id", id).Logger(),
		id:       id,
		settings: settings,
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) Send(payload string) error {
	if c.closed.Load() {
		return errConnectionClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.settings.WriteTimeout > 0 {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(c.settings.WriteTimeout)); err != nil {
			return err
		}
	}
	return c.Conn.WriteMessage(gwebsocket.TextMessage, []byte(payload))
}

// Close closes the underlying transport, unblocking a pending read and any
// write in progress.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.Conn.Close()
}

// Serve joins the client's room and relays every inbound payload to the
// other members until the transport closes or ctx is cancelled. The client
// always leaves the room and closes its transport before Serve returns.
func (c *Client) Serve(ctx context.Context) error {
	defer c.Close()

	if _, err := c.Hub.Join(c.RoomID, c); err != nil {
		return err
	}
	defer c.Hub.Leave(c.RoomID, c)

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()
	go c.pingPump(done)

	err := c.ReadPump()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// ReadPump reads text payloads one at a time and broadcasts each of them
// before reading the next. It returns nil on a normal close.
func (c *Client) ReadPump() error {
	if c.settings.MaxMessageBytes > 0 {
		c.Conn.SetReadLimit(c.settings.MaxMessageBytes)
	}
	if c.settings.PongTimeout > 0 {
		c.Conn.SetReadDeadline(time.Now().Add(c.settings.PongTimeout))
		c.Conn.SetPongHandler(func(string) error {
			return c.Conn.SetReadDeadline(time.Now().Add(c.settings.PongTimeout))
		})
	}

	for {
		messageType, data, err := c.Conn.ReadMessage()
		if err != nil {
			if isNormalClose(err) {
				c.Log.Info().Msg("websocket disconnected")
				return nil
			}
			c.Log.Warn().Err(err).Msg("websocket read error")
			return err
		}

		if messageType != gwebsocket.TextMessage {
			c.closeWith(gwebsocket.CloseUnsupportedData, "text frames only")
			return errUnsupportedMessage
		}
		if !utf8.Valid(data) {
			c.closeWith(gwebsocket.CloseInvalidFramePayloadData, "invalid utf-8")
			return errInvalidUTF8
		}

		c.Log.Debug().Int("bytes", len(data)).Msg("received update")
		c.Hub.Broadcast(c.RoomID, c, string(data))
	}
}

func (c *Client) pingPump(done <-chan struct{}) {
	if c.settings.PingInterval <= 0 {
		return
	}

	ticker := time.NewTicker(c.settings.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var deadline time.Time
			if c.settings.WriteTimeout > 0 {
				deadline = time.Now().Add(c.settings.WriteTimeout)
			}
			if err := c.Conn.WriteControl(gwebsocket.PingMessage, nil, deadline); err != nil {
				c.Log.Debug().Err(err).Msg("ping failed")
				c.Close()
				return
			}
		case <-done:
			return
		}
	}
}

func (c *Client) closeWith(code int, text string) {
	deadline := time.Now().Add(time.Second)
	_ = c.Conn.WriteControl(gwebsocket.CloseMessage, gwebsocket.FormatCloseMessage(code, text), deadline)
}

func isNormalClose(err error) bool {
	if gwebsocket.IsCloseError(err,
		gwebsocket.CloseNormalClosure,
		gwebsocket.CloseGoingAway,
		gwebsocket.CloseNoStatusReceived,
	) {
		return true
	}
	return errors.Is(err, net.ErrClosed)
}
