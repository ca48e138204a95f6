package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/playgrid/sudoku-together/internal/dependencies/clock"
	"github.com/playgrid/sudoku-together/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Interval of the liveness signal sent to each connection
	heartbeatPeriod = 30 * time.Second

	// Maximum inbound frame size
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is one websocket connection subscribed to a game's room
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	gameID model.GameID

	send        chan []byte
	closed      chan struct{}
	closeOnce   sync.Once
	connectedAt time.Time
}

// NewClient wraps an upgraded connection for one game's room
func NewClient(hub *Hub, conn *websocket.Conn, gameID model.GameID, connectedAt time.Time) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		gameID:      gameID,
		send:        make(chan []byte, sendBufferSize),
		closed:      make(chan struct{}),
		connectedAt: connectedAt,
	}
}

// Send queues a message for this connection only. Best-effort: dropped if the
// buffer is full or the connection is closing.
func (c *Client) Send(message []byte) {
	select {
	case <-c.closed:
	case c.send <- message:
	default:
	}
}

// SendEvent marshals and queues an outbound event for this connection only
func (c *Client) SendEvent(event any) {
	c.Send(mustMarshal(event))
}

// readPump consumes inbound frames and hands them to dispatch until the
// connection drops, then deregisters from the hub. Runs on the request
// goroutine.
func (c *Client) readPump(dispatch func(client *Client, raw []byte)) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		dispatch(c, raw)
	}
}

// writePump drains the send buffer onto the wire and emits the periodic
// heartbeat. The ticker is stopped exactly once, when the connection tears
// down.
func (c *Client) writePump(clk clock.Clock) {
	ticker := time.NewTicker(heartbeatPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			hb := mustMarshal(HeartbeatEvent{Type: TypeHeartbeat, Timestamp: clk.Now()})
			if err := c.conn.WriteMessage(websocket.TextMessage, hb); err != nil {
				return
			}
		case <-c.closed:
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
