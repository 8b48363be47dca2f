package websocket

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

// Client is a middleman between one device connection and the hub.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	DeviceID uuid.UUID

	// Buffered channel of outbound frames. Only the hub closes it.
	Send chan []byte

	// done is closed once the hub has dropped the client.
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, deviceID uuid.UUID) *Client {
	return &Client{
		Hub:      hub,
		Conn:     conn,
		DeviceID: deviceID,
		Send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
	}
}

// readPump feeds incoming frames to the hub until the connection breaks.
func (c *Client) readPump() {
	defer func() {
		c.Hub.drop(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Hub", "Unexpected close", map[string]interface{}{"device_id": c.DeviceID, "error": err.Error()})
			}
			return
		}
		c.Hub.handleMessage(c, raw)
	}
}

// writePump sends each queued frame as its own text message and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
