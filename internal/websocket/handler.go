package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs runs a device connection until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, deviceID uuid.UUID) {
	client := NewClient(hub, c, deviceID)
	if !hub.add(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
