package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"miniapp-gateway/internal/pkg/logger"
	"miniapp-gateway/internal/pkg/serverutils"
	internalWS "miniapp-gateway/internal/websocket"
)

type BridgeHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewBridgeHandler(hub *internalWS.Hub, log logger.ILogger) *BridgeHandler {
	return &BridgeHandler{hub: hub, logger: log}
}

func (h *BridgeHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws", h.ServeWs)
}

// ServeWs upgrades the device's bridge socket. The device is the one
// resolved by the device middleware from the cookie or the "device" query.
func (h *BridgeHandler) ServeWs(c *fiber.Ctx) error {
	deviceID, ok := serverutils.DeviceID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Missing device"))
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("BridgeHandler", "Starting bridge session", map[string]interface{}{"device_id": deviceID})
			internalWS.ServeWs(h.hub, conn, deviceID)
			h.logger.Info("BridgeHandler", "Bridge session ended", map[string]interface{}{"device_id": deviceID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
