package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniapp-gateway/internal/pkg/logger"
	"miniapp-gateway/internal/pkg/serverutils"
	internalWS "miniapp-gateway/internal/websocket"
)

func TestServeWsRequiresUpgrade(t *testing.T) {
	log := logger.NewNopLogger()
	h := NewBridgeHandler(internalWS.NewHub(nil, log, time.Second), log)

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler})
	api := app.Group("/api", serverutils.DeviceMiddleware(false))
	h.RegisterRoutes(api)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestServeWsRequiresDevice(t *testing.T) {
	log := logger.NewNopLogger()
	h := NewBridgeHandler(internalWS.NewHub(nil, log, time.Second), log)

	app := fiber.New()
	h.RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
