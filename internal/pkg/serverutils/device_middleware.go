package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	DeviceCookieName = "deviceId"
	deviceLocalsKey  = "device_id"
)

// DeviceMiddleware identifies the calling webview. It takes the deviceId
// cookie, then the "device" query parameter, and otherwise issues a fresh id
// in a long-lived cookie.
func DeviceMiddleware(secure bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		raw := ctx.Cookies(DeviceCookieName)
		if raw == "" {
			raw = ctx.Query("device")
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			id = uuid.New()
		}
		if ctx.Cookies(DeviceCookieName) != id.String() {
			ctx.Cookie(&fiber.Cookie{
				Name:     DeviceCookieName,
				Value:    id.String(),
				Path:     "/",
				Expires:  time.Now().AddDate(1, 0, 0),
				Secure:   secure,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		ctx.Locals(deviceLocalsKey, id)
		return ctx.Next()
	}
}

// DeviceID returns the id set by DeviceMiddleware.
func DeviceID(ctx *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := ctx.Locals(deviceLocalsKey).(uuid.UUID)
	return id, ok
}
