package serverutils

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"miniapp-gateway/internal/authcookie"
)

const authTokenLocalsKey = "auth_token"

// AuthCookieMiddleware admits requests whose authToken cookie (or Bearer
// header) carries a signed-in payload. With a secret the signature is
// verified as well; without one the payload alone decides, as the backend
// remains the authority on the token.
func AuthCookieMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := authcookie.TokenFromCookie(ctx.Cookies(authcookie.CookieName))
		if tokenStr == "" {
			authHeader := ctx.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				tokenStr = authHeader[7:]
			}
		}
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		if secret != "" {
			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fiber.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
			}
		}

		if !authcookie.Authenticated(tokenStr) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Not signed in"))
		}

		ctx.Locals(authTokenLocalsKey, tokenStr)
		return ctx.Next()
	}
}

// AuthToken returns the token admitted by AuthCookieMiddleware.
func AuthToken(ctx *fiber.Ctx) string {
	token, _ := ctx.Locals(authTokenLocalsKey).(string)
	return token
}

// CookieWriter adapts a Fiber response to authcookie.CookieWriter.
type CookieWriter struct {
	Ctx *fiber.Ctx
}

func (w CookieWriter) SetCookie(c *http.Cookie) {
	if v := c.String(); v != "" {
		w.Ctx.Append(fiber.HeaderSetCookie, v)
	}
}

// IsSecure reports whether the request reached us over TLS, directly or
// through a proxy.
func IsSecure(ctx *fiber.Ctx) bool {
	return ctx.Protocol() == "https" || strings.EqualFold(ctx.Get(fiber.HeaderXForwardedProto), "https")
}
