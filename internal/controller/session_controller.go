package controller

import (
	"github.com/gofiber/fiber/v2"

	"miniapp-gateway/internal/authcookie"
	"miniapp-gateway/internal/dto"
	"miniapp-gateway/internal/pkg/serverutils"
	"miniapp-gateway/internal/service"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Bootstrap(ctx *fiber.Ctx) error
	Current(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session")
	h.Get("/", c.Current)
	h.Post("/bootstrap", c.Bootstrap)
	h.Post("/logout", c.Logout)
}

// Bootstrap also mirrors the resulting token into the auth cookie. A failed
// bootstrap leaves the cookie alone.
func (c *sessionController) Bootstrap(ctx *fiber.Ctx) error {
	id, err := deviceID(ctx)
	if err != nil {
		return err
	}

	var req dto.BootstrapRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, token, err := c.service.Bootstrap(ctx.UserContext(), id, &req)
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.BaseResponse[*dto.SessionResponse]{
			Code:    code,
			Message: err.Error(),
			Data:    res,
		})
	}
	authcookie.Sync(serverutils.CookieWriter{Ctx: ctx}, token, serverutils.IsSecure(ctx))
	return ctx.JSON(serverutils.SuccessResponse("Session ready", res))
}

func (c *sessionController) Current(ctx *fiber.Ctx) error {
	id, err := deviceID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.Current(ctx.UserContext(), id)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Session", res))
}

func (c *sessionController) Logout(ctx *fiber.Ctx) error {
	id, err := deviceID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.Logout(ctx.UserContext(), id)
	if err != nil {
		return writeError(ctx, err)
	}
	ctx.Append(fiber.HeaderSetCookie, authcookie.Clear(serverutils.IsSecure(ctx)).String())
	return ctx.JSON(serverutils.SuccessResponse("Logged out", res))
}
