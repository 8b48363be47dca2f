package controller

import (
	"github.com/gofiber/fiber/v2"

	"miniapp-gateway/internal/dto"
	"miniapp-gateway/internal/pkg/serverutils"
	"miniapp-gateway/internal/service"
)

type ISocialController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Frens(ctx *fiber.Ctx) error
	Invite(ctx *fiber.Ctx) error
}

type socialController struct {
	service service.ISocialService
}

func NewSocialController(service service.ISocialService) ISocialController {
	return &socialController{service: service}
}

func (c *socialController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/social", auth)
	h.Get("/frens", c.Frens)
	h.Post("/invite", c.Invite)
}

func (c *socialController) Frens(ctx *fiber.Ctx) error {
	id, err := deviceID(ctx)
	if err != nil {
		return err
	}
	var q dto.FrensQuery
	if err := ctx.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	if err := serverutils.ValidateRequest(q); err != nil {
		return err
	}

	res, err := c.service.Frens(ctx.UserContext(), id, &q)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Frens", res))
}

func (c *socialController) Invite(ctx *fiber.Ctx) error {
	id, err := deviceID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.Invite(ctx.UserContext(), id)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Invite finished", res))
}
