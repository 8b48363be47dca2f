package controller

import (
	"github.com/gofiber/fiber/v2"

	"miniapp-gateway/internal/dto"
	"miniapp-gateway/internal/pkg/serverutils"
	"miniapp-gateway/internal/service"
)

type IShareController interface {
	RegisterRoutes(r fiber.Router)
	Share(ctx *fiber.Ctx) error
	ShareReferral(ctx *fiber.Ctx) error
	ReferralLinks(ctx *fiber.Ctx) error
}

type shareController struct {
	service service.IShareService
}

func NewShareController(service service.IShareService) IShareController {
	return &shareController{service: service}
}

func (c *shareController) RegisterRoutes(r fiber.Router) {
	r.Post("/share", c.Share)
	r.Post("/share/referral", c.ShareReferral)
	r.Post("/referral/link", c.ReferralLinks)
}

func (c *shareController) Share(ctx *fiber.Ctx) error {
	id, err := deviceID(ctx)
	if err != nil {
		return err
	}
	var req dto.ShareRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Share(ctx.UserContext(), id, &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Share finished", res))
}

func (c *shareController) ShareReferral(ctx *fiber.Ctx) error {
	id, err := deviceID(ctx)
	if err != nil {
		return err
	}
	var req dto.ReferralShareRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ShareReferral(ctx.UserContext(), id, &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Share finished", res))
}

func (c *shareController) ReferralLinks(ctx *fiber.Ctx) error {
	id, err := deviceID(ctx)
	if err != nil {
		return err
	}
	var req dto.ReferralLinkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ReferralLinks(ctx.UserContext(), id, &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Referral links", res))
}
