package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"miniapp-gateway/internal/pkg/serverutils"
	"miniapp-gateway/internal/service"
)

type ITaskController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
	Click(ctx *fiber.Ctx) error
}

type taskController struct {
	service service.ITaskService
}

func NewTaskController(service service.ITaskService) ITaskController {
	return &taskController{service: service}
}

func (c *taskController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/tasks", auth)
	h.Get("/", c.List)
	h.Post("/refresh", c.Refresh)
	h.Post("/:id/click", c.Click)
}

func (c *taskController) List(ctx *fiber.Ctx) error {
	id, err := deviceID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.List(ctx.UserContext(), id)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Tasks", res))
}

func (c *taskController) Refresh(ctx *fiber.Ctx) error {
	id, err := deviceID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.Refresh(ctx.UserContext(), id)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Tasks", res))
}

func (c *taskController) Click(ctx *fiber.Ctx) error {
	id, err := deviceID(ctx)
	if err != nil {
		return err
	}
	taskID, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid task id"))
	}

	res, err := c.service.Click(ctx.UserContext(), id, taskID)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Task checked", res))
}
