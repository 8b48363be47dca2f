package controller

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"miniapp-gateway/internal/backend"
	"miniapp-gateway/internal/pkg/serverutils"
	"miniapp-gateway/internal/platform"
	"miniapp-gateway/internal/service"
	"miniapp-gateway/internal/session"
	"miniapp-gateway/internal/share"
	"miniapp-gateway/internal/task"
)

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, session.ErrClientOnly):
		return fiber.StatusBadRequest
	case errors.Is(err, task.ErrTaskNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNoLaunchContext),
		errors.Is(err, share.ErrShareInProgress),
		errors.Is(err, task.ErrTaskClaimed),
		errors.Is(err, task.ErrCheckPending),
		errors.Is(err, task.ErrLoadInProgress),
		errors.Is(err, platform.ErrNoOpener):
		return fiber.StatusConflict
	case errors.Is(err, task.ErrInviteCancelled),
		errors.Is(err, task.ErrInviteFailed):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	case errors.As(err, &apiErr):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func writeError(ctx *fiber.Ctx, err error) error {
	code := statusFor(err)
	return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
}

func deviceID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, ok := serverutils.DeviceID(ctx)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Missing device")
	}
	return id, nil
}
