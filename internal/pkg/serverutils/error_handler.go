package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error escaping a handler as a BaseResponse.
// Validation errors become 400 with the field messages as data.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var verr ValidationError
	if errors.As(err, &verr) {
		return ctx.Status(fiber.StatusBadRequest).JSON(BaseResponse[[]string]{
			Code:    fiber.StatusBadRequest,
			Message: "Validation failed",
			Data:    verr.Fields,
		})
	}

	code := fiber.StatusInternalServerError
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		code = ferr.Code
	}
	return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
}
