package errors

import (
	"errors"

	"github.com/Kha-Noob/liteflow-sub002/internal/api/contract"
	"github.com/Kha-Noob/liteflow-sub002/internal/constants"
	"github.com/Kha-Noob/liteflow-sub002/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(contract.Failure(fiberCode(fiberErr.Code), fiberErr.Message))
		}

		logger.Error("Unhandled request error",
			zap.String("path", c.Path()),
			zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(
			contract.Failure(constants.ErrCodeInternalError, constants.ErrMsgInternalError))
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	return c.Status(constants.GetHTTPStatus(err.Code)).JSON(
		contract.Failure(err.Code, constants.GetErrorMessage(err.Code)))
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return constants.ErrCodeInvalidRequestBody
	default:
		return constants.ErrCodeInternalError
	}
}
