package middleware

import (
	"errors"
	"net/http"

	"github.com/Behyna/cinefund/internal/constants"
	"github.com/Behyna/cinefund/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr, logger)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(Response{
				Code:    http.StatusText(fiberErr.Code),
				Message: fiberErr.Message,
			})
		}

		logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()))

		return c.Status(fiber.StatusInternalServerError).JSON(Response{
			Code:    constants.ErrCodeInternalError,
			Message: constants.GetErrorMessage(constants.ErrCodeInternalError),
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error, logger *zap.Logger) error {
	errorCode := err.Code

	status := constants.GetHTTPStatus(errorCode)
	if status == fiber.StatusInternalServerError && err.Code != constants.ErrCodeInternalError {
		logger.Error("Service error",
			zap.String("code", err.Code),
			zap.Error(err),
			zap.String("path", c.Path()))
		errorCode = constants.ErrCodeInternalError
	}

	resp := Response{
		Code:    errorCode,
		Message: constants.GetErrorMessage(errorCode),
	}
	if status < fiber.StatusInternalServerError && err.Cause != nil {
		resp.Error = err.Cause.Error()
	}

	return c.Status(status).JSON(resp)
}
