package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/specgraph/pkg/spec"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error code and message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// httpStatus maps an error code to the HTTP status returned for it.
func httpStatus(code string) int {
	switch code {
	case spec.CodeInvalidArgument:
		return fiber.StatusBadRequest
	case spec.CodeDuplicateID:
		return fiber.StatusConflict
	case spec.CodeNotFound:
		return fiber.StatusNotFound
	case spec.CodeCyclicDependency:
		return fiber.StatusUnprocessableEntity
	case spec.CodeResourceExhausted:
		return fiber.StatusInsufficientStorage
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) sendError(c *fiber.Ctx, err error) error {
	code := spec.ErrorCode(err)
	status := httpStatus(code)
	if status == fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			"path", c.Path(),
			"error", err,
		)
	}
	return c.Status(status).JSON(ErrorResponse{
		Error: ErrorBody{Code: code, Message: err.Error()},
	})
}
