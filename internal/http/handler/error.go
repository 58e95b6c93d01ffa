package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"linguaflow/internal/azureai"
	"linguaflow/internal/http/middleware"
)

// errorPayload defines the standardized error response body for internal routes.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_LIMIT", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeValidationError writes the bare `{error}` body the pipeline endpoints
// use for input rejected before any network call.
func writeValidationError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// statusForKind maps the pipeline error taxonomy onto HTTP statuses.
func statusForKind(kind azureai.Kind) int {
	switch kind {
	case azureai.KindValidation:
		return fiber.StatusBadRequest
	case azureai.KindAuth:
		return fiber.StatusUnauthorized
	case azureai.KindQuotaExceeded:
		return fiber.StatusPaymentRequired
	default:
		return fiber.StatusInternalServerError
	}
}

// writeAPIError reports a pipeline failure with the machine-readable code and
// a timestamp alongside the displayable message.
func writeAPIError(c *fiber.Ctx, err error) error {
	kind := azureai.KindOf(err)
	return c.Status(statusForKind(kind)).JSON(fiber.Map{
		"error":     azureai.MessageOf(err),
		"code":      string(kind),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
