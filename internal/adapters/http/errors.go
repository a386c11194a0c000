package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, provider_error, internal_error
	Message   string `json:"message"` // Human-readable message
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errBadGateway returns a 502 error for geo provider failures.
func errBadGateway(c *fiber.Ctx, msg string) error {
	return newError(c, 502, "provider_error", msg)
}

// errValidation returns a 400 error naming the offending field.
func errValidation(c *fiber.Ctx, verr *domain.ValidationError) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(400).JSON(APIError{
		Status:    400,
		Code:      "bad_request",
		Message:   verr.Error(),
		Field:     verr.Field,
		RequestID: reqID,
	})
}

// handleError maps domain errors to HTTP responses. notFoundMsg is used
// for domain.ErrNotFound.
func handleError(c *fiber.Ctx, err error, notFoundMsg string) error {
	var (
		verr *domain.ValidationError
		perr *domain.ProviderError
	)
	switch {
	case errors.As(err, &verr):
		return errValidation(c, verr)
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, notFoundMsg)
	case errors.As(err, &perr):
		LoggerFromCtx(c.UserContext()).Warn("geo provider failure", "op", perr.Op, "status", perr.StatusCode, "error", perr.Err)
		return errBadGateway(c, "geo provider request failed")
	default:
		LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
		return errInternal(c, "internal server error")
	}
}
