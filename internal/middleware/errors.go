package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskvault/taskvault/internal/logger"
)

// StatusResponse is the uniform body for every operation outcome. Failures
// carry a human-readable status string; successes carry "ok".
type StatusResponse struct {
	Status string `json:"status"`
}

// OK returns the canonical success response
func OK(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{Status: "ok"})
}

// BadRequest returns a 400 Bad Request status response
func BadRequest(c *fiber.Ctx, status string) error {
	return statusResponse(c, fiber.StatusBadRequest, status)
}

// NotFound returns a 404 Not Found status response
func NotFound(c *fiber.Ctx, status string) error {
	return statusResponse(c, fiber.StatusNotFound, status)
}

// Conflict returns a 409 Conflict status response
func Conflict(c *fiber.Ctx, status string) error {
	return statusResponse(c, fiber.StatusConflict, status)
}

// InternalError returns a 500 Internal Server Error status response
func InternalError(c *fiber.Ctx, status string) error {
	return statusResponse(c, fiber.StatusInternalServerError, status)
}

// ServiceUnavailable returns a 503 Service Unavailable status response
func ServiceUnavailable(c *fiber.Ctx, status string) error {
	return statusResponse(c, fiber.StatusServiceUnavailable, status)
}

func statusResponse(c *fiber.Ctx, code int, status string) error {
	log := GetLogger(c)
	log.Error("Request failed",
		logger.String("status", status),
		logger.String("method", c.Method()),
		logger.String("path", c.Path()),
		logger.Int("code", code),
		logger.String("user_ip", c.IP()),
	)

	return c.Status(code).JSON(StatusResponse{Status: status})
}
