package handlers

import (
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/taskvault/taskvault/internal/store"
)

// HealthHandler handles health check operations
type HealthHandler struct {
	store     *store.FileStore
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(fileStore *store.FileStore, version string) *HealthHandler {
	return &HealthHandler{
		store:     fileStore,
		startTime: time.Now(),
		version:   version,
	}
}

// Check reports whether the snapshot file is reachable. The body carries
// only a status string so probes stay trivial to evaluate.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.store.Ping(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "unhealthy",
		})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

// Liveness is a simple liveness probe
func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// Readiness checks if the service is ready to accept traffic
func (h *HealthHandler) Readiness(c *fiber.Ctx) error {
	if err := h.store.Ping(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":    "not ready",
			"timestamp": time.Now(),
		})
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return c.JSON(fiber.Map{
		"status":     "ready",
		"version":    h.version,
		"uptime":     time.Since(h.startTime).String(),
		"goroutines": runtime.NumGoroutine(),
		"timestamp":  time.Now(),
	})
}
