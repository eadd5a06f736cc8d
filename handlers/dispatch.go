package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type dispatchRequest struct {
	BatchSize int `json:"batch_size"`
}

// DispatchHandler handles POST /api/mail/dispatch
// Sends the results notice to pending students in one rate-limited batch.
func DispatchHandler(c *fiber.Ctx) error {
	var req dispatchRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}
	if req.BatchSize <= 0 {
		req.BatchSize = cfg.BatchSize
	}

	// The whole batch runs synchronously within this request.
	ctx, cancel := contextWithTimeout(5 * time.Minute)
	defer cancel()

	result, err := dispatcher.Dispatch(ctx, req.BatchSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to send emails",
			"details": err.Error(),
		})
	}

	return c.JSON(result)
}
