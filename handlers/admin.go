package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"result-mailer/db"
)

// ClearDataHandler handles POST /api/admin/clear-data
// Deletes all student records and email logs plus any pending upload sessions.
func ClearDataHandler(c *fiber.Ctx) error {
	ctx, cancel := contextWithTimeout(30 * time.Second)
	defer cancel()

	if err := resultStore.ClearAll(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to clear data",
			"details": err.Error(),
		})
	}
	uploadSessions.Clear()

	return c.JSON(fiber.Map{"message": "All data cleared successfully"})
}

// ResetDatabaseHandler handles POST /api/admin/reset-db
// WARNING: This drops all tables and re-runs migrations
func ResetDatabaseHandler(c *fiber.Ctx) error {
	if err := db.ResetDatabase(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to reset database",
			"details": err.Error(),
		})
	}
	uploadSessions.Clear()

	return c.JSON(fiber.Map{
		"message": "Database reset successfully",
		"status":  "All tables dropped and migrations re-run",
	})
}
