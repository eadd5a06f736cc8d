package handlers

import (
	"math"
	"time"

	"github.com/gofiber/fiber/v2"

	"result-mailer/models"
)

// StatsHandler handles GET /api/stats
// Returns record and delivery totals plus the success percentage, rounded to
// two decimals and zero when no emails were attempted.
func StatsHandler(c *fiber.Ctx) error {
	ctx, cancel := contextWithTimeout(5 * time.Second)
	defer cancel()

	totalStudents, err := resultStore.CountStudents(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get student count"})
	}
	sent, err := resultStore.CountLogsByStatus(ctx, models.StatusSent)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get email counts"})
	}
	failed, err := resultStore.CountLogsByStatus(ctx, models.StatusFailed)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get email counts"})
	}

	successRate := 0.0
	if attempts := sent + failed; attempts > 0 {
		successRate = math.Round(float64(sent)/float64(attempts)*10000) / 100
	}

	return c.JSON(fiber.Map{
		"total_students": totalStudents,
		"sent_emails":    sent,
		"failed_emails":  failed,
		"success_rate":   successRate,
	})
}

// SubjectStatsHandler handles GET /api/stats/subjects
// Returns the average score per subject across all students.
func SubjectStatsHandler(c *fiber.Ctx) error {
	ctx, cancel := contextWithTimeout(5 * time.Second)
	defer cancel()

	averages, err := resultStore.SubjectAverages(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute subject averages"})
	}

	return c.JSON(fiber.Map{"subjects": averages})
}

// ActivityHandler handles GET /api/stats/activity?days=7
// Returns successful-send counts per day.
func ActivityHandler(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 || days > 90 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Days must be between 1 and 90"})
	}

	ctx, cancel := contextWithTimeout(5 * time.Second)
	defer cancel()

	activity, err := resultStore.SentPerDay(ctx, days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch send activity"})
	}
	if activity == nil {
		activity = []models.DailyCount{}
	}

	return c.JSON(fiber.Map{
		"days":     days,
		"activity": activity,
	})
}
