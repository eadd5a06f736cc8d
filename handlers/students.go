package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"result-mailer/models"
)

// ListStudentsHandler handles GET /api/students?page=1&page_size=20&status=all
// Status filters by notification state: all, sent, or unsent.
func ListStudentsHandler(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)
	status := c.Query("status", "all")

	if page < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Page must be at least 1"})
	}
	if pageSize < 1 || pageSize > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Page size must be between 1 and 100"})
	}
	if status != "all" && status != "sent" && status != "unsent" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Status must be one of: all, sent, unsent"})
	}

	ctx, cancel := contextWithTimeout(5 * time.Second)
	defer cancel()

	students, total, err := resultStore.PaginateStudents(ctx, status, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch students"})
	}
	if students == nil {
		students = []models.StudentResult{}
	}

	return c.JSON(fiber.Map{
		"students":  students,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"count":     len(students),
	})
}

// SearchStudentsHandler handles GET /api/students/search?email=term
// Supports partial search (finds emails containing the search term).
func SearchStudentsHandler(c *fiber.Ctx) error {
	term := c.Query("email")
	if strings.TrimSpace(term) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email query parameter is required"})
	}

	ctx, cancel := contextWithTimeout(3 * time.Second)
	defer cancel()

	emails, err := resultStore.SearchEmails(ctx, term, 50)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to search emails"})
	}
	if len(emails) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No emails found"})
	}

	return c.JSON(fiber.Map{
		"count":  len(emails),
		"emails": emails,
	})
}
