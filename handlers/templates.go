package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// GetTemplateHandler handles GET /api/templates/default
func GetTemplateHandler(c *fiber.Ctx) error {
	ctx, cancel := contextWithTimeout(3 * time.Second)
	defer cancel()

	tmpl, err := resultStore.DefaultTemplate(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load default template"})
	}
	return c.JSON(tmpl)
}

type updateTemplateRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// UpdateTemplateHandler handles PUT /api/templates/default
func UpdateTemplateHandler(c *fiber.Ctx) error {
	var req updateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Subject) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "subject is required"})
	}
	if strings.TrimSpace(req.Body) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body is required"})
	}

	ctx, cancel := contextWithTimeout(3 * time.Second)
	defer cancel()

	tmpl, err := resultStore.UpdateDefaultTemplate(ctx, req.Subject, req.Body)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update default template"})
	}
	return c.JSON(tmpl)
}
