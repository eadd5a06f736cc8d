package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"result-mailer/models"
)

// ListLogsHandler handles GET /api/logs?page=1&page_size=20&status=all
// Status filters by delivery outcome: all, sent, or failed.
func ListLogsHandler(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)
	status := c.Query("status", "all")

	if page < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Page must be at least 1"})
	}
	if pageSize < 1 || pageSize > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Page size must be between 1 and 100"})
	}
	if status != "all" && status != models.StatusSent && status != models.StatusFailed {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Status must be one of: all, sent, failed"})
	}

	ctx, cancel := contextWithTimeout(5 * time.Second)
	defer cancel()

	logs, total, err := resultStore.PaginateLogs(ctx, status, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch email logs"})
	}
	if logs == nil {
		logs = []models.EmailLog{}
	}

	return c.JSON(fiber.Map{
		"logs":      logs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"count":     len(logs),
	})
}

// ExportLogsHandler handles GET /api/logs/export
// Returns every email log as a CSV attachment, newest first.
func ExportLogsHandler(c *fiber.Ctx) error {
	ctx, cancel := contextWithTimeout(30 * time.Second)
	defer cancel()

	logs, err := resultStore.AllLogs(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch email logs"})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Student ID", "Email", "Status", "Error Message", "Sent At", "Batch ID"})
	for _, entry := range logs {
		errMsg := ""
		if entry.ErrorMessage != nil {
			errMsg = *entry.ErrorMessage
		}
		_ = w.Write([]string{
			entry.StudentID,
			entry.Email,
			entry.Status,
			errMsg,
			entry.SentAt.Format("2006-01-02 15:04:05"),
			entry.BatchID,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build CSV export"})
	}

	filename := fmt.Sprintf("email_logs_%s.csv", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
