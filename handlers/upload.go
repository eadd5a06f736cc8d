package handlers

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"result-mailer/ingest"
	"result-mailer/utils"
)

// UploadHandler handles POST /api/upload
// Parses the uploaded score file and stores the rows in a preview session.
func UploadHandler(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file selected"})
	}
	if fileHeader.Size > int64(cfg.MaxContentLength) {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "File too large. Please upload a smaller file.",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read uploaded file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read uploaded file"})
	}

	students, err := ingest.Parse(fileHeader.Filename, bytes.NewReader(data), cfg.AllowedExtensions)
	if err != nil {
		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			resp := fiber.Map{"error": verr.Error()}
			if len(verr.MissingColumns) > 0 {
				resp["missing_columns"] = verr.MissingColumns
			}
			return c.Status(fiber.StatusBadRequest).JSON(resp)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process file"})
	}
	if len(students) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File contains no student rows"})
	}

	saveUploadCopy(fileHeader.Filename, data)

	sessionID := uploadSessions.Put(students)
	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"count":      len(students),
		"students":   students,
	})
}

// saveUploadCopy keeps a timestamped copy of the raw upload for auditing.
// Failures are logged but never fail the request.
func saveUploadCopy(filename string, data []byte) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Printf("Failed to create upload directory: %v", err)
		return
	}
	name := utils.TimestampedFilename(filename, time.Now())
	if err := os.WriteFile(filepath.Join(cfg.UploadDir, name), data, 0o644); err != nil {
		log.Printf("Failed to save upload copy %s: %v", name, err)
	}
}

// PreviewHandler handles GET /api/upload/preview/:id
func PreviewHandler(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	students, ok := uploadSessions.Get(sessionID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No data to preview. Please upload a file first."})
	}
	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"count":      len(students),
		"students":   students,
	})
}

type commitRequest struct {
	SessionID string `json:"session_id"`
}

// CommitHandler handles POST /api/upload/commit
// Upserts all previewed rows into the result store, one record per email.
func CommitHandler(c *fiber.Ctx) error {
	var req commitRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.SessionID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id is required"})
	}

	students, ok := uploadSessions.Get(req.SessionID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No data to commit. Please upload a file first."})
	}

	ctx, cancel := contextWithTimeout(30 * time.Second)
	defer cancel()

	for _, student := range students {
		if err := resultStore.UpsertByEmail(ctx, student); err != nil {
			log.Printf("Failed to save student %s: %v", student.Email, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save student records"})
		}
	}

	uploadSessions.Delete(req.SessionID)
	return c.JSON(fiber.Map{
		"message":  "Student records saved",
		"imported": len(students),
	})
}
