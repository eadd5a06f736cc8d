package models

import "time"

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// EmailLog is one delivery attempt. Rows are append-only.
type EmailLog struct {
	ID           int       `json:"id"`
	StudentID    string    `json:"student_id"`
	Email        string    `json:"email"`
	Status       string    `json:"status"`
	ErrorMessage *string   `json:"error_message"`
	BatchID      string    `json:"batch_id"`
	SentAt       time.Time `json:"sent_at"`
}
