package models

import "time"

// EmailTemplate holds the subject and HTML body patterns for the results
// notice. Exactly one template is flagged as default at any time.
type EmailTemplate struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
