package models

import "time"

// SubjectColumns lists the six score columns in upload order.
var SubjectColumns = []string{
	"final_english",
	"final_english_it",
	"final_pl",
	"final_algorithm",
	"final_web_design",
	"final_git",
}

type StudentResult struct {
	ID             int        `json:"id"`
	StudentID      string     `json:"student_id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	ClassName      string     `json:"class_name"`
	FinalEnglish   float64    `json:"final_english"`
	FinalEnglishIT float64    `json:"final_english_it"`
	FinalPL        float64    `json:"final_pl"`
	FinalAlgorithm float64    `json:"final_algorithm"`
	FinalWebDesign float64    `json:"final_web_design"`
	FinalGit       float64    `json:"final_git"`
	Total          float64    `json:"total"`
	Grade          string     `json:"grade"`
	Comments       string     `json:"comments"`
	Notified       bool       `json:"notified"`
	NotifiedAt     *time.Time `json:"notified_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// FullName returns the student's display name used in emails.
func (s StudentResult) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Scores returns the six subject scores in SubjectColumns order.
func (s StudentResult) Scores() []float64 {
	return []float64{
		s.FinalEnglish,
		s.FinalEnglishIT,
		s.FinalPL,
		s.FinalAlgorithm,
		s.FinalWebDesign,
		s.FinalGit,
	}
}

type SubjectAverage struct {
	Subject string  `json:"subject"`
	Average float64 `json:"average"`
}

type DailyCount struct {
	Day  time.Time `json:"day"`
	Sent int       `json:"sent"`
}
