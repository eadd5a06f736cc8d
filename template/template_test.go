package template

import (
	"strings"
	"testing"

	"result-mailer/models"
)

func sampleStudent() models.StudentResult {
	return models.StudentResult{
		StudentID:      "STU12345678",
		FirstName:      "Dara",
		LastName:       "Chan",
		Email:          "dara@example.com",
		ClassName:      "WEP-A",
		FinalEnglish:   80,
		FinalEnglishIT: 75,
		FinalPL:        90,
		FinalAlgorithm: 85,
		FinalWebDesign: 70,
		FinalGit:       95,
		Total:          495,
		Grade:          "A",
		Comments:       "Good work! Keep it up.",
	}
}

func TestRender_SubstitutesRecognizedTokens(t *testing.T) {
	tmpl := models.EmailTemplate{
		Subject: "Results for {{full_name}} ({{class}})",
		Body:    "Dear {{first_name}} {{last_name}}, total {{total}}, grade {{grade}}. {{comments}}",
	}

	subject, body := Render(tmpl, sampleStudent())

	if subject != "Results for Dara Chan (WEP-A)" {
		t.Errorf("subject: got %q", subject)
	}
	want := "Dear Dara Chan, total 495, grade A. Good work! Keep it up."
	if body != want {
		t.Errorf("body: got %q, want %q", body, want)
	}
}

func TestRender_SubjectScores(t *testing.T) {
	tmpl := models.EmailTemplate{
		Body: "{{final_english}}|{{final_english_it}}|{{final_pl}}|{{final_algorithm}}|{{final_web_design}}|{{final_git}}",
	}

	_, body := Render(tmpl, sampleStudent())
	if body != "80|75|90|85|70|95" {
		t.Errorf("body: got %q", body)
	}
}

func TestRender_UnrecognizedTokensLeftVerbatim(t *testing.T) {
	tmpl := models.EmailTemplate{
		Subject: "{{unknown}} results",
		Body:    "Hello {{first_name}}, see {{not_a_token}}.",
	}

	subject, body := Render(tmpl, sampleStudent())

	if subject != "{{unknown}} results" {
		t.Errorf("subject: got %q", subject)
	}
	if body != "Hello Dara, see {{not_a_token}}." {
		t.Errorf("body: got %q", body)
	}
}

func TestRender_CustomMessageFollowsGradeBands(t *testing.T) {
	tmpl := models.EmailTemplate{Body: "{{custom_message}}"}

	s := sampleStudent()
	s.Total = 95
	_, high := Render(tmpl, s)
	if !strings.Contains(high, "Outstanding") {
		t.Errorf("total 95: got %q", high)
	}

	s.Total = 50
	_, low := Render(tmpl, s)
	if !strings.Contains(low, "improvement strategies") {
		t.Errorf("total 50: got %q", low)
	}
}

func TestRender_FractionalScoresKeepPrecision(t *testing.T) {
	tmpl := models.EmailTemplate{Body: "{{total}}"}
	s := sampleStudent()
	s.Total = 88.5

	_, body := Render(tmpl, s)
	if body != "88.5" {
		t.Errorf("body: got %q, want 88.5", body)
	}
}
