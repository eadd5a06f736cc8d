// Package template renders the results email by substituting recognized
// {{token}} placeholders with student fields. Unrecognized placeholders are
// left verbatim.
package template

import (
	"strconv"
	"strings"

	"result-mailer/grading"
	"result-mailer/models"
)

// tokenNames fixes the recognized placeholder set and the substitution order.
var tokenNames = []string{
	"first_name",
	"last_name",
	"full_name",
	"class",
	"final_english",
	"final_english_it",
	"final_pl",
	"final_algorithm",
	"final_web_design",
	"final_git",
	"total",
	"grade",
	"comments",
	"custom_message",
}

// Render substitutes every recognized placeholder in the template's subject
// and body with the corresponding student field. Pure function, no I/O.
func Render(t models.EmailTemplate, s models.StudentResult) (subject, body string) {
	tokens := resolve(s)
	return apply(t.Subject, tokens), apply(t.Body, tokens)
}

func resolve(s models.StudentResult) map[string]string {
	return map[string]string{
		"first_name":       s.FirstName,
		"last_name":        s.LastName,
		"full_name":        s.FullName(),
		"class":            s.ClassName,
		"final_english":    formatScore(s.FinalEnglish),
		"final_english_it": formatScore(s.FinalEnglishIT),
		"final_pl":         formatScore(s.FinalPL),
		"final_algorithm":  formatScore(s.FinalAlgorithm),
		"final_web_design": formatScore(s.FinalWebDesign),
		"final_git":        formatScore(s.FinalGit),
		"total":            formatScore(s.Total),
		"grade":            s.Grade,
		"comments":         s.Comments,
		"custom_message":   grading.Message(s.Total),
	}
}

func apply(in string, tokens map[string]string) string {
	for _, name := range tokenNames {
		in = strings.ReplaceAll(in, "{{"+name+"}}", tokens[name])
	}
	return in
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
