// Package grading maps aggregate exam scores to letter grades and the
// matching encouragement line used in result emails.
package grading

// Grade maps a total score to a letter grade. Boundary values land in the
// higher band.
func Grade(total float64) string {
	switch {
	case total >= 90:
		return "A"
	case total >= 80:
		return "B"
	case total >= 70:
		return "C"
	case total >= 60:
		return "D"
	default:
		return "F"
	}
}

// Message returns the encouragement line for a total score, banded by the
// same thresholds as Grade.
func Message(total float64) string {
	switch {
	case total >= 90:
		return "Outstanding performance! You have demonstrated exceptional understanding of the subject."
	case total >= 80:
		return "Excellent work! You have shown great proficiency in the subject."
	case total >= 70:
		return "Good job! You have a solid understanding of the material."
	case total >= 60:
		return "Satisfactory performance. Consider reviewing areas for improvement."
	default:
		return "We encourage you to meet with your instructor to discuss improvement strategies."
	}
}
