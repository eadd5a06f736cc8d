// Package ingest parses uploaded score spreadsheets into validated student
// result drafts. Parsing is a pure transform: persistence is up to the caller.
package ingest

import (
	"crypto/rand"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"result-mailer/grading"
	"result-mailer/models"
)

// RequiredColumns must all be present in the header row of an upload.
var RequiredColumns = []string{
	"first_name",
	"last_name",
	"email",
	"class",
	"final_english",
	"final_english_it",
	"final_pl",
	"final_algorithm",
	"final_web_design",
	"final_git",
}

const (
	commentsColumn = "comments"

	// DefaultComment fills the comments field when the column is absent or
	// the cell is blank.
	DefaultComment = "Good work! Keep it up."
)

// ValidationError describes a rejected upload: wrong file type, missing
// columns, or a cell that cannot be coerced to a number.
type ValidationError struct {
	MissingColumns []string
	Row            int // 1-based data row, 0 when not row-specific
	Field          string
	Reason         string
}

func (e *ValidationError) Error() string {
	if len(e.MissingColumns) > 0 {
		return "missing required columns: " + strings.Join(e.MissingColumns, ", ")
	}
	if e.Row > 0 {
		return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Field, e.Reason)
	}
	return e.Reason
}

// Parse reads a CSV or XLSX upload and returns one StudentResult draft per
// row, each with a generated student id, computed total, and computed grade.
func Parse(filename string, r io.Reader, allowedExtensions []string) ([]models.StudentResult, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !extensionAllowed(ext, allowedExtensions) {
		return nil, &ValidationError{Reason: fmt.Sprintf("invalid file type %q, allowed: %s", ext, strings.Join(allowedExtensions, ", "))}
	}

	var rows [][]string
	var err error
	if ext == "csv" {
		rows, err = readCSV(r)
	} else {
		rows, err = readXLSX(r)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &ValidationError{Reason: "file contains no rows"}
	}

	columns := headerIndex(rows[0])
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{MissingColumns: missing}
	}

	var students []models.StudentResult
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rowNum := i + 1

		scores := make(map[string]float64, len(models.SubjectColumns))
		for _, col := range models.SubjectColumns {
			raw := cell(row, columns[col])
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, &ValidationError{Row: rowNum, Field: col, Reason: fmt.Sprintf("value %q is not a number", raw)}
			}
			scores[col] = v
		}

		total := 0.0
		for _, v := range scores {
			total += v
		}

		comments := DefaultComment
		if idx, ok := columns[commentsColumn]; ok {
			if c := strings.TrimSpace(cell(row, idx)); c != "" {
				comments = c
			}
		}

		students = append(students, models.StudentResult{
			StudentID:      NewStudentID(),
			FirstName:      strings.TrimSpace(cell(row, columns["first_name"])),
			LastName:       strings.TrimSpace(cell(row, columns["last_name"])),
			Email:          strings.TrimSpace(cell(row, columns["email"])),
			ClassName:      strings.TrimSpace(cell(row, columns["class"])),
			FinalEnglish:   scores["final_english"],
			FinalEnglishIT: scores["final_english_it"],
			FinalPL:        scores["final_pl"],
			FinalAlgorithm: scores["final_algorithm"],
			FinalWebDesign: scores["final_web_design"],
			FinalGit:       scores["final_git"],
			Total:          total,
			Grade:          grading.Grade(total),
			Comments:       comments,
		})
	}

	return students, nil
}

// NewStudentID generates an identifier like STU1A2B3C4D.
func NewStudentID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return "STU" + strings.ToUpper(hex.EncodeToString(b))
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("unreadable CSV file: %v", err)}
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("unreadable spreadsheet: %v", err)}
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("unreadable spreadsheet: %v", err)}
	}
	return rows, nil
}

func headerIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return columns
}

// cell tolerates short rows, which excelize produces for trailing empty cells.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
