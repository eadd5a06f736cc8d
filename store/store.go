// Package store is the persistence layer over PostgreSQL: student results,
// the append-only email log, and email templates.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"result-mailer/models"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const studentColumns = `id, student_id, first_name, last_name, email, class_name,
	final_english, final_english_it, final_pl, final_algorithm, final_web_design, final_git,
	total, grade, comments, notified, notified_at, created_at, updated_at`

func scanStudent(row pgx.Row) (models.StudentResult, error) {
	var s models.StudentResult
	err := row.Scan(
		&s.ID, &s.StudentID, &s.FirstName, &s.LastName, &s.Email, &s.ClassName,
		&s.FinalEnglish, &s.FinalEnglishIT, &s.FinalPL, &s.FinalAlgorithm, &s.FinalWebDesign, &s.FinalGit,
		&s.Total, &s.Grade, &s.Comments, &s.Notified, &s.NotifiedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// UpsertByEmail inserts a student record, or overwrites the mutable fields of
// the existing record with the same email. The notified state and the original
// student id are left untouched on update.
func (st *Store) UpsertByEmail(ctx context.Context, s models.StudentResult) error {
	query := `
		INSERT INTO students (student_id, first_name, last_name, email, class_name,
			final_english, final_english_it, final_pl, final_algorithm, final_web_design, final_git,
			total, grade, comments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			class_name = EXCLUDED.class_name,
			final_english = EXCLUDED.final_english,
			final_english_it = EXCLUDED.final_english_it,
			final_pl = EXCLUDED.final_pl,
			final_algorithm = EXCLUDED.final_algorithm,
			final_web_design = EXCLUDED.final_web_design,
			final_git = EXCLUDED.final_git,
			total = EXCLUDED.total,
			grade = EXCLUDED.grade,
			comments = EXCLUDED.comments,
			updated_at = NOW()
	`
	_, err := st.pool.Exec(ctx, query,
		s.StudentID, s.FirstName, s.LastName, s.Email, s.ClassName,
		s.FinalEnglish, s.FinalEnglishIT, s.FinalPL, s.FinalAlgorithm, s.FinalWebDesign, s.FinalGit,
		s.Total, s.Grade, s.Comments,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert student %s: %w", s.Email, err)
	}
	return nil
}

// FindPending returns up to limit students not yet notified, oldest first.
func (st *Store) FindPending(ctx context.Context, limit int) ([]models.StudentResult, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE notified = FALSE ORDER BY created_at ASC, id ASC LIMIT $1`
	rows, err := st.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending students: %w", err)
	}
	defer rows.Close()
	return collectStudents(rows)
}

func (st *Store) MarkNotified(ctx context.Context, id int, at time.Time) error {
	query := `UPDATE students SET notified = TRUE, notified_at = $2, updated_at = NOW() WHERE id = $1`
	tag, err := st.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark student %d notified: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("student %d not found", id)
	}
	return nil
}

// AppendLog records one delivery attempt. Logs are never updated or deleted
// outside ClearAll.
func (st *Store) AppendLog(ctx context.Context, entry models.EmailLog) error {
	query := `
		INSERT INTO email_logs (student_id, email, status, error_message, batch_id, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := st.pool.Exec(ctx, query, entry.StudentID, entry.Email, entry.Status, entry.ErrorMessage, entry.BatchID, entry.SentAt)
	if err != nil {
		return fmt.Errorf("failed to append email log: %w", err)
	}
	return nil
}

func (st *Store) CountStudents(ctx context.Context) (int, error) {
	var count int
	if err := st.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

func (st *Store) CountLogsByStatus(ctx context.Context, status string) (int, error) {
	var count int
	if err := st.pool.QueryRow(ctx, `SELECT COUNT(*) FROM email_logs WHERE status = $1`, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s logs: %w", status, err)
	}
	return count, nil
}

// PaginateStudents returns one page of students, newest first, filtered by
// notification status ("all", "sent", or "unsent"), plus the filtered total.
func (st *Store) PaginateStudents(ctx context.Context, status string, page, pageSize int) ([]models.StudentResult, int, error) {
	where := ""
	switch status {
	case "sent":
		where = " WHERE notified = TRUE"
	case "unsent":
		where = " WHERE notified = FALSE"
	}

	var total int
	if err := st.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	query := `SELECT ` + studentColumns + ` FROM students` + where +
		` ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := st.pool.Query(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch students: %w", err)
	}
	defer rows.Close()

	students, err := collectStudents(rows)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// PaginateLogs returns one page of email logs, newest first, filtered by
// status ("all", "sent", or "failed"), plus the filtered total.
func (st *Store) PaginateLogs(ctx context.Context, status string, page, pageSize int) ([]models.EmailLog, int, error) {
	where := ""
	args := []any{pageSize, (page - 1) * pageSize}
	countArgs := []any{}
	if status == models.StatusSent || status == models.StatusFailed {
		where = " WHERE status = $3"
		args = append(args, status)
		countArgs = append(countArgs, status)
	}

	countWhere := ""
	if len(countArgs) > 0 {
		countWhere = " WHERE status = $1"
	}
	var total int
	if err := st.pool.QueryRow(ctx, `SELECT COUNT(*) FROM email_logs`+countWhere, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count email logs: %w", err)
	}

	query := `SELECT id, student_id, email, status, error_message, batch_id, sent_at FROM email_logs` +
		where + ` ORDER BY sent_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := st.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch email logs: %w", err)
	}
	defer rows.Close()

	logs, err := collectLogs(rows)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// AllLogs returns every email log, newest first, for the CSV export.
func (st *Store) AllLogs(ctx context.Context) ([]models.EmailLog, error) {
	query := `SELECT id, student_id, email, status, error_message, batch_id, sent_at FROM email_logs ORDER BY sent_at DESC, id DESC`
	rows, err := st.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch email logs: %w", err)
	}
	defer rows.Close()
	return collectLogs(rows)
}

// SubjectAverages returns the average score per subject across all students.
func (st *Store) SubjectAverages(ctx context.Context) ([]models.SubjectAverage, error) {
	query := `
		SELECT
			COALESCE(AVG(final_english), 0),
			COALESCE(AVG(final_english_it), 0),
			COALESCE(AVG(final_pl), 0),
			COALESCE(AVG(final_algorithm), 0),
			COALESCE(AVG(final_web_design), 0),
			COALESCE(AVG(final_git), 0)
		FROM students
	`
	values := make([]float64, len(models.SubjectColumns))
	dest := make([]any, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := st.pool.QueryRow(ctx, query).Scan(dest...); err != nil {
		return nil, fmt.Errorf("failed to compute subject averages: %w", err)
	}

	averages := make([]models.SubjectAverage, len(values))
	for i, subject := range models.SubjectColumns {
		averages[i] = models.SubjectAverage{Subject: subject, Average: values[i]}
	}
	return averages, nil
}

// SentPerDay returns successful-send counts per day for the last days days.
func (st *Store) SentPerDay(ctx context.Context, days int) ([]models.DailyCount, error) {
	query := `
		SELECT DATE_TRUNC('day', sent_at) AS day, COUNT(*)
		FROM email_logs
		WHERE status = 'sent' AND sent_at >= NOW() - make_interval(days => $1)
		GROUP BY day
		ORDER BY day DESC
	`
	rows, err := st.pool.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch send activity: %w", err)
	}
	defer rows.Close()

	var counts []models.DailyCount
	for rows.Next() {
		var c models.DailyCount
		if err := rows.Scan(&c.Day, &c.Sent); err != nil {
			return nil, fmt.Errorf("failed to scan send activity: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// DefaultTemplate returns the single template flagged as default.
func (st *Store) DefaultTemplate(ctx context.Context) (models.EmailTemplate, error) {
	query := `SELECT id, name, subject, body, is_default, created_at, updated_at FROM email_templates WHERE is_default = TRUE LIMIT 1`
	var t models.EmailTemplate
	err := st.pool.QueryRow(ctx, query).Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.EmailTemplate{}, fmt.Errorf("failed to load default template: %w", err)
	}
	return t, nil
}

// UpdateDefaultTemplate replaces the subject and body of the default template.
func (st *Store) UpdateDefaultTemplate(ctx context.Context, subject, body string) (models.EmailTemplate, error) {
	query := `
		UPDATE email_templates SET subject = $1, body = $2, updated_at = NOW()
		WHERE is_default = TRUE
		RETURNING id, name, subject, body, is_default, created_at, updated_at
	`
	var t models.EmailTemplate
	err := st.pool.QueryRow(ctx, query, subject, body).Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.EmailTemplate{}, fmt.Errorf("failed to update default template: %w", err)
	}
	return t, nil
}

// SearchEmails returns student emails partially matching the search term.
func (st *Store) SearchEmails(ctx context.Context, term string, limit int) ([]string, error) {
	query := `SELECT email FROM students WHERE email ILIKE $1 ORDER BY email LIMIT $2`
	rows, err := st.pool.Query(ctx, query, "%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

// ClearAll removes every student record and email log. Templates are kept.
func (st *Store) ClearAll(ctx context.Context) error {
	if _, err := st.pool.Exec(ctx, `DELETE FROM email_logs`); err != nil {
		return fmt.Errorf("failed to clear email logs: %w", err)
	}
	if _, err := st.pool.Exec(ctx, `DELETE FROM students`); err != nil {
		return fmt.Errorf("failed to clear students: %w", err)
	}
	return nil
}

func collectStudents(rows pgx.Rows) ([]models.StudentResult, error) {
	var students []models.StudentResult
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func collectLogs(rows pgx.Rows) ([]models.EmailLog, error) {
	var logs []models.EmailLog
	for rows.Next() {
		var l models.EmailLog
		if err := rows.Scan(&l.ID, &l.StudentID, &l.Email, &l.Status, &l.ErrorMessage, &l.BatchID, &l.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan email log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
