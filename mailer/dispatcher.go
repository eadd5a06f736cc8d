package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"result-mailer/models"
	"result-mailer/template"
)

// maxReportedErrors caps the error list returned from one dispatch run.
const maxReportedErrors = 10

// ResultStore is the slice of the store the dispatcher needs.
type ResultStore interface {
	DefaultTemplate(ctx context.Context) (models.EmailTemplate, error)
	FindPending(ctx context.Context, limit int) ([]models.StudentResult, error)
	MarkNotified(ctx context.Context, id int, at time.Time) error
	AppendLog(ctx context.Context, entry models.EmailLog) error
}

// Result summarizes one dispatch run.
type Result struct {
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	BatchID string   `json:"batch_id"`
	Errors  []string `json:"errors,omitempty"`
	Message string   `json:"message"`
}

func (r *Result) addError(msg string) {
	if len(r.Errors) < maxReportedErrors {
		r.Errors = append(r.Errors, msg)
	}
}

// Dispatcher sends the results notice to pending students in batches.
//
// Two overlapping dispatch runs may read the same pending set and double-send;
// there is no per-record claim step. Callers are expected to run one dispatch
// at a time.
type Dispatcher struct {
	store   ResultStore
	sender  Sender
	limiter *Limiter
	pause   time.Duration
	now     func() time.Time
}

func NewDispatcher(store ResultStore, sender Sender, limiter *Limiter) *Dispatcher {
	return &Dispatcher{
		store:   store,
		sender:  sender,
		limiter: limiter,
		pause:   100 * time.Millisecond,
		now:     time.Now,
	}
}

// Dispatch sends the default-template notice to up to batchSize pending
// students, oldest first. Delivery failures are logged per student and never
// abort the batch; store failures propagate and abort the remainder.
func (d *Dispatcher) Dispatch(ctx context.Context, batchSize int) (Result, error) {
	result := Result{BatchID: uuid.New().String()}

	if batchSize <= 0 {
		result.Message = "No students to send emails to"
		return result, nil
	}

	pending, err := d.store.FindPending(ctx, batchSize)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch pending students: %w", err)
	}
	if len(pending) == 0 {
		result.Message = "No students to send emails to"
		return result, nil
	}

	tmpl, err := d.store.DefaultTemplate(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load default template: %w", err)
	}

	for i, student := range pending {
		if !d.limiter.Allow() {
			result.addError("rate limit exceeded")
			break
		}

		subject, body := template.Render(tmpl, student)
		sendErr := d.sender.Send(ctx, Message{
			To:       student.Email,
			ToName:   student.FullName(),
			Subject:  subject,
			HTMLBody: body,
		})

		now := d.now()
		if sendErr != nil {
			result.Failed++
			result.addError(fmt.Sprintf("%s: %v", student.Email, sendErr))

			errMsg := sendErr.Error()
			if err := d.store.AppendLog(ctx, models.EmailLog{
				StudentID:    student.StudentID,
				Email:        student.Email,
				Status:       models.StatusFailed,
				ErrorMessage: &errMsg,
				BatchID:      result.BatchID,
				SentAt:       now,
			}); err != nil {
				return Result{}, fmt.Errorf("failed to log delivery failure: %w", err)
			}
			continue
		}

		if err := d.store.MarkNotified(ctx, student.ID, now); err != nil {
			return Result{}, fmt.Errorf("failed to mark student %s notified: %w", student.StudentID, err)
		}
		if err := d.store.AppendLog(ctx, models.EmailLog{
			StudentID: student.StudentID,
			Email:     student.Email,
			Status:    models.StatusSent,
			BatchID:   result.BatchID,
			SentAt:    now,
		}); err != nil {
			return Result{}, fmt.Errorf("failed to log delivery: %w", err)
		}
		result.Sent++

		// Small delay to avoid overwhelming the mail server
		if d.pause > 0 && i < len(pending)-1 {
			time.Sleep(d.pause)
		}
	}

	result.Message = fmt.Sprintf("Emails sent: %d successful, %d failed", result.Sent, result.Failed)
	return result, nil
}
