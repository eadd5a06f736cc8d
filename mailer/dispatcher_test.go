package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"result-mailer/models"
)

type fakeStore struct {
	pending     []models.StudentResult
	template    models.EmailTemplate
	pendingErr  error
	templateErr error
	appendErr   error
	markErr     error

	notified []int
	logs     []models.EmailLog
}

func (f *fakeStore) DefaultTemplate(ctx context.Context) (models.EmailTemplate, error) {
	return f.template, f.templateErr
}

func (f *fakeStore) FindPending(ctx context.Context, limit int) ([]models.StudentResult, error) {
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	return f.pending[:limit], nil
}

func (f *fakeStore) MarkNotified(ctx context.Context, id int, at time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.notified = append(f.notified, id)
	return nil
}

func (f *fakeStore) AppendLog(ctx context.Context, entry models.EmailLog) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.logs = append(f.logs, entry)
	return nil
}

type fakeSender struct {
	sent    []Message
	failFor map[string]error
}

func (f *fakeSender) Send(ctx context.Context, msg Message) error {
	if err, ok := f.failFor[msg.To]; ok {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func pendingStudents(n int) []models.StudentResult {
	students := make([]models.StudentResult, n)
	for i := range students {
		students[i] = models.StudentResult{
			ID:        i + 1,
			StudentID: fmt.Sprintf("STU%08d", i+1),
			FirstName: "Student",
			LastName:  fmt.Sprintf("%d", i+1),
			Email:     fmt.Sprintf("student%d@example.com", i+1),
			Total:     90,
			Grade:     "A",
		}
	}
	return students
}

func newTestDispatcher(store ResultStore, sender Sender, limit int) *Dispatcher {
	d := NewDispatcher(store, sender, NewLimiter(limit))
	d.pause = 0
	return d
}

func TestDispatch_ZeroBatchSize(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDispatcher(&fakeStore{pending: pendingStudents(3)}, sender, 100)

	result, err := d.Dispatch(context.Background(), 0)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result.Sent != 0 || result.Failed != 0 {
		t.Errorf("counts: got sent=%d failed=%d, want zeros", result.Sent, result.Failed)
	}
	if len(sender.sent) != 0 {
		t.Errorf("transport contacted for zero batch")
	}
	if result.BatchID == "" {
		t.Error("missing batch id")
	}
}

func TestDispatch_NoPending(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDispatcher(&fakeStore{}, sender, 100)

	result, err := d.Dispatch(context.Background(), 10)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result.Sent != 0 || result.Failed != 0 {
		t.Errorf("counts: got sent=%d failed=%d, want zeros", result.Sent, result.Failed)
	}
	if result.Message == "" {
		t.Error("expected a nothing-to-send message")
	}
	if len(sender.sent) != 0 {
		t.Error("transport contacted with no pending records")
	}
}

func TestDispatch_SendsAndLogs(t *testing.T) {
	store := &fakeStore{
		pending:  pendingStudents(3),
		template: models.EmailTemplate{Subject: "Results for {{full_name}}", Body: "Grade: {{grade}}"},
	}
	sender := &fakeSender{}
	d := newTestDispatcher(store, sender, 100)

	result, err := d.Dispatch(context.Background(), 10)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result.Sent != 3 || result.Failed != 0 {
		t.Errorf("counts: got sent=%d failed=%d", result.Sent, result.Failed)
	}
	if len(store.notified) != 3 {
		t.Errorf("notified: got %d, want 3", len(store.notified))
	}
	if len(store.logs) != 3 {
		t.Fatalf("logs: got %d, want 3", len(store.logs))
	}
	for _, entry := range store.logs {
		if entry.Status != models.StatusSent {
			t.Errorf("log status: got %q", entry.Status)
		}
		if entry.BatchID != result.BatchID {
			t.Errorf("log batch id: got %q, want %q", entry.BatchID, result.BatchID)
		}
	}
	if sender.sent[0].Subject != "Results for Student 1" {
		t.Errorf("rendered subject: got %q", sender.sent[0].Subject)
	}
	if sender.sent[0].HTMLBody != "Grade: A" {
		t.Errorf("rendered body: got %q", sender.sent[0].HTMLBody)
	}
}

func TestDispatch_DeliveryFailureDoesNotAbortBatch(t *testing.T) {
	store := &fakeStore{pending: pendingStudents(5)}
	sender := &fakeSender{failFor: map[string]error{
		"student2@example.com": errors.New("mailbox unavailable"),
	}}
	d := newTestDispatcher(store, sender, 100)

	result, err := d.Dispatch(context.Background(), 5)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result.Sent != 4 || result.Failed != 1 {
		t.Errorf("counts: got sent=%d failed=%d, want 4/1", result.Sent, result.Failed)
	}
	if result.Sent+result.Failed != 5 {
		t.Errorf("counts do not sum to batch size")
	}

	// The failed student keeps pending state and gets a failure log entry.
	if len(store.notified) != 4 {
		t.Errorf("notified: got %d, want 4", len(store.notified))
	}
	var failedLogs int
	for _, entry := range store.logs {
		if entry.Status == models.StatusFailed {
			failedLogs++
			if entry.ErrorMessage == nil || !strings.Contains(*entry.ErrorMessage, "mailbox unavailable") {
				t.Errorf("failure log missing error message: %+v", entry)
			}
		}
	}
	if failedLogs != 1 {
		t.Errorf("failed logs: got %d, want 1", failedLogs)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "student2@example.com") {
		t.Errorf("errors: got %v", result.Errors)
	}
}

func TestDispatch_RateLimitStopsBatchEarly(t *testing.T) {
	store := &fakeStore{pending: pendingStudents(3)}
	sender := &fakeSender{}
	d := newTestDispatcher(store, sender, 2)

	result, err := d.Dispatch(context.Background(), 3)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result.Sent != 2 {
		t.Errorf("sent: got %d, want 2", result.Sent)
	}
	if len(sender.sent) != 2 {
		t.Errorf("transport sends: got %d, want 2", len(sender.sent))
	}
	// Third student keeps pending state.
	if len(store.notified) != 2 {
		t.Errorf("notified: got %d, want 2", len(store.notified))
	}

	var sawNote bool
	for _, e := range result.Errors {
		if strings.Contains(e, "rate limit") {
			sawNote = true
		}
	}
	if !sawNote {
		t.Errorf("expected rate limit note in errors, got %v", result.Errors)
	}
}

func TestDispatch_ErrorListCappedAtTen(t *testing.T) {
	store := &fakeStore{pending: pendingStudents(15)}
	failFor := make(map[string]error, 15)
	for i := 1; i <= 15; i++ {
		failFor[fmt.Sprintf("student%d@example.com", i)] = errors.New("boom")
	}
	d := newTestDispatcher(store, &fakeSender{failFor: failFor}, 100)

	result, err := d.Dispatch(context.Background(), 15)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result.Failed != 15 {
		t.Errorf("failed: got %d, want 15", result.Failed)
	}
	if len(result.Errors) != maxReportedErrors {
		t.Errorf("errors: got %d, want %d", len(result.Errors), maxReportedErrors)
	}
	// Every attempt is still logged even when the error list is capped.
	if len(store.logs) != 15 {
		t.Errorf("logs: got %d, want 15", len(store.logs))
	}
}

func TestDispatch_StoreFailurePropagates(t *testing.T) {
	store := &fakeStore{
		pending:   pendingStudents(3),
		appendErr: errors.New("connection refused"),
	}
	d := newTestDispatcher(store, &fakeSender{}, 100)

	_, err := d.Dispatch(context.Background(), 3)
	if err == nil {
		t.Fatal("expected store failure to propagate")
	}
}

func TestDispatch_PendingFetchFailurePropagates(t *testing.T) {
	store := &fakeStore{pendingErr: errors.New("connection refused")}
	sender := &fakeSender{}
	d := newTestDispatcher(store, sender, 100)

	_, err := d.Dispatch(context.Background(), 3)
	if err == nil {
		t.Fatal("expected fetch failure to propagate")
	}
	if len(sender.sent) != 0 {
		t.Error("transport contacted after fetch failure")
	}
}
