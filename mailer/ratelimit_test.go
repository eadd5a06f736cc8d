package mailer

import (
	"testing"
	"time"
)

// fixedClock returns a func() time.Time that always returns t.
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestLimiter_CapsPermits(t *testing.T) {
	l := NewLimiter(2)
	l.now = fixedClock(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))

	if !l.Allow() {
		t.Fatal("first permit denied")
	}
	if !l.Allow() {
		t.Fatal("second permit denied")
	}
	if l.Allow() {
		t.Fatal("third permit granted over cap")
	}
}

func TestLimiter_ResetsAfterWindow(t *testing.T) {
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	l := NewLimiter(1)
	l.now = fixedClock(start)

	if !l.Allow() {
		t.Fatal("first permit denied")
	}
	if l.Allow() {
		t.Fatal("permit granted over cap")
	}

	// Just under one hour: still exhausted.
	l.now = fixedClock(start.Add(59 * time.Minute))
	if l.Allow() {
		t.Fatal("permit granted before window elapsed")
	}

	// Window elapsed: counter resets.
	l.now = fixedClock(start.Add(time.Hour))
	if !l.Allow() {
		t.Fatal("permit denied after window reset")
	}
}

func TestLimiter_ZeroCapDeniesAll(t *testing.T) {
	l := NewLimiter(0)
	if l.Allow() {
		t.Fatal("permit granted with zero cap")
	}
}
