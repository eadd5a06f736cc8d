// Package mailer delivers result notices: an SMTP transport, a process-local
// hourly rate limit, and the batch dispatcher that drives both.
package mailer

import "context"

// Message is one rendered email ready for delivery.
type Message struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
}

// Sender is the external mail transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
