// Package handlers contains the Fiber HTTP handlers for the results mailer.
package handlers

import (
	"context"
	"time"

	"result-mailer/config"
	"result-mailer/mailer"
	"result-mailer/sessions"
	"result-mailer/store"
)

var (
	cfg            *config.Config
	resultStore    *store.Store
	uploadSessions *sessions.Store
	dispatcher     *mailer.Dispatcher
)

// Setup wires the handlers' dependencies. Must be called before registering
// routes.
func Setup(c *config.Config, s *store.Store, sess *sessions.Store, d *mailer.Dispatcher) {
	cfg = c
	resultStore = s
	uploadSessions = sess
	dispatcher = d
}

func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
