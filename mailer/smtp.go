package mailer

import (
	"context"
	"fmt"
	"time"

	mail "github.com/wneessen/go-mail"

	"result-mailer/config"
)

// SMTPSender delivers messages through an SMTP server.
type SMTPSender struct {
	client   *mail.Client
	from     string
	fromName string
}

func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.MailPort),
		mail.WithTimeout(10 * time.Second),
	}
	if cfg.MailUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.MailUsername),
			mail.WithPassword(cfg.MailPassword),
		)
	}
	if cfg.MailUseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	client, err := mail.NewClient(cfg.MailHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &SMTPSender{
		client:   client,
		from:     cfg.MailFrom,
		fromName: cfg.MailFromName,
	}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.FromFormat(s.fromName, s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.AddToFormat(msg.ToName, msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	return s.client.DialAndSendWithContext(ctx, m)
}
