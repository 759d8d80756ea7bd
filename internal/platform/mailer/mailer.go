// Package mailer sends transactional email over SMTP.
package mailer

import (
	"context"
	"log/slog"

	"gopkg.in/gomail.v2"

	ports "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
)

// SMTPMailer delivers email through an SMTP relay using gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

var _ ports.EmailSender = (*SMTPMailer)(nil)

// NewSMTPMailer builds a mailer for the given relay. An empty host yields a
// disabled mailer that logs instead of sending, so local setups work without
// SMTP credentials.
func NewSMTPMailer(host string, port int, username, password, from string, logger *slog.Logger) *SMTPMailer {
	m := &SMTPMailer{from: from, logger: logger}
	if host != "" {
		m.dialer = gomail.NewDialer(host, port, username, password)
	}
	return m
}

// Send delivers a single HTML email. Respects context cancellation before
// dialing; gomail itself does not take a context.
func (m *SMTPMailer) Send(ctx context.Context, to string, subject string, htmlBody string) error {
	if m.dialer == nil {
		m.logger.Info("mailer disabled, dropping email", slog.String("to", to), slog.String("subject", subject))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}
