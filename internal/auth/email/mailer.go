// Package email is the outbound mail collaborator. The auth workflows
// depend only on the Mailer interface; delivery itself is external.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"time"
)

// Mailer sends the password reset link to a user.
type Mailer interface {
	SendPasswordResetEmail(ctx context.Context, to, resetLink string, ttl time.Duration) error
}

// SMTPMailer delivers over plain SMTP. Suitable for a local relay; swap
// for a provider-backed implementation without touching workflows.
type SMTPMailer struct {
	Addr string // host:port
	From string
	Auth smtp.Auth // nil for unauthenticated relays
}

func (m *SMTPMailer) SendPasswordResetEmail(
	ctx context.Context,
	to, resetLink string,
	ttl time.Duration,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Reset your password\r\n\r\n"+
			"A password reset was requested for your account.\r\n\r\n"+
			"Open the link below within %s to choose a new password:\r\n%s\r\n\r\n"+
			"If you did not request this, you can ignore this email.\r\n",
		m.From, to, ttl, resetLink,
	)

	return smtp.SendMail(m.Addr, m.Auth, m.From, []string{to}, []byte(msg))
}

// LogMailer writes the reset link to the log instead of sending mail.
// Development only.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendPasswordResetEmail(
	ctx context.Context,
	to, resetLink string,
	ttl time.Duration,
) error {
	m.Logger.Info("password reset email (dev mailer)",
		"to", to,
		"reset_link", resetLink,
		"valid_for", ttl,
	)
	return nil
}
