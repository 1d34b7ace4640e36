package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender delivers mail. Abstracted so tests can swap in a recorder.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends mail through an SMTP server via gomail.
type SMTPSender struct {
	cfg Config
}

func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// ResetPasswordBody renders the password reset email body.
func ResetPasswordBody(userName, resetURL string) string {
	return fmt.Sprintf(
		`<p>Hello %s,</p>
<p>We received a request to reset your Acessae password. Click the link below to choose a new one:</p>
<p><a href="%s">Reset my password</a></p>
<p>If you did not request this, you can safely ignore this message.</p>`,
		userName, resetURL,
	)
}
