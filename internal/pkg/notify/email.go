package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/resend/resend-go/v2"
	"github.com/steadystreamtv/storefront/internal/pkg/config"
)

type resendSender struct {
	client *resend.Client
	from   string
}

func newResendSender(cfg config.NotifyConfig) *resendSender {
	return &resendSender{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   cfg.EmailFrom,
	}
}

func (s *resendSender) Send(ctx context.Context, to, subject, html string) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	return err
}

// smtpSender is the fallback channel for deployments without a Resend key.
type smtpSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func newSMTPSender(cfg config.NotifyConfig) *smtpSender {
	return &smtpSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
	}
}

func (s *smtpSender) Send(_ context.Context, to, subject, html string) error {
	var auth smtp.Auth
	if s.username != "" && s.password != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", s.from, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			html,
	)

	return smtp.SendMail(addr, auth, s.from, []string{to}, msg)
}
