package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"
)

// EmailSender delivers a fully-rendered message. Checkout and status updates
// treat delivery failure as log-only, so implementations should fail fast
// rather than retry.
type EmailSender interface {
	Send(to, subject, htmlBody string) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type smtpSender struct {
	cfg SMTPConfig
	log *logrus.Logger
}

func NewSMTPSender(cfg SMTPConfig, logger *logrus.Logger) EmailSender {
	return &smtpSender{cfg: cfg, log: logger}
}

func (s *smtpSender) Send(to, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	msg := []byte("From: " + s.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		htmlBody)

	addr := s.cfg.Host + ":" + s.cfg.Port
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	s.log.Infof("Email sent to %s: %s", to, subject)
	return nil
}

// NopSender discards every message. Used when SMTP is not configured and in
// tests.
type NopSender struct{}

func (NopSender) Send(to, subject, htmlBody string) error { return nil }
