package service

import (
	"fmt"
	"net/smtp"

	"github.com/GunarsK-portfolio/timetracker-service/internal/config"
	"github.com/sirupsen/logrus"
)

// Mailer sends plain-text mail. Delivery is best effort; callers dispatch
// after their transaction commits and never fail on a send error.
type Mailer interface {
	Send(to, subject, body string) bool
	Configured() bool
}

type smtpMailer struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSMTPMailer creates a Mailer backed by the configured SMTP server.
func NewSMTPMailer(cfg *config.Config, logger *logrus.Logger) Mailer {
	return &smtpMailer{cfg: cfg, logger: logger}
}

func (m *smtpMailer) Configured() bool {
	return m.cfg.MailUsername != "" && m.cfg.MailPassword != ""
}

func (m *smtpMailer) Send(to, subject, body string) bool {
	if !m.Configured() {
		m.logger.Debug("Mail configuration not found, skipping send")
		return false
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.MailServer, m.cfg.MailPort)
	auth := smtp.PlainAuth("", m.cfg.MailUsername, m.cfg.MailPassword, m.cfg.MailServer)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.MailUsername, to, subject, body)

	if err := smtp.SendMail(addr, auth, m.cfg.MailUsername, []string{to}, []byte(msg)); err != nil {
		m.logger.WithError(err).WithField("to", to).Error("Failed to send email")
		return false
	}
	return true
}
