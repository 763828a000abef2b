package services

import (
	"errors"
	"log"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/smartgoals/smartgoals-api/internal/config"
)

var ErrMailNotConfigured = errors.New("mailer: SMTP not configured")

// Mailer sends transactional email over SMTP. Disabled (every send is an
// ErrMailNotConfigured) when SMTP_HOST or EMAIL_FROM are missing.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// Global mailer instance
var Mail *Mailer

func InitMailer(cfg *config.Config) {
	if cfg.SMTPHost == "" || cfg.EmailFrom == "" {
		log.Println("Mailer: SMTP not configured, email disabled")
		Mail = &Mailer{}
		return
	}

	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}

	Mail = &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.EmailFrom,
	}
	log.Println("Mailer: SMTP email enabled")
}

func (m *Mailer) Configured() bool {
	return m != nil && m.dialer != nil
}

func (m *Mailer) Send(to, subject, bodyText, bodyHTML string) error {
	if !m.Configured() {
		return ErrMailNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", bodyText)
	if bodyHTML != "" {
		msg.AddAlternative("text/html", bodyHTML)
	}

	return m.dialer.DialAndSend(msg)
}
