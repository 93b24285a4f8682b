package otp

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/rossahq/complaintdesk/internal/config"
)

// SMTPMailer delivers verification codes over SMTP
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer from the mail configuration
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendCode mails a verification code to the recipient
func (m *SMTPMailer) SendCode(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your verification code")
	msg.SetBody("text/plain", fmt.Sprintf("Your verification code is: %s\n\nIt expires in 5 minutes.", code))

	return m.dialer.DialAndSend(msg)
}
