package notification

import (
	"fmt"

	"medisync/config"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends booking-related email to patients.
type Mailer interface {
	// SendRebookingEmail tells the patient their appointment was moved and
	// hands them a link to pick a new slot.
	SendRebookingEmail(to, patientName, doctorName, link string) error
}

// SMTPMailer implements Mailer over a plain SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds a mailer from the loaded configuration.
func NewSMTPMailer() *SMTPMailer {
	cfg := config.AppConfig
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.SMTPFrom,
	}
}

func (m *SMTPMailer) SendRebookingEmail(to, patientName, doctorName, link string) error {
	if to == "" {
		return fmt.Errorf("rebooking email: no recipient address")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your appointment needs to be rebooked")
	msg.SetBody("text/html", fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your appointment with %s has been rescheduled and the original
		slot was released. Please pick a new time that works for you:</p>
		<p><a href="%s">Choose a new slot</a></p>
		<p>Sorry for the inconvenience.</p>`,
		patientName, doctorName, link))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("rebooking email to %s failed: %w", to, err)
	}
	return nil
}
