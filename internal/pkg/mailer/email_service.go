// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendTrialExpired(toEmail, planName string) error
	SendCancellationConfirmation(toEmail, planName string, accessUntil *time.Time) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendTrialExpired(toEmail, planName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your trial has ended")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your %s trial has ended</h2>
			<p>Your trial period is over and your account has moved to limited access.</p>
			<p>Upgrade any time to pick up right where you left off.</p>
		</div>
	`, planName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send trial-expired mail to %s: %v\n", toEmail, err)
		return err
	}

	return nil
}

func (s *emailService) SendCancellationConfirmation(toEmail, planName string, accessUntil *time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Subscription cancelled")

	retained := "Your access ends immediately."
	if accessUntil != nil {
		retained = fmt.Sprintf("You keep full access until %s.", accessUntil.Format("January 2, 2006"))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your %s subscription has been cancelled</h2>
			<p>%s</p>
			<p>We're sorry to see you go. You can reactivate at any time.</p>
		</div>
	`, planName, retained)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send cancellation mail to %s: %v\n", toEmail, err)
		return err
	}

	return nil
}
