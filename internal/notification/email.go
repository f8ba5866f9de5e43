package notification

import (
	"fmt"
	"net/smtp"
	"strings"

	"appointment-booking/pkg/utils"
)

type Sender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	config utils.EmailConfig
}

func NewSMTPSender(config utils.EmailConfig) Sender {
	return &smtpSender{config: config}
}

func (s *smtpSender) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)

	msg := strings.Join([]string{
		"From: " + s.config.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}

// renderEvent resolves the subject and body for an event's motive.
func renderEvent(event Event) (string, string) {
	v := event.Variables
	switch event.Motive {
	case MotiveBookingConfirmed:
		return "Your booking is confirmed",
			fmt.Sprintf("Hi %s,\n\nYour booking for %s on %s is confirmed.\n\nSee you there!",
				v["name"], v["offering"], v["start_at"])
	case MotiveBookingCancelled:
		return "Your booking was cancelled",
			fmt.Sprintf("Hi %s,\n\nYour booking for %s on %s has been cancelled.",
				v["name"], v["offering"], v["start_at"])
	case MotiveSubscriptionPayment:
		return "Subscription payment received",
			fmt.Sprintf("Hi %s,\n\nWe received your payment. Your subscription is active until %s.",
				v["name"], v["expiration"])
	case MotiveSubscriptionExpiring:
		return "Your subscription is about to expire",
			fmt.Sprintf("Hi %s,\n\nYour subscription expires on %s. Renew it to keep your booking page online.",
				v["name"], v["expiration"])
	case MotiveSubscriptionExpired:
		return "Your subscription has expired",
			fmt.Sprintf("Hi %s,\n\nYour subscription expired on %s and your booking page is now offline.",
				v["name"], v["expiration"])
	default:
		return "Notification", "You have a new notification."
	}
}
