// Package notifier implements the delivery side of booking
// notifications consumed from the message broker.
package notifier

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"github.com/lwandile/facility-booking/internal/queue"
)

// SMTPConfig carries mail relay settings.  An empty Host disables
// real delivery and the notifier logs instead, which keeps local
// development working without a relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// EmailNotifier sends booking notifications over SMTP.  It satisfies
// queue.Notifier.
type EmailNotifier struct {
	cfg SMTPConfig
}

// NewEmailNotifier returns an EmailNotifier with the given relay
// configuration.
func NewEmailNotifier(cfg SMTPConfig) *EmailNotifier { return &EmailNotifier{cfg: cfg} }

// BookingCreated notifies the customer that their booking was stored,
// including payment status so pending bookings prompt for payment.
func (n *EmailNotifier) BookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error {
	subject := fmt.Sprintf("Booking #%d received", ev.BookingID)
	body := fmt.Sprintf(
		"Your booking at %s on %s is %s.\nAttendees: %d\nAmount due: R%d.%02d\n",
		ev.FacilityName, ev.Date, ev.Status, ev.Attendees,
		ev.FinalPriceCents/100, ev.FinalPriceCents%100)
	return n.send(ev.UserEmail, subject, body)
}

// BookingPaid delivers the redemption token after payment clears.
func (n *EmailNotifier) BookingPaid(ctx context.Context, ev queue.BookingPaidEvent) error {
	subject := fmt.Sprintf("Booking #%d confirmed", ev.BookingID)
	body := fmt.Sprintf(
		"Payment received. Present this code at the facility:\n\n%s\n", ev.Token)
	return n.send(ev.UserEmail, subject, body)
}

func (n *EmailNotifier) send(to, subject, body string) error {
	if n.cfg.Host == "" {
		log.Printf("notifier: (no SMTP relay) to=%s subject=%q", to, subject)
		return nil
	}
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.cfg.From, to, subject, body))
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("notifier: send to %s: %w", to, err)
	}
	return nil
}
