package notifier

import (
	"context"
	"fmt"

	"golang-portfolio-tracker/internal/entity"
	"golang-portfolio-tracker/pkg/mailer"
)

// emailDispatcher sends breach alerts over SMTP.
type emailDispatcher struct {
	sender mailer.Sender
	to     string
}

// NewEmailDispatcher creates an email alert dispatcher delivering to the
// given recipient.
func NewEmailDispatcher(sender mailer.Sender, to string) Dispatcher {
	return &emailDispatcher{sender: sender, to: to}
}

func (d *emailDispatcher) Dispatch(_ context.Context, event entity.AlertEvent) error {
	subject := fmt.Sprintf("Stock Alert: %s has dropped below your threshold", event.Symbol)

	name := event.CompanyName
	if name == "" {
		name = event.Symbol
	}
	body := fmt.Sprintf(
		"%s (%s) traded at %.2f on %s, at or below your loss threshold of %.2f.\n\nPlease review your portfolio.",
		name,
		event.Symbol,
		event.CurrentPrice,
		event.TriggeredAt.Format("2006-01-02 15:04:05 MST"),
		event.LossThreshold,
	)

	if err := d.sender.Send(d.to, subject, body); err != nil {
		return fmt.Errorf("email alert for %s: %w", event.Symbol, err)
	}
	return nil
}
