package notifier

import (
	"context"
	"fmt"

	"golang-portfolio-tracker/internal/entity"
	"golang-portfolio-tracker/pkg/telegram"
)

// telegramDispatcher sends breach alerts to a Telegram chat.
type telegramDispatcher struct {
	notifier telegram.Notifier
}

// NewTelegramDispatcher creates a Telegram alert dispatcher.
func NewTelegramDispatcher(notifier telegram.Notifier) Dispatcher {
	return &telegramDispatcher{notifier: notifier}
}

func (d *telegramDispatcher) Dispatch(_ context.Context, event entity.AlertEvent) error {
	msg := fmt.Sprintf(
		"🔻 *Stock Alert: %s*\n\nPrice: `%.2f`\nLoss Threshold: `%.2f`\nTriggered: `%s`",
		event.Symbol,
		event.CurrentPrice,
		event.LossThreshold,
		event.TriggeredAt.Format("2006-01-02 15:04 MST"),
	)

	if err := d.notifier.SendMessage(msg); err != nil {
		return fmt.Errorf("telegram alert for %s: %w", event.Symbol, err)
	}
	return nil
}
