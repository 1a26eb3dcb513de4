// Package notifier delivers threshold-breach alerts to the configured
// transports. The monitor guarantees at most one event per breach episode;
// dispatchers only format and send.
package notifier

import (
	"context"
	"errors"

	"golang-portfolio-tracker/internal/entity"
)

// Dispatcher receives one AlertEvent per breach episode.
type Dispatcher interface {
	Dispatch(ctx context.Context, event entity.AlertEvent) error
}

// multiDispatcher fans an event out to every transport. A failing transport
// does not stop the others; errors are joined.
type multiDispatcher struct {
	dispatchers []Dispatcher
}

// NewMultiDispatcher composes zero or more dispatchers into one.
func NewMultiDispatcher(dispatchers ...Dispatcher) Dispatcher {
	return &multiDispatcher{dispatchers: dispatchers}
}

func (m *multiDispatcher) Dispatch(ctx context.Context, event entity.AlertEvent) error {
	var errs []error
	for _, d := range m.dispatchers {
		if err := d.Dispatch(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
