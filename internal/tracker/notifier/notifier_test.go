package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-portfolio-tracker/internal/entity"
)

type stubDispatcher struct {
	err   error
	calls int
}

func (d *stubDispatcher) Dispatch(_ context.Context, _ entity.AlertEvent) error {
	d.calls++
	return d.err
}

func testEvent() entity.AlertEvent {
	return entity.AlertEvent{
		Symbol:        "RY",
		CompanyName:   "Royal Bank of Canada",
		CurrentPrice:  95,
		LossThreshold: 100,
		TriggeredAt:   time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC),
	}
}

func TestMultiDispatcher_FansOut(t *testing.T) {
	first := &stubDispatcher{}
	second := &stubDispatcher{}
	multi := NewMultiDispatcher(first, second)

	require.NoError(t, multi.Dispatch(context.Background(), testEvent()))
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestMultiDispatcher_FailureDoesNotStopOthers(t *testing.T) {
	boom := errors.New("smtp down")
	first := &stubDispatcher{err: boom}
	second := &stubDispatcher{}
	multi := NewMultiDispatcher(first, second)

	err := multi.Dispatch(context.Background(), testEvent())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, second.calls)
}

func TestMultiDispatcher_Empty(t *testing.T) {
	assert.NoError(t, NewMultiDispatcher().Dispatch(context.Background(), testEvent()))
}
