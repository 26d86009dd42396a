package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls []string
	d.Subscribe(EventAuthDecision, func(context.Context, Event) error {
		calls = append(calls, "first")
		return nil
	})
	d.Subscribe(EventAuthDecision, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe("unrelated", func(context.Context, Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventAuthDecision}))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatcherJoinsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()

	sentinel := errors.New("sink unavailable")
	laterRan := false
	d.Subscribe(EventAuthDecision, func(context.Context, Event) error { return sentinel })
	d.Subscribe(EventAuthDecision, func(context.Context, Event) error {
		laterRan = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventAuthDecision})
	require.ErrorIs(t, err, sentinel)
	assert.True(t, laterRan, "a failing handler must not starve the ones after it")
}

func TestDispatcherWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	require.NoError(t, d.Publish(context.Background(), Event{Type: "unheard"}))
}
