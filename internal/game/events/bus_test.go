package events

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// TestSubscriber records every event it is interested in
type TestSubscriber struct {
	id              string
	interestedTypes map[string]bool
	receivedEvents  []Event
}

func (ts *TestSubscriber) ID() string { return ts.id }

func (ts *TestSubscriber) HandleEvent(e Event) {
	ts.receivedEvents = append(ts.receivedEvents, e)
}

func (ts *TestSubscriber) InterestedIn(eventType string) bool {
	if ts.interestedTypes == nil {
		return true
	}
	return ts.interestedTypes[eventType]
}

func newBus() *EventBus { return NewEventBus(zerolog.Nop()) }

func TestEventBus_FuncHandler(t *testing.T) {
	bus := newBus()
	var got Event
	bus.SubscribeFunc(TypeTurnStarted, func(e Event) { got = e })

	bus.Publish(NewTurnStartedEvent("s1", 3, 7, 4))

	require.NotNil(t, got)
	assert.Equal(t, TypeTurnStarted, got.Type())
	assert.Equal(t, "s1", got.SessionID())
	assert.Equal(t, 3, got.Turn())
	assert.Equal(t, 7, got.(*TurnStartedEvent).Arrows)
}

func TestEventBus_HandlersRunInOrder(t *testing.T) {
	bus := newBus()
	var calls []int
	bus.SubscribeFunc(TypeTurnAdvanced, func(Event) { calls = append(calls, 1) })
	bus.SubscribeFunc(TypeTurnAdvanced, func(Event) { calls = append(calls, 2) })
	bus.SubscribeFunc(TypeTurnStarted, func(Event) { calls = append(calls, 3) })

	bus.Publish(NewTurnAdvancedEvent("s1", 2, 1, 0))

	assert.Equal(t, []int{1, 2}, calls)
	assert.Equal(t, 2, bus.FuncHandlerCount(TypeTurnAdvanced))
}

func TestEventBus_UnsubscribeFunc(t *testing.T) {
	bus := newBus()
	calls := 0
	first := bus.SubscribeFunc(TypeUnitMoved, func(Event) { calls++ })
	second := bus.SubscribeFunc(TypeUnitMoved, func(Event) { calls += 10 })
	assert.NotEqual(t, first, second)

	bus.UnsubscribeFunc(first)
	bus.Publish(NewUnitMovedEvent("s1", 1, "u", "red", core.Coordinate{}, core.Coordinate{X: 1}, 1, false))

	assert.Equal(t, 10, calls)
	assert.Equal(t, 1, bus.FuncHandlerCount(TypeUnitMoved))
}

func TestEventBus_SubscriberFilter(t *testing.T) {
	bus := newBus()
	sub := &TestSubscriber{
		id:              "test-subscriber",
		interestedTypes: map[string]bool{TypeTurnStarted: true, TypeTurnResolved: true},
	}
	bus.Subscribe(sub)
	require.Equal(t, 1, bus.SubscriberCount())

	bus.Publish(NewTurnStartedEvent("s1", 1, 0, 0))
	bus.Publish(NewActionEvent(TypeActionExecuted, "s1", 1, "paint terrain", "terrain"))
	bus.Publish(NewTurnResolvedEvent("s1", 1, 2, 0, 0, 3, 4, false, 0))

	require.Len(t, sub.receivedEvents, 2)
	assert.Equal(t, TypeTurnStarted, sub.receivedEvents[0].Type())
	assert.Equal(t, TypeTurnResolved, sub.receivedEvents[1].Type())

	bus.Unsubscribe(sub.ID())
	bus.Publish(NewTurnStartedEvent("s1", 2, 0, 0))
	assert.Len(t, sub.receivedEvents, 2)
	assert.Zero(t, bus.SubscriberCount())
}

func TestEventBus_PanicIsolation(t *testing.T) {
	bus := newBus()
	reached := false
	bus.SubscribeFunc(TypeOrderRejected, func(Event) { panic("boom") })
	bus.SubscribeFunc(TypeOrderRejected, func(Event) { reached = true })

	assert.NotPanics(t, func() {
		bus.Publish(NewOrderRejectedEvent("s1", 1, "u", core.OrderAttack, core.Coordinate{}, core.Coordinate{X: 1}, errors.New("nope")))
	})
	assert.True(t, reached)
}

func TestOrderRejectedEvent_Reason(t *testing.T) {
	err := core.WrapOrderError("u1", core.OrderMove, core.Coordinate{}, core.Coordinate{X: 2}, core.ErrOutOfReach)
	e := NewOrderRejectedEvent("s1", 4, "u1", core.OrderMove, core.Coordinate{}, core.Coordinate{X: 2}, err)

	assert.Equal(t, "unit u1: Move from (0,0) to (2,0): destination out of reach", e.Reason)
	assert.Equal(t, 4, e.Turn())
}
