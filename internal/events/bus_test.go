package events

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchCallsListenersInOrder(t *testing.T) {
	bus := NewBus(nil)
	var got []string
	bus.Subscribe("BrickHit", func(Event) { got = append(got, "a") })
	bus.Subscribe("BrickHit", func(Event) { got = append(got, "b") })
	bus.Subscribe("BallHitWall", func(Event) { got = append(got, "wall") })

	bus.Dispatch(BrickHit{Damage: 5})
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestOnIsTyped(t *testing.T) {
	bus := NewBus(nil)
	var total float64
	On(bus, func(e BrickHit) { total += e.Damage })

	bus.Dispatch(BrickHit{Damage: 3})
	bus.Dispatch(BrickHit{Damage: 4})
	bus.Dispatch(XpCollected{Amount: 100})
	assert.Equal(t, 7.0, total)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus(nil)
	calls := 0
	off := On(bus, func(ComboChanged) { calls++ })
	bus.Dispatch(ComboChanged{Combo: 1})
	off()
	bus.Dispatch(ComboChanged{Combo: 2})
	assert.Equal(t, 1, calls)
	assert.Zero(t, bus.ListenerCount(ComboChanged{}.Name()))
}

func TestPanickingListenerDoesNotBlockOthers(t *testing.T) {
	var buf bytes.Buffer
	bus := NewBus(log.New(&buf))
	reached := false
	bus.Subscribe("BrickDestroyed", func(Event) { panic("boom") })
	bus.Subscribe("BrickDestroyed", func(Event) { reached = true })

	require.NotPanics(t, func() { bus.Dispatch(BrickDestroyed{}) })
	assert.True(t, reached)
	assert.Contains(t, buf.String(), "BrickDestroyed")
	assert.Contains(t, buf.String(), "boom")
}

func TestHistoryIsBounded(t *testing.T) {
	bus := NewBus(nil)
	for i := range 25 {
		bus.Dispatch(TurnStarted{Turn: i})
	}
	h := bus.History()
	require.Len(t, h, HistorySize)
	assert.Equal(t, TurnStarted{Turn: 15}, h[0])
	assert.Equal(t, TurnStarted{Turn: 24}, h[HistorySize-1])
}

func TestHistoryBeforeWrap(t *testing.T) {
	bus := NewBus(nil)
	bus.Dispatch(TurnStarted{Turn: 1})
	bus.Dispatch(TurnEnded{Turn: 1})
	assert.Equal(t, []Event{TurnStarted{Turn: 1}, TurnEnded{Turn: 1}}, bus.History())
}

func TestDebugListenerSeesEverything(t *testing.T) {
	bus := NewBus(nil)
	var names []string
	bus.SetDebugListener(func(e Event) { names = append(names, e.Name()) })
	bus.Dispatch(BallHitWall{})
	bus.Dispatch(GameOver{Reason: "x"})
	assert.Equal(t, []string{"BallHitWall", "GameOver"}, names)
}

func TestLogListenerWritesEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	bus := NewBus(nil)
	bus.SetDebugListener(LogListener(logger))
	bus.Dispatch(ComboChanged{Combo: 4, Best: 9})

	out := buf.String()
	assert.Contains(t, out, "ComboChanged")
	assert.Contains(t, out, "Combo:4")

	buf.Reset()
	logger.SetLevel(log.InfoLevel)
	bus.Dispatch(ComboChanged{Combo: 5})
	assert.Empty(t, buf.String())
}

func TestReentrantDispatchAndSubscribe(t *testing.T) {
	bus := NewBus(nil)
	var order []string
	On(bus, func(BrickDestroyed) {
		order = append(order, "destroyed")
		bus.Dispatch(XpCollected{Amount: 1})
		// Subscribing mid-dispatch must not affect the event in flight.
		On(bus, func(BrickDestroyed) { order = append(order, "late") })
	})
	On(bus, func(XpCollected) { order = append(order, "xp") })

	bus.Dispatch(BrickDestroyed{})
	assert.Equal(t, []string{"destroyed", "xp"}, order)

	order = nil
	bus.Dispatch(BrickDestroyed{})
	assert.Equal(t, []string{"destroyed", "xp", "late"}, order)
}

func TestBallDyingCancel(t *testing.T) {
	bus := NewBus(nil)
	On(bus, func(e BallDying) { *e.Cancel = true })
	cancel := false
	bus.Dispatch(BallDying{Cancel: &cancel})
	assert.True(t, cancel)
}

func TestHitSource(t *testing.T) {
	assert.True(t, SourceBall.IsDirect())
	assert.True(t, SourceMiniBall.IsDirect())
	assert.False(t, SourceChain.IsDirect())
	assert.False(t, SourceExplosion.IsDirect())
	assert.Equal(t, "chain", SourceChain.String())
}
