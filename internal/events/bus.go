// Package events implements the synchronous event bus that lets side-effect
// systems such as equipment observe combat without the combat code knowing
// about them.
package events

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
)

// HistorySize is the number of recent events kept by a Bus.
const HistorySize = 10

// Event is implemented by every bus event. Name identifies the listener list.
type Event interface {
	Name() string
}

// Listener receives dispatched events.
type Listener func(Event)

type subscription struct {
	id uint64
	fn Listener
}

// Bus is a single-threaded publish/subscribe dispatcher. It holds no lock:
// listeners may subscribe, unsubscribe or dispatch from inside a callback.
type Bus struct {
	listeners map[string][]subscription
	nextID    uint64
	history   []Event // ring buffer
	head      int
	debug     Listener
	logger    *log.Logger
}

// NewBus creates a bus. A nil logger discards output.
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bus{
		listeners: make(map[string][]subscription),
		history:   make([]Event, 0, HistorySize),
		logger:    logger,
	}
}

// Subscribe registers fn for events with the given name and returns a
// function that removes it.
func (b *Bus) Subscribe(name string, fn Listener) (unsubscribe func()) {
	b.nextID++
	id := b.nextID
	b.listeners[name] = append(b.listeners[name], subscription{id: id, fn: fn})
	return func() {
		b.listeners[name] = slices.DeleteFunc(b.listeners[name], func(s subscription) bool {
			return s.id == id
		})
	}
}

// On subscribes a typed callback for events of type T.
func On[T Event](b *Bus, fn func(T)) (unsubscribe func()) {
	var zero T
	return b.Subscribe(zero.Name(), func(e Event) {
		if typed, ok := e.(T); ok {
			fn(typed)
		}
	})
}

// SetDebugListener installs a listener called for every event regardless of
// name. Pass nil to remove it.
func (b *Bus) SetDebugListener(fn Listener) {
	b.debug = fn
}

// LogListener returns a debug listener that logs every event with its
// fields at debug level.
func LogListener(logger *log.Logger) Listener {
	return func(e Event) {
		logger.Debug("event", "name", e.Name(), "data", fmt.Sprintf("%+v", e))
	}
}

// Dispatch records the event and synchronously invokes its listeners in
// subscription order. A panicking listener is logged and skipped.
func (b *Bus) Dispatch(e Event) {
	b.record(e)

	// Listeners added during dispatch see the next event, not this one.
	subs := slices.Clone(b.listeners[e.Name()])
	for _, s := range subs {
		b.call(e, s.fn)
	}
	if b.debug != nil {
		b.call(e, b.debug)
	}
}

func (b *Bus) call(e Event, fn Listener) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event listener failed", "event", e.Name(), "panic", r)
		}
	}()
	fn(e)
}

func (b *Bus) record(e Event) {
	if len(b.history) < HistorySize {
		b.history = append(b.history, e)
		return
	}
	b.history[b.head] = e
	b.head = (b.head + 1) % HistorySize
}

// History returns recent events, oldest first.
func (b *Bus) History() []Event {
	out := make([]Event, 0, len(b.history))
	out = append(out, b.history[b.head:]...)
	out = append(out, b.history[:b.head]...)
	return out
}

// ListenerCount returns the number of listeners for an event name.
func (b *Bus) ListenerCount(name string) int {
	return len(b.listeners[name])
}
