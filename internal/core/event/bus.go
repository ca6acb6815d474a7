package event

import (
	"reflect"
	"slices"
	"sync"
)

// Bus is a double-buffered event bus. Events emitted during frame N are
// delivered during frame N+1, in emission order, when the event system calls
// SwapBuffers and DispatchAll at the start of the frame.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    []any
	back     []any
	handlers map[reflect.Type][]handler
	nextID   uint64
}

type handler struct {
	id uint64
	fn func(any)
}

// Subscription identifies one registered handler. The zero value matches
// nothing.
type Subscription struct {
	t  reflect.Type
	id uint64
}

func NewBus() *Bus {
	return &Bus{
		front:    make([]any, 0, 32),
		back:     make([]any, 0, 32),
		handlers: make(map[reflect.Type][]handler),
	}
}

// Emit queues an event into the back buffer (delivered next frame).
func Emit[T any](b *Bus, event T) {
	b.back = append(b.back, event)
}

// Subscribe registers a typed handler for events of type T. Handlers run in
// subscription order. Keep the Subscription to stop delivery with
// Unsubscribe; handlers that live as long as the bus may drop it.
func Subscribe[T any](b *Bus, fn func(T)) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeFor[T]()
	b.nextID++
	b.handlers[t] = append(b.handlers[t], handler{id: b.nextID, fn: func(ev any) { fn(ev.(T)) }})
	return Subscription{t: t, id: b.nextID}
}

// Unsubscribe removes the handler registered as sub and reports whether it
// was still registered. A handler removed during DispatchAll still sees the
// event being dispatched, but no later ones.
func (b *Bus) Unsubscribe(sub Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	hs := b.handlers[sub.t]
	i := slices.IndexFunc(hs, func(h handler) bool { return h.id == sub.id })
	if i < 0 {
		return false
	}
	// copy, so a dispatch ranging over the old slice is unaffected
	hs = slices.Delete(slices.Clone(hs), i, i+1)
	if len(hs) == 0 {
		delete(b.handlers, sub.t)
	} else {
		b.handlers[sub.t] = hs
	}
	return true
}

// Subscribers returns the number of handlers registered for events of type T.
func Subscribers[T any](b *Bus) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[reflect.TypeFor[T]()])
}

// Pending returns the number of events waiting for the next swap.
func (b *Bus) Pending() int { return len(b.back) }

// SwapBuffers rotates back→front and clears the new back buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	clear(b.back)
	b.back = b.back[:0]
}

// DispatchAll delivers all front-buffer events to their handlers. Events
// emitted by handlers land in the back buffer.
func (b *Bus) DispatchAll() {
	for _, ev := range b.front {
		for _, h := range b.handlers[reflect.TypeOf(ev)] {
			h.fn(ev)
		}
	}
}
