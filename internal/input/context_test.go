package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/renderengine/internal/core/event"
)

func deliver(bus *event.Bus) {
	bus.SwapBuffers()
	bus.DispatchAll()
}

func TestKeyStateFollowsEvents(t *testing.T) {
	bus := event.NewBus()
	c := NewContext(bus, zaptest.NewLogger(t))

	event.Emit(bus, event.KeyChanged{Key: "W", Pressed: true})
	assert.False(t, c.KeyState("w"), "events apply on the next frame")
	deliver(bus)
	assert.True(t, c.KeyState("w"))
	assert.True(t, c.AnyKey([]string{"a", "W"}))

	event.Emit(bus, event.KeyChanged{Key: "w", Pressed: false})
	deliver(bus)
	assert.False(t, c.KeyState("w"))
	assert.False(t, c.AnyKey(nil))
}

func TestEscapeTogglesCapture(t *testing.T) {
	bus := event.NewBus()
	c := NewContext(bus, zaptest.NewLogger(t))

	event.Emit(bus, event.KeyChanged{Key: "Escape", Pressed: true})
	deliver(bus)
	assert.False(t, c.Captured())
	deliver(bus) // the capture event emitted by the key handler
	assert.True(t, c.Captured())

	// held key repeats do not toggle again
	event.Emit(bus, event.KeyChanged{Key: "escape", Pressed: true})
	deliver(bus)
	deliver(bus)
	assert.True(t, c.Captured())

	event.Emit(bus, event.KeyChanged{Key: "escape", Pressed: false})
	event.Emit(bus, event.KeyChanged{Key: "escape", Pressed: true})
	deliver(bus)
	deliver(bus)
	assert.False(t, c.Captured())
}

func TestCursorPosition(t *testing.T) {
	bus := event.NewBus()
	c := NewContext(bus, zaptest.NewLogger(t))
	event.Emit(bus, event.CursorMoved{X: 10, Y: 20, DX: 1, DY: 2})
	deliver(bus)
	x, y := c.Cursor()
	assert.Equal(t, float32(10), x)
	assert.Equal(t, float32(20), y)
}
