// Package input tracks keyboard and cursor state from window events.
package input

import (
	"strings"

	"go.uber.org/zap"

	"github.com/l1jgo/renderengine/internal/core/event"
)

// KeyToggleCapture toggles cursor capture when pressed.
const KeyToggleCapture = "escape"

// Context is the engine's view of the input devices. It is updated by
// events, so its state lags the window by one frame.
type Context struct {
	bus      *event.Bus
	keys     map[string]bool
	captured bool
	cursorX  float32
	cursorY  float32
	log      *zap.Logger
}

// NewContext subscribes a new Context to bus.
func NewContext(bus *event.Bus, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Context{
		bus:  bus,
		keys: make(map[string]bool),
		log:  log,
	}
	event.Subscribe(bus, c.onKey)
	event.Subscribe(bus, c.onCursor)
	event.Subscribe(bus, func(e event.CursorCaptured) { c.captured = e.Captured })
	return c
}

func (c *Context) onKey(e event.KeyChanged) {
	key := strings.ToLower(e.Key)
	if e.Pressed && !c.keys[key] && key == KeyToggleCapture {
		event.Emit(c.bus, event.CursorCaptured{Captured: !c.captured})
		c.log.Debug("cursor capture toggled", zap.Bool("captured", !c.captured))
	}
	if e.Pressed {
		c.keys[key] = true
	} else {
		delete(c.keys, key)
	}
}

func (c *Context) onCursor(e event.CursorMoved) {
	c.cursorX, c.cursorY = e.X, e.Y
}

// KeyState reports whether key is held. Key names are case-insensitive.
func (c *Context) KeyState(key string) bool {
	return c.keys[strings.ToLower(key)]
}

// AnyKey reports whether any of keys is held.
func (c *Context) AnyKey(keys []string) bool {
	for _, k := range keys {
		if c.KeyState(k) {
			return true
		}
	}
	return false
}

// Captured reports whether the cursor drives camera rotation.
func (c *Context) Captured() bool { return c.captured }

// Cursor returns the last cursor position in screen pixels.
func (c *Context) Cursor() (x, y float32) { return c.cursorX, c.cursorY }
