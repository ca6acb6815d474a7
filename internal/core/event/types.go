package event

// Engine events. Window and input collaborators emit these; scene objects
// and components subscribe.

// FramebufferResized is emitted when the render target changes size.
type FramebufferResized struct {
	Width  int
	Height int
}

// CursorMoved carries the cursor position and the delta since the last
// event, in screen pixels.
type CursorMoved struct {
	X, Y   float32
	DX, DY float32
}

// KeyChanged is emitted on key press and release.
type KeyChanged struct {
	Key     string
	Pressed bool
}

// CursorCaptured toggles whether the cursor drives camera rotation.
type CursorCaptured struct {
	Captured bool
}
