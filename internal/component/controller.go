package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/l1jgo/renderengine/internal/core/event"
	"github.com/l1jgo/renderengine/internal/data"
	"github.com/l1jgo/renderengine/internal/input"
	"github.com/l1jgo/renderengine/internal/scene"
)

const (
	KindKeyboardController scene.Kind = "component.keyboard_controller"
	KindMouseRotation      scene.Kind = "component.mouse_rotation"
)

// KeyboardController drives a Motion from held keys: ground-plane movement
// relative to the object's yaw, and turning.
type KeyboardController struct {
	owner    *scene.GameObject
	motion   *Motion
	input    *input.Context
	bindings *data.KeyBindings

	MoveSpeed float32
	TurnSpeed float32
}

// NewKeyboardController returns a constructor for a controller reading in
// through bindings.
func NewKeyboardController(in *input.Context, bindings *data.KeyBindings) func(*scene.GameObject) *KeyboardController {
	return func(g *scene.GameObject) *KeyboardController {
		return &KeyboardController{
			owner:     g,
			input:     in,
			bindings:  bindings,
			MoveSpeed: 3,
			TurnSpeed: 1,
		}
	}
}

func (k *KeyboardController) Kind() scene.Kind { return KindKeyboardController }

func (k *KeyboardController) Evaluate(float32) {
	m := resolveMotion(k.owner, &k.motion)
	if m == nil || k.input == nil {
		return
	}

	var move, turn mgl32.Vec3
	k.add(&move, data.ActionForward, mgl32.Vec3{0, 0, -1})
	k.add(&move, data.ActionBack, mgl32.Vec3{0, 0, 1})
	k.add(&move, data.ActionLeft, mgl32.Vec3{-1, 0, 0})
	k.add(&move, data.ActionRight, mgl32.Vec3{1, 0, 0})
	k.add(&move, data.ActionDown, mgl32.Vec3{0, -1, 0})
	k.add(&move, data.ActionUp, mgl32.Vec3{0, 1, 0})

	k.add(&turn, data.ActionLookUp, mgl32.Vec3{0, 1, 0})
	k.add(&turn, data.ActionLookDown, mgl32.Vec3{0, -1, 0})
	k.add(&turn, data.ActionTurnLeft, mgl32.Vec3{1, 0, 0})
	k.add(&turn, data.ActionTurnRight, mgl32.Vec3{-1, 0, 0})

	dir := k.owner.LocalTransform().VectorApplyYaw(move)
	m.SetVelocity(dir.Mul(k.MoveSpeed))
	m.SetAngularVelocity(turn.Mul(k.TurnSpeed))
}

func (k *KeyboardController) add(acc *mgl32.Vec3, a data.Action, v mgl32.Vec3) {
	if k.input.AnyKey(k.bindings.Keys(a)) {
		*acc = acc.Add(v)
	}
}

// MouseRotation turns cursor movement into a rotation step on a Motion
// while the cursor is captured. Movement is accumulated between frames and
// applied as one step, so it should come after any component that sets the
// angular velocity outright (KeyboardController) and before ApplyMotion.
type MouseRotation struct {
	owner   *scene.GameObject
	motion  *Motion
	input   *input.Context
	pending mgl32.Vec3
	bus     *event.Bus
	cursor  event.Subscription

	Sensitivity float32 // radians per pixel
}

// NewMouseRotation returns a constructor for a MouseRotation fed by the
// cursor events on bus.
func NewMouseRotation(bus *event.Bus, in *input.Context, sensitivity float32) func(*scene.GameObject) *MouseRotation {
	return func(g *scene.GameObject) *MouseRotation {
		r := &MouseRotation{owner: g, input: in, bus: bus, Sensitivity: sensitivity}
		r.cursor = event.Subscribe(bus, r.onCursor)
		return r
	}
}

func (r *MouseRotation) Kind() scene.Kind { return KindMouseRotation }

func (r *MouseRotation) onCursor(e event.CursorMoved) {
	if r.input == nil || !r.input.Captured() {
		return
	}
	r.pending = r.pending.Add(mgl32.Vec3{-e.DX * r.Sensitivity, -e.DY * r.Sensitivity, 0})
}

func (r *MouseRotation) Evaluate(float32) {
	m := resolveMotion(r.owner, &r.motion)
	if m == nil {
		return
	}
	m.DeltaAngularVelocityStep(r.pending)
	r.pending = mgl32.Vec3{}
}

// Destroy unsubscribes the component from the cursor events.
func (r *MouseRotation) Destroy() {
	r.bus.Unsubscribe(r.cursor)
	r.motion = nil
	r.pending = mgl32.Vec3{}
}
