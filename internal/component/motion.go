// Package component holds the stock scene components: motion integration,
// keyboard and mouse controllers, Lua scripts and an evaluation recorder.
package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/l1jgo/renderengine/internal/scene"
)

const (
	KindMotion      scene.Kind = "component.motion"
	KindApplyMotion scene.Kind = "component.apply_motion"
)

// Motion stores a linear velocity (units per second, parent space) and an
// angular velocity (yaw, pitch, roll radians per second). It records the
// frame time when evaluated, so it must come before the components that
// read its per-frame steps.
type Motion struct {
	owner *scene.GameObject

	velocity mgl32.Vec3
	angular  mgl32.Vec3
	frameDT  float32
	dead     bool
}

func NewMotion(g *scene.GameObject) *Motion {
	return &Motion{owner: g}
}

func (m *Motion) Kind() scene.Kind { return KindMotion }

func (m *Motion) Evaluate(dt float32) { m.frameDT = dt }

// Destroy marks the Motion removed, so components that cached it look
// their Motion up again.
func (m *Motion) Destroy() {
	m.dead = true
	m.velocity, m.angular = mgl32.Vec3{}, mgl32.Vec3{}
}

func (m *Motion) SetVelocity(v mgl32.Vec3)        { m.velocity = v }
func (m *Motion) SetAngularVelocity(v mgl32.Vec3) { m.angular = v }
func (m *Motion) Velocity() mgl32.Vec3            { return m.velocity }
func (m *Motion) AngularVelocity() mgl32.Vec3     { return m.angular }

// DeltaVelocity adds d and returns the old velocity.
func (m *Motion) DeltaVelocity(d mgl32.Vec3) mgl32.Vec3 {
	old := m.velocity
	m.velocity = old.Add(d)
	return old
}

// DeltaAngularVelocity adds d and returns the old angular velocity.
func (m *Motion) DeltaAngularVelocity(d mgl32.Vec3) mgl32.Vec3 {
	old := m.angular
	m.angular = old.Add(d)
	return old
}

// SetVelocityStep sets the velocity so that this frame moves by step. It does
// nothing before the first evaluation or on a zero-length frame.
func (m *Motion) SetVelocityStep(step mgl32.Vec3) {
	if m.frameDT > 0 {
		m.velocity = step.Mul(1 / m.frameDT)
	}
}

func (m *Motion) SetAngularVelocityStep(step mgl32.Vec3) {
	if m.frameDT > 0 {
		m.angular = step.Mul(1 / m.frameDT)
	}
}

// DeltaVelocityStep changes the velocity so that this frame moves by step
// more, and returns the old velocity. On a zero-length frame it returns the
// zero vector and changes nothing.
func (m *Motion) DeltaVelocityStep(step mgl32.Vec3) mgl32.Vec3 {
	if m.frameDT <= 0 {
		return mgl32.Vec3{}
	}
	return m.DeltaVelocity(step.Mul(1 / m.frameDT))
}

func (m *Motion) DeltaAngularVelocityStep(step mgl32.Vec3) mgl32.Vec3 {
	if m.frameDT <= 0 {
		return mgl32.Vec3{}
	}
	return m.DeltaAngularVelocity(step.Mul(1 / m.frameDT))
}

// VelocityStep is the distance covered this frame.
func (m *Motion) VelocityStep() mgl32.Vec3 { return m.velocity.Mul(m.frameDT) }

// AngularVelocityStep is the rotation covered this frame.
func (m *Motion) AngularVelocityStep() mgl32.Vec3 { return m.angular.Mul(m.frameDT) }

// ApplyMotion moves its object by the steps of a Motion component. Without
// an explicit Motion, or once that Motion is removed, it uses the first
// Motion on its object, looked up lazily so that either may be added first.
type ApplyMotion struct {
	owner  *scene.GameObject
	motion *Motion
}

func NewApplyMotion(g *scene.GameObject) *ApplyMotion {
	return &ApplyMotion{owner: g}
}

// ApplyMotionFrom returns a constructor for an ApplyMotion bound to m.
func ApplyMotionFrom(m *Motion) func(*scene.GameObject) *ApplyMotion {
	return func(g *scene.GameObject) *ApplyMotion {
		return &ApplyMotion{owner: g, motion: m}
	}
}

func (a *ApplyMotion) Kind() scene.Kind { return KindApplyMotion }

func (a *ApplyMotion) Evaluate(float32) {
	m := resolveMotion(a.owner, &a.motion)
	if m == nil {
		return
	}
	a.owner.DeltaPosition(m.VelocityStep())
	a.owner.DeltaRotation(m.AngularVelocityStep())
}

// resolveMotion returns *slot, refilling it from owner's components when it
// is empty or holds a Motion that has been removed from its object.
func resolveMotion(owner *scene.GameObject, slot **Motion) *Motion {
	if m := *slot; m != nil && (m.dead || m.owner.ComponentIndex(m) < 0) {
		*slot = nil
	}
	if *slot == nil {
		*slot = scene.GetComponent[Motion](owner)
	}
	return *slot
}
