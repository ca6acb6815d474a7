// Package transform implements a positioned, oriented and scaled coordinate
// frame with a lazily composed matrix.
package transform

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is position, Euler rotation (yaw, pitch, roll in radians) and
// scale. The composed matrix is cached; every setter marks it dirty and
// Matrix recomputes it on demand.
//
// The zero Transform is not ready for use; call New or Clear.
type Transform struct {
	position mgl32.Vec3
	rotation mgl32.Vec3 // yaw, pitch, roll
	scale    mgl32.Vec3

	cached       mgl32.Mat4
	dirty        bool
	compositions int
}

// New returns an identity transform.
func New() Transform {
	var t Transform
	t.Clear()
	return t
}

func (t *Transform) SetPosition(p mgl32.Vec3) {
	t.dirty = true
	t.position = p
}

func (t *Transform) SetPositionXYZ(x, y, z float32) {
	t.SetPosition(mgl32.Vec3{x, y, z})
}

func (t *Transform) SetRotation(euler mgl32.Vec3) {
	t.dirty = true
	t.rotation = euler
}

func (t *Transform) SetRotationYPR(yaw, pitch, roll float32) {
	t.SetRotation(mgl32.Vec3{yaw, pitch, roll})
}

func (t *Transform) SetScale(s mgl32.Vec3) {
	t.dirty = true
	t.scale = s
}

func (t *Transform) SetScaleXYZ(x, y, z float32) {
	t.SetScale(mgl32.Vec3{x, y, z})
}

// DeltaPosition adds d to the position and returns the old position.
func (t *Transform) DeltaPosition(d mgl32.Vec3) mgl32.Vec3 {
	t.dirty = true
	old := t.position
	t.position = t.position.Add(d)
	return old
}

// DeltaRotation adds d to the Euler angles and returns the old angles.
func (t *Transform) DeltaRotation(d mgl32.Vec3) mgl32.Vec3 {
	t.dirty = true
	old := t.rotation
	t.rotation = t.rotation.Add(d)
	return old
}

// DeltaScale multiplies the scale component-wise by d and returns the old
// scale.
func (t *Transform) DeltaScale(d mgl32.Vec3) mgl32.Vec3 {
	t.dirty = true
	old := t.scale
	t.scale = mgl32.Vec3{old[0] * d[0], old[1] * d[1], old[2] * d[2]}
	return old
}

func (t *Transform) Position() mgl32.Vec3 { return t.position }
func (t *Transform) Rotation() mgl32.Vec3 { return t.rotation }
func (t *Transform) Scale() mgl32.Vec3    { return t.scale }

// Clear resets to the identity transform.
func (t *Transform) Clear() {
	t.dirty = true
	t.position = mgl32.Vec3{}
	t.rotation = mgl32.Vec3{}
	t.scale = mgl32.Vec3{1, 1, 1}
}

// Dirty reports whether the next Matrix call will recompose.
func (t *Transform) Dirty() bool { return t.dirty }

// Compositions returns how many times the matrix has been recomposed.
func (t *Transform) Compositions() int { return t.compositions }

// Matrix returns translate(position) * rotate(yaw, pitch, roll) * scale(scale).
func (t *Transform) Matrix() mgl32.Mat4 {
	if t.dirty {
		t.cached = mgl32.Translate3D(t.position[0], t.position[1], t.position[2]).
			Mul4(yawPitchRoll(t.rotation)).
			Mul4(mgl32.Scale3D(t.scale[0], t.scale[1], t.scale[2]))
		t.dirty = false
		t.compositions++
	}
	return t.cached
}

// FromMatrix decomposes m into position, rotation and scale. m itself becomes
// the cached matrix, so a matrix that is not exactly representable as TRS
// (shear from a non-uniformly scaled parent, for instance) is still returned
// verbatim by Matrix until the next setter call.
func (t *Transform) FromMatrix(m mgl32.Mat4) {
	t.cached = m
	t.dirty = false

	t.position = m.Col(3).Vec3()
	for i := 0; i < 3; i++ {
		t.scale[i] = m.Col(i).Vec3().Len()
	}

	var rot mgl32.Mat4
	for i := 0; i < 3; i++ {
		c := m.Col(i).Vec3()
		if t.scale[i] != 0 {
			c = c.Mul(1 / t.scale[i])
		}
		rot.SetCol(i, c.Vec4(0))
	}
	rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	t.rotation = extractYXZ(rot)
}

// TransformVector applies the full transform to a point.
func (t *Transform) TransformVector(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(v, t.Matrix())
}

// RotateVector rotates v without translating or scaling it.
func (t *Transform) RotateVector(v mgl32.Vec3) mgl32.Vec3 {
	return yawPitchRoll(t.rotation).Mat3().Mul3x1(v)
}

// VectorApplyYawPitch rotates the horizontal part of v by the full rotation
// and adds the vertical part unrotated, which gives free-fly camera movement.
func (t *Transform) VectorApplyYawPitch(v mgl32.Vec3) mgl32.Vec3 {
	fblr := yawPitchRoll(t.rotation).Mat3().Mul3x1(mgl32.Vec3{v[0], 0, v[2]})
	return mgl32.Vec3{fblr[0], fblr[1] + v[1], fblr[2]}
}

// VectorApplyYaw rotates v around the vertical axis by the yaw angle only,
// which gives ground-bound first-person movement.
func (t *Transform) VectorApplyYaw(v mgl32.Vec3) mgl32.Vec3 {
	s, c := math32.Sincos(t.rotation[0])
	return mgl32.Vec3{
		c*v[0] + s*v[2],
		v[1],
		-s*v[0] + c*v[2],
	}
}

// yawPitchRoll returns Ry(yaw) * Rx(pitch) * Rz(roll).
func yawPitchRoll(e mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(e[0]).
		Mul4(mgl32.HomogRotate3DX(e[1])).
		Mul4(mgl32.HomogRotate3DZ(e[2]))
}

// extractYXZ is the inverse of yawPitchRoll for a pure rotation matrix.
func extractYXZ(m mgl32.Mat4) mgl32.Vec3 {
	yaw := math32.Atan2(m.At(0, 2), m.At(2, 2))
	c2 := math32.Sqrt(m.At(1, 0)*m.At(1, 0) + m.At(1, 1)*m.At(1, 1))
	pitch := math32.Atan2(-m.At(1, 2), c2)
	s1, c1 := math32.Sincos(yaw)
	roll := math32.Atan2(s1*m.At(2, 1)-c1*m.At(0, 1), c1*m.At(0, 0)-s1*m.At(2, 0))
	return mgl32.Vec3{yaw, pitch, roll}
}
