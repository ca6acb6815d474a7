package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func assertMatNear(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, eps), "want\n%v\ngot\n%v", want, got)
}

func TestNewIsIdentity(t *testing.T) {
	tr := New()
	assert.Equal(t, mgl32.Ident4(), tr.Matrix())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, tr.Scale())
}

func TestMatrixIsCachedUntilMutation(t *testing.T) {
	tr := New()
	tr.SetPositionXYZ(1, 2, 3)
	assert.True(t, tr.Dirty())

	m1 := tr.Matrix()
	m2 := tr.Matrix()
	assert.Equal(t, m1, m2)
	assert.Equal(t, 1, tr.Compositions())
	assert.False(t, tr.Dirty())

	tr.DeltaRotation(mgl32.Vec3{0.1, 0, 0})
	assert.True(t, tr.Dirty())
	tr.Matrix()
	assert.Equal(t, 2, tr.Compositions())
}

func TestComposeOrder(t *testing.T) {
	tr := New()
	tr.SetPositionXYZ(5, 0, 0)
	tr.SetRotationYPR(math.Pi/2, 0, 0)
	tr.SetScaleXYZ(2, 2, 2)

	// (1,0,0) scaled to (2,0,0), yawed a quarter turn to (0,0,-2), then moved.
	got := tr.TransformVector(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 5, got.X(), eps)
	assert.InDelta(t, 0, got.Y(), eps)
	assert.InDelta(t, -2, got.Z(), eps)
}

func TestDeltasReturnOldValues(t *testing.T) {
	tr := New()
	tr.SetPositionXYZ(1, 1, 1)
	old := tr.DeltaPosition(mgl32.Vec3{1, 2, 3})
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, old)
	assert.Equal(t, mgl32.Vec3{2, 3, 4}, tr.Position())

	oldScale := tr.DeltaScale(mgl32.Vec3{2, 3, 4})
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, oldScale)
	assert.Equal(t, mgl32.Vec3{2, 3, 4}, tr.Scale())
}

func TestFromMatrixRoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		pos, ypr mgl32.Vec3
		scale    mgl32.Vec3
	}{
		{"identity", mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}},
		{"translate", mgl32.Vec3{1, -2, 3}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}},
		{"yaw", mgl32.Vec3{}, mgl32.Vec3{0.7, 0, 0}, mgl32.Vec3{1, 1, 1}},
		{"all", mgl32.Vec3{4, 5, 6}, mgl32.Vec3{0.3, -0.4, 1.1}, mgl32.Vec3{2, 0.5, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := New()
			src.SetPosition(tc.pos)
			src.SetRotation(tc.ypr)
			src.SetScale(tc.scale)
			m := src.Matrix()

			dst := New()
			dst.FromMatrix(m)
			assert.False(t, dst.Dirty())
			assert.True(t, tc.pos.ApproxEqualThreshold(dst.Position(), eps))
			assert.True(t, tc.ypr.ApproxEqualThreshold(dst.Rotation(), eps), "rotation %v", dst.Rotation())
			assert.True(t, tc.scale.ApproxEqualThreshold(dst.Scale(), eps))

			// Recomposing from the decomposed parts yields the same matrix.
			dst.SetPosition(dst.Position())
			assertMatNear(t, m, dst.Matrix())
		})
	}
}

func TestFromMatrixKeepsSheared(t *testing.T) {
	shear := mgl32.Ident4()
	shear.Set(0, 1, 0.5)
	tr := New()
	tr.FromMatrix(shear)
	assert.Equal(t, shear, tr.Matrix())
	assert.Equal(t, 0, tr.Compositions())
}

func TestRotateVectorIgnoresTranslationAndScale(t *testing.T) {
	tr := New()
	tr.SetPositionXYZ(10, 10, 10)
	tr.SetScaleXYZ(3, 3, 3)
	tr.SetRotationYPR(math.Pi, 0, 0)
	got := tr.RotateVector(mgl32.Vec3{0, 0, -1})
	assert.True(t, mgl32.Vec3{0, 0, 1}.ApproxEqualThreshold(got, eps), "%v", got)
}

func TestVectorApplyYaw(t *testing.T) {
	tr := New()
	tr.SetRotationYPR(math.Pi/2, 0.8, 0.3)
	got := tr.VectorApplyYaw(mgl32.Vec3{0, 1, -1})
	// pitch and roll are ignored, the vertical component is untouched
	require.True(t, mgl32.Vec3{-1, 1, 0}.ApproxEqualThreshold(got, eps), "%v", got)
}

func TestVectorApplyYawPitchKeepsVertical(t *testing.T) {
	tr := New()
	tr.SetRotationYPR(0, math.Pi/2, 0)
	got := tr.VectorApplyYawPitch(mgl32.Vec3{0, 2, -1})
	// forward pitched straight up, plus the unrotated vertical offset
	assert.True(t, mgl32.Vec3{0, 3, 0}.ApproxEqualThreshold(got, eps), "%v", got)
}

func TestClear(t *testing.T) {
	tr := New()
	tr.SetPositionXYZ(1, 2, 3)
	tr.Matrix()
	tr.Clear()
	assert.True(t, tr.Dirty())
	assert.Equal(t, mgl32.Ident4(), tr.Matrix())
}
