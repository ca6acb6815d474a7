package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrbitFacesOrigin(t *testing.T) {
	poses := orbit(4, 5, 0)
	require.Len(t, poses, 4)

	for i, p := range poses {
		m, err := p.Matrix4()
		require.NoError(t, err)
		pos := m.Col(3).Vec3()
		assert.InDelta(t, 5, pos.Len(), 1e-4, "pose %d", i)

		// the camera's forward axis points back at the origin
		fwd := m.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
		assert.True(t, fwd.ApproxEqualThreshold(pos.Mul(-1.0/5), 1e-4), "pose %d: forward %v from %v", i, fwd, pos)
	}
}

func TestOrbitPitchesDown(t *testing.T) {
	poses := orbit(1, 4, 4)
	require.Len(t, poses, 1)
	assert.InDelta(t, -0.785398, poses[0].Rotation[1], 1e-5)
	assert.Equal(t, float32(4), poses[0].Position[1])
}
