package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type LightType int

const (
	LightDisabled LightType = iota
	LightDirectional
	LightPoint
	LightSpot
)

func (t LightType) String() string {
	switch t {
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	default:
		return "disabled"
	}
}

// Sphere is a bounding volume in world space.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Light is a light source. A Light registers itself in the light list of
// the scene it is assigned to and removes itself when it leaves.
type Light struct {
	GameObject

	Type LightType

	// Direction is local; directional and spot lights only.
	Direction mgl32.Vec3
	// InnerOuter holds the spot cone angles in radians.
	InnerOuter mgl32.Vec2
	// Color may exceed 1.
	Color mgl32.Vec3
	// Attenuation is (constant, linear, quadratic).
	Attenuation mgl32.Vec3
}

func NewLight() *Light {
	l := &Light{
		Type:        LightPoint,
		Direction:   mgl32.Vec3{0, 0, -1},
		Color:       mgl32.Vec3{1, 1, 1},
		Attenuation: mgl32.Vec3{1, 0, 1},
	}
	l.init(l)
	l.onScene = func(old, cur *Scene) {
		if old != nil {
			old.removeLight(l)
		}
		if cur != nil {
			cur.addLight(l)
		}
	}
	return l
}

func (l *Light) TypeName() string { return "Light" }

// WorldDirection returns Direction transformed by the world matrix, without
// translation and not normalized.
func (l *Light) WorldDirection() mgl32.Vec3 {
	return l.WorldMatrix().Mul4x1(l.Direction.Vec4(0)).Vec3()
}

// BoundingSphere returns the sphere outside which the light's contribution
// falls below thresh, using only the quadratic attenuation term. A light
// without quadratic falloff, or a non-positive thresh, yields an infinite
// radius.
func (l *Light) BoundingSphere(thresh float32) Sphere {
	c := math32.Max(math32.Max(l.Color[0], l.Color[1]), l.Color[2])
	q := l.Attenuation[2]
	s := Sphere{Center: l.WorldPosition()}
	if thresh <= 0 || q <= 0 {
		s.Radius = math32.Inf(1)
		return s
	}
	s.Radius = math32.Sqrt(c / (thresh * q))
	return s
}
