package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/l1jgo/renderengine/internal/core/datablock"
	"github.com/l1jgo/renderengine/internal/core/event"
)

// ProjectionType selects how a Camera builds its projection matrix.
type ProjectionType int

const (
	// ProjectionCustom is a caller-supplied matrix. Aspect changes ignore it.
	ProjectionCustom ProjectionType = iota
	// ProjectionOrthoRadius is orthographic, defined by the distance from
	// the centre to the top plane and the aspect ratio.
	ProjectionOrthoRadius
	// ProjectionOrthoPlanes is orthographic, defined by six clipping planes.
	// Aspect changes ignore it.
	ProjectionOrthoPlanes
	// ProjectionPerspective is defined by a vertical field of view and the
	// aspect ratio.
	ProjectionPerspective
)

func (p ProjectionType) String() string {
	switch p {
	case ProjectionOrthoRadius:
		return "ortho-radius"
	case ProjectionOrthoPlanes:
		return "ortho-planes"
	case ProjectionPerspective:
		return "perspective"
	default:
		return "custom"
	}
}

// Camera is an object with a projection. Its view matrix is the inverse of
// its world matrix and is cached with it. Scaling the camera scales the
// clipping planes too.
type Camera struct {
	GameObject

	projType   ProjectionType
	projection mgl32.Mat4

	// parameters kept for SetAspect
	yRadius   float32
	fovY      float32
	near, far float32
	aspect    float32

	view      mgl32.Mat4
	viewDirty bool

	bus    *event.Bus
	resize event.Subscription
}

// NewCamera returns a camera with an identity projection.
func NewCamera() *Camera {
	c := &Camera{
		projection: mgl32.Ident4(),
		view:       mgl32.Ident4(),
		viewDirty:  true,
	}
	c.init(c)
	c.onDirty = func() { c.viewDirty = true }
	return c
}

func (c *Camera) TypeName() string { return "Camera" }

// ViewMatrix returns the inverse of the world matrix.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	if c.viewDirty {
		c.view = c.WorldMatrix().Inv()
		c.viewDirty = false
	}
	return c.view
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 { return c.projection }

func (c *Camera) ProjectionType() ProjectionType { return c.projType }

// Aspect returns the aspect ratio of the last aspect-dependent projection.
func (c *Camera) Aspect() float32 { return c.aspect }

// SetOrthographicRadius sets an orthographic projection whose top plane is
// yRadius above the centre. The horizontal extent follows the aspect ratio
// and is recomputed by SetAspect.
func (c *Camera) SetOrthographicRadius(yRadius, aspect, near, far float32) {
	c.projType = ProjectionOrthoRadius
	x := yRadius * aspect
	c.projection = mgl32.Ortho(-x, x, -yRadius, yRadius, near, far)
	c.yRadius, c.aspect, c.near, c.far = yRadius, aspect, near, far
}

// SetOrthographic sets an orthographic projection from six planes.
func (c *Camera) SetOrthographic(left, right, bottom, top, near, far float32) {
	c.projType = ProjectionOrthoPlanes
	c.projection = mgl32.Ortho(left, right, bottom, top, near, far)
}

// SetPerspective sets a perspective projection. fovY is the vertical field of
// view in radians.
func (c *Camera) SetPerspective(fovY, aspect, near, far float32) {
	c.projType = ProjectionPerspective
	c.projection = mgl32.Perspective(fovY, aspect, near, far)
	c.fovY, c.aspect, c.near, c.far = fovY, aspect, near, far
}

func (c *Camera) SetCustomProjection(m mgl32.Mat4) {
	c.projType = ProjectionCustom
	c.projection = m
}

// SetAspect rebuilds an aspect-dependent projection for a new aspect ratio.
// Plane-defined and custom projections are left alone.
func (c *Camera) SetAspect(aspect float32) {
	switch c.projType {
	case ProjectionOrthoRadius:
		c.SetOrthographicRadius(c.yRadius, aspect, c.near, c.far)
	case ProjectionPerspective:
		c.SetPerspective(c.fovY, aspect, c.near, c.far)
	}
}

// HookEvents subscribes the camera to framebuffer resizes on bus, replacing
// any earlier subscription. The handler observes the camera, and Retire
// unsubscribes it.
func (c *Camera) HookEvents(bus *event.Bus) {
	c.unhook()
	w := datablock.WeakTo(c)
	c.bus = bus
	c.resize = event.Subscribe(bus, func(e event.FramebufferResized) {
		if e.Height <= 0 {
			return
		}
		r := w.Elevate()
		if !r.Valid() {
			return
		}
		defer r.Release()
		r.Get().SetAspect(float32(e.Width) / float32(e.Height))
	})
}

func (c *Camera) unhook() {
	if c.bus != nil {
		c.bus.Unsubscribe(c.resize)
		c.bus = nil
	}
}

func (c *Camera) Retire() {
	c.unhook()
	c.GameObject.Retire()
}
