// Package render defines the boundary between the scene core and a graphics
// backend. The core hands a backend one scene and one camera per frame; the
// backend owns everything below that.
package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/l1jgo/renderengine/internal/scene"
)

// Renderer draws a scene as seen from cam. Implementations must not keep the
// pointers past the call: both may be reclaimed before the next frame.
type Renderer interface {
	Render(s *scene.Scene, cam *scene.Camera) error
}

// DrawStats describes what one frame would submit to the GPU.
type DrawStats struct {
	Objects   int // nodes visited, root included
	Meshes    int // mesh objects submitted
	Culled    int // mesh objects behind the camera
	Triangles int
	Lights    int
}

// Counter is a headless Renderer. It walks the scene the way a backend
// would, culls meshes whose origin lies behind the camera and records the
// resulting draw counts.
type Counter struct {
	log    *zap.Logger
	last   DrawStats
	frames int
}

func NewCounter(log *zap.Logger) *Counter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Counter{log: log}
}

func (c *Counter) Render(s *scene.Scene, cam *scene.Camera) error {
	viewProj := cam.ProjectionMatrix().Mul4(cam.ViewMatrix())

	var st DrawStats
	st.Lights = len(s.Lights())
	s.Walk(func(o scene.Object, _ int) bool {
		st.Objects++
		m, ok := o.(*scene.MeshObject)
		if !ok {
			return true
		}
		mesh := m.Mesh()
		if !mesh.Valid() {
			return true
		}
		clip := viewProj.Mul4(m.WorldMatrix()).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
		if clip.W() <= 0 {
			st.Culled++
			return true
		}
		st.Meshes++
		st.Triangles += mesh.Get().Triangles()
		return true
	})

	c.last = st
	c.frames++
	c.log.Debug("frame drawn",
		zap.Int("frame", c.frames),
		zap.Int("objects", st.Objects),
		zap.Int("meshes", st.Meshes),
		zap.Int("culled", st.Culled),
		zap.Int("triangles", st.Triangles),
		zap.Int("lights", st.Lights),
	)
	return nil
}

// Last returns the counts of the most recent frame.
func (c *Counter) Last() DrawStats { return c.last }

// Frames returns how many frames were rendered.
func (c *Counter) Frames() int { return c.frames }
