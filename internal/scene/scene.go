package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/l1jgo/renderengine/internal/core/datablock"
)

// Scene is a tree of objects under a root node created with the scene.
//
// Refs held by a Scene:
//   - the root node
//
// WeakRefs held by a Scene:
//   - the active camera
//   - every Light assigned to it
type Scene struct {
	datablock.Block

	root         datablock.Ref[Object]
	activeCamera datablock.WeakRef[*Camera]
	lights       []datablock.WeakRef[*Light]

	BackgroundColor mgl32.Vec4
}

// CreateScene registers a new scene with scenes and its root node with
// objects.
func CreateScene(scenes *datablock.Manager[*Scene], objects *datablock.Manager[Object]) datablock.Ref[*Scene] {
	root := Create(objects, NewGameObject)
	defer root.Release()

	node := root.Get()
	node.SetName("root")
	node.root = true

	s := scenes.Create(func() *Scene {
		return &Scene{
			root:            Up(root),
			BackgroundColor: mgl32.Vec4{0, 0, 0, 1},
		}
	})
	node.SetScene(s.Get())
	return s
}

// Root returns the root node. The Ref is borrowed: Clone to keep.
func (s *Scene) Root() datablock.Ref[Object] { return s.root }

// AddObject parents a top-level object under the root without adjusting its
// transform. It fails for a null Ref and for objects that already have a
// parent.
func (s *Scene) AddObject(obj datablock.Ref[Object]) bool {
	if !obj.Valid() {
		return false
	}
	n := obj.Get().Node()
	if n.root || n.Parent().Alive() {
		return false
	}
	return n.SetParent(s.root, false) == nil
}

// RemoveObject detaches a direct child of the root, leaving it parentless and
// without a scene.
func (s *Scene) RemoveObject(obj datablock.Ref[Object], adjust bool) bool {
	if !obj.Valid() {
		return false
	}
	n := obj.Get().Node()
	if !n.Parent().Is(s.root.Get()) {
		return false
	}
	n.ClearParent(adjust)
	return true
}

// SetActiveCamera makes cam the camera used for rendering. A null Ref
// clears it.
func (s *Scene) SetActiveCamera(cam datablock.Ref[*Camera]) {
	s.activeCamera = cam.Weak()
}

func (s *Scene) ActiveCamera() datablock.WeakRef[*Camera] { return s.activeCamera }

// Lights returns the live lights assigned to the scene, in assignment order.
func (s *Scene) Lights() []*Light {
	out := make([]*Light, 0, len(s.lights))
	kept := s.lights[:0]
	for _, w := range s.lights {
		r := w.Elevate()
		if !r.Valid() {
			continue
		}
		out = append(out, r.Get())
		kept = append(kept, w)
		r.Release()
	}
	clear(s.lights[len(kept):])
	s.lights = kept
	return out
}

func (s *Scene) addLight(l *Light) {
	for _, w := range s.lights {
		if w.Is(l) {
			return
		}
	}
	s.lights = append(s.lights, datablock.WeakTo(l))
}

func (s *Scene) removeLight(l *Light) {
	for i, w := range s.lights {
		if w.Is(l) {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			return
		}
	}
}

// EvaluateComponents evaluates every component in the scene depth first.
// All components of a node finish before any component of its children
// starts, and siblings are visited in child order.
func (s *Scene) EvaluateComponents(dt float32) {
	if s.root.Valid() {
		s.root.Get().Node().evaluate(dt)
	}
}

// Walk visits the tree in pre-order, starting at the root with depth 0,
// until fn returns false.
func (s *Scene) Walk(fn func(o Object, depth int) bool) {
	if s.root.Valid() {
		walk(s.root.Get(), 0, fn)
	}
}

func walk(o Object, depth int, fn func(Object, int) bool) bool {
	if !fn(o, depth) {
		return false
	}
	for _, c := range o.Node().children {
		if !walk(c.Get(), depth+1, fn) {
			return false
		}
	}
	return true
}

// FindByName returns the first object in pre-order with the given name, or a
// null Ref. The caller must Release the result.
func (s *Scene) FindByName(name string) datablock.Ref[Object] {
	var found datablock.Ref[Object]
	s.Walk(func(o Object, _ int) bool {
		if o.Node().Name() == name {
			found = datablock.RefTo(o)
			return false
		}
		return true
	})
	return found
}

// Retire releases the root, which lets the object manager reclaim the tree.
func (s *Scene) Retire() {
	s.activeCamera.Reset()
	s.lights = nil
	s.root.Release()
}
