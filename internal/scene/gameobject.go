package scene

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/l1jgo/renderengine/internal/core/datablock"
	"github.com/l1jgo/renderengine/internal/core/transform"
)

// GameObject is a node of the scene graph. Derived objects (Camera, Light,
// MeshObject) embed it.
//
// Refs held by a GameObject:
//   - one per child, in child order
//
// WeakRefs held by a GameObject:
//   - its parent
//   - the Scene it belongs to
type GameObject struct {
	datablock.Block

	// self is the outermost object embedding this GameObject; child lists
	// store Refs to it so that Down can recover the concrete type.
	self Object

	name  string
	scene datablock.WeakRef[*Scene]

	transform transform.Transform

	// world is parent world * local, recomputed when worldDirty is set.
	// MarkWorldDirty sets the flag on the whole subtree.
	world             mgl32.Mat4
	worldDirty        bool
	worldCompositions int

	parent   datablock.WeakRef[Object]
	children []datablock.Ref[Object]

	components []Component

	// root is set on a Scene's root node, which can never be reparented.
	root bool

	// hooks for derived objects
	onDirty func()
	onScene func(old, cur *Scene)
}

// NewGameObject returns a plain object with an identity transform.
func NewGameObject() *GameObject {
	g := &GameObject{}
	g.init(g)
	return g
}

func (g *GameObject) init(self Object) {
	g.self = self
	g.transform = transform.New()
	g.world = mgl32.Ident4()
	g.worldDirty = true
}

func (g *GameObject) object() Object {
	if g.self == nil {
		return g
	}
	return g.self
}

func (g *GameObject) Node() *GameObject { return g }

func (g *GameObject) TypeName() string { return "GameObject" }

func (g *GameObject) Name() string { return g.name }

func (g *GameObject) SetName(name string) { g.name = name }

// SetScene assigns the object and its whole subtree to s. Pass nil to
// unassign. SetParent calls this with the new parent's scene.
func (g *GameObject) SetScene(s *Scene) {
	var old *Scene
	if r := g.scene.Elevate(); r.Valid() {
		old = r.Get()
		r.Release()
	}
	if old != s && g.onScene != nil {
		g.onScene(old, s)
	}
	if s == nil {
		g.scene.Reset()
	} else {
		g.scene = datablock.WeakTo(s)
	}
	for _, c := range g.children {
		c.Get().Node().SetScene(s)
	}
}

// Scene returns the scene the object belongs to.
func (g *GameObject) Scene() datablock.WeakRef[*Scene] { return g.scene }

// ---------------------------------------------------------------------------
// Local transform
// ---------------------------------------------------------------------------

func (g *GameObject) SetPosition(p mgl32.Vec3) {
	g.MarkWorldDirty()
	g.transform.SetPosition(p)
}

func (g *GameObject) SetPositionXYZ(x, y, z float32) {
	g.MarkWorldDirty()
	g.transform.SetPositionXYZ(x, y, z)
}

func (g *GameObject) SetRotation(euler mgl32.Vec3) {
	g.MarkWorldDirty()
	g.transform.SetRotation(euler)
}

func (g *GameObject) SetRotationYPR(yaw, pitch, roll float32) {
	g.MarkWorldDirty()
	g.transform.SetRotationYPR(yaw, pitch, roll)
}

func (g *GameObject) SetScale(s mgl32.Vec3) {
	g.MarkWorldDirty()
	g.transform.SetScale(s)
}

func (g *GameObject) SetScaleXYZ(x, y, z float32) {
	g.MarkWorldDirty()
	g.transform.SetScaleXYZ(x, y, z)
}

// DeltaPosition offsets the position and returns the old one.
func (g *GameObject) DeltaPosition(d mgl32.Vec3) mgl32.Vec3 {
	g.MarkWorldDirty()
	return g.transform.DeltaPosition(d)
}

// DeltaPositionWithRot offsets the position by d rotated into the object's
// local orientation.
func (g *GameObject) DeltaPositionWithRot(d mgl32.Vec3) mgl32.Vec3 {
	g.MarkWorldDirty()
	return g.transform.DeltaPosition(g.transform.RotateVector(d))
}

// DeltaPositionWithYawPitch moves like a free-fly camera.
func (g *GameObject) DeltaPositionWithYawPitch(d mgl32.Vec3) mgl32.Vec3 {
	g.MarkWorldDirty()
	return g.transform.DeltaPosition(g.transform.VectorApplyYawPitch(d))
}

// DeltaPositionWithYaw moves like a ground-bound first-person camera.
func (g *GameObject) DeltaPositionWithYaw(d mgl32.Vec3) mgl32.Vec3 {
	g.MarkWorldDirty()
	return g.transform.DeltaPosition(g.transform.VectorApplyYaw(d))
}

func (g *GameObject) DeltaRotation(d mgl32.Vec3) mgl32.Vec3 {
	g.MarkWorldDirty()
	return g.transform.DeltaRotation(d)
}

func (g *GameObject) DeltaScale(d mgl32.Vec3) mgl32.Vec3 {
	g.MarkWorldDirty()
	return g.transform.DeltaScale(d)
}

func (g *GameObject) Position() mgl32.Vec3 { return g.transform.Position() }
func (g *GameObject) Rotation() mgl32.Vec3 { return g.transform.Rotation() }
func (g *GameObject) Scale() mgl32.Vec3    { return g.transform.Scale() }

// LocalTransform exposes the local transform for read-only helpers such as
// VectorApplyYaw. Mutating it directly bypasses world-matrix invalidation;
// use the GameObject setters instead.
func (g *GameObject) LocalTransform() *transform.Transform { return &g.transform }

func (g *GameObject) ClearLocalTransform() {
	g.MarkWorldDirty()
	g.transform.Clear()
}

// SetLocalMatrix replaces the local transform with m.
func (g *GameObject) SetLocalMatrix(m mgl32.Mat4) {
	g.MarkWorldDirty()
	g.transform.FromMatrix(m)
}

func (g *GameObject) LocalMatrix() mgl32.Mat4 { return g.transform.Matrix() }

// ParentMatrix returns the parent's world matrix, or identity for a root.
func (g *GameObject) ParentMatrix() mgl32.Mat4 {
	if p := g.parentNode(); p != nil {
		return p.WorldMatrix()
	}
	return mgl32.Ident4()
}

// MarkWorldDirty invalidates the cached world matrix of the object and of
// every descendant.
func (g *GameObject) MarkWorldDirty() {
	g.worldDirty = true
	if g.onDirty != nil {
		g.onDirty()
	}
	for _, c := range g.children {
		c.Get().Node().MarkWorldDirty()
	}
}

// WorldMatrix returns parent world * local, recomputing it only when dirty.
func (g *GameObject) WorldMatrix() mgl32.Mat4 {
	if g.worldDirty {
		g.world = g.ParentMatrix().Mul4(g.transform.Matrix())
		g.worldDirty = false
		g.worldCompositions++
	}
	return g.world
}

// ModelMatrix is WorldMatrix; renderers call it the model matrix.
func (g *GameObject) ModelMatrix() mgl32.Mat4 { return g.WorldMatrix() }

// WorldCompositions returns how many times the world matrix was recomputed.
func (g *GameObject) WorldCompositions() int { return g.worldCompositions }

// WorldPosition returns the translation of the world matrix.
func (g *GameObject) WorldPosition() mgl32.Vec3 {
	return g.WorldMatrix().Col(3).Vec3()
}

// ---------------------------------------------------------------------------
// Hierarchy
// ---------------------------------------------------------------------------

// SetParent moves the object under parent, or detaches it when parent is
// null. With adjust set, the local transform is rewritten so the world pose
// is unchanged; otherwise the local transform is kept and the world pose
// follows the new parent.
//
// Setting the current parent again is a no-op. A parent that is the object
// itself or one of its descendants is rejected with ErrCycle and nothing
// changes. A scene root is rejected with ErrRoot.
func (g *GameObject) SetParent(parent datablock.Ref[Object], adjust bool) error {
	if g.root {
		return ErrRoot
	}
	old := g.parent.Elevate()
	defer old.Release()
	if datablock.Same(old, parent) {
		return nil
	}

	var pn *GameObject
	if parent.Valid() {
		pn = parent.Get().Node()
		if pn == g || g.IsAncestorOf(pn) {
			return ErrCycle
		}
	}

	// Read the world pose while the old parent chain is still in place.
	oldWorld := g.WorldMatrix()

	self := datablock.RefTo(g.object())
	if old.Valid() {
		old.Get().Node().removeChild(g)
	}

	var s *Scene
	if pn != nil {
		if adjust {
			g.transform.FromMatrix(pn.WorldMatrix().Inv().Mul4(oldWorld))
		}
		pn.children = append(pn.children, self)
		g.parent = parent.Weak()
		if r := pn.scene.Elevate(); r.Valid() {
			s = r.Get()
			r.Release()
		}
	} else {
		self.Release()
		if adjust {
			g.transform.FromMatrix(oldWorld)
		}
		g.parent.Reset()
	}

	g.MarkWorldDirty()
	g.SetScene(s)
	return nil
}

// ClearParent is SetParent with a null parent.
func (g *GameObject) ClearParent(adjust bool) {
	// a null parent can never form a cycle; roots have no parent to clear
	_ = g.SetParent(datablock.Ref[Object]{}, adjust)
}

// Parent returns the object's parent.
func (g *GameObject) Parent() datablock.WeakRef[Object] { return g.parent }

// Children returns the child list in order. The slice is the object's own
// storage: iterate it, do not modify it, and Clone any Ref you keep.
func (g *GameObject) Children() []datablock.Ref[Object] { return g.children }

// IsAncestorOf reports whether g is a strict ancestor of n.
func (g *GameObject) IsAncestorOf(n *GameObject) bool {
	for p := n.parentNode(); p != nil; p = p.parentNode() {
		if p == g {
			return true
		}
	}
	return false
}

// Depth returns the number of ancestors.
func (g *GameObject) Depth() int {
	d := 0
	for p := g.parentNode(); p != nil; p = p.parentNode() {
		d++
	}
	return d
}

// parentNode returns the live parent or nil. A live parent holds a Ref to g,
// so the pointer stays valid while g is in its child list.
func (g *GameObject) parentNode() *GameObject {
	r := g.parent.Elevate()
	if !r.Valid() {
		return nil
	}
	defer r.Release()
	return r.Get().Node()
}

func (g *GameObject) removeChild(child *GameObject) {
	for i := range g.children {
		if g.children[i].Get().Node() == child {
			g.children[i].Release()
			g.children = slices.Delete(g.children, i, i+1)
			return
		}
	}
}

// Retire is called by the object manager's sweep. It destroys the
// components and releases the children, which become parentless roots.
func (g *GameObject) Retire() {
	g.ClearComponents()
	g.SetScene(nil)
	for i := range g.children {
		c := g.children[i].Get().Node()
		c.parent.Reset()
		c.MarkWorldDirty()
		g.children[i].Release()
	}
	g.children = nil
}
