// Package scene implements the scene graph: GameObjects arranged in a tree
// under a Scene's root, each with a local transform, a cached world matrix
// and an ordered list of Components.
//
// Parents own their children (Ref) and children observe their parent
// (WeakRef), so a subtree is reclaimed once nothing outside it holds a Ref
// and the object manager has been swept.
package scene

import (
	"errors"

	"github.com/l1jgo/renderengine/internal/core/datablock"
)

// ErrCycle is returned by SetParent when the new parent is the object itself
// or one of its descendants.
var ErrCycle = errors.New("scene: parent would create a cycle")

// ErrRoot is returned by SetParent on a scene's root node.
var ErrRoot = errors.New("scene: root node cannot be reparented")

// Object is the family of scene-graph datablocks. All objects share one
// manager and one ID space.
type Object interface {
	datablock.Datablock
	Node() *GameObject
	TypeName() string
}

// Create registers a new object of type T with the object manager.
func Create[T Object](m *datablock.Manager[Object], ctor func() T) datablock.Ref[T] {
	return datablock.New(m, ctor, func(v T) Object { return v })
}

// Up converts a Ref to a concrete object type into a Ref to the family
// type. The result is a new owner.
func Up[T Object](r datablock.Ref[T]) datablock.Ref[Object] {
	return datablock.Cast(r, func(v T) (Object, bool) { return v, true })
}

// Down converts a family Ref to a concrete object type, or returns a null
// Ref if the object has a different type. The result is a new owner.
func Down[T Object](r datablock.Ref[Object]) datablock.Ref[T] {
	return datablock.Cast(r, func(o Object) (T, bool) {
		v, ok := o.(T)
		return v, ok
	})
}
