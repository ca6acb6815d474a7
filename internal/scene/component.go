package scene

import "slices"

// Kind names a concrete component type. Lookups by type compare kinds for
// equality and then assert the exact type; a component embedding another
// component type does not match it.
type Kind string

// Component is a behaviour attached to exactly one GameObject.
//
// Evaluate is called once per frame with the frame time in seconds. The
// same dt is passed to every component of the frame. An object's components
// run in list order, each returning before the next starts, and none of
// them starts before every component of every ancestor has finished.
//
// Components are pointer types. Kind must return a constant that does not
// depend on the receiver's state, because lookups call it on a zero value.
type Component interface {
	Kind() Kind
	Evaluate(dt float32)
}

// Destroyer is implemented by components that release resources when they
// are removed from their object.
type Destroyer interface {
	Destroy()
}

func destroy(c Component) {
	if d, ok := c.(Destroyer); ok {
		d.Destroy()
	}
}

// AddComponent constructs a component for g and appends it. Every component
// constructor takes its owning object as the first argument; extra arguments
// are bound by wrapping the constructor in a closure.
func AddComponent[C Component](g *GameObject, ctor func(*GameObject) C) C {
	c := ctor(g)
	g.components = append(g.components, c)
	return c
}

// AddComponentFirst constructs a component for g and puts it first.
func AddComponentFirst[C Component](g *GameObject, ctor func(*GameObject) C) C {
	c, _ := InsertComponent(g, 0, ctor)
	return c
}

// InsertComponent constructs a component for g and inserts it at index,
// 0 <= index <= len. It reports false, without calling ctor, for an index
// out of range.
func InsertComponent[C Component](g *GameObject, index int, ctor func(*GameObject) C) (C, bool) {
	if index < 0 || index > len(g.components) {
		var zero C
		return zero, false
	}
	c := ctor(g)
	g.components = slices.Insert(g.components, index, Component(c))
	return c, true
}

// GetComponent returns the first component whose exact type is *T, or nil.
func GetComponent[T any, PT interface {
	*T
	Component
}](g *GameObject) PT {
	if i := ComponentIndexOf[T, PT](g); i >= 0 {
		return g.components[i].(PT)
	}
	return nil
}

// ComponentIndexOf returns the index of the first component whose exact type
// is *T, or -1.
func ComponentIndexOf[T any, PT interface {
	*T
	Component
}](g *GameObject) int {
	var zero T
	want := PT(&zero).Kind()
	for i, c := range g.components {
		if c.Kind() != want {
			continue
		}
		if _, ok := c.(PT); ok {
			return i
		}
	}
	return -1
}

// RemoveComponentOf removes and destroys the first component whose exact
// type is *T.
func RemoveComponentOf[T any, PT interface {
	*T
	Component
}](g *GameObject) bool {
	return g.RemoveComponentAt(ComponentIndexOf[T, PT](g))
}

// Components returns the component list in evaluation order. Do not modify
// the returned slice.
func (g *GameObject) Components() []Component { return g.components }

// Component returns the component at index, or nil when out of range.
func (g *GameObject) Component(index int) Component {
	if index < 0 || index >= len(g.components) {
		return nil
	}
	return g.components[index]
}

// ComponentIndex returns the index of c, or -1.
func (g *GameObject) ComponentIndex(c Component) int {
	if c == nil {
		return -1
	}
	return slices.Index(g.components, c)
}

// RemoveComponent removes and destroys c.
func (g *GameObject) RemoveComponent(c Component) bool {
	return g.RemoveComponentAt(g.ComponentIndex(c))
}

// RemoveComponentAt removes and destroys the component at index.
func (g *GameObject) RemoveComponentAt(index int) bool {
	if index < 0 || index >= len(g.components) {
		return false
	}
	c := g.components[index]
	g.components = slices.Delete(g.components, index, index+1)
	destroy(c)
	return true
}

func (g *GameObject) RemoveComponentFirst() bool {
	return g.RemoveComponentAt(0)
}

func (g *GameObject) RemoveComponentLast() bool {
	return g.RemoveComponentAt(len(g.components) - 1)
}

// ClearComponents removes and destroys every component.
func (g *GameObject) ClearComponents() {
	list := g.components
	g.components = nil
	for _, c := range list {
		destroy(c)
	}
}

// SwapComponents swaps the positions of a and b.
func (g *GameObject) SwapComponents(a, b Component) bool {
	return g.SwapComponentsAt(g.ComponentIndex(a), g.ComponentIndex(b))
}

func (g *GameObject) SwapComponentsAt(i, j int) bool {
	n := len(g.components)
	if i < 0 || j < 0 || i >= n || j >= n {
		return false
	}
	g.components[i], g.components[j] = g.components[j], g.components[i]
	return true
}

// MoveComponent moves c so that it ends up at index, shifting the
// components in between.
func (g *GameObject) MoveComponent(c Component, index int) bool {
	return g.MoveComponentAt(g.ComponentIndex(c), index)
}

func (g *GameObject) MoveComponentAt(src, dst int) bool {
	n := len(g.components)
	if src < 0 || dst < 0 || src >= n || dst >= n {
		return false
	}
	if src == dst {
		return true
	}
	c := g.components[src]
	g.components = slices.Delete(g.components, src, src+1)
	g.components = slices.Insert(g.components, dst, c)
	return true
}

func (g *GameObject) MoveComponentToFirst(c Component) bool {
	return g.MoveComponentAt(g.ComponentIndex(c), 0)
}

func (g *GameObject) MoveComponentToFirstAt(index int) bool {
	return g.MoveComponentAt(index, 0)
}

func (g *GameObject) MoveComponentToLast(c Component) bool {
	return g.MoveComponentAt(g.ComponentIndex(c), len(g.components)-1)
}

func (g *GameObject) MoveComponentToLastAt(index int) bool {
	return g.MoveComponentAt(index, len(g.components)-1)
}

// evaluate runs g's components in order and then recurses into the
// children. Both lists are walked from a snapshot taken on entry: entries
// removed or reparented by an earlier Evaluate are skipped, and entries
// added during the walk wait for the next frame.
func (g *GameObject) evaluate(dt float32) {
	for _, c := range slices.Clone(g.components) {
		if g.ComponentIndex(c) < 0 {
			continue
		}
		c.Evaluate(dt)
	}
	kids := make([]*GameObject, len(g.children))
	for i := range g.children {
		kids[i] = g.children[i].Get().Node()
	}
	for _, k := range kids {
		if k.parentNode() != g {
			continue
		}
		k.evaluate(dt)
	}
}
