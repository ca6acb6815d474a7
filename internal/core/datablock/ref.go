package datablock

import "fmt"

// Ref is an owning reference. While a Ref is held (not yet released) its
// datablock stays registered with its Manager. The zero Ref is null.
type Ref[T Datablock] struct {
	c *cell
	v T
}

// Get returns the referenced datablock, or the zero T for a null Ref.
func (r Ref[T]) Get() T { return r.v }

// Valid reports whether r is non-null.
func (r Ref[T]) Valid() bool { return r.c != nil }

// ID returns the referenced datablock's ID, or Null.
func (r Ref[T]) ID() ID {
	if r.c == nil {
		return Null
	}
	return r.v.ID()
}

// Clone returns a new owning reference to the same datablock.
func (r Ref[T]) Clone() Ref[T] {
	if r.c != nil {
		r.c.acquire()
	}
	return r
}

// Release drops this reference's ownership and nulls r. Releasing a null Ref
// is a no-op.
func (r *Ref[T]) Release() {
	if r.c == nil {
		return
	}
	r.c.release()
	*r = Ref[T]{}
}

// Weak returns an observing reference to the same datablock.
func (r Ref[T]) Weak() WeakRef[T] {
	return WeakRef[T]{c: r.c, v: r.v}
}

// Is reports whether r refers to d.
func (r Ref[T]) Is(d Datablock) bool {
	if r.c == nil || d == nil {
		return false
	}
	return r.c == d.block().self
}

func (r Ref[T]) String() string {
	if r.c == nil {
		return "Ref(null)"
	}
	return fmt.Sprintf("Ref(%d)", r.v.ID())
}

// Same reports whether a and b refer to the same datablock. Two null Refs
// are the same.
func Same[A, B Datablock](a Ref[A], b Ref[B]) bool {
	return a.c == b.c
}

// WeakRef observes a datablock without keeping it registered. The zero
// WeakRef is null.
type WeakRef[T Datablock] struct {
	c *cell
	v T
}

// Alive reports whether the datablock has not been retired yet. Call
// Elevate instead if you intend to use it.
func (w WeakRef[T]) Alive() bool {
	return w.c != nil && !w.c.isRetired()
}

// Elevate returns an owning reference, or a null Ref if the datablock has
// been retired. The caller must Release the result.
func (w WeakRef[T]) Elevate() Ref[T] {
	if w.c == nil || !w.c.tryAcquire() {
		return Ref[T]{}
	}
	return Ref[T]{c: w.c, v: w.v}
}

// ID returns the observed datablock's ID, or Null. The ID is reported even
// after retirement.
func (w WeakRef[T]) ID() ID {
	if w.c == nil {
		return Null
	}
	return w.v.ID()
}

// Is reports whether w observes d.
func (w WeakRef[T]) Is(d Datablock) bool {
	if w.c == nil || d == nil {
		return false
	}
	return w.c == d.block().self
}

// Reset nulls w.
func (w *WeakRef[T]) Reset() {
	*w = WeakRef[T]{}
}

// RefTo returns a new owning reference from the datablock itself. It panics
// with ErrRetired if v has been retired: holding a pointer to a retired
// datablock and asking for ownership means a lifetime invariant is broken.
func RefTo[T Datablock](v T) Ref[T] {
	b := v.block()
	if b.self == nil || !b.self.tryAcquire() {
		panic(fmt.Errorf("%w: id %d", ErrRetired, b.id))
	}
	return Ref[T]{c: b.self, v: v}
}

// WeakTo returns an observing reference to v. For a retired datablock the
// result is never Alive.
func WeakTo[T Datablock](v T) WeakRef[T] {
	b := v.block()
	if b.self == nil {
		return WeakRef[T]{}
	}
	return WeakRef[T]{c: b.self, v: v}
}

// Cast converts r to another static type sharing the same ownership. conv
// reports whether the datablock has the target type; the result is null if
// it does not. Family packages wrap Cast so that the relationship between
// From and To is checked by the compiler.
func Cast[To, From Datablock](r Ref[From], conv func(From) (To, bool)) Ref[To] {
	if r.c == nil {
		return Ref[To]{}
	}
	v, ok := conv(r.v)
	if !ok {
		return Ref[To]{}
	}
	r.c.acquire()
	return Ref[To]{c: r.c, v: v}
}
