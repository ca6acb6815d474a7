// Package datablock implements reference-counted engine entities.
//
// Every datablock is created by a Manager, which keeps one owning Ref to it
// for bookkeeping. Other holders keep the datablock alive with their own Refs
// (Clone to share, Release to drop) or observe it through a WeakRef. A
// datablock is retired by the Manager's sweep once the Manager's Ref is the
// last one left; from then on no WeakRef can elevate to it, even though Go
// may keep its memory around for as long as something points at it.
//
// Copying a Ref value does not count as a new owner. Use Clone.
package datablock

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ID identifies a datablock within its Manager. IDs start at 1, increase
// monotonically and are never reused.
type ID uint64

// Null is never assigned to a datablock.
const Null ID = 0

var (
	// ErrRetired is the panic value for operations that require a live
	// datablock but found a retired one.
	ErrRetired = errors.New("datablock: use of retired datablock")
	// ErrOverRelease is the panic value when more Refs are released than
	// were ever acquired.
	ErrOverRelease = errors.New("datablock: released more references than held")
)

// Datablock is implemented by every type that embeds Block.
type Datablock interface {
	ID() ID
	block() *Block
}

// Retirer is implemented by datablocks that own Refs to other datablocks.
// Retire is called once, after the sweep that retired the datablock, and
// must release everything it owns.
type Retirer interface {
	Retire()
}

// Block is embedded by all datablock types. The zero Block is unregistered;
// a Manager fills it in at creation.
type Block struct {
	id   ID
	self *cell
}

// ID returns the datablock's ID, or Null if it was never registered.
func (b *Block) ID() ID { return b.id }

func (b *Block) block() *Block { return b }

// Retired reports whether the datablock has been retired by its Manager.
func (b *Block) Retired() bool {
	return b.self == nil || b.self.isRetired()
}

// cell is the control block shared by every Ref and WeakRef to one
// datablock. The mutex orders elevation against retirement; owners is atomic
// so Clone/Release never need the lock.
type cell struct {
	mu      sync.Mutex
	retired bool
	owners  atomic.Int32
	value   Datablock
}

func (c *cell) acquire() {
	c.owners.Add(1)
}

func (c *cell) release() {
	if c.owners.Add(-1) < 0 {
		panic(ErrOverRelease)
	}
}

// tryAcquire adds an owner unless the datablock is retired.
func (c *cell) tryAcquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.retired {
		return false
	}
	c.owners.Add(1)
	return true
}

// collect retires the datablock if the caller's Ref is the only owner left.
// The check and the retirement happen under one lock.
func (c *cell) collect() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.retired {
		return true
	}
	if c.owners.Load() != 1 {
		return false
	}
	c.retired = true
	c.owners.Store(0)
	return true
}

func (c *cell) isRetired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retired
}

// Retired reports whether d has been retired (or was never registered).
func Retired(d Datablock) bool {
	return d.block().Retired()
}
