package datablock

import (
	"fmt"

	"go.uber.org/zap"
)

// Manager owns every datablock of one family. IDs are unique per Manager,
// so two families may hand out the same ID.
//
// Datablocks are never reclaimed as a side effect of releasing a Ref; they
// are retired by GarbageCollect, which the engine calls once per frame.
// A Manager is not safe for concurrent use.
type Manager[B Datablock] struct {
	family string
	nextID ID
	blocks []Ref[B]
	index  map[ID]int
	log    *zap.Logger
}

// NewManager creates an empty Manager. family only labels log output.
func NewManager[B Datablock](family string, log *zap.Logger) *Manager[B] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager[B]{
		family: family,
		nextID: Null,
		blocks: make([]Ref[B], 0, 64),
		index:  make(map[ID]int, 64),
		log:    log,
	}
}

// Family returns the label the Manager was created with.
func (m *Manager[B]) Family() string { return m.family }

// Create registers the datablock built by ctor and returns an owning Ref.
func (m *Manager[B]) Create(ctor func() B) Ref[B] {
	return New(m, ctor, func(v B) B { return v })
}

// New registers a datablock of a type derived from the Manager's family.
// up converts T to the family type and is nearly always the identity
// function; writing it makes the compiler reject types outside the family.
func New[T, B Datablock](m *Manager[B], ctor func() T, up func(T) B) Ref[T] {
	v := ctor()
	b := v.block()
	if b.self != nil {
		panic(fmt.Sprintf("datablock: %s %d registered twice", m.family, b.id))
	}
	m.nextID++
	c := &cell{value: v}
	// one owner for the Manager, one for the caller
	c.owners.Store(2)
	b.id = m.nextID
	b.self = c

	m.index[b.id] = len(m.blocks)
	m.blocks = append(m.blocks, Ref[B]{c: c, v: up(v)})
	return Ref[T]{c: c, v: v}
}

// GetByID returns an owning Ref to the datablock with the given ID, or a
// null Ref if there is none. The caller must Release the result.
func (m *Manager[B]) GetByID(id ID) Ref[B] {
	i, ok := m.index[id]
	if !ok {
		return Ref[B]{}
	}
	return m.blocks[i].Clone()
}

// Len returns the number of registered (not yet retired) datablocks.
func (m *Manager[B]) Len() int { return len(m.blocks) }

// Each calls fn for every registered datablock in creation order until fn
// returns false. The Ref passed to fn is borrowed: Clone it to keep it.
func (m *Manager[B]) Each(fn func(Ref[B]) bool) {
	for _, r := range m.blocks {
		if !fn(r) {
			return
		}
	}
}

// GarbageCollect retires, in one pass, every datablock whose only owner is
// the Manager itself, and returns how many were retired. Retire hooks run
// after the pass, so datablocks they release are picked up by the next call.
func (m *Manager[B]) GarbageCollect() int {
	var retired []B
	kept := m.blocks[:0]
	for _, r := range m.blocks {
		if r.c.collect() {
			retired = append(retired, r.v)
			continue
		}
		kept = append(kept, r)
	}
	if len(retired) == 0 {
		return 0
	}
	clear(m.blocks[len(kept):])
	m.blocks = kept

	clear(m.index)
	for i, r := range m.blocks {
		m.index[r.v.ID()] = i
	}

	for _, v := range retired {
		if rt, ok := any(v).(Retirer); ok {
			rt.Retire()
		}
		m.log.Debug("datablock retired",
			zap.String("family", m.family),
			zap.Uint64("id", uint64(v.ID())),
		)
	}
	return len(retired)
}
