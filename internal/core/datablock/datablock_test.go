package datablock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/renderengine/internal/core/datablock"
)

type shape interface {
	datablock.Datablock
	Sides() int
}

type square struct {
	datablock.Block
	retires int
	owned   datablock.Ref[shape]
}

func (s *square) Sides() int { return 4 }

func (s *square) Retire() {
	s.retires++
	s.owned.Release()
}

type triangle struct {
	datablock.Block
}

func (t *triangle) Sides() int { return 3 }

func newSquare() *square     { return &square{} }
func newTriangle() *triangle { return &triangle{} }

func createSquare(m *datablock.Manager[shape]) datablock.Ref[*square] {
	return datablock.New(m, newSquare, func(s *square) shape { return s })
}

func createTriangle(m *datablock.Manager[shape]) datablock.Ref[*triangle] {
	return datablock.New(m, newTriangle, func(t *triangle) shape { return t })
}

func newManager(t *testing.T) *datablock.Manager[shape] {
	return datablock.NewManager[shape]("shape", zaptest.NewLogger(t))
}

func TestIDsAreMonotonicAndNonNull(t *testing.T) {
	m := newManager(t)
	var last datablock.ID
	seen := map[datablock.ID]bool{}
	for i := 0; i < 50; i++ {
		r := createSquare(m)
		id := r.ID()
		assert.NotEqual(t, datablock.Null, id)
		assert.Greater(t, id, last)
		assert.False(t, seen[id])
		seen[id] = true
		last = id
		r.Release()
	}
	assert.Len(t, seen, 50)
}

func TestIDsAreNotReusedAfterCollection(t *testing.T) {
	m := newManager(t)
	a := createSquare(m)
	first := a.ID()
	a.Release()
	require.Equal(t, 1, m.GarbageCollect())

	b := createSquare(m)
	defer b.Release()
	assert.Greater(t, b.ID(), first)
}

func TestIDSpacesArePerManager(t *testing.T) {
	m1 := newManager(t)
	m2 := newManager(t)
	a := createSquare(m1)
	b := createSquare(m2)
	assert.Equal(t, a.ID(), b.ID())
	a.Release()
	b.Release()
}

func TestGetByID(t *testing.T) {
	m := newManager(t)
	r := createTriangle(m)
	defer r.Release()

	got := m.GetByID(r.ID())
	require.True(t, got.Valid())
	assert.True(t, got.Is(r.Get()))
	assert.Equal(t, 3, got.Get().Sides())
	got.Release()
	assert.False(t, got.Valid())

	missing := m.GetByID(9999)
	assert.False(t, missing.Valid())
	assert.Equal(t, datablock.Null, missing.ID())
}

func TestLivenessUntilSweep(t *testing.T) {
	m := newManager(t)
	r := createSquare(m)
	w := r.Weak()

	r.Release()
	// Released but not yet swept: still registered and promotable.
	assert.True(t, w.Alive())
	e := w.Elevate()
	require.True(t, e.Valid())
	e.Release()

	assert.Equal(t, 1, m.GarbageCollect())
	assert.False(t, w.Alive())
	assert.False(t, w.Elevate().Valid())
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.GetByID(w.ID()).Valid())
}

func TestNoEarlyReclamation(t *testing.T) {
	m := newManager(t)
	a := createSquare(m)
	b := a.Clone()
	w := a.Weak()

	a.Release()
	assert.Equal(t, 0, m.GarbageCollect())
	assert.True(t, w.Alive())
	assert.Equal(t, 4, b.Get().Sides())

	b.Release()
	assert.Equal(t, 1, m.GarbageCollect())
	assert.False(t, w.Alive())
}

func TestElevatedRefBlocksCollection(t *testing.T) {
	m := newManager(t)
	r := createSquare(m)
	w := r.Weak()
	r.Release()

	held := w.Elevate()
	assert.Equal(t, 0, m.GarbageCollect())
	held.Release()
	assert.Equal(t, 1, m.GarbageCollect())
}

func TestRetireHookRunsAfterPass(t *testing.T) {
	m := newManager(t)
	child := createTriangle(m)
	parent := createSquare(m)

	parent.Get().owned = datablock.Cast(child, func(t *triangle) (shape, bool) { return t, true })
	child.Release()
	sq := parent.Get()
	parent.Release()

	// The parent goes first; the child it owned is released by Retire and
	// reclaimed by the following sweep.
	assert.Equal(t, 1, m.GarbageCollect())
	assert.Equal(t, 1, sq.retires)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 1, m.GarbageCollect())
	assert.Equal(t, 0, m.Len())
}

func TestRefToPanicsWhenRetired(t *testing.T) {
	m := newManager(t)
	r := createSquare(m)
	sq := r.Get()

	self := datablock.RefTo(sq)
	assert.True(t, datablock.Same(self, r))
	self.Release()

	r.Release()
	m.GarbageCollect()
	assert.True(t, datablock.Retired(sq))
	assert.PanicsWithError(t, "datablock: use of retired datablock: id 1", func() {
		datablock.RefTo(sq)
	})
	assert.False(t, datablock.WeakTo(sq).Alive())
}

func TestOverReleasePanics(t *testing.T) {
	m := newManager(t)
	r := createSquare(m)
	dup := r // a plain copy is not a new owner
	r.Release()
	m.GarbageCollect()
	assert.Panics(t, func() { dup.Release() })
}

func TestCast(t *testing.T) {
	m := newManager(t)
	sq := createSquare(m)
	defer sq.Release()

	base := datablock.Cast(sq, func(s *square) (shape, bool) { return s, true })
	defer base.Release()
	assert.True(t, datablock.Same(base, sq))

	down := datablock.Cast(base, func(s shape) (*square, bool) { v, ok := s.(*square); return v, ok })
	require.True(t, down.Valid())
	down.Release()

	wrong := datablock.Cast(base, func(s shape) (*triangle, bool) { v, ok := s.(*triangle); return v, ok })
	assert.False(t, wrong.Valid())
}

func TestEachIsCreationOrdered(t *testing.T) {
	m := newManager(t)
	var ids []datablock.ID
	for i := 0; i < 5; i++ {
		r := createSquare(m)
		ids = append(ids, r.ID())
		if i%2 == 0 {
			r.Release()
		}
	}
	m.GarbageCollect()

	var got []datablock.ID
	m.Each(func(r datablock.Ref[shape]) bool {
		got = append(got, r.ID())
		return true
	})
	assert.Equal(t, []datablock.ID{ids[1], ids[3]}, got)
	assert.True(t, m.GetByID(ids[3]).Valid())
}

func TestNullRefs(t *testing.T) {
	var r datablock.Ref[shape]
	assert.False(t, r.Valid())
	assert.Equal(t, "Ref(null)", r.String())
	r.Release()
	assert.False(t, r.Clone().Valid())

	var w datablock.WeakRef[shape]
	assert.False(t, w.Alive())
	assert.False(t, w.Elevate().Valid())
	assert.True(t, datablock.Same(r, datablock.Ref[*square]{}))
}
