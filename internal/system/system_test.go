package system

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/renderengine/internal/core/datablock"
	"github.com/l1jgo/renderengine/internal/core/event"
	coresys "github.com/l1jgo/renderengine/internal/core/system"
	"github.com/l1jgo/renderengine/internal/scene"
)

type fixture struct {
	objects *datablock.Manager[scene.Object]
	scenes  *datablock.Manager[*scene.Scene]
	active  datablock.Ref[*scene.Scene]
}

func newFixture(t *testing.T) *fixture {
	log := zaptest.NewLogger(t)
	f := &fixture{
		objects: datablock.NewManager[scene.Object]("object", log),
		scenes:  datablock.NewManager[*scene.Scene]("scene", log),
	}
	f.active = scene.CreateScene(f.scenes, f.objects)
	t.Cleanup(func() { f.active.Release() })
	return f
}

func (f *fixture) ActiveScene() datablock.Ref[*scene.Scene] { return f.active }

type ticks struct{ dts []float32 }

type tickComponent struct{ t *ticks }

func (c *tickComponent) Kind() scene.Kind    { return "test.tick" }
func (c *tickComponent) Evaluate(dt float32) { c.t.dts = append(c.t.dts, dt) }

type stubRenderer struct {
	calls int
	cam   *scene.Camera
	err   error
}

func (r *stubRenderer) Render(_ *scene.Scene, cam *scene.Camera) error {
	r.calls++
	r.cam = cam
	return r.err
}

type countingFamily struct {
	name  string
	sweep []int
	calls int
	order *[]string
}

func (c *countingFamily) Family() string { return c.name }

func (c *countingFamily) GarbageCollect() int {
	*c.order = append(*c.order, c.name)
	n := 0
	if c.calls < len(c.sweep) {
		n = c.sweep[c.calls]
	}
	c.calls++
	return n
}

func TestEventSystemDeliversPreviousFrame(t *testing.T) {
	bus := event.NewBus()
	var got []event.KeyChanged
	event.Subscribe(bus, func(e event.KeyChanged) { got = append(got, e) })

	s := NewEventSystem(bus)
	assert.Equal(t, coresys.PhaseEvents, s.Phase())

	event.Emit(bus, event.KeyChanged{Key: "w", Pressed: true})
	assert.Empty(t, got)
	s.Update(time.Millisecond)
	require.Len(t, got, 1)
	assert.Equal(t, "w", got[0].Key)

	s.Update(time.Millisecond)
	assert.Len(t, got, 1)
}

func TestEvaluateSystemPassesSeconds(t *testing.T) {
	f := newFixture(t)
	var tr ticks
	root := f.active.Get().Root().Get().Node()
	scene.AddComponent(root, func(*scene.GameObject) *tickComponent { return &tickComponent{t: &tr} })

	s := NewEvaluateSystem(f)
	s.Update(250 * time.Millisecond)
	assert.Equal(t, []float32{0.25}, tr.dts)

	f.active.Release()
	s.Update(time.Second)
	assert.Len(t, tr.dts, 1)
}

func TestRenderSystemNeedsLiveCamera(t *testing.T) {
	f := newFixture(t)
	r := &stubRenderer{}
	s := NewRenderSystem(f, r, zaptest.NewLogger(t))

	s.Update(0)
	assert.Equal(t, 0, r.calls)
	assert.Equal(t, 1, s.Skipped())

	cam := scene.Create(f.objects, scene.NewCamera)
	f.active.Get().SetActiveCamera(cam)
	s.Update(0)
	assert.Equal(t, 1, r.calls)
	assert.Same(t, cam.Get(), r.cam)
	assert.Equal(t, 1, s.Rendered())

	cam.Release()
	f.objects.GarbageCollect()
	s.Update(0)
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, 2, s.Skipped())
}

func TestRenderSystemCountsOnlySuccess(t *testing.T) {
	f := newFixture(t)
	cam := scene.Create(f.objects, scene.NewCamera)
	defer cam.Release()
	f.active.Get().SetActiveCamera(cam)

	r := &stubRenderer{err: errors.New("device lost")}
	s := NewRenderSystem(f, r, zaptest.NewLogger(t))
	s.Update(0)
	s.Update(0)
	assert.Equal(t, 2, r.calls)
	assert.Equal(t, 0, s.Rendered())

	r.err = nil
	s.Update(0)
	assert.Equal(t, 1, s.Rendered())
}

func TestStatsSystem(t *testing.T) {
	s := NewStatsSystem(zaptest.NewLogger(t), 2)
	assert.Equal(t, coresys.PhaseStats, s.Phase())
	s.Update(10 * time.Millisecond)
	s.Update(20 * time.Millisecond)
	s.Update(30 * time.Millisecond)
	assert.Equal(t, 3, s.Frames())
	assert.Equal(t, 30*time.Millisecond, s.Last())
}

func TestCollectSystemInterval(t *testing.T) {
	var order []string
	a := &countingFamily{name: "scene", sweep: []int{0, 1}, order: &order}
	b := &countingFamily{name: "object", sweep: []int{2, 3}, order: &order}
	s := NewCollectSystem(zaptest.NewLogger(t), 2, a, b)
	assert.Equal(t, coresys.PhaseCleanup, s.Phase())

	s.Update(0)
	assert.Empty(t, order)
	s.Update(0)
	assert.Equal(t, []string{"scene", "object"}, order)
	assert.Equal(t, 2, s.Total())

	assert.Equal(t, 4, s.Sweep())
	assert.Equal(t, 6, s.Total())
}

func TestCollectSystemFollowsReleaseChain(t *testing.T) {
	f := newFixture(t)
	log := zaptest.NewLogger(t)

	a := scene.Create(f.objects, scene.NewGameObject)
	b := scene.Create(f.objects, scene.NewGameObject)
	upA, upB := scene.Up(a), scene.Up(b)
	require.True(t, f.active.Get().AddObject(upA))
	require.NoError(t, b.Get().SetParent(upA, false))
	for _, r := range []datablock.Ref[scene.Object]{upA, upB} {
		r.Release()
	}
	a.Release()
	b.Release()
	require.Equal(t, 3, f.objects.Len())

	// releasing the scene unlinks root, then a, then b: one level per sweep
	f.active.Release()
	s := NewCollectSystem(log, 1, f.scenes, f.objects)
	s.Update(0)
	assert.Equal(t, 0, f.scenes.Len())
	for i := 0; i < 3 && f.objects.Len() > 0; i++ {
		s.Update(0)
	}
	assert.Equal(t, 0, f.objects.Len())
	assert.Equal(t, 4, s.Total())
}

func TestRunnerOrdersFrameSystems(t *testing.T) {
	f := newFixture(t)
	bus := event.NewBus()
	r := coresys.NewRunner()
	r.Register(NewCollectSystem(zaptest.NewLogger(t), 1, f.objects))
	r.Register(NewStatsSystem(zaptest.NewLogger(t), 0))
	r.Register(NewRenderSystem(f, &stubRenderer{}, zaptest.NewLogger(t)))
	r.Register(NewEvaluateSystem(f))
	r.Register(NewEventSystem(bus))
	require.Equal(t, 5, r.Len())

	var order []string
	event.Subscribe(bus, func(event.KeyChanged) { order = append(order, "event") })
	root := f.active.Get().Root().Get().Node()
	var tr ticks
	scene.AddComponent(root, func(*scene.GameObject) *tickComponent { return &tickComponent{t: &tr} })

	event.Emit(bus, event.KeyChanged{Key: "a"})
	r.Tick(time.Second)
	assert.Equal(t, []string{"event"}, order)
	assert.Equal(t, []float32{1}, tr.dts)
}
