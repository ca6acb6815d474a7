// Package engine ties the scene core together: it owns one datablock manager
// per family, the event bus, the input context and the frame runner, and
// drives frames either from a ticker or from a recorded camera path.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/renderengine/internal/asset"
	"github.com/l1jgo/renderengine/internal/config"
	"github.com/l1jgo/renderengine/internal/core/datablock"
	"github.com/l1jgo/renderengine/internal/core/event"
	coresys "github.com/l1jgo/renderengine/internal/core/system"
	"github.com/l1jgo/renderengine/internal/input"
	"github.com/l1jgo/renderengine/internal/render"
	"github.com/l1jgo/renderengine/internal/scene"
	"github.com/l1jgo/renderengine/internal/system"
)

var (
	// ErrNoScene is returned when an operation needs an active scene.
	ErrNoScene = errors.New("engine: no active scene")
	// ErrNoCamera is returned when the active scene has no live camera.
	ErrNoCamera = errors.New("engine: active scene has no camera")
)

// statsPeriod is how often frame stats are logged.
const statsPeriod = 5 * time.Second

// Engine is the root of all engine state. It is not safe for concurrent use:
// every method must be called from the frame loop's goroutine.
type Engine struct {
	cfg *config.Config
	log *zap.Logger

	scenes    *datablock.Manager[*scene.Scene]
	objects   *datablock.Manager[scene.Object]
	meshes    *datablock.Manager[*asset.Mesh]
	materials *datablock.Manager[*asset.Material]
	textures  *datablock.Manager[*asset.Texture]

	bus     *event.Bus
	input   *input.Context
	runner  *coresys.Runner
	render  *system.RenderSystem
	stats   *system.StatsSystem
	collect *system.CollectSystem

	active datablock.Ref[*scene.Scene]
	frames int
}

// New builds an engine. A nil renderer selects the headless render.Counter.
func New(cfg *config.Config, r render.Renderer, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if r == nil {
		r = render.NewCounter(log)
	}
	e := &Engine{
		cfg:       cfg,
		log:       log,
		scenes:    datablock.NewManager[*scene.Scene]("scene", log),
		objects:   datablock.NewManager[scene.Object]("object", log),
		meshes:    datablock.NewManager[*asset.Mesh]("mesh", log),
		materials: datablock.NewManager[*asset.Material]("material", log),
		textures:  datablock.NewManager[*asset.Texture]("texture", log),
		bus:       event.NewBus(),
		runner:    coresys.NewRunner(),
	}
	e.input = input.NewContext(e.bus, log)

	statsEvery := int(statsPeriod / cfg.Engine.TickRate)
	e.render = system.NewRenderSystem(e, r, log)
	e.stats = system.NewStatsSystem(log, statsEvery)
	// owners first, so one sweep follows releases from scenes down to textures
	e.collect = system.NewCollectSystem(log, cfg.Engine.GCInterval,
		e.scenes, e.objects, e.meshes, e.materials, e.textures)

	e.runner.Register(system.NewEventSystem(e.bus))
	e.runner.Register(system.NewEvaluateSystem(e))
	e.runner.Register(e.render)
	e.runner.Register(e.stats)
	e.runner.Register(e.collect)
	return e
}

func (e *Engine) Config() *config.Config { return e.cfg }
func (e *Engine) Bus() *event.Bus        { return e.bus }
func (e *Engine) Input() *input.Context  { return e.input }

func (e *Engine) Scenes() *datablock.Manager[*scene.Scene]       { return e.scenes }
func (e *Engine) Objects() *datablock.Manager[scene.Object]      { return e.objects }
func (e *Engine) Meshes() *datablock.Manager[*asset.Mesh]        { return e.meshes }
func (e *Engine) Materials() *datablock.Manager[*asset.Material] { return e.materials }
func (e *Engine) Textures() *datablock.Manager[*asset.Texture]   { return e.textures }

// Frames returns the number of frames run.
func (e *Engine) Frames() int { return e.frames }

// Rendered returns the number of frames that reached the renderer.
func (e *Engine) Rendered() int { return e.render.Rendered() }

// CreateScene registers a new scene and its root node. It does not make the
// scene active.
func (e *Engine) CreateScene() datablock.Ref[*scene.Scene] {
	s := scene.CreateScene(e.scenes, e.objects)
	e.log.Debug("scene created", zap.Uint64("id", uint64(s.ID())))
	return s
}

// SetActiveScene makes s the scene evaluated and rendered each frame. The
// engine holds its own Ref; a null Ref clears the active scene.
func (e *Engine) SetActiveScene(s datablock.Ref[*scene.Scene]) {
	e.active.Release()
	e.active = s.Clone()
	e.log.Info("active scene changed", zap.Uint64("id", uint64(s.ID())))
}

// ActiveScene returns the active scene. The Ref is borrowed: Clone to keep.
func (e *Engine) ActiveScene() datablock.Ref[*scene.Scene] { return e.active }

// ObjectByID returns an owning Ref to the object with the given ID, or a
// null Ref.
func (e *Engine) ObjectByID(id datablock.ID) datablock.Ref[scene.Object] {
	return e.objects.GetByID(id)
}

type eventHooker interface {
	HookEvents(bus *event.Bus)
}

// CreateObject registers a new scene object. Unnamed objects are named
// "<TypeName>.<ID>", and objects that listen to window events are
// subscribed to the engine's bus.
func CreateObject[T scene.Object](e *Engine, ctor func() T) datablock.Ref[T] {
	r := scene.Create(e.objects, ctor)
	obj := r.Get()
	if n := obj.Node(); n.Name() == "" {
		n.SetName(fmt.Sprintf("%s.%d", obj.TypeName(), r.ID()))
	}
	if h, ok := any(obj).(eventHooker); ok {
		h.HookEvents(e.bus)
	}
	return r
}

func (e *Engine) CreateMesh() datablock.Ref[*asset.Mesh] {
	return e.meshes.Create(asset.NewMesh)
}

func (e *Engine) CreateMaterial() datablock.Ref[*asset.Material] {
	return e.materials.Create(asset.NewMaterial)
}

// CreateTexture registers a texture loaded from path. Use TextureByPath
// first to share an already loaded one.
func (e *Engine) CreateTexture(path string) datablock.Ref[*asset.Texture] {
	t := e.textures.Create(asset.NewTexture)
	t.Get().SetPath(path)
	return t
}

// TextureByPath returns an owning Ref to a registered texture loaded from
// path, or a null Ref.
func (e *Engine) TextureByPath(path string) datablock.Ref[*asset.Texture] {
	var found datablock.Ref[*asset.Texture]
	e.textures.Each(func(t datablock.Ref[*asset.Texture]) bool {
		if t.Get().SamePath(path) {
			found = t.Clone()
			return false
		}
		return true
	})
	return found
}

// GarbageCollect sweeps every family once, outside the frame schedule, and
// returns how many datablocks were retired.
func (e *Engine) GarbageCollect() int { return e.collect.Sweep() }

// Frame runs one frame with a fixed time step.
func (e *Engine) Frame(dt time.Duration) {
	e.frames++
	e.runner.Tick(dt)
}

// frameWith runs one frame, calling between after evaluation and before
// rendering.
func (e *Engine) frameWith(dt time.Duration, between func()) {
	e.frames++
	e.runner.TickPhase(coresys.PhaseEvents, dt)
	e.runner.TickPhase(coresys.PhaseUpdate, dt)
	between()
	e.runner.TickPhase(coresys.PhaseRender, dt)
	e.runner.TickPhase(coresys.PhaseStats, dt)
	e.runner.TickPhase(coresys.PhaseCleanup, dt)
}

// Run drives frames from a ticker at the configured tick rate until ctx is
// done or the configured frame limit is reached. Every frame advances by
// exactly one tick, however late the ticker fires.
func (e *Engine) Run(ctx context.Context) error {
	tick := e.cfg.Engine.TickRate
	limit := e.cfg.Engine.FrameLimit

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	e.log.Info("frame loop started", zap.Duration("tick", tick), zap.Int("limit", limit))
	start := e.frames
	for {
		select {
		case <-ctx.Done():
			e.log.Info("frame loop stopped", zap.Int("frames", e.frames-start))
			return nil
		case <-ticker.C:
			e.Frame(tick)
			if limit > 0 && e.frames-start >= limit {
				e.log.Info("frame limit reached", zap.Int("frames", limit))
				return nil
			}
		}
	}
}

// Close drops the active scene and sweeps until nothing more can be
// reclaimed. Datablocks still held by the caller survive.
func (e *Engine) Close() {
	e.active.Release()
	total := 0
	for {
		n := e.collect.Sweep()
		if n == 0 {
			break
		}
		total += n
	}
	e.log.Info("engine closed",
		zap.Int("reclaimed", total),
		zap.Int("objects_left", e.objects.Len()),
		zap.Int("meshes_left", e.meshes.Len()),
	)
}
