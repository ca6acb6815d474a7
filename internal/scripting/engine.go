package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/renderengine/internal/core/datablock"
	"github.com/l1jgo/renderengine/internal/scene"
)

// Engine wraps a single gopher-lua VM for component scripts.
// Single-goroutine access only (frame loop).
//
// Scripts see objects by ID through the global "node" table:
//
//	node.name(id)                     -> string
//	node.position(id)                 -> x, y, z
//	node.set_position(id, x, y, z)
//	node.move(id, dx, dy, dz)
//	node.rotation(id)                 -> yaw, pitch, roll
//	node.set_rotation(id, yaw, pitch, roll)
//	node.rotate(id, dyaw, dpitch, droll)
//	node.world_position(id)           -> x, y, z
//	node.alive(id)                    -> bool
//
// Functions given an unknown or reclaimed ID raise a Lua error.
type Engine struct {
	vm      *lua.LState
	objects *datablock.Manager[scene.Object]
	log     *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory: lib/ first, then the directory itself. A missing directory
// loads nothing.
func NewEngine(scriptsDir string, objects *datablock.Manager[scene.Object], log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, objects: objects, log: log}
	e.registerNodeAPI()
	vm.SetGlobal("log", vm.NewFunction(e.luaLog))

	if scriptsDir == "" {
		return e, nil
	}
	for _, dir := range []string{filepath.Join(scriptsDir, "lib"), scriptsDir} {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// HasFunction reports whether a global Lua function with the given name
// exists.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// CallEvaluate calls the global function name(id, dt) for one object. It is
// the per-frame entry point of script components.
func (e *Engine) CallEvaluate(name string, id datablock.ID, dt float32) error {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return fmt.Errorf("lua function %s not found", name)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(id), lua.LNumber(dt)); err != nil {
		return fmt.Errorf("lua %s(%d): %w", name, id, err)
	}
	return nil
}

// --- node API ---

func (e *Engine) registerNodeAPI() {
	t := e.vm.NewTable()
	e.vm.SetFuncs(t, map[string]lua.LGFunction{
		"name":           e.luaName,
		"alive":          e.luaAlive,
		"position":       e.withNode(func(L *lua.LState, g *scene.GameObject) int { return pushVec3(L, g.Position()) }),
		"rotation":       e.withNode(func(L *lua.LState, g *scene.GameObject) int { return pushVec3(L, g.Rotation()) }),
		"world_position": e.withNode(func(L *lua.LState, g *scene.GameObject) int { return pushVec3(L, g.WorldPosition()) }),
		"set_position": e.withNode(func(L *lua.LState, g *scene.GameObject) int {
			g.SetPosition(checkVec3(L, 2))
			return 0
		}),
		"move": e.withNode(func(L *lua.LState, g *scene.GameObject) int {
			g.DeltaPosition(checkVec3(L, 2))
			return 0
		}),
		"set_rotation": e.withNode(func(L *lua.LState, g *scene.GameObject) int {
			g.SetRotation(checkVec3(L, 2))
			return 0
		}),
		"rotate": e.withNode(func(L *lua.LState, g *scene.GameObject) int {
			g.DeltaRotation(checkVec3(L, 2))
			return 0
		}),
	})
	e.vm.SetGlobal("node", t)
}

// withNode resolves the object ID in argument 1 and holds a Ref to it for
// the duration of fn.
func (e *Engine) withNode(fn func(L *lua.LState, g *scene.GameObject) int) lua.LGFunction {
	return func(L *lua.LState) int {
		id := datablock.ID(L.CheckInt64(1))
		r := e.objects.GetByID(id)
		if !r.Valid() {
			L.RaiseError("no object with id %d", id)
			return 0
		}
		defer r.Release()
		return fn(L, r.Get().Node())
	}
}

func (e *Engine) luaName(L *lua.LState) int {
	return e.withNode(func(L *lua.LState, g *scene.GameObject) int {
		L.Push(lua.LString(g.Name()))
		return 1
	})(L)
}

func (e *Engine) luaAlive(L *lua.LState) int {
	r := e.objects.GetByID(datablock.ID(L.CheckInt64(1)))
	L.Push(lua.LBool(r.Valid()))
	r.Release()
	return 1
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

// --- Lua helpers ---

func pushVec3(L *lua.LState, v mgl32.Vec3) int {
	L.Push(lua.LNumber(v[0]))
	L.Push(lua.LNumber(v[1]))
	L.Push(lua.LNumber(v[2]))
	return 3
}

func checkVec3(L *lua.LState, first int) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(L.CheckNumber(first)),
		float32(L.CheckNumber(first + 1)),
		float32(L.CheckNumber(first + 2)),
	}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
