package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/renderengine/internal/core/datablock"
	"github.com/l1jgo/renderengine/internal/scene"
)

func newObjects(t *testing.T) *datablock.Manager[scene.Object] {
	return datablock.NewManager[scene.Object]("object", zaptest.NewLogger(t))
}

func TestLoadsLibBeforeScripts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "speed.lua"), []byte("SPEED = 2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spin.lua"), []byte(`
function spin(id, dt)
  node.rotate(id, SPEED * dt, 0, 0)
end
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not lua"), 0o644))

	objects := newObjects(t)
	e, err := NewEngine(dir, objects, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()

	obj := scene.Create(objects, scene.NewGameObject)
	defer obj.Release()

	assert.True(t, e.HasFunction("spin"))
	require.NoError(t, e.CallEvaluate("spin", obj.ID(), 0.5))
	assert.InDelta(t, 1, obj.Get().Rotation().X(), 1e-6)
}

func TestNodeAPI(t *testing.T) {
	objects := newObjects(t)
	e, err := NewEngine("", objects, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()

	parent := scene.Create(objects, scene.NewGameObject)
	defer parent.Release()
	child := scene.Create(objects, scene.NewGameObject)
	defer child.Release()
	child.Get().SetName("probe")
	parent.Get().SetPositionXYZ(10, 0, 0)
	up := scene.Up(parent)
	require.NoError(t, child.Get().SetParent(up, false))
	up.Release()

	require.NoError(t, e.DoString(`
function probe(id, dt)
  node.set_position(id, 1, 2, 3)
  node.move(id, 1, 0, 0)
  local x, y, z = node.world_position(id)
  assert(x == 12 and y == 2 and z == 3, "world position")
  assert(node.name(id) == "probe", "name")
  assert(node.alive(id), "alive")
  assert(not node.alive(9999), "missing")
  node.set_rotation(id, 0.25, 0, 0)
  log("probe ran")
end
`))
	require.NoError(t, e.CallEvaluate("probe", child.ID(), 0))
	assert.Equal(t, mgl32.Vec3{2, 2, 3}, child.Get().Position())
	assert.Equal(t, mgl32.Vec3{0.25, 0, 0}, child.Get().Rotation())
}

func TestCallEvaluateErrors(t *testing.T) {
	objects := newObjects(t)
	e, err := NewEngine("", objects, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()

	assert.ErrorContains(t, e.CallEvaluate("missing", 1, 0), "not found")

	require.NoError(t, e.DoString(`function poke(id, dt) node.move(id, 1, 0, 0) end`))
	assert.ErrorContains(t, e.CallEvaluate("poke", 42, 0), "no object with id 42")

	assert.Error(t, e.DoString("this is not lua"))
}

func TestLoadErrorsAreWrapped(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.lua"), []byte("function ("), 0o644))
	_, err := NewEngine(dir, newObjects(t), zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "broken.lua")
}
