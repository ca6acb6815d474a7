package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/l1jgo/renderengine/internal/asset"
	"github.com/l1jgo/renderengine/internal/component"
	"github.com/l1jgo/renderengine/internal/core/datablock"
	"github.com/l1jgo/renderengine/internal/core/event"
	"github.com/l1jgo/renderengine/internal/data"
	"github.com/l1jgo/renderengine/internal/engine"
	"github.com/l1jgo/renderengine/internal/scene"
	"github.com/l1jgo/renderengine/internal/scripting"
)

// spinFunction is the Lua function driving the cube when scripts define it.
const spinFunction = "spin"

type demo struct {
	scene datablock.Ref[*scene.Scene]
}

func (d *demo) release() { d.scene.Release() }

// buildDemo creates and activates a small scene: a player rig carrying the
// camera, a textured ground plane, a spinning cube and two lights.
func buildDemo(eng *engine.Engine, lua *scripting.Engine, bindings *data.KeyBindings, log *zap.Logger) *demo {
	cfg := eng.Config()
	s := eng.CreateScene()
	eng.SetActiveScene(s)
	sc := s.Get()
	sc.BackgroundColor = mgl32.Vec4{0.1, 0.1, 0.15, 1}

	// player rig: keyboard and mouse drive the rig, the camera rides on it
	player := engine.CreateObject(eng, scene.NewGameObject)
	defer player.Release()
	player.Get().SetName("player")
	p := player.Get()
	scene.AddComponent(p, component.NewMotion)
	kc := scene.AddComponent(p, component.NewKeyboardController(eng.Input(), bindings))
	kc.MoveSpeed = cfg.Input.MoveSpeed
	scene.AddComponent(p, component.NewMouseRotation(eng.Bus(), eng.Input(), cfg.Input.MouseSpeed))
	scene.AddComponent(p, component.NewApplyMotion)
	p.SetPositionXYZ(0, 0, 5)
	addTop(sc, player)

	cam := engine.CreateObject(eng, scene.NewCamera)
	defer cam.Release()
	cam.Get().SetName("camera")
	aspect := float32(cfg.Window.Width) / float32(cfg.Window.Height)
	cam.Get().SetPerspective(mgl32.DegToRad(60), aspect, 0.1, 500)
	cam.Get().SetPositionXYZ(0, 1.6, 0)
	attach(cam, player, log)
	sc.SetActiveCamera(cam)

	// ground
	tex := eng.TextureByPath("textures/ground.png")
	if !tex.Valid() {
		tex = eng.CreateTexture("textures/ground.png")
	}
	defer tex.Release()
	groundMat := eng.CreateMaterial()
	defer groundMat.Release()
	groundMat.Get().Name = "ground"
	groundMat.Get().AssignDiffuseTexture(tex)
	groundMat.Get().Roughness = 0.9

	plane := eng.CreateMesh()
	defer plane.Release()
	plane.Get().SetGeometry(quad(20))
	plane.Get().AssignMaterial(groundMat)

	ground := engine.CreateObject(eng, scene.NewMeshObject)
	defer ground.Release()
	ground.Get().SetName("ground")
	ground.Get().AssignMesh(plane)
	addTop(sc, ground)

	// cube
	cubeMat := eng.CreateMaterial()
	defer cubeMat.Release()
	cubeMat.Get().Name = "cube"
	cubeMat.Get().DiffuseColor = mgl32.Vec4{0.8, 0.3, 0.2, 1}
	cubeMat.Get().Metalness = 0.5

	box := eng.CreateMesh()
	defer box.Release()
	box.Get().SetGeometry(cube(0.5))
	box.Get().AssignMaterial(cubeMat)

	cubeObj := engine.CreateObject(eng, scene.NewMeshObject)
	defer cubeObj.Release()
	cubeObj.Get().SetName("cube")
	cubeObj.Get().AssignMesh(box)
	cubeObj.Get().SetPositionXYZ(0, 0.5, 0)
	if lua.HasFunction(spinFunction) {
		scene.AddComponent(cubeObj.Get().Node(), component.NewScript(lua, spinFunction, log))
	} else {
		m := scene.AddComponent(cubeObj.Get().Node(), component.NewMotion)
		m.SetAngularVelocity(mgl32.Vec3{1, 0, 0})
		scene.AddComponent(cubeObj.Get().Node(), component.ApplyMotionFrom(m))
	}
	addTop(sc, cubeObj)

	// lights
	sun := engine.CreateObject(eng, scene.NewLight)
	defer sun.Release()
	sun.Get().SetName("sun")
	sun.Get().Type = scene.LightDirectional
	sun.Get().SetRotationYPR(math.Pi/4, -math.Pi/3, 0)
	addTop(sc, sun)

	lamp := engine.CreateObject(eng, scene.NewLight)
	defer lamp.Release()
	lamp.Get().SetName("lamp")
	lamp.Get().Color = mgl32.Vec3{4, 3.5, 3}
	lamp.Get().SetPositionXYZ(0, 1, 0)
	attach(lamp, cubeObj, log)

	event.Emit(eng.Bus(), event.FramebufferResized{Width: cfg.Window.Width, Height: cfg.Window.Height})

	log.Info("demo scene built",
		zap.Int("objects", eng.Objects().Len()),
		zap.Int("lights", len(sc.Lights())),
		zap.Bool("scripted", lua.HasFunction(spinFunction)),
	)
	return &demo{scene: s}
}

func addTop[T scene.Object](s *scene.Scene, obj datablock.Ref[T]) {
	up := scene.Up(obj)
	defer up.Release()
	s.AddObject(up)
}

func attach[C, P scene.Object](child datablock.Ref[C], parent datablock.Ref[P], log *zap.Logger) {
	up := scene.Up(parent)
	defer up.Release()
	if err := child.Get().Node().SetParent(up, false); err != nil {
		log.Warn("attach failed", zap.String("child", child.Get().Node().Name()), zap.Error(err))
	}
}

// quad returns a ground plane of the given half size facing +y.
func quad(half float32) ([]asset.Vertex, []uint32) {
	up := mgl32.Vec3{0, 1, 0}
	v := []asset.Vertex{
		{Position: mgl32.Vec3{-half, 0, -half}, Normal: up, UV: mgl32.Vec2{0, 0}},
		{Position: mgl32.Vec3{-half, 0, half}, Normal: up, UV: mgl32.Vec2{0, 1}},
		{Position: mgl32.Vec3{half, 0, half}, Normal: up, UV: mgl32.Vec2{1, 1}},
		{Position: mgl32.Vec3{half, 0, -half}, Normal: up, UV: mgl32.Vec2{1, 0}},
	}
	return v, []uint32{0, 1, 2, 0, 2, 3}
}

// cube returns an axis-aligned cube with four vertices per face.
func cube(half float32) ([]asset.Vertex, []uint32) {
	faces := []struct{ n, u, v mgl32.Vec3 }{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	verts := make([]asset.Vertex, 0, 24)
	idx := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(verts))
		c := f.n.Mul(half)
		u, v := f.u.Mul(half), f.v.Mul(half)
		for _, uv := range []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
			p := c.Add(u.Mul(uv.X()*2 - 1)).Add(v.Mul(uv.Y()*2 - 1))
			verts = append(verts, asset.Vertex{Position: p, Normal: f.n, UV: uv})
		}
		idx = append(idx, base, base+1, base+2, base, base+2, base+3)
	}
	return verts, idx
}
