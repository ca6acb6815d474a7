package component

import (
	"go.uber.org/zap"

	"github.com/l1jgo/renderengine/internal/scene"
	"github.com/l1jgo/renderengine/internal/scripting"
)

const KindScript scene.Kind = "component.script"

// Script calls a global Lua function fn(id, dt) every frame with the owning
// object's ID. A failing script is logged once and disabled.
type Script struct {
	owner    *scene.GameObject
	engine   *scripting.Engine
	function string
	disabled bool
	log      *zap.Logger
}

func NewScript(e *scripting.Engine, function string, log *zap.Logger) func(*scene.GameObject) *Script {
	if log == nil {
		log = zap.NewNop()
	}
	return func(g *scene.GameObject) *Script {
		return &Script{owner: g, engine: e, function: function, log: log}
	}
}

func (s *Script) Kind() scene.Kind { return KindScript }

func (s *Script) Function() string { return s.function }

// Disabled reports whether the script stopped after an error.
func (s *Script) Disabled() bool { return s.disabled }

func (s *Script) Evaluate(dt float32) {
	if s.disabled || s.engine == nil {
		return
	}
	if err := s.engine.CallEvaluate(s.function, s.owner.ID(), dt); err != nil {
		s.disabled = true
		s.log.Error("script disabled",
			zap.String("function", s.function),
			zap.Uint64("object", uint64(s.owner.ID())),
			zap.Error(err),
		)
	}
}
