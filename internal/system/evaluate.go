// Package system holds the per-frame systems the engine registers with its
// runner, one per phase.
package system

import (
	"time"

	"github.com/l1jgo/renderengine/internal/core/datablock"
	coresys "github.com/l1jgo/renderengine/internal/core/system"
	"github.com/l1jgo/renderengine/internal/scene"
)

// SceneSource yields the scene a frame works on. The returned Ref is
// borrowed and may be null.
type SceneSource interface {
	ActiveScene() datablock.Ref[*scene.Scene]
}

// EvaluateSystem runs every component of the active scene, depth first.
// Phase 1 (Update).
type EvaluateSystem struct {
	scenes SceneSource
}

func NewEvaluateSystem(scenes SceneSource) *EvaluateSystem {
	return &EvaluateSystem{scenes: scenes}
}

func (s *EvaluateSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *EvaluateSystem) Update(dt time.Duration) {
	sc := s.scenes.ActiveScene()
	if !sc.Valid() {
		return
	}
	sc.Get().EvaluateComponents(float32(dt.Seconds()))
}
