package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/l1jgo/renderengine/internal/core/system"
	"github.com/l1jgo/renderengine/internal/render"
)

// RenderSystem hands the active scene and its active camera to a Renderer.
// A scene without a live camera is skipped. Phase 2 (Render).
type RenderSystem struct {
	scenes   SceneSource
	renderer render.Renderer
	log      *zap.Logger

	rendered int
	skipped  int
	failed   bool
}

func NewRenderSystem(scenes SceneSource, r render.Renderer, log *zap.Logger) *RenderSystem {
	return &RenderSystem{scenes: scenes, renderer: r, log: log}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseRender }

func (s *RenderSystem) Update(_ time.Duration) {
	sc := s.scenes.ActiveScene()
	if !sc.Valid() {
		s.skipped++
		return
	}
	cam := sc.Get().ActiveCamera().Elevate()
	defer cam.Release()
	if !cam.Valid() {
		s.skipped++
		return
	}

	if err := s.renderer.Render(sc.Get(), cam.Get()); err != nil {
		// log the first failure of a streak, not every frame
		if !s.failed {
			s.log.Error("render failed", zap.Error(err))
		}
		s.failed = true
		return
	}
	if s.failed {
		s.log.Info("render recovered")
		s.failed = false
	}
	s.rendered++
}

// Rendered returns how many frames reached the renderer without error.
func (s *RenderSystem) Rendered() int { return s.rendered }

// Skipped returns how many frames had no scene or camera to render.
func (s *RenderSystem) Skipped() int { return s.skipped }
