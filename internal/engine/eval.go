package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/renderengine/internal/data"
	"github.com/l1jgo/renderengine/internal/persist"
)

// RunEval runs one frame per pose of path, placing the active camera at the
// pose after components are evaluated so that controllers cannot move it,
// and times every frame. The camera is kept alive for the whole run.
//
// If ctx is cancelled part way, the frames run so far are returned along
// with ctx's error.
func (e *Engine) RunEval(ctx context.Context, path *data.CameraPath, label string) (*persist.Run, error) {
	if !e.active.Valid() {
		return nil, ErrNoScene
	}
	cam := e.active.Get().ActiveCamera().Elevate()
	if !cam.Valid() {
		return nil, ErrNoCamera
	}
	defer cam.Release()

	run := persist.NewRun(label, path.Name)
	dt := e.cfg.Engine.TickRate
	e.log.Info("evaluation started",
		zap.String("run", run.ID.String()),
		zap.String("path", path.Name),
		zap.Int("poses", path.Len()),
	)

	for _, pose := range path.Poses {
		if err := ctx.Err(); err != nil {
			run.Finish()
			return run, err
		}
		start := time.Now()
		e.frameWith(dt, func() { cam.Get().SetLocalMatrix(pose) })
		run.Add(time.Since(start), e.objects.Len())
	}
	run.Finish()

	sum := run.Summarize()
	e.log.Info("evaluation finished",
		zap.String("run", run.ID.String()),
		zap.Int("frames", sum.Frames),
		zap.Duration("mean", sum.Mean),
		zap.Duration("p95", sum.P95),
		zap.Duration("max", sum.Max),
	)
	return run, nil
}
