package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/l1jgo/renderengine/internal/core/system"
)

// Collector is one datablock family that can be swept.
type Collector interface {
	Family() string
	GarbageCollect() int
}

// CollectSystem sweeps datablock families at frame end, every interval
// frames. Families are swept in registration order, so listing owners before
// what they own (scenes, objects, meshes, materials, textures) lets one
// sweep follow a chain of releases down the families. Phase 4 (Cleanup).
type CollectSystem struct {
	families []Collector
	interval int
	log      *zap.Logger

	tickCount int
	total     int
}

func NewCollectSystem(log *zap.Logger, intervalFrames int, families ...Collector) *CollectSystem {
	if intervalFrames < 1 {
		intervalFrames = 1
	}
	return &CollectSystem{families: families, interval: intervalFrames, log: log}
}

func (s *CollectSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CollectSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.Sweep()
}

// Sweep runs one pass over every family immediately and returns the number
// of datablocks retired.
func (s *CollectSystem) Sweep() int {
	n := 0
	for _, f := range s.families {
		if c := f.GarbageCollect(); c > 0 {
			s.log.Debug("datablocks collected", zap.String("family", f.Family()), zap.Int("count", c))
			n += c
		}
	}
	s.total += n
	return n
}

// Total returns the number of datablocks retired so far.
func (s *CollectSystem) Total() int { return s.total }
