package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/l1jgo/renderengine/internal/core/system"
)

// StatsSystem counts frames and logs the average frame time every interval
// frames. Phase 3 (Stats).
type StatsSystem struct {
	log      *zap.Logger
	interval int

	frames  int
	window  time.Duration
	windowN int
	last    time.Duration
}

func NewStatsSystem(log *zap.Logger, intervalFrames int) *StatsSystem {
	return &StatsSystem{log: log, interval: intervalFrames}
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhaseStats }

func (s *StatsSystem) Update(dt time.Duration) {
	s.frames++
	s.last = dt
	s.window += dt
	s.windowN++
	if s.interval <= 0 || s.windowN < s.interval {
		return
	}
	avg := s.window / time.Duration(s.windowN)
	fps := 0.0
	if avg > 0 {
		fps = float64(time.Second) / float64(avg)
	}
	s.log.Info("frame stats",
		zap.Int("frame", s.frames),
		zap.Duration("avg", avg),
		zap.Float64("fps", fps),
	)
	s.window = 0
	s.windowN = 0
}

// Frames returns the number of frames seen.
func (s *StatsSystem) Frames() int { return s.frames }

// Last returns the most recent frame time.
func (s *StatsSystem) Last() time.Duration { return s.last }
