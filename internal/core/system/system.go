package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseEvents  Phase = iota // 0: swap + dispatch the event bus
	PhaseUpdate               // 1: evaluate scene components
	PhaseRender               // 2: hand the scene to the renderer
	PhaseStats                // 3: frame timing
	PhaseCleanup              // 4: datablock garbage collection
)

func (p Phase) String() string {
	switch p {
	case PhaseEvents:
		return "events"
	case PhaseUpdate:
		return "update"
	case PhaseRender:
		return "render"
	case PhaseStats:
		return "stats"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is one step of the frame loop.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
