package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r recorder) Phase() Phase { return r.phase }

func (r recorder) Update(time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerOrdersByPhaseThenRegistration(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"gc", PhaseCleanup, &log})
	r.Register(recorder{"eval", PhaseUpdate, &log})
	r.Register(recorder{"render", PhaseRender, &log})
	r.Register(recorder{"events", PhaseEvents, &log})
	r.Register(recorder{"eval2", PhaseUpdate, &log})

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"events", "eval", "eval2", "render", "gc"}, log)
	assert.Equal(t, 5, r.Len())
}

func TestTickPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"events", PhaseEvents, &log})
	r.Register(recorder{"eval", PhaseUpdate, &log})

	r.TickPhase(PhaseUpdate, time.Millisecond)
	assert.Equal(t, []string{"eval"}, log)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "cleanup", PhaseCleanup.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
