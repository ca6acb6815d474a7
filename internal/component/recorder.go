package component

import "github.com/l1jgo/renderengine/internal/scene"

const KindRecorder scene.Kind = "component.recorder"

// Trace collects the names of evaluated objects in evaluation order.
type Trace struct {
	names []string
}

func (t *Trace) Names() []string { return t.names }

func (t *Trace) Reset() { t.names = t.names[:0] }

// Recorder appends its object's name to a Trace when evaluated.
type Recorder struct {
	owner *scene.GameObject
	trace *Trace
}

func NewRecorder(t *Trace) func(*scene.GameObject) *Recorder {
	return func(g *scene.GameObject) *Recorder {
		return &Recorder{owner: g, trace: t}
	}
}

func (r *Recorder) Kind() scene.Kind { return KindRecorder }

func (r *Recorder) Evaluate(float32) {
	r.trace.names = append(r.trace.names, r.owner.Name())
}
