package store

import "github.com/san-kum/mdsim/internal/sim"

// Recorder samples the step stream for the quantity log. It keeps every
// Nth StepInfo plus any step that rebuilt the list.
type Recorder struct {
	every   int64
	samples []sim.StepInfo
}

// NewRecorder records every `every` steps; values below 1 record all steps.
func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: int64(every)}
}

func (r *Recorder) OnStep(info sim.StepInfo) {
	if info.Step%r.every == 0 || info.Rebuilt {
		r.samples = append(r.samples, info)
	}
}

func (r *Recorder) Samples() []sim.StepInfo { return r.samples }
