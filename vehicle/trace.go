package vehicle

import (
	"github.com/akmonengine/carforce/ground"
	"github.com/go-gl/mathgl/mgl64"
)

// WheelForces is what one wheel did during a tick
type WheelForces struct {
	ID       WheelID
	Present  bool // false for an unset wheel
	Position mgl64.Vec3
	Input    float64
	Grounded bool
	Contact  ground.Hit

	Drive        mgl64.Vec3
	Turn         mgl64.Vec3
	Lateral      mgl64.Vec3
	Longitudinal mgl64.Vec3
}

func (w WheelForces) Total() mgl64.Vec3 {
	return w.Drive.Add(w.Turn).Add(w.Lateral).Add(w.Longitudinal)
}

// StepTrace summarizes one controller tick
type StepTrace struct {
	Vehicle     string
	SpeedBefore float64
	SpeedAfter  float64
	Clamped     bool

	// IndependentDrive only
	ActiveWheels int
	ForceScale   float64

	Wheels [WheelCount]WheelForces
}

func (s StepTrace) Total() mgl64.Vec3 {
	var total mgl64.Vec3
	for _, w := range s.Wheels {
		total = total.Add(w.Total())
	}
	return total
}

func (s StepTrace) GroundedCount() int {
	n := 0
	for _, w := range s.Wheels {
		if w.Grounded {
			n++
		}
	}
	return n
}

// Tracer observes controller ticks, e.g. for debug drawing, logs or metrics.
// It must not change the body.
type Tracer interface {
	TraceStep(trace StepTrace)
}

type TracerFunc func(trace StepTrace)

func (f TracerFunc) TraceStep(trace StepTrace) {
	f(trace)
}

// Tracers fans a trace out to every non-nil tracer, in order
type Tracers []Tracer

func (ts Tracers) TraceStep(trace StepTrace) {
	for _, t := range ts {
		if t != nil {
			t.TraceStep(trace)
		}
	}
}
