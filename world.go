// Package carforce steps rigid bodies and the arcade vehicles driving them.
package carforce

import (
	"errors"
	"fmt"

	"github.com/akmonengine/carforce/actor"
	"github.com/akmonengine/carforce/ground"
	"github.com/akmonengine/carforce/input"
	"github.com/akmonengine/carforce/vehicle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

const (
	DEFAULT_WORKERS  = 1
	DEFAULT_SUBSTEPS = 1

	SLEEP_TIME_THRESHOLD     = 0.1  // s
	SLEEP_VELOCITY_THRESHOLD = 0.05 // m/s and rad/s
)

// ErrInvalidVehicle is returned by AddVehicle for a vehicle that cannot be driven
var ErrInvalidVehicle = errors.New("invalid vehicle")

// Vehicle binds a force model to the body it pushes and the axes it reads
type Vehicle struct {
	Name       string
	Body       *actor.RigidBody
	Controller vehicle.Controller
	Input      *input.Mapper
}

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Static bodies the wheels can stand on
	Ground   *ground.Scene
	Vehicles []*Vehicle
	// Gravity acceleration (m/s², or N/kg)
	Gravity  mgl64.Vec3
	Substeps int
	Workers  int

	// Tracer receives every controller tick, nil disables it
	Tracer vehicle.Tracer
	Events Events
	Logger zerolog.Logger
}

func NewWorld(gravity mgl64.Vec3) *World {
	return &World{
		Ground:   ground.NewScene(),
		Gravity:  gravity,
		Substeps: DEFAULT_SUBSTEPS,
		Workers:  DEFAULT_WORKERS,
		Events:   NewEvents(),
		Logger:   zerolog.Nop(),
	}
}

// AddBody adds a rigid body to the world. Static bodies also become ground.
func (w *World) AddBody(body *actor.RigidBody) {
	if body == nil {
		return
	}
	w.Bodies = append(w.Bodies, body)

	if body.BodyType == actor.BodyTypeStatic {
		if w.Ground == nil {
			w.Ground = ground.NewScene()
		}
		w.Ground.AddBody(body)
	}
}

// RemoveBody removes a rigid body from the world, with the vehicles driving it
func (w *World) RemoveBody(body *actor.RigidBody) {
	if body == nil {
		return
	}

	for i := len(w.Vehicles) - 1; i >= 0; i-- {
		if v := w.Vehicles[i]; v.Body == body {
			w.RemoveVehicle(v)
		}
	}
	// forces accumulated but never integrated must not come back with the body
	body.ClearForces()

	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	if w.Ground != nil {
		w.Ground.RemoveBody(body)
	}
	w.Events.forgetBody(body)
}

// AddVehicle registers a vehicle, adding its body to the world if needed
func (w *World) AddVehicle(v *Vehicle) error {
	if v == nil || v.Body == nil || v.Controller == nil {
		return fmt.Errorf("%w: body and controller are required", ErrInvalidVehicle)
	}
	if v.Body.BodyType != actor.BodyTypeDynamic {
		return fmt.Errorf("%w: %q must have a dynamic body", ErrInvalidVehicle, v.Name)
	}
	if v.Input == nil {
		w.Logger.Warn().Str("vehicle", v.Name).Msg("vehicle has no input mapper, it will only coast")
	}

	found := false
	for _, b := range w.Bodies {
		if b == v.Body {
			found = true
			break
		}
	}
	if !found {
		w.AddBody(v.Body)
	}

	w.Vehicles = append(w.Vehicles, v)
	w.Logger.Debug().Str("vehicle", v.Name).Msg("vehicle added")

	return nil
}

// RemoveVehicle unregisters a vehicle. Its body stays in the world.
func (w *World) RemoveVehicle(v *Vehicle) {
	for i, other := range w.Vehicles {
		if other == v {
			w.Vehicles = append(w.Vehicles[:i], w.Vehicles[i+1:]...)
			break
		}
	}
	w.Events.forgetVehicle(v)
}

// VehicleByName returns the first vehicle with that name
func (w *World) VehicleByName(name string) (*Vehicle, bool) {
	for _, v := range w.Vehicles {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

func (w *World) Step(dt float64) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.Substeps = max(DEFAULT_SUBSTEPS, w.Substeps)
	w.Events.ensure()
	h := dt / float64(w.Substeps)

	for range w.Substeps {
		// Phase 1: every vehicle reads its axes and accumulates wheel forces
		w.drive()

		// Phase 2: bodies are independent, integrate them in parallel
		w.integrate(h)

		w.trySleep(h)
	}

	w.Events.processVehicleEvents(w.Vehicles)
	w.Events.processSleepEvents(w.Bodies)
	w.Events.flush()
}

func (w *World) ground() vehicle.Ground {
	if w.Ground == nil {
		return nil
	}
	return w.Ground
}

func (w *World) drive() {
	g := w.ground()

	for _, v := range w.Vehicles {
		var axes input.Snapshot
		if v.Input != nil {
			axes = v.Input.Snapshot()
		}

		trace := v.Controller.Step(v.Body, g, axes)
		trace.Vehicle = v.Name

		w.Events.recordTrace(v, trace)
		if w.Tracer != nil {
			w.Tracer.TraceStep(trace)
		}
	}
}

func (w *World) integrate(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Integrate(h, w.Gravity)
	})
}

// trySleep sets the body to sleep if its velocity is lower than the threshold, for a given duration
// this method is too simple to use a task, it slows down in multiple goroutines
func (w *World) trySleep(h float64) {
	for _, body := range w.Bodies {
		body.TrySleep(h, SLEEP_TIME_THRESHOLD, SLEEP_VELOCITY_THRESHOLD)
	}
}
