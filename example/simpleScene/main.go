package main

import (
	"fmt"

	"github.com/akmonengine/carforce"
	"github.com/akmonengine/carforce/actor"
	"github.com/akmonengine/carforce/input"
	"github.com/akmonengine/carforce/vehicle"
	"github.com/go-gl/mathgl/mgl64"
)

// SimpleDebugger prints what every wheel did during a tick
type SimpleDebugger struct {
	Every int
	ticks int
}

func (d *SimpleDebugger) TraceStep(trace vehicle.StepTrace) {
	d.ticks++
	if d.Every > 1 && d.ticks%d.Every != 0 {
		return
	}

	fmt.Printf("🚗 %s tick %d: speed %.2f -> %.2f (clamped %v), active %d, scale %.3f\n",
		trace.Vehicle, d.ticks, trace.SpeedBefore, trace.SpeedAfter, trace.Clamped, trace.ActiveWheels, trace.ForceScale)
	for _, w := range trace.Wheels {
		if !w.Present {
			continue
		}
		fmt.Printf("   %s grounded=%v input=%+.1f drive=%v lateral=%v longitudinal=%v\n",
			w.ID, w.Grounded, w.Input, w.Drive, w.Lateral, w.Longitudinal)
	}
}

// SetupScene creates a floor and a car whose front wheels are driven independently
func SetupScene() (*carforce.World, *carforce.Vehicle, *SimpleDebugger) {
	debugger := &SimpleDebugger{Every: 30}
	world := carforce.NewWorld(mgl64.Vec3{0, -9.81, 0})
	world.Substeps = 2
	world.Tracer = debugger

	// Create ground plane (y=0)
	planeBody := actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec3{0, 0, 0}},
		&actor.Plane{Normal: mgl64.Vec3{0, 1, 0}},
		actor.BodyTypeStatic,
		0.0,
	)
	world.AddBody(planeBody)

	carBody := actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec3{0, 0.5, 0}},
		&actor.Box{HalfExtents: mgl64.Vec3{1, 0.5, 2}},
		actor.BodyTypeDynamic,
		1.0,
	)
	carBody.SetMass(1000)
	carBody.Lock = actor.LockPlanar

	params := vehicle.DefaultIndependentParams()
	drive, err := vehicle.NewIndependentDrive(params, vehicle.NewWheels(vehicle.SymmetricLayout(0.8, 1.2, -0.3), params.WheelWeight))
	if err != nil {
		panic(err)
	}

	car := &carforce.Vehicle{
		Name:       "tank",
		Body:       carBody,
		Controller: drive,
		Input:      input.NewMapper(input.IndependentBindings()...),
	}
	if err := world.AddVehicle(car); err != nil {
		panic(err)
	}

	return world, car, debugger
}

func main() {
	fmt.Println("🧪 Independent drive: both wheels, left wheel only, spin in place")
	fmt.Println("================================================================")

	world, car, _ := SetupScene()

	const dt float64 = 1.0 / 60.0
	phases := []struct {
		name     string
		commands []input.Command
		steps    int
	}{
		{"both forward", []input.Command{input.FrontLeftForward, input.FrontRightForward}, 120},
		{"left only", []input.Command{input.FrontLeftForward}, 120},
		{"spin", []input.Command{input.FrontLeftForward, input.FrontRightBackward}, 120},
		{"coast", nil, 120},
	}

	for _, phase := range phases {
		car.Input.Reset()
		for _, command := range phase.commands {
			car.Input.Press(command)
		}

		fmt.Printf("--- %s ---\n", phase.name)
		for range phase.steps {
			world.Step(dt)
		}

		fmt.Printf("  Position: %v\n", car.Body.Transform.Position)
		fmt.Printf("  Forward: %v\n", car.Body.Forward())
		fmt.Printf("  Velocity: %v (len=%.3f)\n", car.Body.Velocity, car.Body.Velocity.Len())
		fmt.Printf("  Angular Velocity: %v\n", car.Body.AngularVelocity)
	}
}
