// Package vehicle is an arcade four-wheel force model.
//
// Every fixed tick a controller clamps the body speed, then for each wheel
// casts a ray toward the ground and, if the wheel touches it, applies at the
// wheel position:
//
//   - a drive force along the body forward axis,
//   - a lateral friction force cancelling sideways slip,
//   - a longitudinal friction force bleeding off speed when the wheel is not driven.
//
// DifferentialDrive adds a steering differential on top of a shared throttle.
// IndependentDrive drives each front wheel on its own under a shared force budget.
//
// The package never integrates motion: it reads the body state and accumulates
// forces through the Body interface. An airborne or unset wheel contributes nothing.
package vehicle

import (
	"errors"
	"math"

	"github.com/akmonengine/carforce/ground"
	"github.com/akmonengine/carforce/input"
	"github.com/go-gl/mathgl/mgl64"
)

// InputTolerance is the band around zero inside which an input counts as released.
const InputTolerance = 1e-6

// ErrInvalidParams wraps every parameter validation failure
var ErrInvalidParams = errors.New("invalid vehicle parameters")

// Body is the rigid body a vehicle pushes on.
// Forces added during a tick are summed and integrated by the owner of the body.
type Body interface {
	LinearVelocity() mgl64.Vec3
	SetLinearVelocity(velocity mgl64.Vec3)
	Mass() float64
	Forward() mgl64.Vec3
	Right() mgl64.Vec3
	Up() mgl64.Vec3
	// WorldPoint maps a body-local point to world space
	WorldPoint(local mgl64.Vec3) mgl64.Vec3
	// PointVelocity is the velocity of the body material at a world point
	PointVelocity(point mgl64.Vec3) mgl64.Vec3
	AddForceAtPosition(force, point mgl64.Vec3)
}

// Ground answers whether a bounded ray meets a surface
type Ground interface {
	Raycast(origin, direction mgl64.Vec3, maxDistance float64) (ground.Hit, bool)
}

// Controller computes and applies one tick of wheel forces
type Controller interface {
	Step(body Body, ground Ground, axes input.Snapshot) StepTrace
}

type WheelID uint8

const (
	FrontLeft WheelID = iota
	FrontRight
	RearLeft
	RearRight

	WheelCount = 4
)

func (id WheelID) String() string {
	switch id {
	case FrontLeft:
		return "FL"
	case FrontRight:
		return "FR"
	case RearLeft:
		return "RL"
	case RearRight:
		return "RR"
	default:
		return "?"
	}
}

type Side uint8

const (
	Left Side = iota
	Right
)

type Axle uint8

const (
	Front Axle = iota
	Rear
)

// Wheel is a contact point mounted on the body
type Wheel struct {
	ID     WheelID
	Side   Side
	Axle   Axle
	Offset mgl64.Vec3 // mount point in body space
	Weight float64    // share of the body mass resting on this wheel
}

// Wheels is indexed by WheelID. A nil entry is an unset wheel and never produces force.
type Wheels [WheelCount]*Wheel

// Layout is the body-space mount point of each wheel
type Layout struct {
	FrontLeft  mgl64.Vec3
	FrontRight mgl64.Vec3
	RearLeft   mgl64.Vec3
	RearRight  mgl64.Vec3
}

// SymmetricLayout mounts the wheels at ±halfTrack across and ±halfWheelbase along the body
func SymmetricLayout(halfTrack, halfWheelbase, height float64) Layout {
	return Layout{
		FrontLeft:  mgl64.Vec3{-halfTrack, height, halfWheelbase},
		FrontRight: mgl64.Vec3{halfTrack, height, halfWheelbase},
		RearLeft:   mgl64.Vec3{-halfTrack, height, -halfWheelbase},
		RearRight:  mgl64.Vec3{halfTrack, height, -halfWheelbase},
	}
}

// NewWheels creates the four wheels of a layout, each bearing weight of the mass
func NewWheels(layout Layout, weight float64) Wheels {
	return Wheels{
		{ID: FrontLeft, Side: Left, Axle: Front, Offset: layout.FrontLeft, Weight: weight},
		{ID: FrontRight, Side: Right, Axle: Front, Offset: layout.FrontRight, Weight: weight},
		{ID: RearLeft, Side: Left, Axle: Rear, Offset: layout.RearLeft, Weight: weight},
		{ID: RearRight, Side: Right, Axle: Rear, Offset: layout.RearRight, Weight: weight},
	}
}

// IsZeroInput reports whether an input is released, within InputTolerance
func IsZeroInput(value float64) bool {
	return math.Abs(value) < InputTolerance
}

// groundContact casts from the wheel along the body's down axis
func groundContact(g Ground, body Body, origin mgl64.Vec3, maxDistance float64) (ground.Hit, bool) {
	if g == nil {
		return ground.Hit{}, false
	}
	return g.Raycast(origin, body.Up().Mul(-1), maxDistance)
}

// friction returns the lateral force, always, and the longitudinal force when released is set.
// Both oppose the wheel point velocity, scaled by the mass the wheel bears.
func friction(body Body, wheel *Wheel, point mgl64.Vec3, sideways, forward float64, released bool) (mgl64.Vec3, mgl64.Vec3) {
	velocity := body.PointVelocity(point)
	load := body.Mass() * wheel.Weight

	right := body.Right()
	lateral := right.Mul(-velocity.Dot(right) * sideways * load)

	var longitudinal mgl64.Vec3
	if released {
		fwd := body.Forward()
		longitudinal = fwd.Mul(-velocity.Dot(fwd) * forward * load)
	}

	return lateral, longitudinal
}

func apply(body Body, f WheelForces) {
	body.AddForceAtPosition(f.Drive, f.Position)
	body.AddForceAtPosition(f.Turn, f.Position)
	body.AddForceAtPosition(f.Lateral, f.Position)
	body.AddForceAtPosition(f.Longitudinal, f.Position)
}

func validCoefficient(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
