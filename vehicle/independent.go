package vehicle

import (
	"fmt"

	"github.com/akmonengine/carforce/input"
)

// IndependentParams tune a car whose front wheels are driven separately.
type IndependentParams struct {
	MotorTorque           float64
	SingleWheelMultiplier float64 // boost when a single wheel is driven
	MaxTotalForce         float64 // cap on the summed drive of all active wheels
	ForwardFriction       float64
	SidewaysFriction      float64
	MaxSpeed              float64
	GroundCheckDistance   float64
	WheelWeight           float64
}

func DefaultIndependentParams() IndependentParams {
	return IndependentParams{
		MotorTorque:           3000,
		SingleWheelMultiplier: 1.5,
		MaxTotalForce:         4000,
		ForwardFriction:       10,
		SidewaysFriction:      10,
		MaxSpeed:              15,
		GroundCheckDistance:   0.5,
		WheelWeight:           0.25,
	}
}

func (p IndependentParams) Validate() error {
	switch {
	case !validCoefficient(p.MaxSpeed) || p.MaxSpeed == 0:
		return fmt.Errorf("%w: max speed %v must be positive", ErrInvalidParams, p.MaxSpeed)
	case !validCoefficient(p.GroundCheckDistance) || p.GroundCheckDistance == 0:
		return fmt.Errorf("%w: ground check distance %v must be positive", ErrInvalidParams, p.GroundCheckDistance)
	case !validCoefficient(p.MotorTorque):
		return fmt.Errorf("%w: motor torque %v must be non-negative", ErrInvalidParams, p.MotorTorque)
	case !validCoefficient(p.SingleWheelMultiplier):
		return fmt.Errorf("%w: single wheel multiplier %v must be non-negative", ErrInvalidParams, p.SingleWheelMultiplier)
	case !validCoefficient(p.MaxTotalForce):
		return fmt.Errorf("%w: max total force %v must be non-negative", ErrInvalidParams, p.MaxTotalForce)
	case !validCoefficient(p.SidewaysFriction), !validCoefficient(p.ForwardFriction):
		return fmt.Errorf("%w: friction coefficients must be non-negative", ErrInvalidParams)
	case !validCoefficient(p.WheelWeight):
		return fmt.Errorf("%w: wheel weight %v must be non-negative", ErrInvalidParams, p.WheelWeight)
	}

	return nil
}

// ForceScale is the drive multiplier shared by the active wheels.
// A single wheel gets the boost; several share MaxTotalForce when the boosted sum would exceed it.
func (p IndependentParams) ForceScale(active int) float64 {
	switch {
	case active <= 0:
		return 0
	case active == 1:
		return p.SingleWheelMultiplier
	}

	n := float64(active)
	if p.MotorTorque*p.SingleWheelMultiplier*n > p.MaxTotalForce {
		return p.MaxTotalForce / (p.MotorTorque * n)
	}

	return p.SingleWheelMultiplier
}

// IndependentDrive drives the front wheels from their own axes.
// Rear wheels are never driven, so they always brake through rolling resistance.
type IndependentDrive struct {
	Params IndependentParams
	Wheels Wheels
}

func NewIndependentDrive(params IndependentParams, wheels Wheels) (*IndependentDrive, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &IndependentDrive{Params: params, Wheels: wheels}, nil
}

// wheelInputs reads the front axes only. Rear axes are ignored even when set.
func wheelInputs(axes input.Snapshot) [WheelCount]float64 {
	return [WheelCount]float64{
		FrontLeft:  axes.Get(input.AxisFrontLeft),
		FrontRight: axes.Get(input.AxisFrontRight),
	}
}

func (d *IndependentDrive) Step(body Body, g Ground, axes input.Snapshot) StepTrace {
	var trace StepTrace

	trace.SpeedBefore = body.LinearVelocity().Len()
	trace.Clamped = LimitSpeed(body, d.Params.MaxSpeed)
	trace.SpeedAfter = body.LinearVelocity().Len()

	inputs := wheelInputs(axes)
	for _, in := range inputs {
		if !IsZeroInput(in) {
			trace.ActiveWheels++
		}
	}
	trace.ForceScale = d.Params.ForceScale(trace.ActiveWheels)

	for i, wheel := range d.Wheels {
		f := WheelForces{ID: WheelID(i), Input: inputs[i]}
		if wheel == nil {
			trace.Wheels[i] = f
			continue
		}

		f.Present = true
		f.Position = body.WorldPoint(wheel.Offset)
		f.Contact, f.Grounded = groundContact(g, body, f.Position, d.Params.GroundCheckDistance)

		if f.Grounded {
			f.Drive = body.Forward().Mul(f.Input * d.Params.MotorTorque * trace.ForceScale)
			f.Lateral, f.Longitudinal = friction(body, wheel, f.Position, d.Params.SidewaysFriction, d.Params.ForwardFriction, IsZeroInput(f.Input))

			apply(body, f)
		}

		trace.Wheels[i] = f
	}

	return trace
}
