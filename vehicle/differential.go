package vehicle

import (
	"fmt"

	"github.com/akmonengine/carforce/input"
)

// DifferentialParams tune a car driven by one throttle and one steering axis.
// Forces are in newtons, speeds in m/s, distances in metres.
type DifferentialParams struct {
	MotorTorque         float64
	TurnTorque          float64
	MaxSpeed            float64
	SidewaysFriction    float64
	ForwardFriction     float64
	GroundCheckDistance float64
	WheelWeight         float64 // mass share per wheel
}

func DefaultDifferentialParams() DifferentialParams {
	return DifferentialParams{
		MotorTorque:         3000,
		TurnTorque:          2000,
		MaxSpeed:            30,
		SidewaysFriction:    4,
		ForwardFriction:     3,
		GroundCheckDistance: 0.5,
		WheelWeight:         0.25,
	}
}

func (p DifferentialParams) Validate() error {
	switch {
	case !validCoefficient(p.MaxSpeed) || p.MaxSpeed == 0:
		return fmt.Errorf("%w: max speed %v must be positive", ErrInvalidParams, p.MaxSpeed)
	case !validCoefficient(p.GroundCheckDistance) || p.GroundCheckDistance == 0:
		return fmt.Errorf("%w: ground check distance %v must be positive", ErrInvalidParams, p.GroundCheckDistance)
	case !validCoefficient(p.MotorTorque), !validCoefficient(p.TurnTorque):
		return fmt.Errorf("%w: torques must be non-negative", ErrInvalidParams)
	case !validCoefficient(p.SidewaysFriction), !validCoefficient(p.ForwardFriction):
		return fmt.Errorf("%w: friction coefficients must be non-negative", ErrInvalidParams)
	case !validCoefficient(p.WheelWeight):
		return fmt.Errorf("%w: wheel weight %v must be non-negative", ErrInvalidParams, p.WheelWeight)
	}

	return nil
}

// DifferentialDrive pushes every wheel with the same throttle and steers by
// pushing the left and right wheels in opposite directions along the forward axis.
type DifferentialDrive struct {
	Params DifferentialParams
	Wheels Wheels
}

func NewDifferentialDrive(params DifferentialParams, wheels Wheels) (*DifferentialDrive, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &DifferentialDrive{Params: params, Wheels: wheels}, nil
}

// turnMultiplier is -steer on the left side and +steer on the right side
func turnMultiplier(side Side, steer float64) float64 {
	if side == Left {
		return -steer
	}
	return steer
}

func (d *DifferentialDrive) Step(body Body, g Ground, axes input.Snapshot) StepTrace {
	var trace StepTrace

	trace.SpeedBefore = body.LinearVelocity().Len()
	trace.Clamped = LimitSpeed(body, d.Params.MaxSpeed)
	trace.SpeedAfter = body.LinearVelocity().Len()

	throttle := axes.Get(input.AxisThrottle)
	steer := axes.Get(input.AxisSteer)
	released := IsZeroInput(throttle)

	for i, wheel := range d.Wheels {
		f := WheelForces{ID: WheelID(i), Input: throttle}
		if wheel == nil {
			trace.Wheels[i] = f
			continue
		}

		f.Present = true
		f.Position = body.WorldPoint(wheel.Offset)
		f.Contact, f.Grounded = groundContact(g, body, f.Position, d.Params.GroundCheckDistance)

		if f.Grounded {
			forward := body.Forward()
			f.Drive = forward.Mul(throttle * d.Params.MotorTorque)
			f.Turn = forward.Mul(turnMultiplier(wheel.Side, steer) * d.Params.TurnTorque)
			f.Lateral, f.Longitudinal = friction(body, wheel, f.Position, d.Params.SidewaysFriction, d.Params.ForwardFriction, released)

			apply(body, f)
		}

		trace.Wheels[i] = f
	}

	return trace
}
