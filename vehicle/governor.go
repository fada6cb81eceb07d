package vehicle

import "math"

// LimitSpeed rescales the body velocity to maxSpeed when it is faster, keeping
// its direction. It reports whether the velocity was changed.
// This is the one place the force model writes velocity directly.
func LimitSpeed(body Body, maxSpeed float64) bool {
	maxSpeed = math.Max(0, maxSpeed)

	velocity := body.LinearVelocity()
	speed := velocity.Len()
	if speed == 0 || speed <= maxSpeed || math.IsNaN(speed) {
		return false
	}

	body.SetLinearVelocity(velocity.Mul(maxSpeed / speed))

	return true
}
