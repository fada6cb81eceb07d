package vehicle

import (
	"math"
	"testing"

	"github.com/akmonengine/carforce/actor"
	"github.com/akmonengine/carforce/ground"
	"github.com/go-gl/mathgl/mgl64"
)

const testMass = 1000.0

func newCarBody(position mgl64.Vec3) *actor.RigidBody {
	body := actor.NewRigidBody(
		actor.Transform{Position: position},
		&actor.Box{HalfExtents: mgl64.Vec3{1, 0.5, 2}},
		actor.BodyTypeDynamic,
		1,
	)
	body.SetMass(testMass)

	return body
}

// wheels sit 0.2 above the floor when the body is at y=0.5
func testWheels(weight float64) Wheels {
	return NewWheels(SymmetricLayout(0.8, 1.2, -0.3), weight)
}

// groundFunc grounds every ray whose origin satisfies the predicate
type groundFunc func(origin mgl64.Vec3) bool

func (f groundFunc) Raycast(origin, direction mgl64.Vec3, maxDistance float64) (ground.Hit, bool) {
	if !f(origin) {
		return ground.Hit{}, false
	}
	return ground.Hit{
		Point:    origin.Add(direction.Mul(0.2)),
		Normal:   mgl64.Vec3{0, 1, 0},
		Distance: 0.2,
	}, true
}

var flat = groundFunc(func(mgl64.Vec3) bool { return true })

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func vec3AlmostEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return almostEqual(a.X(), b.X(), epsilon) &&
		almostEqual(a.Y(), b.Y(), epsilon) &&
		almostEqual(a.Z(), b.Z(), epsilon)
}

func TestNewWheels(t *testing.T) {
	wheels := testWheels(0.25)

	tests := []struct {
		id   WheelID
		side Side
		axle Axle
		x, z float64
	}{
		{FrontLeft, Left, Front, -0.8, 1.2},
		{FrontRight, Right, Front, 0.8, 1.2},
		{RearLeft, Left, Rear, -0.8, -1.2},
		{RearRight, Right, Rear, 0.8, -1.2},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			w := wheels[tt.id]
			if w.ID != tt.id || w.Side != tt.side || w.Axle != tt.axle {
				t.Errorf("wheel = %+v, want id %v side %v axle %v", w, tt.id, tt.side, tt.axle)
			}
			if !vec3AlmostEqual(w.Offset, mgl64.Vec3{tt.x, -0.3, tt.z}, 1e-12) {
				t.Errorf("Offset = %v", w.Offset)
			}
			if w.Weight != 0.25 {
				t.Errorf("Weight = %v, want 0.25", w.Weight)
			}
		})
	}
}

func TestIsZeroInput(t *testing.T) {
	tests := []struct {
		value float64
		want  bool
	}{
		{0, true},
		{1e-9, true},
		{-1e-9, true},
		{InputTolerance, false},
		{0.01, false},
		{-1, false},
	}

	for _, tt := range tests {
		if got := IsZeroInput(tt.value); got != tt.want {
			t.Errorf("IsZeroInput(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestWheelID_String(t *testing.T) {
	if FrontLeft.String() != "FL" || RearRight.String() != "RR" || WheelID(9).String() != "?" {
		t.Error("unexpected wheel names")
	}
}
