package vehicle

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestLimitSpeed(t *testing.T) {
	tests := []struct {
		name     string
		velocity mgl64.Vec3
		maxSpeed float64
		want     mgl64.Vec3
		clamped  bool
	}{
		{"at rest", mgl64.Vec3{}, 30, mgl64.Vec3{}, false},
		{"below", mgl64.Vec3{3, 0, 4}, 30, mgl64.Vec3{3, 0, 4}, false},
		{"exactly at limit", mgl64.Vec3{0, 0, 30}, 30, mgl64.Vec3{0, 0, 30}, false},
		{"above", mgl64.Vec3{30, 0, 40}, 10, mgl64.Vec3{6, 0, 8}, true},
		{"reverse", mgl64.Vec3{0, 0, -40}, 30, mgl64.Vec3{0, 0, -30}, true},
		{"zero limit", mgl64.Vec3{1, 0, 0}, 0, mgl64.Vec3{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := newCarBody(mgl64.Vec3{})
			body.Velocity = tt.velocity

			if got := LimitSpeed(body, tt.maxSpeed); got != tt.clamped {
				t.Errorf("LimitSpeed() = %v, want %v", got, tt.clamped)
			}
			if !vec3AlmostEqual(body.Velocity, tt.want, 1e-9) {
				t.Errorf("Velocity = %v, want %v", body.Velocity, tt.want)
			}
		})
	}
}

func TestLimitSpeed_KeepsDirection(t *testing.T) {
	body := newCarBody(mgl64.Vec3{})
	body.Velocity = mgl64.Vec3{12, -3, 25}
	direction := body.Velocity.Normalize()

	LimitSpeed(body, 15)

	if !almostEqual(body.Velocity.Len(), 15, 1e-9) {
		t.Errorf("speed = %v, want 15", body.Velocity.Len())
	}
	if !vec3AlmostEqual(body.Velocity.Normalize(), direction, 1e-12) {
		t.Errorf("direction changed: %v, want %v", body.Velocity.Normalize(), direction)
	}
}
