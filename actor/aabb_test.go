package actor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// AABB Utility Function Tests
// =============================================================================

func TestAABBOverlaps(t *testing.T) {
	tests := []struct {
		name  string
		aabb1 AABB
		aabb2 AABB
		want  bool
	}{
		{
			name:  "Separated on X axis",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{2, 0, 0}, Max: mgl64.Vec3{3, 1, 1}},
			want:  false,
		},
		{
			name:  "Separated on Y axis",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{0, -2, 0}, Max: mgl64.Vec3{1, -1, 1}},
			want:  false,
		},
		{
			name:  "Touching faces",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}},
			want:  true,
		},
		{
			name:  "Contained",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{4, 4, 4}},
			aabb2: AABB{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{2, 2, 2}},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.aabb1.Overlaps(tt.aabb2); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.aabb2.Overlaps(tt.aabb1); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBContainsPoint(t *testing.T) {
	aabb := AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}

	if !aabb.ContainsPoint(mgl64.Vec3{0, 0, 0}) {
		t.Error("center should be contained")
	}
	if !aabb.ContainsPoint(mgl64.Vec3{1, 1, 1}) {
		t.Error("corner should be contained")
	}
	if aabb.ContainsPoint(mgl64.Vec3{1.01, 0, 0}) {
		t.Error("outside point should not be contained")
	}
}

func TestNewAABBFromPoints(t *testing.T) {
	aabb := NewAABBFromPoints(
		mgl64.Vec3{1, 0.2, 3},
		mgl64.Vec3{-1, -0.3, 3},
		mgl64.Vec3{0, 0, 5},
	)

	if aabb.Min != (mgl64.Vec3{-1, -0.3, 3}) {
		t.Errorf("Min = %v", aabb.Min)
	}
	if aabb.Max != (mgl64.Vec3{1, 0.2, 5}) {
		t.Errorf("Max = %v", aabb.Max)
	}

	single := NewAABBFromPoints(mgl64.Vec3{2, 2, 2})
	if single.Min != single.Max {
		t.Errorf("single point AABB should be degenerate: %v", single)
	}
}
