package ground

import (
	"math"
	"testing"

	"github.com/akmonengine/carforce/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func newFloor(height float64) *actor.RigidBody {
	return actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec3{0, height, 0}},
		&actor.Plane{Normal: mgl64.Vec3{0, 1, 0}},
		actor.BodyTypeStatic,
		0,
	)
}

func newBlock(position, halfExtents mgl64.Vec3) *actor.RigidBody {
	return actor.NewRigidBody(
		actor.Transform{Position: position},
		&actor.Box{HalfExtents: halfExtents},
		actor.BodyTypeStatic,
		0,
	)
}

var down = mgl64.Vec3{0, -1, 0}

func TestScene_AddBody_IgnoresDynamic(t *testing.T) {
	dynamic := actor.NewRigidBody(actor.NewTransform(), &actor.Sphere{Radius: 1}, actor.BodyTypeDynamic, 1)

	scene := NewScene(newFloor(0), dynamic, nil)

	if scene.Len() != 1 {
		t.Errorf("Len() = %d, want 1", scene.Len())
	}
}

func TestScene_Raycast_Floor(t *testing.T) {
	floor := newFloor(0)
	scene := NewScene(floor)

	hit, ok := scene.Raycast(mgl64.Vec3{3, 0.2, -7}, down, 0.5)
	if !ok {
		t.Fatal("expected the floor to be hit")
	}
	if hit.Body != floor {
		t.Errorf("Body = %v, want the floor", hit.Body)
	}
	if math.Abs(hit.Distance-0.2) > 1e-9 {
		t.Errorf("Distance = %v, want 0.2", hit.Distance)
	}

	if _, ok := scene.Raycast(mgl64.Vec3{3, 0.7, -7}, down, 0.5); ok {
		t.Error("floor beyond maxDistance should not be hit")
	}
}

func TestScene_Raycast_ClosestWins(t *testing.T) {
	floor := newFloor(0)
	ramp := newBlock(mgl64.Vec3{0, 0.1, 0}, mgl64.Vec3{1, 0.1, 1})
	scene := NewScene(floor, ramp)

	hit, ok := scene.Raycast(mgl64.Vec3{0, 0.4, 0}, down, 0.5)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Body != ramp {
		t.Errorf("closest body should be the ramp")
	}
	if math.Abs(hit.Distance-0.2) > 1e-9 {
		t.Errorf("Distance = %v, want 0.2", hit.Distance)
	}

	// Off the ramp, the floor is hit
	hit, ok = scene.Raycast(mgl64.Vec3{5, 0.4, 0}, down, 0.5)
	if !ok || hit.Body != floor {
		t.Errorf("expected the floor off the ramp, got %v %v", hit.Body, ok)
	}
}

func TestScene_Raycast_Degenerate(t *testing.T) {
	scene := NewScene(newFloor(0))

	if _, ok := scene.Raycast(mgl64.Vec3{0, 0.2, 0}, mgl64.Vec3{}, 0.5); ok {
		t.Error("zero direction should not hit")
	}
	if _, ok := scene.Raycast(mgl64.Vec3{0, 0.2, 0}, down, 0); ok {
		t.Error("zero distance should not hit")
	}
	if _, ok := NewScene().Raycast(mgl64.Vec3{0, 0.2, 0}, down, 0.5); ok {
		t.Error("empty scene should not hit")
	}
}

func TestScene_Raycast_UnnormalizedDirection(t *testing.T) {
	scene := NewScene(newFloor(0))

	hit, ok := scene.Raycast(mgl64.Vec3{0, 0.3, 0}, mgl64.Vec3{0, -10, 0}, 0.5)
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(hit.Distance-0.3) > 1e-9 {
		t.Errorf("Distance = %v, want 0.3", hit.Distance)
	}
}

func TestScene_RemoveBody(t *testing.T) {
	floor := newFloor(0)
	scene := NewScene(floor)

	scene.RemoveBody(floor)

	if scene.Len() != 0 {
		t.Errorf("Len() = %d, want 0", scene.Len())
	}
	if _, ok := scene.Raycast(mgl64.Vec3{0, 0.2, 0}, down, 0.5); ok {
		t.Error("removed floor should not be hit")
	}
}

func TestScene_Raycast_ManyBlocks(t *testing.T) {
	// a row of 1m blocks, 3m apart, spread over many grid cells
	var blocks []*actor.RigidBody
	for i := range 40 {
		blocks = append(blocks, newBlock(mgl64.Vec3{float64(i) * 3, 0, 0}, mgl64.Vec3{0.5, 0.5, 0.5}))
	}
	scene := NewSceneWithGrid(2, 64, blocks...)

	for i, block := range blocks {
		hit, ok := scene.Raycast(mgl64.Vec3{float64(i) * 3, 0.7, 0}, down, 0.5)
		if !ok || hit.Body != block {
			t.Fatalf("block %d: hit %v on %v", i, ok, hit.Body)
		}
		if _, ok := scene.Raycast(mgl64.Vec3{float64(i)*3 + 1.5, 0.7, 0}, down, 0.5); ok {
			t.Fatalf("gap after block %d was hit", i)
		}
	}
}

func TestScene_Raycast_PlaneAndBlocks(t *testing.T) {
	floor := newFloor(0)
	step := newBlock(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{1, 0.1, 1})
	scene := NewScene(floor, step)

	hit, ok := scene.Raycast(mgl64.Vec3{10, 0.3, 0}, down, 0.5)
	if !ok || hit.Body != step {
		t.Errorf("on the step: hit %v on %v, want the step", ok, hit.Body)
	}

	hit, ok = scene.Raycast(mgl64.Vec3{-10, 0.3, 0}, down, 0.5)
	if !ok || hit.Body != floor {
		t.Errorf("away from the step: hit %v on %v, want the floor", ok, hit.Body)
	}

	// a long ray spanning too many cells falls back to testing every body
	hit, ok = scene.Raycast(mgl64.Vec3{10, 0.05, -1e6}, mgl64.Vec3{0, 0, 1}, 2e6)
	if !ok || hit.Body != step {
		t.Errorf("long ray: hit %v on %v, want the step", ok, hit.Body)
	}
}
