// Package ground answers "is there a surface below this point" for wheels.
//
// A Scene holds static bodies (ground planes, ramps, obstacles) and casts
// bounded rays against them. It is the reference implementation of the ground
// query consumed by the vehicle force model.
package ground

import (
	"math"
	"slices"

	"github.com/akmonengine/carforce/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Hit is the closest surface met by a ray
type Hit struct {
	Body     *actor.RigidBody
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// Scene is a set of static bodies that rays can hit.
// Bounded bodies are indexed in a spatial hash; planes and very large bodies are tested on every cast.
// It is not safe for concurrent mutation; casts may run concurrently once built.
type Scene struct {
	bodies    []*actor.RigidBody
	grid      *grid
	unbounded []int
}

func NewScene(bodies ...*actor.RigidBody) *Scene {
	return NewSceneWithGrid(DEFAULT_CELL_SIZE, DEFAULT_NUM_CELLS, bodies...)
}

// NewSceneWithGrid sizes the spatial hash: cellSize in metres, numCells rounded up to a power of two
func NewSceneWithGrid(cellSize float64, numCells int, bodies ...*actor.RigidBody) *Scene {
	s := &Scene{grid: newGrid(cellSize, numCells)}
	for _, body := range bodies {
		s.AddBody(body)
	}

	return s
}

// AddBody registers a body. Dynamic bodies are ignored: the ground never moves.
func (s *Scene) AddBody(body *actor.RigidBody) {
	if body == nil || body.BodyType != actor.BodyTypeStatic {
		return
	}
	if s.grid == nil {
		s.grid = newGrid(DEFAULT_CELL_SIZE, DEFAULT_NUM_CELLS)
	}
	body.Shape.ComputeAABB(body.Transform)
	s.bodies = append(s.bodies, body)
	s.index(len(s.bodies) - 1)
}

func (s *Scene) index(i int) {
	if !s.grid.insert(i, s.bodies[i].Shape.GetAABB()) {
		s.unbounded = append(s.unbounded, i)
	}
}

func (s *Scene) rebuild() {
	s.grid.clear()
	s.unbounded = s.unbounded[:0]
	for i := range s.bodies {
		s.index(i)
	}
}

// candidates returns the sorted indices of the bodies the segment bounds may touch
func (s *Scene) candidates(segment actor.AABB) []int {
	indices, ok := s.grid.query(segment, make([]int, 0, 8))
	if !ok {
		indices = indices[:0]
		for i := range s.bodies {
			indices = append(indices, i)
		}
		return indices
	}

	indices = append(indices, s.unbounded...)
	slices.Sort(indices)

	return slices.Compact(indices)
}

// RemoveBody removes a body from the scene
func (s *Scene) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range s.bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		s.bodies = append(s.bodies[:k], s.bodies[k+1:]...)
		s.rebuild()
	}
}

func (s *Scene) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bodies)
}

// Raycast returns the closest hit along direction within maxDistance.
// direction does not need to be normalized; a zero direction never hits.
func (s *Scene) Raycast(origin, direction mgl64.Vec3, maxDistance float64) (Hit, bool) {
	if s == nil || len(s.bodies) == 0 || maxDistance <= 0 || direction.Len() == 0 {
		return Hit{}, false
	}
	direction = direction.Normalize()

	// Broad phase: the segment's bounds against each body's bounds
	segment := actor.NewAABBFromPoints(origin, origin.Add(direction.Mul(maxDistance)))

	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, i := range s.candidates(segment) {
		body := s.bodies[i]
		if !segment.Overlaps(body.Shape.GetAABB()) {
			continue
		}

		hit, ok := body.Shape.Raycast(body.Transform, origin, direction, maxDistance)
		if !ok || hit.Distance >= best.Distance {
			continue
		}

		best = Hit{
			Body:     body,
			Point:    hit.Point,
			Normal:   hit.Normal,
			Distance: hit.Distance,
		}
		found = true
	}

	if !found {
		return Hit{}, false
	}

	return best, true
}
