package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const rayEpsilon = 1e-9

// RaycastHit describes where a ray first meets a shape
type RaycastHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// ShapeInterface is the interface that all shapes must implement
type ShapeInterface interface {
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// ComputeMass calculates mass data for the shape given a density
	ComputeMass(density float64) float64
	ComputeInertia(mass float64) mgl64.Mat3
	// Raycast intersects a world-space ray with the shape placed at transform.
	// direction must be normalized. Rays starting inside a solid, or behind a
	// plane, report no hit.
	Raycast(transform Transform, origin, direction mgl64.Vec3, maxDistance float64) (RaycastHit, bool)
}

// Box represents an oriented box shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

func (b *Box) ComputeAABB(transform Transform) {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()
	corners := [8]mgl64.Vec3{
		{-hx, -hy, -hz},
		{+hx, -hy, -hz},
		{-hx, +hy, -hz},
		{+hx, +hy, -hz},
		{-hx, -hy, +hz},
		{+hx, -hy, +hz},
		{-hx, +hy, +hz},
		{+hx, +hy, +hz},
	}

	world := make([]mgl64.Vec3, 0, len(corners))
	for _, corner := range corners {
		world = append(world, transform.TransformPoint(corner))
	}

	b.aabb = NewAABBFromPoints(world[0], world[1:]...)
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

// ComputeMass calculates mass data for the box
func (b *Box) ComputeMass(density float64) float64 {
	// Volume = 8 * hx * hy * hz (full dimensions are 2*halfExtents)
	volume := 8.0 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()

	return density * volume
}

func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// I = (m/12) * (d1² + d2²)
	factor := mass / 12.0
	ix := factor * (y*y + z*z)
	iy := factor * (x*x + z*z)
	iz := factor * (x*x + y*y)

	return mgl64.Mat3{
		ix, 0, 0,
		0, iy, 0,
		0, 0, iz,
	}
}

// Raycast uses the slab test in the box's local space
func (b *Box) Raycast(transform Transform, origin, direction mgl64.Vec3, maxDistance float64) (RaycastHit, bool) {
	localOrigin := transform.InverseTransformPoint(origin)
	localDirection := transform.InverseRotation.Rotate(direction)

	if b.containsLocal(localOrigin) {
		return RaycastHit{}, false
	}

	tMin := 0.0
	tMax := maxDistance
	var localNormal mgl64.Vec3

	for axis := 0; axis < 3; axis++ {
		h := b.HalfExtents[axis]
		o := localOrigin[axis]
		d := localDirection[axis]

		if math.Abs(d) < rayEpsilon {
			// Parallel to the slab: must already be between its faces
			if o < -h || o > h {
				return RaycastHit{}, false
			}
			continue
		}

		t1 := (-h - o) / d
		t2 := (h - o) / d
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}

		if t1 > tMin {
			tMin = t1
			localNormal = mgl64.Vec3{}
			localNormal[axis] = sign
		}
		tMax = math.Min(tMax, t2)

		if tMin > tMax {
			return RaycastHit{}, false
		}
	}

	return RaycastHit{
		Point:    origin.Add(direction.Mul(tMin)),
		Normal:   transform.Rotation.Rotate(localNormal),
		Distance: tMin,
	}, true
}

func (b *Box) containsLocal(point mgl64.Vec3) bool {
	return math.Abs(point.X()) < b.HalfExtents.X() &&
		math.Abs(point.Y()) < b.HalfExtents.Y() &&
		math.Abs(point.Z()) < b.HalfExtents.Z()
}

// Sphere represents a spherical shape
type Sphere struct {
	Radius float64
	aabb   AABB
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	s.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

// ComputeMass calculates mass data for the sphere
func (s *Sphere) ComputeMass(density float64) float64 {
	// Volume of sphere = (4/3) * π * r³
	volume := (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)

	return density * volume
}

func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	// I = (2/5) * m * r²
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mgl64.Mat3{
		i, 0, 0,
		0, i, 0,
		0, 0, i,
	}
}

func (s *Sphere) Raycast(transform Transform, origin, direction mgl64.Vec3, maxDistance float64) (RaycastHit, bool) {
	oc := origin.Sub(transform.Position)
	b := oc.Dot(direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	if c <= 0 {
		return RaycastHit{}, false
	}

	discriminant := b*b - c
	if discriminant < 0 {
		return RaycastHit{}, false
	}

	t := -b - math.Sqrt(discriminant)
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := origin.Add(direction.Mul(t))

	return RaycastHit{
		Point:    point,
		Normal:   point.Sub(transform.Position).Mul(1.0 / s.Radius),
		Distance: t,
	}, true
}

// Plane represents an infinite plane shape
// The plane is defined by the equation: Normal · p + Distance = 0
// where Normal is the plane's normal vector (must be normalized)
// and Distance is the signed distance from the origin along the normal
type Plane struct {
	Normal   mgl64.Vec3 // Plane normal (must be normalized)
	Distance float64    // Plane constant (signed distance from origin)
	aabb     AABB
}

// worldPlane returns the plane normal and one of its points in world space
func (p *Plane) worldPlane(transform Transform) (mgl64.Vec3, mgl64.Vec3) {
	normal := transform.Rotation.Rotate(p.Normal)
	point := normal.Mul(-p.Distance).Add(transform.Position)

	return normal, point
}

func (p *Plane) ComputeAABB(transform Transform) {
	const thickness = 1.0
	const infinity = 1e10

	normal, planePoint := p.worldPlane(transform)

	// Base bounds with thickness below the surface
	min := planePoint.Sub(normal.Mul(thickness))
	max := planePoint
	for i := 0; i < 3; i++ {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}

	// Extend to infinity along every axis the normal is not aligned with
	const threshold = 1.0 - 1e-9
	for i := 0; i < 3; i++ {
		if math.Abs(normal[i]) < threshold {
			min[i] = -infinity
			max[i] = infinity
		}
	}

	p.aabb = AABB{Min: min, Max: max}
}

func (p *Plane) GetAABB() AABB {
	return p.aabb
}

// ComputeMass calculates mass data for the plane
// Planes are always static with infinite mass
func (p *Plane) ComputeMass(density float64) float64 {
	return math.Inf(1)
}

func (p *Plane) ComputeInertia(mass float64) mgl64.Mat3 {
	return mgl64.Mat3{}
}

// Raycast only hits the front face: the ray must start above the plane and point into it
func (p *Plane) Raycast(transform Transform, origin, direction mgl64.Vec3, maxDistance float64) (RaycastHit, bool) {
	normal, planePoint := p.worldPlane(transform)

	denom := normal.Dot(direction)
	if denom > -rayEpsilon {
		return RaycastHit{}, false
	}

	height := normal.Dot(origin.Sub(planePoint))
	if height < 0 {
		return RaycastHit{}, false
	}

	t := height / -denom
	if t > maxDistance {
		return RaycastHit{}, false
	}

	return RaycastHit{
		Point:    origin.Add(direction.Mul(t)),
		Normal:   normal,
		Distance: t,
	}, true
}
