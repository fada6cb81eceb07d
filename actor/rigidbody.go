package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces and gravity
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, ramps)
	BodyTypeStatic
)

// Lock freezes degrees of freedom of a dynamic body, in world axes.
type Lock uint8

const (
	LockPositionY Lock = 1 << iota
	LockRotationX
	LockRotationZ

	// LockPlanar keeps a body at its height, turning only around the vertical axis.
	// A car without suspension relies on it to stay on the ground plane.
	LockPlanar = LockPositionY | LockRotationX | LockRotationZ
)

type Material struct {
	Density float64
	mass    float64

	LinearDamping  float64 // 1/s, 0 disables
	AngularDamping float64 // 1/s, 0 disables
}

func (material Material) GetMass() float64 {
	return material.mass
}

// RigidBody represents a rigid body in the physics simulation.
// Forces are expressed in newtons, torques in newton-metres.
type RigidBody struct {
	Id any

	// Spatial properties
	PreviousTransform Transform
	Transform         Transform

	// Linear motion
	Velocity mgl64.Vec3 // m/s

	// Angular motion
	AngularVelocity     mgl64.Vec3 // rad/s
	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3

	IsSleeping bool
	SleepTimer float64

	// Physical properties
	Material Material
	BodyType BodyType
	Lock     Lock

	Shape ShapeInterface
}

// NewRigidBody creates a new rigid body with the given properties
// density is used to calculate mass for dynamic bodies (ignored for static)
func NewRigidBody(transform Transform, shape ShapeInterface, bodyType BodyType, density float64) *RigidBody {
	transform = transform.Normalized()
	rb := &RigidBody{
		PreviousTransform: transform,
		Transform:         transform,
		Shape:             shape,
		BodyType:          bodyType,
		Velocity:          mgl64.Vec3{0, 0, 0},
	}

	if bodyType == BodyTypeStatic {
		// Static bodies have infinite mass
		rb.Material = Material{
			Density: 0,
			mass:    math.Inf(1),
		}
	} else {
		rb.Material = Material{
			Density: density,
			mass:    shape.ComputeMass(density),
		}
	}

	rb.InertiaLocal = shape.ComputeInertia(rb.Material.mass)
	rb.InverseInertiaLocal = rb.InertiaLocal.Inv()
	rb.Shape.ComputeAABB(rb.Transform)

	return rb
}

// SetMass overrides the density-derived mass of a dynamic body and recomputes its inertia
func (rb *RigidBody) SetMass(mass float64) {
	if rb.BodyType == BodyTypeStatic || mass <= 0 {
		return
	}

	rb.Material.mass = mass
	rb.Material.Density = 0
	rb.InertiaLocal = rb.Shape.ComputeInertia(mass)
	rb.InverseInertiaLocal = rb.InertiaLocal.Inv()
}

func (rb *RigidBody) TrySleep(dt float64, timethreshold float64, velocityThreshold float64) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	if rb.Velocity.Len() < velocityThreshold && rb.AngularVelocity.Len() < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timethreshold {
			rb.Sleep()
		}
	} else {
		rb.SleepTimer = 0.0
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.Shape.ComputeAABB(rb.Transform)
	rb.ClearForces()
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

// Integrate advances the body by dt with semi-implicit Euler, then clears the accumulators
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	rb.PreviousTransform = rb.Transform

	// Linear
	acceleration := gravity.Add(rb.accumulatedForce.Mul(1.0 / rb.Material.GetMass()))
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))

	// Angular
	angularAccel := rb.GetInverseInertiaWorld().Mul3x1(rb.accumulatedTorque)
	rb.AngularVelocity = rb.AngularVelocity.Add(angularAccel.Mul(dt))
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Exp(-rb.Material.AngularDamping * dt))

	rb.applyLock()

	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
	qDot := omegaQuat.Mul(rb.Transform.Rotation).Scale(0.5)
	rb.Transform.Rotation = rb.Transform.Rotation.Add(qDot.Scale(dt)).Normalize()
	rb.Transform.InverseRotation = rb.Transform.Rotation.Inverse()

	rb.Shape.ComputeAABB(rb.Transform)
	rb.ClearForces()
}

func (rb *RigidBody) applyLock() {
	if rb.Lock&LockPositionY != 0 {
		rb.Velocity[1] = 0
	}
	if rb.Lock&LockRotationX != 0 {
		rb.AngularVelocity[0] = 0
	}
	if rb.Lock&LockRotationZ != 0 {
		rb.AngularVelocity[2] = 0
	}
}

// AddForce accumulates a force through the center of mass.
// A non-zero force wakes a sleeping body.
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	if force != (mgl64.Vec3{}) {
		rb.Awake()
	}

	rb.accumulatedForce = rb.accumulatedForce.Add(force)
}

// AddTorque accumulates a world-space torque.
func (rb *RigidBody) AddTorque(torque mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	if torque != (mgl64.Vec3{}) {
		rb.Awake()
	}

	rb.accumulatedTorque = rb.accumulatedTorque.Add(torque)
}

// AddForceAtPosition accumulates a force applied at a world point,
// producing the torque (point - centerOfMass) × force.
func (rb *RigidBody) AddForceAtPosition(force, point mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	rb.AddForce(force)
	rb.AddTorque(point.Sub(rb.Transform.Position).Cross(force))
}

// AccumulatedForce returns the forces added since the last integration
func (rb *RigidBody) AccumulatedForce() mgl64.Vec3 {
	return rb.accumulatedForce
}

// AccumulatedTorque returns the torques added since the last integration
func (rb *RigidBody) AccumulatedTorque() mgl64.Vec3 {
	return rb.accumulatedTorque
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
	rb.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}

// PointVelocity is the velocity of the body material at a world point,
// including the contribution of the angular velocity.
func (rb *RigidBody) PointVelocity(point mgl64.Vec3) mgl64.Vec3 {
	return rb.Velocity.Add(rb.AngularVelocity.Cross(point.Sub(rb.Transform.Position)))
}

func (rb *RigidBody) LinearVelocity() mgl64.Vec3 {
	return rb.Velocity
}

func (rb *RigidBody) SetLinearVelocity(velocity mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	rb.Velocity = velocity
}

func (rb *RigidBody) Mass() float64 {
	return rb.Material.GetMass()
}

func (rb *RigidBody) Forward() mgl64.Vec3 {
	return rb.Transform.Forward()
}

func (rb *RigidBody) Right() mgl64.Vec3 {
	return rb.Transform.Right()
}

func (rb *RigidBody) Up() mgl64.Vec3 {
	return rb.Transform.Up()
}

// WorldPoint maps a point attached to the body from local to world space
func (rb *RigidBody) WorldPoint(local mgl64.Vec3) mgl64.Vec3 {
	return rb.Transform.TransformPoint(local)
}

// Inertie en espace monde
func (rb *RigidBody) GetInertiaWorld() mgl64.Mat3 {
	// I_world = R * I_local * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InertiaLocal).Mul3(R.Transpose())
}

// Inverse de l'inertie en espace monde
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Mat3{0, 0, 0, 0, 0, 0, 0, 0, 0}
	}

	// I_world^(-1) = R * I_local^(-1) * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}
