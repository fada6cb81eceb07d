package main

import (
	"fmt"

	"github.com/akmonengine/carforce"
	"github.com/akmonengine/carforce/actor"
	"github.com/akmonengine/carforce/config"
	"github.com/akmonengine/carforce/input"
	"github.com/akmonengine/carforce/vehicle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// buildScene creates a world with an infinite floor and the configured vehicle on it
func buildScene(worldCfg config.WorldConfig, vehicleCfg config.VehicleConfig, logger zerolog.Logger) (*carforce.World, *carforce.Vehicle, error) {
	world := carforce.NewWorld(worldCfg.Gravity)
	world.Substeps = worldCfg.Substeps
	world.Workers = worldCfg.Workers
	world.Logger = logger

	floor := actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec3{0, worldCfg.FloorHeight, 0}},
		&actor.Plane{Normal: mgl64.Vec3{0, 1, 0}},
		actor.BodyTypeStatic,
		0,
	)
	floor.Id = "floor"
	world.AddBody(floor)

	transform := actor.Transform{
		Position: vehicleCfg.Position,
		Rotation: mgl64.QuatRotate(mgl64.DegToRad(vehicleCfg.Yaw), mgl64.Vec3{0, 1, 0}),
	}
	body := actor.NewRigidBody(transform, &actor.Box{HalfExtents: vehicleCfg.HalfExtents}, actor.BodyTypeDynamic, 1)
	body.Id = vehicleCfg.Name
	body.SetMass(vehicleCfg.Mass)
	body.Material.LinearDamping = vehicleCfg.LinearDamping
	body.Material.AngularDamping = vehicleCfg.AngularDamping
	if vehicleCfg.Planar {
		body.Lock = actor.LockPlanar
	} else if worldCfg.Gravity != (mgl64.Vec3{}) {
		// nothing holds the body up without suspension or collision response
		logger.Warn().Str("vehicle", vehicleCfg.Name).Msg("vehicle is not planar under gravity, it will fall through the floor")
	}

	controller, bindings, err := newController(vehicleCfg)
	if err != nil {
		return nil, nil, err
	}

	car := &carforce.Vehicle{
		Name:       vehicleCfg.Name,
		Body:       body,
		Controller: controller,
		Input:      input.NewMapper(bindings...),
	}
	if err := world.AddVehicle(car); err != nil {
		return nil, nil, err
	}

	logger.Debug().
		Str("vehicle", car.Name).
		Str("variant", vehicleCfg.Variant).
		Float64("mass", body.Mass()).
		Bool("planar", vehicleCfg.Planar).
		Msg("scene built")

	return world, car, nil
}

func newController(cfg config.VehicleConfig) (vehicle.Controller, []input.Binding, error) {
	switch cfg.Variant {
	case config.VariantDifferential:
		drive, err := vehicle.NewDifferentialDrive(cfg.Differential, vehicle.NewWheels(cfg.Layout, cfg.Differential.WheelWeight))
		if err != nil {
			return nil, nil, err
		}
		return drive, input.DifferentialBindings(), nil
	case config.VariantIndependent:
		drive, err := vehicle.NewIndependentDrive(cfg.Independent, vehicle.NewWheels(cfg.Layout, cfg.Independent.WheelWeight))
		if err != nil {
			return nil, nil, err
		}
		return drive, input.IndependentBindings(), nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrInvalidVariant, cfg.Variant)
	}
}
