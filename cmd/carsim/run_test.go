package main

import (
	"testing"

	"github.com/akmonengine/carforce/config"
	"github.com/akmonengine/carforce/input"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfigs(t *testing.T) (config.WorldConfig, config.VehicleConfig) {
	t.Helper()
	t.Cleanup(viper.Reset)
	require.NoError(t, config.Load(""))

	worldCfg, err := config.GetWorldConfig()
	require.NoError(t, err)
	vehicleCfg, err := config.GetVehicleConfig()
	require.NoError(t, err)

	return worldCfg, vehicleCfg
}

func TestBuildScene_Defaults(t *testing.T) {
	worldCfg, vehicleCfg := defaultConfigs(t)

	world, car, err := buildScene(worldCfg, vehicleCfg, zerolog.Nop())
	require.NoError(t, err)

	assert.Len(t, world.Bodies, 2)
	assert.Equal(t, 1, world.Ground.Len())
	assert.Equal(t, 4, world.Substeps)
	assert.Equal(t, "car", car.Name)
	assert.Equal(t, 1000.0, car.Body.Mass())
	assert.True(t, car.Input.Press(input.Forward), "differential bindings expected")
}

func TestBuildScene_Independent(t *testing.T) {
	worldCfg, vehicleCfg := defaultConfigs(t)
	vehicleCfg.Variant = config.VariantIndependent

	_, car, err := buildScene(worldCfg, vehicleCfg, zerolog.Nop())
	require.NoError(t, err)

	assert.False(t, car.Input.Press(input.Forward))
	assert.True(t, car.Input.Press(input.FrontLeftForward))
}

func TestBuildScene_InvalidVariant(t *testing.T) {
	worldCfg, vehicleCfg := defaultConfigs(t)
	vehicleCfg.Variant = "hover"

	_, _, err := buildScene(worldCfg, vehicleCfg, zerolog.Nop())
	assert.ErrorIs(t, err, config.ErrInvalidVariant)
}

func TestSimulate_ScriptedDrive(t *testing.T) {
	worldCfg, vehicleCfg := defaultConfigs(t)
	world, car, err := buildScene(worldCfg, vehicleCfg, zerolog.Nop())
	require.NoError(t, err)

	runCfg := config.RunConfig{
		Steps:       600,
		Dt:          1.0 / 60.0,
		ReportEvery: 60,
		// out of order on purpose
		Script: []config.ScriptEvent{
			{Step: 300, Press: false, Command: input.Forward},
			{Step: 0, Press: true, Command: input.Forward},
		},
	}

	s := simulate(world, car, runCfg, zerolog.Nop())

	assert.Equal(t, 600, s.Steps)
	assert.Greater(t, s.Distance, 50.0)
	assert.LessOrEqual(t, s.TopSpeed, 30.0+12.0/60.0/4+1e-9)
	assert.Greater(t, s.SpeedLimited, 0)
	assert.Equal(t, 0.0, car.Input.Axis(input.AxisThrottle))
	assert.Less(t, car.Body.Velocity.Len(), 1.0, "the car coasts down once released")
	assert.InDelta(t, 0.5, car.Body.Transform.Position.Y(), 1e-9)
}

func TestSimulate_UnboundCommandIgnored(t *testing.T) {
	worldCfg, vehicleCfg := defaultConfigs(t)
	vehicleCfg.Variant = config.VariantIndependent
	world, car, err := buildScene(worldCfg, vehicleCfg, zerolog.Nop())
	require.NoError(t, err)

	runCfg := config.RunConfig{
		Steps:  10,
		Dt:     1.0 / 60.0,
		Script: []config.ScriptEvent{{Step: 0, Press: true, Command: input.Forward}},
	}

	s := simulate(world, car, runCfg, zerolog.Nop())

	assert.Equal(t, 0.0, s.Distance)
}
