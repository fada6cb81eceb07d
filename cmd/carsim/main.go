// Command carsim drives a configured vehicle over a flat floor from a scripted
// sequence of press and release commands, logging its state as it goes.
package main

import (
	"flag"
	"os"

	"github.com/akmonengine/carforce/config"
	"github.com/akmonengine/carforce/logging"
	"github.com/akmonengine/carforce/telemetry"
	"github.com/akmonengine/carforce/vehicle"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "path to a json, toml or yaml configuration file")
	flag.Parse()

	if err := config.Load(*configPath); err != nil {
		logger := logging.New(os.Stderr, "info", true)
		logger.Fatal().Err(err).Str("path", *configPath).Msg("failed to load configuration")
	}

	logCfg, err := config.GetLogConfig()
	if err != nil {
		logger := logging.New(os.Stderr, "info", true)
		logger.Fatal().Err(err).Msg("invalid log configuration")
	}
	logger := logging.New(os.Stderr, logCfg.Level, logCfg.Console)
	logger.Info().Str("loglevel", logger.GetLevel().String()).Msg("Logging set up")

	if err := run(logger, logCfg); err != nil {
		logger.Fatal().Err(err).Msg("simulation failed")
	}
}

func run(logger zerolog.Logger, logCfg config.LogConfig) error {
	worldCfg, err := config.GetWorldConfig()
	if err != nil {
		return err
	}
	vehicleCfg, err := config.GetVehicleConfig()
	if err != nil {
		return err
	}
	runCfg, err := config.GetRunConfig()
	if err != nil {
		return err
	}
	metricsCfg, err := config.GetMetricsConfig()
	if err != nil {
		return err
	}

	world, car, err := buildScene(worldCfg, vehicleCfg, logger)
	if err != nil {
		return err
	}

	recorder, err := telemetry.NewRecorder(telemetry.Meter(telemetry.Config{
		Enabled:   metricsCfg.Enabled,
		MeterName: metricsCfg.MeterName,
	}))
	if err != nil {
		return err
	}

	var sampler zerolog.Sampler
	if logCfg.SampleWheels > 0 {
		sampler = logging.WheelSampler(logCfg.SampleWheels)
	}
	world.Tracer = vehicle.Tracers{logging.NewStepLogger(logger, sampler), recorder}

	summary := simulate(world, car, runCfg, logger)
	logger.Info().
		Int("steps", summary.Steps).
		Float64("distance", summary.Distance).
		Float64("topSpeed", summary.TopSpeed).
		Int("speedLimited", summary.SpeedLimited).
		Msg("run finished")

	return nil
}
