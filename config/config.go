// Package config loads the simulator settings with viper.
//
// Keys are camelCase. Any key can be overridden from the environment with the
// CARSIM_ prefix, dots replaced by underscores (CARSIM_WORLD_SUBSTEPS=8).
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/akmonengine/carforce/input"
	"github.com/akmonengine/carforce/vehicle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/viper"
)

const (
	VariantDifferential = "differential"
	VariantIndependent  = "independent"
)

var (
	// ErrInvalidVector is returned for a vector setting without exactly 3 finite components
	ErrInvalidVector = errors.New("invalid vector")
	// ErrInvalidVariant is returned for a vehicle variant other than differential or independent
	ErrInvalidVariant = errors.New("invalid vehicle variant")
	// ErrInvalidScript is returned for a script event with an unknown action or a negative step
	ErrInvalidScript = errors.New("invalid script event")
)

type LogConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	Console bool   `json:"console" mapstructure:"console"`
	// SampleWheels keeps one wheel record in that many once the burst is spent, 0 keeps them all
	SampleWheels uint32 `json:"sampleWheels" mapstructure:"sampleWheels"`
}

type WorldConfig struct {
	Gravity     mgl64.Vec3
	Substeps    int
	Workers     int
	FloorHeight float64
}

type VehicleConfig struct {
	Name    string
	Variant string

	Mass           float64
	HalfExtents    mgl64.Vec3
	Position       mgl64.Vec3
	Yaw            float64 // degrees around +Y
	Planar         bool
	LinearDamping  float64
	AngularDamping float64

	Layout vehicle.Layout

	Differential vehicle.DifferentialParams
	Independent  vehicle.IndependentParams
}

// ScriptEvent presses or releases a command before the given step
type ScriptEvent struct {
	Step    int
	Press   bool
	Command input.Command
}

type RunConfig struct {
	Steps       int
	Dt          float64
	ReportEvery int
	Script      []ScriptEvent
}

type MetricsConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	MeterName string `json:"meterName" mapstructure:"meterName"`
}

type worldSettings struct {
	Gravity     []float64 `mapstructure:"gravity"`
	Substeps    int       `mapstructure:"substeps"`
	Workers     int       `mapstructure:"workers"`
	FloorHeight float64   `mapstructure:"floorHeight"`
}

type wheelSettings struct {
	HalfTrack     float64 `mapstructure:"halfTrack"`
	HalfWheelbase float64 `mapstructure:"halfWheelbase"`
	Height        float64 `mapstructure:"height"`
}

type differentialSettings struct {
	MotorTorque         float64 `mapstructure:"motorTorque"`
	TurnTorque          float64 `mapstructure:"turnTorque"`
	MaxSpeed            float64 `mapstructure:"maxSpeed"`
	SidewaysFriction    float64 `mapstructure:"sidewaysFriction"`
	ForwardFriction     float64 `mapstructure:"forwardFriction"`
	GroundCheckDistance float64 `mapstructure:"groundCheckDistance"`
	WheelWeight         float64 `mapstructure:"wheelWeight"`
}

type independentSettings struct {
	MotorTorque           float64 `mapstructure:"motorTorque"`
	SingleWheelMultiplier float64 `mapstructure:"singleWheelMultiplier"`
	MaxTotalForce         float64 `mapstructure:"maxTotalForce"`
	ForwardFriction       float64 `mapstructure:"forwardFriction"`
	SidewaysFriction      float64 `mapstructure:"sidewaysFriction"`
	MaxSpeed              float64 `mapstructure:"maxSpeed"`
	GroundCheckDistance   float64 `mapstructure:"groundCheckDistance"`
	WheelWeight           float64 `mapstructure:"wheelWeight"`
}

type vehicleSettings struct {
	Name           string               `mapstructure:"name"`
	Variant        string               `mapstructure:"variant"`
	Mass           float64              `mapstructure:"mass"`
	HalfExtents    []float64            `mapstructure:"halfExtents"`
	Position       []float64            `mapstructure:"position"`
	Yaw            float64              `mapstructure:"yaw"`
	Planar         bool                 `mapstructure:"planar"`
	LinearDamping  float64              `mapstructure:"linearDamping"`
	AngularDamping float64              `mapstructure:"angularDamping"`
	Wheels         wheelSettings        `mapstructure:"wheels"`
	Differential   differentialSettings `mapstructure:"differential"`
	Independent    independentSettings  `mapstructure:"independent"`
}

type scriptSettings struct {
	Step    int    `mapstructure:"step"`
	Action  string `mapstructure:"action"`
	Command string `mapstructure:"command"`
}

type runSettings struct {
	Steps       int              `mapstructure:"steps"`
	Dt          float64          `mapstructure:"dt"`
	ReportEvery int              `mapstructure:"reportEvery"`
	Script      []scriptSettings `mapstructure:"script"`
}

type settings struct {
	Log     LogConfig       `mapstructure:"log"`
	World   worldSettings   `mapstructure:"world"`
	Vehicle vehicleSettings `mapstructure:"vehicle"`
	Run     runSettings     `mapstructure:"run"`
	Metrics MetricsConfig   `mapstructure:"metrics"`
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.console", true)
	viper.SetDefault("log.sampleWheels", 0)

	viper.SetDefault("world.gravity", []float64{0, -9.81, 0})
	viper.SetDefault("world.substeps", 4)
	viper.SetDefault("world.workers", 1)
	viper.SetDefault("world.floorHeight", 0.0)

	viper.SetDefault("vehicle.name", "car")
	viper.SetDefault("vehicle.variant", VariantDifferential)
	viper.SetDefault("vehicle.mass", 1000.0)
	viper.SetDefault("vehicle.halfExtents", []float64{1, 0.5, 2})
	viper.SetDefault("vehicle.position", []float64{0, 0.5, 0})
	viper.SetDefault("vehicle.yaw", 0.0)
	viper.SetDefault("vehicle.planar", true)
	viper.SetDefault("vehicle.linearDamping", 0.0)
	viper.SetDefault("vehicle.angularDamping", 0.0)
	viper.SetDefault("vehicle.wheels.halfTrack", 0.8)
	viper.SetDefault("vehicle.wheels.halfWheelbase", 1.2)
	viper.SetDefault("vehicle.wheels.height", -0.3)

	d := vehicle.DefaultDifferentialParams()
	viper.SetDefault("vehicle.differential.motorTorque", d.MotorTorque)
	viper.SetDefault("vehicle.differential.turnTorque", d.TurnTorque)
	viper.SetDefault("vehicle.differential.maxSpeed", d.MaxSpeed)
	viper.SetDefault("vehicle.differential.sidewaysFriction", d.SidewaysFriction)
	viper.SetDefault("vehicle.differential.forwardFriction", d.ForwardFriction)
	viper.SetDefault("vehicle.differential.groundCheckDistance", d.GroundCheckDistance)
	viper.SetDefault("vehicle.differential.wheelWeight", d.WheelWeight)

	i := vehicle.DefaultIndependentParams()
	viper.SetDefault("vehicle.independent.motorTorque", i.MotorTorque)
	viper.SetDefault("vehicle.independent.singleWheelMultiplier", i.SingleWheelMultiplier)
	viper.SetDefault("vehicle.independent.maxTotalForce", i.MaxTotalForce)
	viper.SetDefault("vehicle.independent.forwardFriction", i.ForwardFriction)
	viper.SetDefault("vehicle.independent.sidewaysFriction", i.SidewaysFriction)
	viper.SetDefault("vehicle.independent.maxSpeed", i.MaxSpeed)
	viper.SetDefault("vehicle.independent.groundCheckDistance", i.GroundCheckDistance)
	viper.SetDefault("vehicle.independent.wheelWeight", i.WheelWeight)

	viper.SetDefault("run.steps", 600)
	viper.SetDefault("run.dt", 1.0/60.0)
	viper.SetDefault("run.reportEvery", 60)
	viper.SetDefault("run.script", []map[string]any{})

	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.meterName", "github.com/akmonengine/carforce")
}

// Load sets default values and reads the configuration file at path.
// The format follows the file extension (json, toml, yaml). An empty path keeps the defaults.
func Load(path string) error {
	setDefaults()

	viper.SetEnvPrefix("CARSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path == "" {
		return nil
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

func load() (settings, error) {
	var s settings
	if err := viper.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("error decoding config: %w", err)
	}

	return s, nil
}

func toVec3(key string, values []float64) (mgl64.Vec3, error) {
	if len(values) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("%w: %s needs 3 components, got %d", ErrInvalidVector, key, len(values))
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return mgl64.Vec3{}, fmt.Errorf("%w: %s has a non-finite component", ErrInvalidVector, key)
		}
	}

	return mgl64.Vec3{values[0], values[1], values[2]}, nil
}

func GetLogConfig() (LogConfig, error) {
	s, err := load()
	return s.Log, err
}

func GetMetricsConfig() (MetricsConfig, error) {
	s, err := load()
	return s.Metrics, err
}

func GetWorldConfig() (WorldConfig, error) {
	s, err := load()
	if err != nil {
		return WorldConfig{}, err
	}

	gravity, err := toVec3("world.gravity", s.World.Gravity)
	if err != nil {
		return WorldConfig{}, err
	}

	return WorldConfig{
		Gravity:     gravity,
		Substeps:    s.World.Substeps,
		Workers:     s.World.Workers,
		FloorHeight: s.World.FloorHeight,
	}, nil
}

// GetVehicleConfig returns the vehicle section with both parameter sets validated
func GetVehicleConfig() (VehicleConfig, error) {
	s, err := load()
	if err != nil {
		return VehicleConfig{}, err
	}
	v := s.Vehicle

	variant := strings.ToLower(v.Variant)
	if variant != VariantDifferential && variant != VariantIndependent {
		return VehicleConfig{}, fmt.Errorf("%w: %q", ErrInvalidVariant, v.Variant)
	}

	halfExtents, err := toVec3("vehicle.halfExtents", v.HalfExtents)
	if err != nil {
		return VehicleConfig{}, err
	}
	position, err := toVec3("vehicle.position", v.Position)
	if err != nil {
		return VehicleConfig{}, err
	}

	cfg := VehicleConfig{
		Name:           v.Name,
		Variant:        variant,
		Mass:           v.Mass,
		HalfExtents:    halfExtents,
		Position:       position,
		Yaw:            v.Yaw,
		Planar:         v.Planar,
		LinearDamping:  v.LinearDamping,
		AngularDamping: v.AngularDamping,
		Layout:         vehicle.SymmetricLayout(v.Wheels.HalfTrack, v.Wheels.HalfWheelbase, v.Wheels.Height),
		Differential:   vehicle.DifferentialParams(v.Differential),
		Independent:    vehicle.IndependentParams(v.Independent),
	}

	if cfg.Mass <= 0 {
		return VehicleConfig{}, fmt.Errorf("%w: mass %v must be positive", vehicle.ErrInvalidParams, cfg.Mass)
	}
	if err := cfg.Differential.Validate(); err != nil {
		return VehicleConfig{}, fmt.Errorf("vehicle.differential: %w", err)
	}
	if err := cfg.Independent.Validate(); err != nil {
		return VehicleConfig{}, fmt.Errorf("vehicle.independent: %w", err)
	}

	return cfg, nil
}

// GetRunConfig returns the run section with the script resolved to commands
func GetRunConfig() (RunConfig, error) {
	s, err := load()
	if err != nil {
		return RunConfig{}, err
	}

	cfg := RunConfig{
		Steps:       s.Run.Steps,
		Dt:          s.Run.Dt,
		ReportEvery: s.Run.ReportEvery,
		Script:      make([]ScriptEvent, 0, len(s.Run.Script)),
	}
	if cfg.Dt <= 0 {
		return RunConfig{}, fmt.Errorf("run.dt %v must be positive", cfg.Dt)
	}

	for i, e := range s.Run.Script {
		command, err := input.ParseCommand(e.Command)
		if err != nil {
			return RunConfig{}, fmt.Errorf("run.script[%d]: %w", i, err)
		}

		var press bool
		switch strings.ToLower(e.Action) {
		case "press":
			press = true
		case "release":
			press = false
		default:
			return RunConfig{}, fmt.Errorf("%w: run.script[%d] action %q", ErrInvalidScript, i, e.Action)
		}
		if e.Step < 0 {
			return RunConfig{}, fmt.Errorf("%w: run.script[%d] step %d", ErrInvalidScript, i, e.Step)
		}

		cfg.Script = append(cfg.Script, ScriptEvent{Step: e.Step, Press: press, Command: command})
	}

	return cfg, nil
}
