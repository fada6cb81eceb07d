package main

import (
	"slices"

	"github.com/akmonengine/carforce"
	"github.com/akmonengine/carforce/config"
	"github.com/rs/zerolog"
)

type summary struct {
	Steps        int
	Distance     float64
	TopSpeed     float64
	SpeedLimited int
}

// simulate steps the world runCfg.Steps times, applying the script events due
// before each step and logging a report every runCfg.ReportEvery steps.
func simulate(world *carforce.World, car *carforce.Vehicle, runCfg config.RunConfig, logger zerolog.Logger) summary {
	var s summary

	world.Events.Subscribe(carforce.SPEED_LIMITED, func(event carforce.Event) {
		s.SpeedLimited++
	})
	world.Events.Subscribe(carforce.WHEEL_GROUNDED, func(event carforce.Event) {
		e := event.(carforce.WheelGroundedEvent)
		logger.Debug().Str("vehicle", e.Vehicle.Name).Stringer("wheel", e.Wheel).Msg("wheel grounded")
	})
	world.Events.Subscribe(carforce.WHEEL_AIRBORNE, func(event carforce.Event) {
		e := event.(carforce.WheelAirborneEvent)
		logger.Debug().Str("vehicle", e.Vehicle.Name).Stringer("wheel", e.Wheel).Msg("wheel airborne")
	})
	world.Events.Subscribe(carforce.ON_SLEEP, func(event carforce.Event) {
		logger.Debug().Interface("body", event.(carforce.SleepEvent).Body.Id).Msg("body asleep")
	})
	world.Events.Subscribe(carforce.ON_WAKE, func(event carforce.Event) {
		logger.Debug().Interface("body", event.(carforce.WakeEvent).Body.Id).Msg("body awake")
	})

	script := slices.Clone(runCfg.Script)
	slices.SortStableFunc(script, func(a, b config.ScriptEvent) int {
		return a.Step - b.Step
	})

	next := 0
	for step := range runCfg.Steps {
		for ; next < len(script) && script[next].Step <= step; next++ {
			apply(car, script[next], logger)
		}

		before := car.Body.Transform.Position
		world.Step(runCfg.Dt)

		s.Steps++
		s.Distance += car.Body.Transform.Position.Sub(before).Len()
		s.TopSpeed = max(s.TopSpeed, car.Body.Velocity.Len())

		if runCfg.ReportEvery > 0 && (step+1)%runCfg.ReportEvery == 0 {
			report(car, step+1, runCfg.Dt, logger)
		}
	}

	return s
}

func apply(car *carforce.Vehicle, event config.ScriptEvent, logger zerolog.Logger) {
	var bound bool
	if event.Press {
		bound = car.Input.Press(event.Command)
	} else {
		bound = car.Input.Release(event.Command)
	}

	if !bound {
		logger.Warn().Str("vehicle", car.Name).Stringer("command", event.Command).Msg("command not bound for this vehicle, ignored")
		return
	}

	logger.Debug().
		Int("step", event.Step).
		Bool("press", event.Press).
		Stringer("command", event.Command).
		Msg("input")
}

func report(car *carforce.Vehicle, step int, dt float64, logger zerolog.Logger) {
	body := car.Body
	forward := body.Forward()

	logger.Info().
		Str("vehicle", car.Name).
		Int("step", step).
		Float64("time", float64(step)*dt).
		Floats64("position", body.Transform.Position[:]).
		Floats64("forward", forward[:]).
		Float64("speed", body.Velocity.Len()).
		Float64("yawRate", body.AngularVelocity.Y()).
		Bool("sleeping", body.IsSleeping).
		Msg("vehicle state")
}
