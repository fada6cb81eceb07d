// Package logging builds the zerolog loggers used by the simulator.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/akmonengine/carforce/vehicle"
	"github.com/rs/zerolog"
)

// ParseLevel maps a configured level name to a zerolog level, defaulting to info
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "DISABLED", "OFF":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New returns a timestamped logger writing JSON lines, or human readable lines when console is set
func New(w io.Writer, level string, console bool) zerolog.Logger {
	if console {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}

	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// WheelSampler keeps the first wheel records of every second, then one in n
func WheelSampler(n uint32) zerolog.Sampler {
	return &zerolog.BurstSampler{
		Burst:       8,
		Period:      time.Second,
		NextSampler: &zerolog.BasicSampler{N: n},
	}
}

// StepLogger writes controller ticks to a logger: speed clamps at debug level
// and one record per wheel at trace level.
type StepLogger struct {
	logger zerolog.Logger
	wheels zerolog.Logger
}

// NewStepLogger logs every tick. A non-nil sampler thins out the wheel records.
func NewStepLogger(logger zerolog.Logger, sampler zerolog.Sampler) *StepLogger {
	l := &StepLogger{logger: logger, wheels: logger}
	if sampler != nil {
		l.wheels = logger.Sample(sampler)
	}

	return l
}

func (l *StepLogger) TraceStep(trace vehicle.StepTrace) {
	if trace.Clamped {
		l.logger.Debug().
			Str("vehicle", trace.Vehicle).
			Float64("speedBefore", trace.SpeedBefore).
			Float64("speedAfter", trace.SpeedAfter).
			Msg("speed limited")
	}

	if l.wheels.GetLevel() > zerolog.TraceLevel {
		return
	}

	for _, w := range trace.Wheels {
		if !w.Present {
			continue
		}

		l.wheels.Trace().
			Str("vehicle", trace.Vehicle).
			Stringer("wheel", w.ID).
			Bool("grounded", w.Grounded).
			Float64("input", w.Input).
			Floats64("drive", w.Drive[:]).
			Floats64("turn", w.Turn[:]).
			Floats64("lateral", w.Lateral[:]).
			Floats64("longitudinal", w.Longitudinal[:]).
			Msg("wheel forces")
	}
}
