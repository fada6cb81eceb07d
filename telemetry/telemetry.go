// Package telemetry turns controller ticks into OpenTelemetry metrics.
package telemetry

import (
	"context"
	"fmt"

	"github.com/akmonengine/carforce/vehicle"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const DefaultMeterName = "github.com/akmonengine/carforce"

// Config holds telemetry configuration
type Config struct {
	Enabled   bool
	MeterName string
}

// Meter returns the meter of the global provider when enabled, a no-op meter otherwise
func Meter(cfg Config) metric.Meter {
	if !cfg.Enabled {
		return noop.Meter{}
	}
	name := cfg.MeterName
	if name == "" {
		name = DefaultMeterName
	}

	return otel.Meter(name)
}

// Recorder is a vehicle.Tracer feeding metric instruments
type Recorder struct {
	steps    metric.Int64Counter
	limited  metric.Int64Counter
	grounded metric.Int64Histogram
	speed    metric.Float64Histogram
	force    metric.Float64Histogram
}

func NewRecorder(meter metric.Meter) (*Recorder, error) {
	var r Recorder
	var err error

	r.steps, err = meter.Int64Counter("carforce.vehicle.steps",
		metric.WithDescription("Controller ticks"))
	if err != nil {
		return nil, fmt.Errorf("failed to create steps counter: %w", err)
	}

	r.limited, err = meter.Int64Counter("carforce.vehicle.speed_limited",
		metric.WithDescription("Ticks where the speed governor clamped the velocity"))
	if err != nil {
		return nil, fmt.Errorf("failed to create speed limited counter: %w", err)
	}

	r.grounded, err = meter.Int64Histogram("carforce.vehicle.grounded_wheels",
		metric.WithDescription("Wheels touching the ground per tick"))
	if err != nil {
		return nil, fmt.Errorf("failed to create grounded wheels histogram: %w", err)
	}

	r.speed, err = meter.Float64Histogram("carforce.vehicle.speed",
		metric.WithDescription("Body speed after the governor"),
		metric.WithUnit("m/s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create speed histogram: %w", err)
	}

	r.force, err = meter.Float64Histogram("carforce.vehicle.force",
		metric.WithDescription("Magnitude of the summed wheel forces per tick"),
		metric.WithUnit("N"))
	if err != nil {
		return nil, fmt.Errorf("failed to create force histogram: %w", err)
	}

	return &r, nil
}

func (r *Recorder) TraceStep(trace vehicle.StepTrace) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("vehicle", trace.Vehicle))

	r.steps.Add(ctx, 1, attrs)
	if trace.Clamped {
		r.limited.Add(ctx, 1, attrs)
	}
	r.grounded.Record(ctx, int64(trace.GroundedCount()), attrs)
	r.speed.Record(ctx, trace.SpeedAfter, attrs)
	r.force.Record(ctx, trace.Total().Len(), attrs)
}
