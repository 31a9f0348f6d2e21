package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	roundCounter  otelmetric.Int64Counter
	roundDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	roundCounter, _ := meter.Int64Counter(
		"rounds.processed",
		otelmetric.WithDescription("Number of categorization rounds processed"),
	)

	roundDuration, _ := meter.Float64Histogram(
		"rounds.duration",
		otelmetric.WithDescription("Categorization round duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		roundCounter:  roundCounter,
		roundDuration: roundDuration,
	}
}

func (o *Observability) RecordRoundProcessed(ctx context.Context, state string) {
	if o.roundCounter != nil {
		o.roundCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("state", state),
		))
	}
}

func (o *Observability) RecordRoundDuration(ctx context.Context, duration time.Duration, state string) {
	if o.roundDuration != nil {
		o.roundDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("state", state),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
