package observability

import (
	"context"
	"time"

	"dining-concierge/internal/common/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records poll-loop iterations through an otel meter exported
// on the default prometheus registry.
type Observability struct {
	meterProvider *metric.MeterProvider
	iterations    otelmetric.Int64Counter
	duration      otelmetric.Float64Histogram
}

func New(serviceName string, log logger.Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	return newWithProvider(provider, serviceName)
}

func newWithProvider(provider *metric.MeterProvider, serviceName string) *Observability {
	meter := provider.Meter(serviceName)

	iterations, _ := meter.Int64Counter(
		"suggestions.iterations",
		otelmetric.WithDescription("Fulfillment poll iterations"),
	)

	duration, _ := meter.Float64Histogram(
		"suggestions.iteration.duration",
		otelmetric.WithDescription("Fulfillment poll iteration duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		iterations:    iterations,
		duration:      duration,
	}
}

// RecordIteration counts one iteration and its duration under the outcome.
func (o *Observability) RecordIteration(ctx context.Context, outcome string, d time.Duration) {
	attrs := otelmetric.WithAttributes(attribute.String("outcome", outcome))
	if o.iterations != nil {
		o.iterations.Add(ctx, 1, attrs)
	}
	if o.duration != nil {
		o.duration.Record(ctx, float64(d.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
