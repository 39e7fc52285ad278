// Package observer provides OTEL-based observability for catalog serving.
//
// It wraps a stlref.Store with an instrumented version that emits traces and
// metrics via OpenTelemetry. Users export to any OTEL-compatible backend by
// setting standard OTEL env vars.
package observer

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const scopeName = "github.com/stlref/stlref/observer"

// Instruments holds all OTEL instruments used by the observed store.
type Instruments struct {
	Tracer trace.Tracer
	Meter  metric.Meter

	// Counters
	Lookups      metric.Int64Counter
	LookupMisses metric.Int64Counter
	Searches     metric.Int64Counter
	Syncs        metric.Int64Counter

	// Histograms
	LookupDuration metric.Float64Histogram
	SearchDuration metric.Float64Histogram
}

// Init sets up OTEL trace and metric providers with OTLP HTTP exporters.
// Configuration comes from standard OTEL env vars (OTEL_EXPORTER_OTLP_ENDPOINT, etc.).
// Returns a shutdown function that must be called on application exit.
func Init(ctx context.Context) (*Instruments, func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName("stlref")),
		resource.WithFromEnv(),
	)
	if err != nil {
		return nil, nil, err
	}

	// Trace provider
	traceExp, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	// Metric provider
	metricExp, err := otlpmetrichttp.New(ctx)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	inst, err := NewInstruments()
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tp.Shutdown(ctx),
			mp.Shutdown(ctx),
		)
	}

	return inst, shutdown, nil
}

// NewInstruments creates instruments from the global OTEL providers. Without
// a prior Init the globals are no-ops, which is useful in tests.
func NewInstruments() (*Instruments, error) {
	tracer := otel.Tracer(scopeName)
	meter := otel.Meter(scopeName)

	lookups, err := meter.Int64Counter("catalog.lookups",
		metric.WithDescription("Entry lookup count"),
		metric.WithUnit("{lookup}"))
	if err != nil {
		return nil, err
	}

	lookupMisses, err := meter.Int64Counter("catalog.lookup.misses",
		metric.WithDescription("Lookups that found no entry"),
		metric.WithUnit("{lookup}"))
	if err != nil {
		return nil, err
	}

	searches, err := meter.Int64Counter("catalog.searches",
		metric.WithDescription("Keyword search count"),
		metric.WithUnit("{search}"))
	if err != nil {
		return nil, err
	}

	syncs, err := meter.Int64Counter("catalog.syncs",
		metric.WithDescription("Topic sync count"),
		metric.WithUnit("{sync}"))
	if err != nil {
		return nil, err
	}

	lookupDuration, err := meter.Float64Histogram("catalog.lookup.duration",
		metric.WithDescription("Entry lookup duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	searchDuration, err := meter.Float64Histogram("catalog.search.duration",
		metric.WithDescription("Keyword search duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return &Instruments{
		Tracer:         tracer,
		Meter:          meter,
		Lookups:        lookups,
		LookupMisses:   lookupMisses,
		Searches:       searches,
		Syncs:          syncs,
		LookupDuration: lookupDuration,
		SearchDuration: searchDuration,
	}, nil
}
