package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/transcriptkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the embedding service.
	ServiceName string
	// ServiceVersion is the version of the embedding service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// AccumulatorMetrics holds the metric instruments for transcript
// accumulation. All record methods are safe on a nil receiver, so a
// caller that does not wire metrics pays nothing.
type AccumulatorMetrics struct {
	ingestTotal          metric.Int64Counter
	segmentsLocked       metric.Int64Counter
	snapshotTaken        metric.Int64Counter
	snapshotMerged       metric.Int64Counter
	snapshotRescued      metric.Int64Counter
	snapshotExpiredTotal metric.Int64Counter
	fencePosition        metric.Float64Gauge
}

// NewAccumulatorMetrics creates the accumulator instruments on the given meter.
func NewAccumulatorMetrics(meter metric.Meter) (*AccumulatorMetrics, error) {
	ingestTotal, err := meter.Int64Counter("transcript.ingest.total",
		metric.WithDescription("Ingested events by reconciliation outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcript.ingest.total counter: %w", err)
	}

	segmentsLocked, err := meter.Int64Counter("transcript.segments.locked.total",
		metric.WithDescription("Segments locked behind the fence"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcript.segments.locked.total counter: %w", err)
	}

	snapshotTaken, err := meter.Int64Counter("transcript.snapshot.taken.total",
		metric.WithDescription("Boundary snapshots taken"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcript.snapshot.taken.total counter: %w", err)
	}

	snapshotMerged, err := meter.Int64Counter("transcript.snapshot.merged.total",
		metric.WithDescription("Snapshots consumed by a confirming final"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcript.snapshot.merged.total counter: %w", err)
	}

	snapshotRescued, err := meter.Int64Counter("transcript.snapshot.rescued.total",
		metric.WithDescription("Segments rescued from snapshots during merge"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcript.snapshot.rescued.total counter: %w", err)
	}

	snapshotExpiredTotal, err := meter.Int64Counter("transcript.snapshot.expired_commits.total",
		metric.WithDescription("Snapshots auto-committed after TTL expiry"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcript.snapshot.expired_commits.total counter: %w", err)
	}

	fencePosition, err := meter.Float64Gauge("transcript.fence.position",
		metric.WithDescription("Current fence position in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcript.fence.position gauge: %w", err)
	}

	return &AccumulatorMetrics{
		ingestTotal:          ingestTotal,
		segmentsLocked:       segmentsLocked,
		snapshotTaken:        snapshotTaken,
		snapshotMerged:       snapshotMerged,
		snapshotRescued:      snapshotRescued,
		snapshotExpiredTotal: snapshotExpiredTotal,
		fencePosition:        fencePosition,
	}, nil
}

// RecordIngest counts one reconciled event by outcome.
func (m *AccumulatorMetrics) RecordIngest(outcome string) {
	if m == nil {
		return
	}
	m.ingestTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordLocked counts segments newly locked behind the fence.
func (m *AccumulatorMetrics) RecordLocked(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.segmentsLocked.Add(context.Background(), int64(n))
}

// RecordSnapshotTaken counts one boundary snapshot.
func (m *AccumulatorMetrics) RecordSnapshotTaken() {
	if m == nil {
		return
	}
	m.snapshotTaken.Add(context.Background(), 1)
}

// RecordSnapshotMerged counts one consumed snapshot and its rescued segments.
func (m *AccumulatorMetrics) RecordSnapshotMerged(rescued int) {
	if m == nil {
		return
	}
	m.snapshotMerged.Add(context.Background(), 1)
	if rescued > 0 {
		m.snapshotRescued.Add(context.Background(), int64(rescued))
	}
}

// RecordSnapshotExpired counts one TTL-expired snapshot auto-commit.
func (m *AccumulatorMetrics) RecordSnapshotExpired() {
	if m == nil {
		return
	}
	m.snapshotExpiredTotal.Add(context.Background(), 1)
}

// RecordFence records the current fence position.
func (m *AccumulatorMetrics) RecordFence(fence float64) {
	if m == nil {
		return
	}
	m.fencePosition.Record(context.Background(), fence)
}
